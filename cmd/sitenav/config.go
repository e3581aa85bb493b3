// CLAUDE:SUMMARY Configuration structs and YAML loader for the sitenav CLI.
package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all sitenav configuration.
type Config struct {
	SiteDir     string     `yaml:"site_dir"`
	Addr        string     `yaml:"addr"`
	TraceDB     string     `yaml:"trace_db"`
	SnapshotDir string     `yaml:"snapshot_dir"`
	Nav         NavConfig  `yaml:"nav"`
	Walk        WalkConfig `yaml:"walk"`
}

// NavConfig mirrors the engine's page contract.
type NavConfig struct {
	ContentRegionID   string   `yaml:"content_region_id"`
	BehaviorScriptDir string   `yaml:"behavior_script_dir"`
	SkipScripts       []string `yaml:"skip_scripts"`
	Sanitize          bool     `yaml:"sanitize"`
}

// WalkConfig controls the site walker.
type WalkConfig struct {
	Base     string `yaml:"base"`
	MaxPages int    `yaml:"max_pages"`
}

func (c *Config) defaults() {
	if c.SiteDir == "" {
		c.SiteDir = env("SITENAV_SITE_DIR", ".")
	}
	if c.Addr == "" {
		c.Addr = env("SITENAV_ADDR", ":8090")
	}
	if c.TraceDB == "" {
		c.TraceDB = env("SITENAV_TRACE_DB", "db/nav_traces.db")
	}
	if c.Walk.Base == "" {
		c.Walk.Base = os.Getenv("SITENAV_WALK_BASE")
	}
	if c.Walk.MaxPages <= 0 {
		c.Walk.MaxPages = 200
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
