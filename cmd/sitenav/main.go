// CLAUDE:SUMMARY CLI entry point for sitenav — static site server and navigation walker.
// Command sitenav serves a static multi-page site and audits it with the
// partial-page navigation engine.
//
// Usage:
//
//	sitenav -config sitenav.yaml -serve          # serve site_dir over HTTP
//	sitenav -config sitenav.yaml -walk           # walk the site via the engine
//	sitenav -serve -dir ./public -addr :8090     # serve without a config file
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"
)

func main() {
	configPath := flag.String("config", "", "path to sitenav.yaml config file")
	serve := flag.Bool("serve", false, "serve the site directory over HTTP")
	walk := flag.Bool("walk", false, "walk the site with the navigation engine")
	dir := flag.String("dir", "", "site directory (overrides config)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	base := flag.String("base", "", "walk base URL (overrides config)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *serve, *walk, *dir, *addr, *base); err != nil {
		logger.Error("sitenav: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath string, serve, walk bool, dir, addr, base string) error {
	cfg := &Config{}
	if configPath != "" {
		loaded, err := LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if dir != "" {
		cfg.SiteDir = dir
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if base != "" {
		cfg.Walk.Base = base
	}
	cfg.defaults()

	switch {
	case serve:
		return runServe(ctx, logger, cfg)
	case walk:
		return runWalk(ctx, logger, cfg)
	default:
		fmt.Fprintln(os.Stderr, "usage: sitenav [-config <file>] -serve | -walk")
		os.Exit(1)
		return nil
	}
}
