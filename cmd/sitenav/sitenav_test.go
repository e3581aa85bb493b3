package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/CuWilliams/durtnurs.github.io-sub000/dbopen"
	"github.com/CuWilliams/durtnurs.github.io-sub000/trace"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	page := func(heading, title string, extra string) string {
		return `<!DOCTYPE html><html><head><title>` + title + `</title>
<meta name="description" content="durtnurs">
</head><body>
<nav><a href="/">Home</a><a href="/about/">About</a></nav>
<main id="content"><h1>` + heading + `</h1>` + extra + `</main>
</body></html>`
	}

	files := map[string]string{
		"index.html":        page("Home", "Durtnurs", `<p>Welcome.</p>`),
		"about/index.html":  page("About", "Durtnurs — About", `<script src="/js/pages/about.js"></script>`),
		"js/pages/about.js": `console.log("about");`,
	}
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitenav.yaml")
	cfgYAML := `
site_dir: ./public
addr: ":9000"
trace_db: traces.db
nav:
  content_region_id: content
  sanitize: true
walk:
  base: http://localhost:9000/
  max_pages: 10
`
	if err := os.WriteFile(path, []byte(cfgYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.defaults()

	if cfg.SiteDir != "./public" || cfg.Addr != ":9000" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if !cfg.Nav.Sanitize || cfg.Walk.MaxPages != 10 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.defaults()
	if cfg.Addr == "" || cfg.TraceDB == "" || cfg.Walk.MaxPages <= 0 {
		t.Fatalf("defaults missing: %+v", cfg)
	}
}

func TestSiteRouterCleanURLs(t *testing.T) {
	srv := httptest.NewServer(newSiteRouter(writeSite(t), testLogger()))
	defer srv.Close()

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/", http.StatusOK, "<h1>Home</h1>"},
		{"/about/", http.StatusOK, "<h1>About</h1>"},
		{"/js/pages/about.js", http.StatusOK, "console.log"},
		{"/missing/", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		resp, err := http.Get(srv.URL + tt.path)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != tt.status {
			t.Fatalf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.status)
		}
		if tt.want != "" && !strings.Contains(string(body), tt.want) {
			t.Fatalf("GET %s body = %q", tt.path, body)
		}
	}
}

func TestWalk(t *testing.T) {
	srv := httptest.NewServer(newSiteRouter(writeSite(t), testLogger()))
	defer srv.Close()

	workDir := t.TempDir()
	cfg := &Config{
		TraceDB:     filepath.Join(workDir, "traces.db"),
		SnapshotDir: filepath.Join(workDir, "snapshots"),
		Walk:        WalkConfig{Base: srv.URL + "/"},
	}
	cfg.defaults()

	if err := runWalk(context.Background(), testLogger(), cfg); err != nil {
		t.Fatalf("runWalk: %v", err)
	}

	// Snapshots for both pages.
	for _, name := range []string{"home.md", "about.md"} {
		body, err := os.ReadFile(filepath.Join(cfg.SnapshotDir, name))
		if err != nil {
			t.Fatalf("snapshot %s: %v", name, err)
		}
		if len(body) == 0 {
			t.Fatalf("snapshot %s is empty", name)
		}
	}

	// Traces were persisted.
	db, err := dbopen.Open(cfg.TraceDB)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	store := trace.NewStore(db)
	defer store.Close()

	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) == 0 {
		t.Fatal("expected trace entries from the walk")
	}
	var settled bool
	for _, e := range entries {
		if e.Outcome == "settled" && e.Page == "about" {
			settled = true
		}
	}
	if !settled {
		t.Fatalf("entries = %+v; expected a settled about navigation", entries)
	}
}
