// CLAUDE:SUMMARY Drives the engine over a live site: BFS over intercepted links, trace recording, markdown snapshots.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"

	"github.com/CuWilliams/durtnurs.github.io-sub000/dbopen"
	"github.com/CuWilliams/durtnurs.github.io-sub000/dom"
	"github.com/CuWilliams/durtnurs.github.io-sub000/pagenav"
	"github.com/CuWilliams/durtnurs.github.io-sub000/trace"
)

func runWalk(ctx context.Context, logger *slog.Logger, cfg *Config) error {
	if cfg.Walk.Base == "" {
		return fmt.Errorf("walk: base URL required (config walk.base or -base)")
	}
	baseURL, err := url.Parse(cfg.Walk.Base)
	if err != nil || !baseURL.IsAbs() {
		return fmt.Errorf("walk: base %q must be an absolute URL", cfg.Walk.Base)
	}

	client := &http.Client{Timeout: 15 * time.Second}

	// Fetch the landing page; the engine takes over from there.
	doc, err := fetchDocument(ctx, client, baseURL.String())
	if err != nil {
		return fmt.Errorf("walk: landing page: %w", err)
	}

	db, err := dbopen.Open(cfg.TraceDB, dbopen.WithMkdirAll(), dbopen.WithSchema(trace.Schema))
	if err != nil {
		return fmt.Errorf("walk: trace db: %w", err)
	}
	defer db.Close()
	store := trace.NewStore(db)
	defer store.Close()

	navCfg := pagenav.Config{
		ContentRegionID:   cfg.Nav.ContentRegionID,
		BehaviorScriptDir: cfg.Nav.BehaviorScriptDir,
		SkipScripts:       cfg.Nav.SkipScripts,
		Client:            client,
		Logger:            logger,
		Observe:           trace.Observer(store),
	}
	if cfg.Nav.Sanitize {
		navCfg.Sanitizer = bluemonday.UGCPolicy()
	}
	regionID := navCfg.ContentRegionID
	if regionID == "" {
		regionID = "content"
	}

	window := &walkWindow{logger: logger}
	engine, err := pagenav.New(navCfg, doc, pagenav.Ports{
		History: newMemHistory(baseURL.String()),
		Scripts: &httpScripts{client: client, base: baseURL},
		Window:  window,
	})
	if err != nil {
		return fmt.Errorf("walk: engine: %w", err)
	}

	var conv *converter.Converter
	if cfg.SnapshotDir != "" {
		if err := os.MkdirAll(cfg.SnapshotDir, 0o755); err != nil {
			return fmt.Errorf("walk: snapshot dir: %w", err)
		}
		conv = converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		)
	}

	visited := map[string]bool{engine.CurrentURL(): true}
	queue := collectLinks(engine)
	var settled, fallbacks int

	if conv != nil {
		snapshot(logger, conv, engine, regionID, cfg.SnapshotDir)
	}

	for len(queue) > 0 && len(visited) < cfg.Walk.MaxPages && ctx.Err() == nil {
		target := queue[0]
		queue = queue[1:]
		if visited[target] {
			continue
		}
		visited[target] = true

		ok, err := engine.Navigate(ctx, target, pagenav.Options{})
		if err != nil {
			fallbacks++
			continue
		}
		if !ok {
			continue
		}
		settled++
		if conv != nil {
			snapshot(logger, conv, engine, regionID, cfg.SnapshotDir)
		}
		queue = append(queue, collectLinks(engine)...)
	}

	logger.Info("walk complete",
		"visited", len(visited), "settled", settled, "fallbacks", fallbacks)

	if fbs, err := store.Fallbacks(ctx, 20); err == nil {
		for _, e := range fbs {
			logger.Warn("degraded navigation", "url", e.URL, "error", e.Error)
		}
	}
	return ctx.Err()
}

func fetchDocument(ctx context.Context, client *http.Client, u string) (*dom.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", u, resp.StatusCode)
	}
	return dom.Parse(resp.Body)
}

// collectLinks returns every link on the current page the interceptor would
// claim, resolved to absolute URLs.
func collectLinks(e *pagenav.Engine) []string {
	var out []string
	for _, a := range e.Document().Anchors(nil) {
		href := dom.Attr(a, "href")
		if href == "" {
			continue
		}
		if dest, ok := e.ShouldIntercept(pagenav.Click{Href: href}); ok {
			out = append(out, dest)
		}
	}
	return out
}

// snapshot converts the current content region to Markdown and writes it
// under dir, named by page identifier and path.
func snapshot(logger *slog.Logger, conv *converter.Converter, e *pagenav.Engine, regionID, dir string) {
	region := e.Document().ElementByID(regionID)
	if region == nil {
		return
	}
	md, err := conv.ConvertString(dom.InnerHTML(region))
	if err != nil {
		logger.Warn("snapshot convert failed", "url", e.CurrentURL(), "error", err)
		return
	}

	u, err := url.Parse(e.CurrentURL())
	if err != nil {
		return
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		name = "home"
	}
	name = strings.ReplaceAll(name, "/", "_") + ".md"

	if err := os.WriteFile(filepath.Join(dir, name), []byte(md), 0o644); err != nil {
		logger.Warn("snapshot write failed", "file", name, "error", err)
	}
}
