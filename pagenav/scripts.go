// CLAUDE:SUMMARY Idempotent sequential loader for page-behavior scripts referenced by fetched documents.
package pagenav

import (
	"context"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/CuWilliams/durtnurs.github.io-sub000/dom"
)

// scriptLoader guarantees at-most-once loading of page-behavior scripts.
// Only successful loads enter the loaded set; a script that failed to load
// is recorded as failed and retried the next time a fetched document
// references it.
type scriptLoader struct {
	port   ScriptPort
	dir    string
	skip   map[string]bool
	loaded map[string]bool
	failed map[string]error
	logger *slog.Logger
}

func newScriptLoader(cfg Config, port ScriptPort, logger *slog.Logger) *scriptLoader {
	skip := make(map[string]bool, len(cfg.SkipScripts))
	for _, s := range cfg.SkipScripts {
		skip[s] = true
	}
	return &scriptLoader{
		port:   port,
		dir:    cfg.BehaviorScriptDir,
		skip:   skip,
		loaded: make(map[string]bool),
		failed: make(map[string]error),
		logger: logger,
	}
}

// seed records the behavior scripts already present in the live document at
// engine construction, so the first navigation doesn't reload them.
func (l *scriptLoader) seed(doc *dom.Document) {
	for _, src := range doc.ScriptSources() {
		if key, ok := l.candidate(src); ok {
			l.loaded[key] = true
		}
	}
}

// candidate resolves a script src and reports whether it is a loadable
// page-behavior script (right directory, not in the always-loaded set).
func (l *scriptLoader) candidate(src string) (string, bool) {
	u, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	if !strings.Contains(u.Path, l.dir) {
		return "", false
	}
	if l.skip[path.Base(u.Path)] {
		return "", false
	}
	// Keyed by path: the same script referenced absolutely and relatively is
	// still the same script.
	return u.Path, true
}

// sync loads every behavior script the fetched document references and the
// live page doesn't have yet. Loads are strictly sequential so implicit
// ordering between behavior scripts survives. Load failures are logged and
// recorded, never escalated; the only error returned is the context's.
func (l *scriptLoader) sync(ctx context.Context, next *dom.Document) error {
	for _, src := range next.ScriptSources() {
		key, ok := l.candidate(src)
		if !ok || l.loaded[key] {
			continue
		}
		if err := l.port.Load(ctx, key); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.failed[key] = err
			l.logger.Warn("behavior script failed to load", "src", key, "error", err)
			continue
		}
		delete(l.failed, key)
		l.loaded[key] = true
	}
	return nil
}
