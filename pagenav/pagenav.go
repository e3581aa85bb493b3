// CLAUDE:SUMMARY Engine construction and session state: live document, ports, registry, history marking.
// Package pagenav implements partial-page navigation for a multi-page site:
// it fetches the target page's markup, swaps only the content region into the
// live document, reconciles head metadata and the history stack, and
// re-dispatches page-behavior modules — so persistent chrome (most
// importantly the audio player bar) survives navigation.
//
// The engine owns the live page as a parsed HTML document. Everything
// browser-ambient — the history stack, script evaluation, scrolling, full
// page loads — is reached through the ports in ports.go, so the whole cycle
// runs under test with in-memory fakes.
//
// Engine methods are not goroutine-safe; like the event loop it models, the
// engine expects to be driven from a single goroutine. The internal mutex
// exists only for the cancel-and-replace handshake between overlapping
// Navigate calls.
package pagenav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/CuWilliams/durtnurs.github.io-sub000/dom"
)

// State is the engine's position in the navigation lifecycle.
type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateSwapping State = "swapping"
	StateSettled  State = "settled"
	StateFailed   State = "failed"
)

// Ports bundles the host-environment capabilities the engine requires.
type Ports struct {
	History HistoryPort
	Scripts ScriptPort
	Window  Window
}

// Engine is the navigator. Create one per page session with New.
type Engine struct {
	cfg      Config
	doc      *dom.Document
	current  *url.URL
	history  HistoryPort
	window   Window
	scripts  *scriptLoader
	registry *Registry
	client   *http.Client
	logger   *slog.Logger

	listeners []func(Event)

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	state  State
}

// New builds an engine around the live document. The current URL is taken
// from the history port and must be absolute; the document must contain the
// content region. The current history entry is retroactively marked so a
// back press immediately after load is still handled by the engine.
func New(cfg Config, doc *dom.Document, ports Ports) (*Engine, error) {
	cfg.defaults()
	if ports.History == nil || ports.Scripts == nil || ports.Window == nil {
		return nil, fmt.Errorf("pagenav: all three ports are required")
	}

	cur, err := url.Parse(ports.History.Current().URL)
	if err != nil {
		return nil, fmt.Errorf("pagenav: current url: %w", err)
	}
	if !cur.IsAbs() {
		return nil, fmt.Errorf("pagenav: current url %q is not absolute", cur)
	}
	if doc.ElementByID(cfg.ContentRegionID) == nil {
		return nil, fmt.Errorf("pagenav: live document has no #%s region", cfg.ContentRegionID)
	}

	reg := cfg.Registry
	if reg == nil {
		reg = NewRegistry(cfg.Logger)
	}

	e := &Engine{
		cfg:      cfg,
		doc:      doc,
		current:  cur,
		history:  ports.History,
		window:   ports.Window,
		registry: reg,
		client:   cfg.Client,
		logger:   cfg.Logger,
		state:    StateIdle,
	}
	e.scripts = newScriptLoader(cfg, ports.Scripts, cfg.Logger)
	e.scripts.seed(doc)

	// Claim the entry the session started on.
	e.history.Replace(cur.String(), true)
	e.history.OnPop(e.handlePop)

	return e, nil
}

// Modules returns the engine's behavior-module registry. Collaborator
// scripts register through it once at evaluation time.
func (e *Engine) Modules() *Registry { return e.registry }

// Register is shorthand for Modules().Register.
func (e *Engine) Register(name string, init func(), opts ModuleOptions) {
	e.registry.Register(name, init, opts)
}

// OnNavigate adds a listener for the navigation-completed notification.
// Listeners run synchronously after module dispatch, in registration order.
func (e *Engine) OnNavigate(fn func(Event)) {
	e.listeners = append(e.listeners, fn)
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CurrentURL returns the URL the live document reflects.
func (e *Engine) CurrentURL() string { return e.current.String() }

// Page returns the current page identifier.
func (e *Engine) Page() string { return PageID(e.current.Path) }

// Document exposes the live document, mainly for inspection in tests and
// tooling.
func (e *Engine) Document() *dom.Document { return e.doc }

// PageID maps a URL path to its page identifier: the site root maps to
// "home", any other path to its first segment.
func PageID(path string) string {
	p := strings.Trim(path, "/")
	if p == "" {
		return "home"
	}
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}

// handlePop re-drives the navigator after the host history has already
// moved: replace + force, so the address bar and rendered content converge
// regardless of whether the entry carried the engine's marker.
func (e *Engine) handlePop(entry Entry) {
	if _, err := e.Navigate(context.Background(), entry.URL, Options{Replace: true, Force: true}); err != nil {
		e.logger.Warn("history resync failed", "url", entry.URL, "error", err)
	}
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *Engine) emit(ev Event) {
	for _, fn := range e.listeners {
		fn(ev)
	}
}

func (e *Engine) observe(res Result) {
	if e.cfg.Observe != nil {
		e.cfg.Observe(res)
	}
}
