// CLAUDE:SUMMARY Behavior-module registry: register init/cleanup/page-list, dispatch per page with panic isolation.
package pagenav

import (
	"log/slog"
	"sync"
)

// ModuleOptions carries the optional parts of a module registration.
type ModuleOptions struct {
	// Cleanup runs before the content region is replaced, while the page the
	// module initialized against is still in the document.
	Cleanup func()
	// Pages lists the page identifiers the module applies to. Nil means
	// every page.
	Pages []string
}

type registration struct {
	name    string
	init    func()
	cleanup func()
	pages   []string
}

func (r *registration) appliesTo(page string) bool {
	if r.pages == nil {
		return true
	}
	for _, p := range r.pages {
		if p == page {
			return true
		}
	}
	return false
}

// Registry holds behavior-module registrations. Registrations live for the
// lifetime of the session; there is no removal operation.
type Registry struct {
	mu     sync.Mutex
	mods   map[string]*registration
	order  []string
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		mods:   make(map[string]*registration),
		logger: logger,
	}
}

// Register stores a module registration. Re-registering an existing name
// replaces its functions and page list but keeps its original dispatch
// position; this accommodates script re-evaluation, not multiplexing.
func (r *Registry) Register(name string, init func(), opts ModuleOptions) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.mods[name]; !ok {
		r.order = append(r.order, name)
	}
	r.mods[name] = &registration{
		name:    name,
		init:    init,
		cleanup: opts.Cleanup,
		pages:   opts.Pages,
	}
}

// snapshot returns the registrations in dispatch order.
func (r *Registry) snapshot() []*registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*registration, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.mods[name])
	}
	return out
}

// Dispatch runs init on every registration applicable to page. A panicking
// module is logged and does not stop its siblings.
func (r *Registry) Dispatch(page string) {
	for _, reg := range r.snapshot() {
		if !reg.appliesTo(page) || reg.init == nil {
			continue
		}
		r.run(reg.name, page, "init", reg.init)
	}
}

// Cleanup runs the cleanup of every registration applicable to page that
// declared one. Called before the content region is mutated.
func (r *Registry) Cleanup(page string) {
	for _, reg := range r.snapshot() {
		if !reg.appliesTo(page) || reg.cleanup == nil {
			continue
		}
		r.run(reg.name, page, "cleanup", reg.cleanup)
	}
}

func (r *Registry) run(name, page, phase string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("module "+phase+" panicked",
				"module", name, "page", page, "panic", rec)
		}
	}()
	fn()
}
