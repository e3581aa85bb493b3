// CLAUDE:SUMMARY Engine configuration with page-contract defaults (region id, script dir, CSS hooks).
package pagenav

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// Config describes the page contract the engine operates under. The zero
// value is usable; defaults() fills in the site conventions.
type Config struct {
	// ContentRegionID is the id of the single swappable element every page
	// document must expose. Default "content".
	ContentRegionID string

	// BehaviorScriptDir is the path fragment identifying page-behavior
	// scripts; only <script src> values containing it are loaded by the
	// script loader. Default "/js/pages/".
	BehaviorScriptDir string

	// SkipScripts lists script basenames considered always already loaded
	// (the utility library, the persistent player, the engine itself).
	// Default {"utils.js", "player.js", "nav.js"}.
	SkipScripts []string

	// ActiveClass is toggled on primary-nav anchors whose path matches the
	// current page, together with aria-current="page". Default "active".
	ActiveClass string

	// LoadingClass is set on <body> while a navigation is in flight.
	// Default "is-loading".
	LoadingClass string

	// NavToggleClass identifies the mobile-nav disclosure checkbox, which is
	// unchecked after every swap. Default "nav-toggle".
	NavToggleClass string

	// Sanitizer, when non-nil, is applied to the fetched content region
	// before it is swapped in. Nil means verbatim swap.
	Sanitizer *bluemonday.Policy

	// Client performs page fetches. Default http.DefaultClient.
	Client *http.Client

	Logger *slog.Logger

	// Observe, when non-nil, receives a Result for every navigation attempt
	// regardless of outcome. Meant for trace/metrics wiring; must not block.
	Observe func(Result)

	// Registry holds the behavior-module registrations. When nil the engine
	// creates its own; inject one to share registrations across engines in
	// tests.
	Registry *Registry
}

func (c *Config) defaults() {
	if c.ContentRegionID == "" {
		c.ContentRegionID = "content"
	}
	if c.BehaviorScriptDir == "" {
		c.BehaviorScriptDir = "/js/pages/"
	}
	if c.SkipScripts == nil {
		c.SkipScripts = []string{"utils.js", "player.js", "nav.js"}
	}
	if c.ActiveClass == "" {
		c.ActiveClass = "active"
	}
	if c.LoadingClass == "" {
		c.LoadingClass = "is-loading"
	}
	if c.NavToggleClass == "" {
		c.NavToggleClass = "nav-toggle"
	}
	if c.Client == nil {
		c.Client = http.DefaultClient
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Options modify a single Navigate call.
type Options struct {
	// Replace uses replace-history semantics instead of push.
	Replace bool
	// Force permits navigating to the current URL, normally a no-op.
	Force bool
}

// Outcome classifies how a navigation attempt ended.
type Outcome string

const (
	// OutcomeSettled means the in-place swap completed.
	OutcomeSettled Outcome = "settled"
	// OutcomeFallback means the engine handed the URL to a full page load.
	OutcomeFallback Outcome = "fallback"
	// OutcomeNoop means the target equaled the current URL without Force.
	OutcomeNoop Outcome = "noop"
	// OutcomeSuperseded means a newer Navigate call canceled this one.
	OutcomeSuperseded Outcome = "superseded"
)

// Result reports one navigation attempt to the Observe hook.
type Result struct {
	URL      string
	Page     string
	Outcome  Outcome
	Duration time.Duration
	Err      error
}

// Event is the payload of the navigation-completed notification.
type Event struct {
	URL  string
	Page string
}
