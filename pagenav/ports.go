// CLAUDE:SUMMARY Host-environment ports: history stack, script evaluation, window scroll/assign.
package pagenav

import "context"

// Entry is one history stack entry as the engine sees it. Marked entries were
// created (or retroactively claimed) by the engine; unmarked entries predate
// it or came from outside.
type Entry struct {
	URL    string
	Marked bool
}

// HistoryPort abstracts the host's session history stack. The engine never
// reads the stack beyond the current entry; it only pushes, replaces, and
// reacts to pops.
type HistoryPort interface {
	Push(url string, marked bool)
	Replace(url string, marked bool)
	Current() Entry
	// OnPop registers the handler invoked after the host has already moved
	// to a different entry (back/forward). At most one handler is active;
	// the engine installs its own during construction.
	OnPop(func(Entry))
}

// ScriptPort evaluates a script by absolute URL in the host page. Load
// returns once the script has finished loading, successfully or not, so the
// caller can sequence dependent scripts.
type ScriptPort interface {
	Load(ctx context.Context, src string) error
}

// Window abstracts the pieces of the host page the engine touches outside
// the document tree. Assign performs a full page load and is the engine's
// failure-recovery path: after Assign the engine's document is stale and the
// host is expected to tear it down.
type Window interface {
	ScrollToTop()
	ScrollToFragment(id string)
	Assign(url string)
}
