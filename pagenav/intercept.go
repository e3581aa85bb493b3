// CLAUDE:SUMMARY Link-activation interception: decide per click whether to hijack or let native navigation proceed.
package pagenav

import (
	"context"
	"net/url"
	"path"
	"strings"
)

// Click describes one link-activation event as reported by the host.
type Click struct {
	// Href is the anchor's href attribute, possibly relative.
	Href string
	// Target is the anchor's target attribute ("" or "_self" stay in-page).
	Target string
	// Button is the activating pointer button; 0 is primary.
	Button int
	// Modifier is true when any of ctrl/meta/shift/alt was held — the user
	// is asking for a new tab/window/download, not an in-page navigation.
	Modifier bool
	// Download is true when the anchor carries a download attribute.
	Download bool
}

// File extensions that must always go through native navigation: documents,
// archives, audio. Matched case-insensitively on the URL path.
var excludedExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".txt": true,
	".zip": true, ".tar": true, ".gz": true, ".rar": true,
	".mp3": true, ".wav": true, ".flac": true, ".ogg": true, ".m4a": true,
}

// ShouldIntercept decides synchronously whether a click is the engine's to
// handle. On true it returns the resolved absolute target URL.
func (e *Engine) ShouldIntercept(c Click) (string, bool) {
	if c.Href == "" || c.Download {
		return "", false
	}
	if c.Target != "" && c.Target != "_self" {
		return "", false
	}
	if c.Button != 0 || c.Modifier {
		return "", false
	}
	// Fragment-only jumps stay native so smooth scroll keeps working.
	if strings.HasPrefix(c.Href, "#") {
		return "", false
	}

	u, err := url.Parse(c.Href)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
	default:
		// mailto:, tel:, and anything else scheme-ful.
		return "", false
	}

	dest := e.current.ResolveReference(u)
	if dest.Scheme != e.current.Scheme || dest.Host != e.current.Host {
		return "", false
	}
	if excludedExtensions[strings.ToLower(path.Ext(dest.Path))] {
		return "", false
	}
	// A full-path href that lands on the current page with a fragment is the
	// same jump as an anchor-only href; leave it to the native smooth scroll.
	if dest.Fragment != "" && sameLocation(dest, e.current) {
		return "", false
	}
	return dest.String(), true
}

// HandleClick runs the interception decision and, when the click is ours,
// performs the navigation. It returns true when the host must suppress the
// default action; the navigation's own outcome is reported through the
// usual Navigate channels.
func (e *Engine) HandleClick(ctx context.Context, c Click) bool {
	dest, ok := e.ShouldIntercept(c)
	if !ok {
		return false
	}
	if _, err := e.Navigate(ctx, dest, Options{}); err != nil {
		e.logger.Debug("intercepted navigation degraded", "url", dest, "error", err)
	}
	return true
}
