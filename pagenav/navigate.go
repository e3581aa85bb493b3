// CLAUDE:SUMMARY The navigation state machine: fetch, region swap, head/history sync, dispatch, fallback.
package pagenav

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CuWilliams/durtnurs.github.io-sub000/dom"
)

var errSuperseded = errors.New("superseded by a newer navigation")

// Navigate performs one partial-page navigation to target, which may be
// relative to the current URL. It returns true when the in-place swap
// settled. False with a nil error means nothing happened: the target equaled
// the current URL without Force, or a newer Navigate call superseded this
// one. False with an error means the engine fell back to a full page load
// via Window.Assign; the error carries the cause.
//
// Overlapping calls are resolved newest-wins: starting a navigation cancels
// the in-flight work of the previous one. A call superseded before its swap
// commits returns without touching the document or the history stack; one
// superseded during the final script-load phase has already committed its
// swap and history entry, and the newer navigation overwrites the region.
func (e *Engine) Navigate(ctx context.Context, target string, opts Options) (bool, error) {
	dest, err := e.resolveTarget(target)
	if err != nil {
		return false, err
	}
	if !opts.Force && sameLocation(dest, e.current) {
		// A programmatic same-page fragment navigation still resolves scroll;
		// clicked ones never get here, the interceptor leaves them native.
		if dest.Fragment != "" && e.doc.HasFragment(nil, dest.Fragment) {
			e.window.ScrollToFragment(dest.Fragment)
		}
		e.observe(Result{URL: dest.String(), Page: PageID(dest.Path), Outcome: OutcomeNoop})
		return false, nil
	}

	seq, ctx, cancel := e.begin(ctx)
	defer cancel()
	start := time.Now()

	e.setLoadingClass(true)
	defer func() {
		// A superseding navigation owns the indicator now; leave it alone.
		if e.isCurrent(seq) {
			e.setLoadingClass(false)
		}
	}()

	next, err := e.fetch(ctx, dest)
	if !e.isCurrent(seq) {
		e.observe(Result{URL: dest.String(), Page: PageID(dest.Path), Outcome: OutcomeSuperseded, Duration: time.Since(start)})
		return false, nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			e.setState(StateIdle)
			return false, ctxErr
		}
		return e.fallback(dest, start, err)
	}

	if err := e.swap(ctx, seq, dest, next, opts); err != nil {
		if errors.Is(err, errSuperseded) {
			e.observe(Result{URL: dest.String(), Page: PageID(dest.Path), Outcome: OutcomeSuperseded, Duration: time.Since(start)})
			return false, nil
		}
		return e.fallback(dest, start, err)
	}

	e.setState(StateSettled)
	e.observe(Result{
		URL:      dest.String(),
		Page:     PageID(dest.Path),
		Outcome:  OutcomeSettled,
		Duration: time.Since(start),
	})
	return true, nil
}

// begin claims an in-flight slot: cancels the previous navigation, bumps the
// sequence number, and derives the cancelable context for this one.
func (e *Engine) begin(parent context.Context) (uint64, context.Context, context.CancelFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	e.cancel = cancel
	e.seq++
	e.state = StateLoading
	return e.seq, ctx, cancel
}

func (e *Engine) isCurrent(seq uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq == seq
}

func (e *Engine) fetch(ctx context.Context, dest *url.URL) (*dom.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dest.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", dest, err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", dest, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", dest, resp.StatusCode)
	}
	doc, err := dom.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", dest, err)
	}
	return doc, nil
}

// swap applies the fetched document to the live one. Order matters and is
// load-bearing: module cleanup runs before the region is mutated, metadata
// and history are settled before scripts load, and module dispatch is last.
func (e *Engine) swap(ctx context.Context, seq uint64, dest *url.URL, next *dom.Document, opts Options) error {
	region := e.doc.ElementByID(e.cfg.ContentRegionID)
	nextRegion := next.ElementByID(e.cfg.ContentRegionID)
	if nextRegion == nil {
		return fmt.Errorf("target document has no #%s region", e.cfg.ContentRegionID)
	}

	e.setState(StateSwapping)

	// Modules detach from elements that are about to be discarded.
	e.registry.Cleanup(PageID(e.current.Path))

	if e.cfg.Sanitizer != nil {
		clean := e.cfg.Sanitizer.Sanitize(dom.InnerHTML(nextRegion))
		if err := dom.SetInnerHTML(region, clean); err != nil {
			return fmt.Errorf("sanitized swap: %w", err)
		}
	} else {
		dom.ReplaceChildren(region, nextRegion)
	}

	e.syncHead(next)
	e.syncActiveLinks(dest)

	if opts.Replace {
		e.history.Replace(dest.String(), true)
	} else {
		e.history.Push(dest.String(), true)
	}
	e.current = dest

	e.closeMobileNav()

	if dest.Fragment != "" && e.doc.HasFragment(region, dest.Fragment) {
		e.window.ScrollToFragment(dest.Fragment)
	} else {
		e.window.ScrollToTop()
	}

	// The swap, head, and history updates above are committed at this point;
	// a supersession mid-script-load only stops dispatch, the newer
	// navigation replaces the region itself.
	if err := e.scripts.sync(ctx, next); err != nil {
		if !e.isCurrent(seq) {
			return errSuperseded
		}
		return err
	}

	page := PageID(dest.Path)
	e.registry.Dispatch(page)
	e.emit(Event{URL: dest.String(), Page: page})
	return nil
}

func (e *Engine) fallback(dest *url.URL, start time.Time, cause error) (bool, error) {
	e.setState(StateFailed)
	e.logger.Warn("partial navigation failed, falling back to full load",
		"url", dest.String(), "error", cause)
	e.window.Assign(dest.String())
	e.observe(Result{
		URL:      dest.String(),
		Page:     PageID(dest.Path),
		Outcome:  OutcomeFallback,
		Duration: time.Since(start),
		Err:      cause,
	})
	return false, fmt.Errorf("navigate %s: %w", dest, cause)
}

func (e *Engine) resolveTarget(target string) (*url.URL, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("navigate: parse %q: %w", target, err)
	}
	dest := e.current.ResolveReference(u)
	if dest.Scheme != e.current.Scheme || dest.Host != e.current.Host {
		return nil, fmt.Errorf("navigate: %s is cross-origin", dest)
	}
	if dest.Path == "" {
		dest.Path = "/"
	}
	return dest, nil
}

// sameLocation compares two URLs ignoring the fragment; fragment-only
// differences never constitute a navigation.
func sameLocation(a, b *url.URL) bool {
	aa, bb := *a, *b
	aa.Fragment = ""
	bb.Fragment = ""
	return aa.String() == bb.String()
}

func (e *Engine) syncHead(next *dom.Document) {
	if t := next.Title(); t != "" {
		e.doc.SetTitle(t)
	}
	if v, ok := next.Meta("description"); ok {
		e.doc.SetMeta("description", v)
	}
	if v, ok := next.MetaProperty("og:title"); ok {
		e.doc.SetMetaProperty("og:title", v)
	}
	if v, ok := next.MetaProperty("og:description"); ok {
		e.doc.SetMetaProperty("og:description", v)
	}
}

// syncActiveLinks toggles the active class and aria-current on every
// primary-nav anchor by path comparison, with the site root matching only
// itself.
func (e *Engine) syncActiveLinks(dest *url.URL) {
	nav := e.doc.Nav()
	if nav == nil {
		return
	}
	for _, a := range e.doc.Anchors(nav) {
		href := dom.Attr(a, "href")
		if href == "" {
			continue
		}
		u, err := url.Parse(href)
		if err != nil {
			continue
		}
		if normalizePath(dest.ResolveReference(u).Path) == normalizePath(dest.Path) {
			dom.AddClass(a, e.cfg.ActiveClass)
			dom.SetAttr(a, "aria-current", "page")
		} else {
			dom.RemoveClass(a, e.cfg.ActiveClass)
			dom.DelAttr(a, "aria-current")
		}
	}
}

func normalizePath(p string) string {
	t := strings.Trim(p, "/")
	if t == "" {
		return "/"
	}
	return "/" + t + "/"
}

func (e *Engine) closeMobileNav() {
	for _, cb := range e.doc.CheckboxesByClass(e.cfg.NavToggleClass) {
		dom.DelAttr(cb, "checked")
	}
}

func (e *Engine) setLoadingClass(on bool) {
	body := e.doc.Body()
	if body == nil {
		return
	}
	if on {
		dom.AddClass(body, e.cfg.LoadingClass)
	} else {
		dom.RemoveClass(body, e.cfg.LoadingClass)
	}
}
