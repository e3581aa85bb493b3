// CLAUDE:SUMMARY Walker-side port implementations: in-memory history stack, HTTP script probe, logging window.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/CuWilliams/durtnurs.github.io-sub000/pagenav"
)

// memHistory is an in-memory session history stack for the walker.
type memHistory struct {
	entries []pagenav.Entry
	idx     int
	pop     func(pagenav.Entry)
}

func newMemHistory(start string) *memHistory {
	return &memHistory{entries: []pagenav.Entry{{URL: start}}}
}

func (h *memHistory) Push(u string, marked bool) {
	h.entries = append(h.entries[:h.idx+1], pagenav.Entry{URL: u, Marked: marked})
	h.idx++
}

func (h *memHistory) Replace(u string, marked bool) {
	h.entries[h.idx] = pagenav.Entry{URL: u, Marked: marked}
}

func (h *memHistory) Current() pagenav.Entry { return h.entries[h.idx] }

func (h *memHistory) OnPop(fn func(pagenav.Entry)) { h.pop = fn }

// Back moves one entry backward and fires the pop handler, like the
// browser's back button.
func (h *memHistory) Back() {
	if h.idx == 0 {
		return
	}
	h.idx--
	if h.pop != nil {
		h.pop(h.entries[h.idx])
	}
}

// httpScripts verifies behavior scripts by fetching them. The walker cannot
// evaluate JavaScript; a 2xx response is "loaded", anything else surfaces as
// a load failure exactly like a broken script tag would in the page.
type httpScripts struct {
	client *http.Client
	base   *url.URL
}

func (s *httpScripts) Load(ctx context.Context, src string) error {
	u, err := url.Parse(src)
	if err != nil {
		return err
	}
	abs := s.base.ResolveReference(u).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, abs, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("script %s: status %d", abs, resp.StatusCode)
	}
	return nil
}

// walkWindow satisfies the Window port for a headless walker: scrolls are
// no-ops, a fallback Assign is only recorded.
type walkWindow struct {
	logger     *slog.Logger
	lastAssign string
}

func (w *walkWindow) ScrollToTop()            {}
func (w *walkWindow) ScrollToFragment(string) {}

func (w *walkWindow) Assign(u string) {
	w.lastAssign = u
	w.logger.Warn("fallback full load", "url", u)
}
