package pagenav

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/CuWilliams/durtnurs.github.io-sub000/dom"
)

func newTestLoader(t *testing.T, port ScriptPort) *scriptLoader {
	t.Helper()
	cfg := Config{}
	cfg.defaults()
	return newScriptLoader(cfg, port, testLogger())
}

func docWithScripts(t *testing.T, srcs ...string) *dom.Document {
	t.Helper()
	var sb strings.Builder
	sb.WriteString(`<html><body><main id="content">`)
	for _, s := range srcs {
		sb.WriteString(`<script src="` + s + `"></script>`)
	}
	sb.WriteString(`</main></body></html>`)
	d, err := dom.ParseString(sb.String())
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestScriptLoaderFiltersCandidates(t *testing.T) {
	port := &fakeScripts{}
	l := newTestLoader(t, port)

	doc := docWithScripts(t,
		"/js/pages/gallery.js", // candidate
		"/js/pages/nav.js",     // in the always-loaded set
		"/js/utils.js",         // wrong directory
		"/js/pages/utils.js",   // skip list matches by basename
	)
	if err := l.sync(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	if len(port.loads) != 1 || port.loads[0] != "/js/pages/gallery.js" {
		t.Fatalf("loads = %v", port.loads)
	}
}

func TestScriptLoaderAtMostOnce(t *testing.T) {
	port := &fakeScripts{}
	l := newTestLoader(t, port)
	ctx := context.Background()

	doc := docWithScripts(t, "/js/pages/news.js")
	l.sync(ctx, doc)
	l.sync(ctx, docWithScripts(t, "/js/pages/news.js"))

	if len(port.loads) != 1 {
		t.Fatalf("loads = %v; script must load at most once", port.loads)
	}
}

func TestScriptLoaderSequentialOrder(t *testing.T) {
	port := &fakeScripts{}
	l := newTestLoader(t, port)

	doc := docWithScripts(t, "/js/pages/a.js", "/js/pages/b.js", "/js/pages/c.js")
	if err := l.sync(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	want := []string{"/js/pages/a.js", "/js/pages/b.js", "/js/pages/c.js"}
	for i, w := range want {
		if port.loads[i] != w {
			t.Fatalf("loads = %v, want %v", port.loads, want)
		}
	}
}

func TestScriptLoaderRetriesFailures(t *testing.T) {
	port := &fakeScripts{fail: map[string]error{
		"/js/pages/gallery.js": errors.New("network down"),
	}}
	l := newTestLoader(t, port)
	ctx := context.Background()

	doc := docWithScripts(t, "/js/pages/gallery.js")
	if err := l.sync(ctx, doc); err != nil {
		t.Fatalf("load failures must not escalate: %v", err)
	}
	if l.loaded["/js/pages/gallery.js"] {
		t.Fatal("failed script must not be recorded as loaded")
	}

	// Script recovers; a later navigation must retry it.
	delete(port.fail, "/js/pages/gallery.js")
	l.sync(ctx, docWithScripts(t, "/js/pages/gallery.js"))

	if len(port.loads) != 2 {
		t.Fatalf("loads = %v; failed script must be retried", port.loads)
	}
	if !l.loaded["/js/pages/gallery.js"] {
		t.Fatal("recovered script must be recorded as loaded")
	}
	if _, stillFailed := l.failed["/js/pages/gallery.js"]; stillFailed {
		t.Fatal("failure record must clear on success")
	}
}

func TestScriptLoaderSeed(t *testing.T) {
	port := &fakeScripts{}
	l := newTestLoader(t, port)

	l.seed(docWithScripts(t, "/js/pages/home.js"))
	l.sync(context.Background(), docWithScripts(t, "/js/pages/home.js"))

	if len(port.loads) != 0 {
		t.Fatalf("loads = %v; seeded script must not reload", port.loads)
	}
}

func TestScriptLoaderContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	port := &fakeScripts{fail: map[string]error{
		"/js/pages/a.js": context.Canceled,
	}}
	l := newTestLoader(t, port)

	err := l.sync(ctx, docWithScripts(t, "/js/pages/a.js"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestScriptsLoadedOnceAcrossNavigations(t *testing.T) {
	pages := defaultPages()
	pages["/gallery/"] = pageHTML("Gallery", "Durtnurs — Gallery", "photos",
		`<script src="/js/pages/gallery.js"></script>`)
	e, f := newTestEngine(t, pages, nil)
	ctx := context.Background()

	if _, err := e.Navigate(ctx, "/gallery/", Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Navigate(ctx, "/about/", Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Navigate(ctx, "/gallery/", Options{}); err != nil {
		t.Fatal(err)
	}

	if len(f.scripts.loads) != 1 || f.scripts.loads[0] != "/js/pages/gallery.js" {
		t.Fatalf("loads = %v; behavior script must load exactly once", f.scripts.loads)
	}
}
