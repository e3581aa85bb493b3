package trace

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/CuWilliams/durtnurs.github.io-sub000/dbopen"
	"github.com/CuWilliams/durtnurs.github.io-sub000/pagenav"
)

func TestStoreRecordAndQuery(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	store := NewStore(db)

	for i, outcome := range []string{"settled", "fallback", "settled"} {
		store.RecordAsync(&Entry{
			TraceID:    "nav_test",
			URL:        "https://durtnurs.example/about/",
			Page:       "about",
			Outcome:    outcome,
			DurationUs: int64(i * 1000),
			Timestamp:  time.Now().Unix(),
		})
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	recent, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 3 {
		t.Fatalf("Recent: got %d entries, want 3", len(recent))
	}
	// Newest first.
	if recent[0].DurationUs != 2000 {
		t.Fatalf("Recent[0].DurationUs = %d, want 2000", recent[0].DurationUs)
	}

	fb, err := store.Fallbacks(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(fb) != 1 || fb[0].Outcome != "fallback" {
		t.Fatalf("Fallbacks: got %+v, want one fallback entry", fb)
	}
}

func TestStoreRecordAfterClose(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	store := NewStore(db)

	store.RecordAsync(&Entry{TraceID: "nav_1", URL: "/", Page: "home", Outcome: "settled"})
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	// An observer firing after shutdown must be dropped, not panic.
	store.RecordAsync(&Entry{TraceID: "nav_2", URL: "/", Page: "home", Outcome: "settled"})

	recent, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 {
		t.Fatalf("got %d entries, want 1", len(recent))
	}
}

func TestStoreDropsWhenFull(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	store := NewStore(db)
	defer store.Close()

	// Must never block, even well past the buffer size.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 5000; i++ {
			store.RecordAsync(&Entry{TraceID: "nav_x", URL: "/", Page: "home", Outcome: "settled"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("RecordAsync blocked")
	}
}

type captureRecorder struct {
	entries []*Entry
}

func (c *captureRecorder) RecordAsync(e *Entry) { c.entries = append(c.entries, e) }
func (c *captureRecorder) Close() error         { return nil }

func TestObserver(t *testing.T) {
	rec := &captureRecorder{}
	observe := Observer(rec)

	observe(pagenav.Result{
		URL:      "https://durtnurs.example/shows/",
		Page:     "shows",
		Outcome:  pagenav.OutcomeFallback,
		Duration: 42 * time.Millisecond,
		Err:      errors.New("status 404"),
	})

	if len(rec.entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(rec.entries))
	}
	e := rec.entries[0]
	if !strings.HasPrefix(e.TraceID, "nav_") {
		t.Errorf("TraceID = %q, want nav_ prefix", e.TraceID)
	}
	if e.Outcome != "fallback" || e.Page != "shows" {
		t.Errorf("entry = %+v", e)
	}
	if e.DurationUs != 42000 {
		t.Errorf("DurationUs = %d, want 42000", e.DurationUs)
	}
	if e.Error != "status 404" {
		t.Errorf("Error = %q", e.Error)
	}
}
