// CLAUDE:SUMMARY Navigation trace records and the Recorder interface.
// Package trace persists navigation outcomes to SQLite so site audits can
// answer "which navigations degraded to full loads, and why" after the fact.
//
//	db, _ := dbopen.Open("nav.db", dbopen.WithSchema(trace.Schema))
//	store := trace.NewStore(db)
//	engine.Observe = trace.Observer(store)   // via pagenav.Config
//
// Recording is asynchronous and lossy under pressure: a full buffer drops
// entries rather than backpressuring the navigation path.
package trace

import (
	"time"

	"github.com/CuWilliams/durtnurs.github.io-sub000/idgen"
	"github.com/CuWilliams/durtnurs.github.io-sub000/pagenav"
)

// Entry is a single navigation trace record.
type Entry struct {
	TraceID    string // "nav_"-prefixed UUIDv7
	URL        string
	Page       string
	Outcome    string // settled, fallback, noop, superseded
	DurationUs int64
	Error      string // empty on success
	Timestamp  int64  // unix seconds
}

// Recorder is the interface trace persistence backends implement.
type Recorder interface {
	RecordAsync(e *Entry)
	Close() error
}

// Observer adapts a Recorder to the engine's Observe hook.
func Observer(r Recorder) func(pagenav.Result) {
	newID := idgen.Prefixed("nav_", idgen.Default)
	return func(res pagenav.Result) {
		e := &Entry{
			TraceID:    newID(),
			URL:        res.URL,
			Page:       res.Page,
			Outcome:    string(res.Outcome),
			DurationUs: res.Duration.Microseconds(),
			Timestamp:  time.Now().Unix(),
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
		}
		r.RecordAsync(e)
	}
}
