// CLAUDE:SUMMARY Async batched SQLite persistence for navigation traces, with Recent/Fallbacks queries.
package trace

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/CuWilliams/durtnurs.github.io-sub000/dbopen"
)

// Schema for the nav_traces table. Pass to dbopen.WithSchema or apply
// manually.
const Schema = `
CREATE TABLE IF NOT EXISTS nav_traces (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	trace_id TEXT NOT NULL,
	url TEXT NOT NULL,
	page TEXT NOT NULL,
	outcome TEXT NOT NULL,
	duration_us INTEGER NOT NULL,
	error TEXT,
	timestamp INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_nav_traces_ts ON nav_traces(timestamp);
CREATE INDEX IF NOT EXISTS idx_nav_traces_outcome ON nav_traces(outcome) WHERE outcome != 'settled';
`

// Store persists trace entries to SQLite asynchronously: entries are queued
// on a buffered channel and flushed in batches by a background goroutine.
type Store struct {
	db   *sql.DB
	ch   chan *Entry
	done chan struct{}
	once sync.Once

	mu     sync.RWMutex
	closed bool
}

// NewStore creates a store backed by the given database connection and
// starts its flush goroutine.
func NewStore(db *sql.DB) *Store {
	s := &Store{
		db:   db,
		ch:   make(chan *Entry, 1024),
		done: make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

// Init creates the nav_traces table if it doesn't exist.
func (s *Store) Init() error {
	_, err := s.db.Exec(Schema)
	return err
}

// RecordAsync queues an entry for persistence. Non-blocking; drops the entry
// when the buffer is full or the store is closed, so the navigation path
// never waits on the store and late observers never panic.
func (s *Store) RecordAsync(e *Entry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- e:
	default:
	}
}

// Close drains the buffer and stops the flush goroutine.
func (s *Store) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.ch)
		<-s.done
	})
	return nil
}

func (s *Store) flushLoop() {
	defer close(s.done)

	batch := make([]*Entry, 0, 64)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-s.ch:
			if !ok {
				s.flushBatch(batch)
				return
			}
			batch = append(batch, e)
			if len(batch) >= 64 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *Store) flushBatch(batch []*Entry) {
	if len(batch) == 0 {
		return
	}

	err := dbopen.RunTx(context.Background(), s.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO nav_traces (trace_id, url, page, outcome, duration_us, error, timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, e := range batch {
			if _, err := stmt.Exec(e.TraceID, e.URL, e.Page, e.Outcome, e.DurationUs, e.Error, e.Timestamp); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("trace store: flush", "error", err, "batch", len(batch))
	}
}

// Recent returns the latest n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT trace_id, url, page, outcome, duration_us, error, timestamp
		FROM nav_traces ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Fallbacks returns the latest n non-settled entries, newest first. These
// are the navigations an audit cares about.
func (s *Store) Fallbacks(ctx context.Context, n int) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT trace_id, url, page, outcome, duration_us, error, timestamp
		FROM nav_traces WHERE outcome = 'fallback' ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var out []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.TraceID, &e.URL, &e.Page, &e.Outcome, &e.DurationUs, &e.Error, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
