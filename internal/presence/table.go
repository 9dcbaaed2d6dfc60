package presence

import (
	"bytes"
	"encoding/json"
	"sync"

	"golang.org/x/exp/slices"
)

// Entry is one user's most recent presence report.
// ContextID and LocationID hold raw JSON the coordinator never interprets;
// nil means absent.
type Entry struct {
	ContextID  json.RawMessage // What the user is currently doing (game, document, ...)
	LocationID json.RawMessage // Sub-identifier within the context
	UserID     string  // Table key
	Username   string  // Display label
	Timestamp  int64   // Milliseconds since epoch
}

// Table is an insertion-ordered, keyed set of presence entries.
// Thread-safe: all methods may be called concurrently.
type Table struct {
	index map[string]int // userID -> position in order
	order []Entry        // Entries in first-report order
	mu    sync.RWMutex   // Protects index and order
}

// NewTable creates an empty presence table.
func NewTable() *Table {
	return &Table{
		index: make(map[string]int),
	}
}

// Upsert inserts the entry, or replaces the existing entry with the same UserID
// in place. It reports whether the user was already present.
func (t *Table) Upsert(e Entry) bool {
	e = e.clone()

	t.mu.Lock()
	defer t.mu.Unlock()

	if pos, ok := t.index[e.UserID]; ok {
		t.order[pos] = e
		return true
	}
	t.index[e.UserID] = len(t.order)
	t.order = append(t.order, e)
	return false
}

// Get returns a copy of the entry stored for userID.
func (t *Table) Get(userID string) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	pos, ok := t.index[userID]
	if !ok {
		return Entry{}, false
	}
	return t.order[pos].clone(), true
}

// Snapshot returns a copy of every entry in first-report order.
// The result is never nil.
func (t *Table) Snapshot() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry, len(t.order))
	for i, e := range t.order {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of distinct users in the table.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

// RemoveOlderThan drops every entry whose Timestamp is strictly less than
// cutoff and returns how many were removed. Survivors keep their relative order.
func (t *Table) RemoveOlderThan(cutoff int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	before := len(t.order)
	t.order = slices.DeleteFunc(t.order, func(e Entry) bool {
		return e.Timestamp < cutoff
	})
	removed := before - len(t.order)
	if removed == 0 {
		return 0
	}

	// Positions shifted; rebuild the index.
	clear(t.index)
	for i, e := range t.order {
		t.index[e.UserID] = i
	}
	return removed
}

func (e Entry) clone() Entry {
	e.ContextID = bytes.Clone(e.ContextID)
	e.LocationID = bytes.Clone(e.LocationID)
	return e
}
