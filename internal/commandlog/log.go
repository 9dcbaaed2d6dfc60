package commandlog

import (
	"fmt"
	"sync"
)

// DefaultCapacity is the number of commands retained when no capacity is given.
const DefaultCapacity = 200

// Entry is a single relayed command.
type Entry struct {
	UserID    string
	Username  string
	Command   string
	Timestamp int64 // Milliseconds since epoch
}

// Log is a fixed-capacity ring of entries, oldest first.
type Log struct {
	buf   []Entry      // Ring storage, len(buf) == capacity
	head  int          // Index of the oldest entry
	count int          // Number of retained entries
	mu    sync.RWMutex // Protects buf, head and count
}

// New creates a log that retains at most capacity entries.
// It returns an error if capacity is not positive.
func New(capacity int) (*Log, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("command log capacity must be positive, got %d", capacity)
	}
	return &Log{buf: make([]Entry, capacity)}, nil
}

// Append adds e at the tail. When the log is full the oldest entry is evicted
// in the same step, so Len never exceeds Cap. It reports whether an entry was
// evicted.
func (l *Log) Append(e Entry) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.count < len(l.buf) {
		l.buf[(l.head+l.count)%len(l.buf)] = e
		l.count++
		return false
	}
	l.buf[l.head] = e
	l.head = (l.head + 1) % len(l.buf)
	return true
}

// Since returns the retained entries whose Timestamp is strictly greater than
// ts, in insertion order. The result is never nil.
func (l *Log) Since(ts int64) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, 0)
	l.each(func(e Entry) {
		if e.Timestamp > ts {
			out = append(out, e)
		}
	})
	return out
}

// Entries returns every retained entry in insertion order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, 0, l.count)
	l.each(func(e Entry) { out = append(out, e) })
	return out
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.count
}

// Cap returns the maximum number of retained entries.
func (l *Log) Cap() int {
	return len(l.buf)
}

// each walks retained entries oldest first. Caller must hold mu.
func (l *Log) each(fn func(Entry)) {
	for i := 0; i < l.count; i++ {
		fn(l.buf[(l.head+i)%len(l.buf)])
	}
}
