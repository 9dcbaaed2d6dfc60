package commandlog

import (
	"fmt"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commands(entries []Entry) []string {
	return lo.Map(entries, func(e Entry, _ int) string { return e.Command })
}

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		_, err := New(capacity)
		assert.Error(t, err, "capacity %d", capacity)
	}

	l, err := New(DefaultCapacity)
	require.NoError(t, err)
	assert.Equal(t, 200, l.Cap())
	assert.Equal(t, 0, l.Len())
}

// TestCapacityKeepsLastInserted appends 205 commands to a 200-entry log and
// expects commands #6 through #205 in insertion order.
func TestCapacityKeepsLastInserted(t *testing.T) {
	l, err := New(DefaultCapacity)
	require.NoError(t, err)

	evictions := 0
	for i := 1; i <= 205; i++ {
		if l.Append(Entry{Command: fmt.Sprintf("cmd-%d", i), Timestamp: int64(i)}) {
			evictions++
		}
	}

	assert.Equal(t, 5, evictions)
	require.Equal(t, 200, l.Len())

	got := commands(l.Entries())
	require.Len(t, got, 200)
	assert.Equal(t, "cmd-6", got[0])
	assert.Equal(t, "cmd-205", got[199])
	for i, c := range got {
		assert.Equal(t, fmt.Sprintf("cmd-%d", i+6), c)
	}
}

// TestEvictionIgnoresTimestamps verifies eviction is by insertion order even
// when a newer insert carries an older timestamp.
func TestEvictionIgnoresTimestamps(t *testing.T) {
	l, err := New(2)
	require.NoError(t, err)

	l.Append(Entry{Command: "first", Timestamp: 1000})
	l.Append(Entry{Command: "second", Timestamp: 1})
	l.Append(Entry{Command: "third", Timestamp: 500})

	assert.Equal(t, []string{"second", "third"}, commands(l.Entries()))
}

// TestSince covers the strict greater-than watermark.
func TestSince(t *testing.T) {
	l, err := New(DefaultCapacity)
	require.NoError(t, err)
	for _, ts := range []int64{100, 200, 300} {
		l.Append(Entry{Command: fmt.Sprintf("at-%d", ts), Timestamp: ts})
	}

	tests := []struct {
		name  string
		since int64
		want  []string
	}{
		{name: "between entries", since: 150, want: []string{"at-200", "at-300"}},
		{name: "equal to newest", since: 300, want: []string{}},
		{name: "zero returns all", since: 0, want: []string{"at-100", "at-200", "at-300"}},
		{name: "negative returns all", since: -5, want: []string{"at-100", "at-200", "at-300"}},
		{name: "equal to oldest is exclusive", since: 100, want: []string{"at-200", "at-300"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Since(tt.since)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, commands(got))
		})
	}
	assert.Equal(t, 3, l.Len(), "reads must not mutate the log")
}

// TestSincePreservesInsertionOrder verifies results follow the log, not the
// timestamps.
func TestSincePreservesInsertionOrder(t *testing.T) {
	l, err := New(10)
	require.NoError(t, err)
	l.Append(Entry{Command: "late", Timestamp: 900})
	l.Append(Entry{Command: "early", Timestamp: 200})

	assert.Equal(t, []string{"late", "early"}, commands(l.Since(100)))
}

func TestSinceAfterWrap(t *testing.T) {
	l, err := New(3)
	require.NoError(t, err)
	for i := int64(1); i <= 7; i++ {
		l.Append(Entry{Command: fmt.Sprintf("c%d", i), Timestamp: i * 10})
	}

	assert.Equal(t, []string{"c5", "c6", "c7"}, commands(l.Since(0)))
	assert.Equal(t, []string{"c7"}, commands(l.Since(60)))
}

// TestConcurrentAppends verifies no append is lost and the cap holds exactly
// once every writer has finished.
func TestConcurrentAppends(t *testing.T) {
	const (
		writers   = 8
		perWriter = 40
	)

	l, err := New(DefaultCapacity)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				l.Append(Entry{Command: fmt.Sprintf("w%d-%d", w, i), Timestamp: int64(i)})
				_ = l.Since(0)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, DefaultCapacity, l.Len())

	small, err := New(writers * perWriter)
	require.NoError(t, err)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				small.Append(Entry{Command: fmt.Sprintf("w%d-%d", w, i)})
			}
		}(w)
	}
	wg.Wait()

	got := commands(small.Entries())
	assert.Len(t, lo.Uniq(got), writers*perWriter)
}
