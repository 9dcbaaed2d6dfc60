package presence

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUpsertReplacesWithoutMerge verifies that a second report for the same
// user replaces every field of the first, including clearing optional ones.
func TestUpsertReplacesWithoutMerge(t *testing.T) {
	table := NewTable()

	existed := table.Upsert(Entry{
		UserID:     "42",
		Username:   "alice",
		ContextID:  json.RawMessage(`"game-1"`),
		LocationID: json.RawMessage(`"place-1"`),
		Timestamp:  100,
	})
	assert.False(t, existed)

	existed = table.Upsert(Entry{
		UserID:    "42",
		Username:  "alice2",
		ContextID: json.RawMessage(`{"game":2}`),
		Timestamp: 200,
	})
	assert.True(t, existed)

	require.Equal(t, 1, table.Len())
	got, ok := table.Get("42")
	require.True(t, ok)
	assert.Equal(t, "alice2", got.Username)
	assert.JSONEq(t, `{"game":2}`, string(got.ContextID))
	assert.Nil(t, got.LocationID, "location from the first report must not survive")
	assert.Equal(t, int64(200), got.Timestamp)
}

// TestSnapshotKeepsFirstReportOrder verifies that replacing an entry keeps its
// original slot in iteration order.
func TestSnapshotKeepsFirstReportOrder(t *testing.T) {
	table := NewTable()
	table.Upsert(Entry{UserID: "a", Timestamp: 1})
	table.Upsert(Entry{UserID: "b", Timestamp: 2})
	table.Upsert(Entry{UserID: "c", Timestamp: 3})
	table.Upsert(Entry{UserID: "a", Timestamp: 4})

	ids := lo.Map(table.Snapshot(), func(e Entry, _ int) string { return e.UserID })
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

// TestSnapshotIsACopy verifies callers cannot reach into the table through a
// snapshot or a Get result.
func TestSnapshotIsACopy(t *testing.T) {
	table := NewTable()
	table.Upsert(Entry{UserID: "a", ContextID: json.RawMessage(`"ctx"`)})

	snap := table.Snapshot()
	snap[0].ContextID[1] = 'X'
	snap[0].Username = "mutated"

	got, _ := table.Get("a")
	assert.Equal(t, `"ctx"`, string(got.ContextID))
	assert.Equal(t, "", got.Username)
}

func TestSnapshotEmptyIsNotNil(t *testing.T) {
	assert.NotNil(t, NewTable().Snapshot())
}

func TestGetMissing(t *testing.T) {
	_, ok := NewTable().Get("nobody")
	assert.False(t, ok)
}

// TestRemoveOlderThan verifies stale entries are dropped, survivors keep their
// order, and the index still resolves survivors after the shift.
func TestRemoveOlderThan(t *testing.T) {
	table := NewTable()
	table.Upsert(Entry{UserID: "old-1", Timestamp: 10})
	table.Upsert(Entry{UserID: "fresh-1", Timestamp: 500})
	table.Upsert(Entry{UserID: "old-2", Timestamp: 99})
	table.Upsert(Entry{UserID: "fresh-2", Timestamp: 100})

	removed := table.RemoveOlderThan(100)
	assert.Equal(t, 2, removed)

	ids := lo.Map(table.Snapshot(), func(e Entry, _ int) string { return e.UserID })
	assert.Equal(t, []string{"fresh-1", "fresh-2"}, ids)

	got, ok := table.Get("fresh-2")
	require.True(t, ok)
	assert.Equal(t, int64(100), got.Timestamp)
	_, ok = table.Get("old-1")
	assert.False(t, ok)

	// Re-reporting after removal appends at the tail.
	table.Upsert(Entry{UserID: "old-1", Timestamp: 600})
	ids = lo.Map(table.Snapshot(), func(e Entry, _ int) string { return e.UserID })
	assert.Equal(t, []string{"fresh-1", "fresh-2", "old-1"}, ids)
	assert.Equal(t, 0, table.RemoveOlderThan(0))
}

// TestConcurrentUpserts verifies that writers for distinct users never lose each
// other's entries.
func TestConcurrentUpserts(t *testing.T) {
	table := NewTable()
	const writers = 64

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%d", i)
			for j := 0; j < 50; j++ {
				table.Upsert(Entry{UserID: id, Username: id, Timestamp: int64(j)})
				_ = table.Snapshot()
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, writers, table.Len())
	for i := 0; i < writers; i++ {
		id := fmt.Sprintf("user-%d", i)
		got, ok := table.Get(id)
		require.True(t, ok, id)
		assert.Equal(t, id, got.Username)
		assert.Equal(t, int64(49), got.Timestamp)
	}
}
