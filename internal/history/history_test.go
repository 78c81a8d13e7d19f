package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecord(t *testing.T) {
	t.Run("entries carry generated ids and timestamps", func(t *testing.T) {
		l := NewLog()
		id := l.Record("lint", StatusSuccess, 1200, map[string]string{"runner": "ci"})
		require.NotEmpty(t, id)

		entries := l.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, id, entries[0].ID)
		assert.Equal(t, "lint", entries[0].Criterion)
		assert.Equal(t, StatusSuccess, entries[0].Status)
		assert.Equal(t, int64(1200), entries[0].DurationMs)
		assert.False(t, entries[0].Timestamp.IsZero())
	})

	t.Run("capacity evicts the oldest entries first", func(t *testing.T) {
		l := NewLog()
		for i := 0; i < Capacity+100; i++ {
			l.Record(fmt.Sprintf("criterion-%d", i), StatusSuccess, 1, nil)
		}
		assert.Equal(t, Capacity, l.Len())

		entries := l.Entries()
		assert.Equal(t, "criterion-100", entries[0].Criterion, "oldest 100 evicted")
		assert.Equal(t, fmt.Sprintf("criterion-%d", Capacity+99), entries[len(entries)-1].Criterion)
	})
}

func TestLogRestore(t *testing.T) {
	l := NewLog()
	var entries []Entry
	for i := 0; i < Capacity+50; i++ {
		entries = append(entries, Entry{ID: fmt.Sprintf("e%d", i), Criterion: "x", Status: StatusSuccess})
	}
	l.Restore(entries)
	assert.Equal(t, Capacity, l.Len())
	assert.Equal(t, "e50", l.Entries()[0].ID, "restore keeps the most recent entries")
}

func TestAnalytics(t *testing.T) {
	t.Run("empty log has no data", func(t *testing.T) {
		l := NewLog()
		_, ok := l.Analytics()
		assert.False(t, ok)
	})

	t.Run("aggregates totals and per-criterion stats", func(t *testing.T) {
		l := NewLog()
		l.Record("lint", StatusSuccess, 100, nil)
		l.Record("lint", StatusFailed, 300, nil)
		l.Record("build", StatusSuccess, 200, nil)

		stats, ok := l.Analytics()
		require.True(t, ok)
		assert.Equal(t, 3, stats.TotalExecutions)
		assert.InDelta(t, 66.67, stats.SuccessRatePct, 0.01)
		assert.InDelta(t, 200, stats.AverageDurationMs, 0.001)

		require.Contains(t, stats.Criteria, "lint")
		assert.Equal(t, 2, stats.Criteria["lint"].Executions)
		assert.InDelta(t, 50, stats.Criteria["lint"].SuccessRatePct, 0.001)
		assert.Equal(t, 1, stats.Criteria["build"].Executions)
		assert.InDelta(t, 100, stats.Criteria["build"].SuccessRatePct, 0.001)
	})

	t.Run("analytics over an overflowed log counts retained entries only", func(t *testing.T) {
		l := NewLog()
		for i := 0; i < Capacity+100; i++ {
			l.Record("x", StatusSuccess, 1, nil)
		}
		stats, ok := l.Analytics()
		require.True(t, ok)
		assert.Equal(t, Capacity, stats.TotalExecutions)
	})
}
