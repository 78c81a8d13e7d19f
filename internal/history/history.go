// Package history keeps a bounded log of criterion executions and the
// aggregate analytics derived from it. The external task runner records
// an entry after each criterion finishes; the planners never write here.
package history

import (
	"slices"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Capacity is the maximum number of retained entries. Insertion beyond
// capacity evicts the oldest entry first.
const Capacity = 1000

// Status is the outcome of a recorded execution.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Entry is one recorded criterion execution.
type Entry struct {
	ID         string            `json:"id"`
	Criterion  string            `json:"criterion"`
	Status     Status            `json:"status"`
	DurationMs int64             `json:"durationMs"`
	Timestamp  time.Time         `json:"timestamp"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Log is the bounded FIFO execution log. Safe for concurrent use.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{now: time.Now}
}

// Record appends an execution entry, evicting the oldest entry when the
// log is at capacity, and returns the entry's generated ID.
func (l *Log) Record(criterion string, status Status, durationMs int64, metadata map[string]string) string {
	id, err := gonanoid.New()
	if err != nil {
		// gonanoid only fails when the OS random source does; fall back to
		// a timestamp-derived ID rather than dropping the record.
		id = l.now().UTC().Format("20060102T150405.000000000")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{
		ID:         id,
		Criterion:  criterion,
		Status:     status,
		DurationMs: durationMs,
		Timestamp:  l.now(),
		Metadata:   metadata,
	})
	if len(l.entries) > Capacity {
		l.entries = slices.Delete(l.entries, 0, len(l.entries)-Capacity)
	}
	return id
}

// Entries returns a copy of the retained entries, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.entries)
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Restore replaces the log contents with previously persisted entries,
// applying the same capacity bound (most recent entries win).
func (l *Log) Restore(entries []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(entries) > Capacity {
		entries = entries[len(entries)-Capacity:]
	}
	l.entries = slices.Clone(entries)
}

// CriterionStats aggregates executions of one criterion.
type CriterionStats struct {
	Executions     int     `json:"executions"`
	SuccessRatePct float64 `json:"successRatePct"`
}

// Stats aggregates the whole retained log.
type Stats struct {
	TotalExecutions   int                       `json:"totalExecutions"`
	SuccessRatePct    float64                   `json:"successRatePct"`
	AverageDurationMs float64                   `json:"averageDurationMs"`
	Criteria          map[string]CriterionStats `json:"criteriaStats"`
}

// Analytics computes aggregate stats over the retained entries. The
// second return is false when the log is empty.
func (l *Log) Analytics() (Stats, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return Stats{}, false
	}

	var successes int
	var totalMs int64
	perCriterion := make(map[string]*struct{ runs, ok int })
	for _, e := range l.entries {
		totalMs += e.DurationMs
		c := perCriterion[e.Criterion]
		if c == nil {
			c = &struct{ runs, ok int }{}
			perCriterion[e.Criterion] = c
		}
		c.runs++
		if e.Status == StatusSuccess {
			successes++
			c.ok++
		}
	}

	stats := Stats{
		TotalExecutions:   len(l.entries),
		SuccessRatePct:    100 * float64(successes) / float64(len(l.entries)),
		AverageDurationMs: float64(totalMs) / float64(len(l.entries)),
		Criteria:          make(map[string]CriterionStats, len(perCriterion)),
	}
	for name, c := range perCriterion {
		stats.Criteria[name] = CriterionStats{
			Executions:     c.runs,
			SuccessRatePct: 100 * float64(c.ok) / float64(c.runs),
		}
	}
	return stats, true
}
