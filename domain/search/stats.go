package search

import (
	"sync/atomic"
	"time"
)

// Stats tracks process-lifetime search counters. All updates are atomic, so
// concurrent searches never lose increments. Reset only by constructing a
// new Stats.
type Stats struct {
	total          atomic.Int64
	totalLatencyUS atomic.Int64
}

// NewStats creates zeroed Stats.
func NewStats() *Stats {
	return &Stats{}
}

// Record counts one search and its latency.
func (s *Stats) Record(d time.Duration) {
	s.total.Add(1)
	s.totalLatencyUS.Add(d.Microseconds())
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	totalSearches int64
	averageMS     float64
}

// TotalSearches returns the number of searches recorded.
func (s Snapshot) TotalSearches() int64 { return s.totalSearches }

// AverageExecutionMS returns the mean search latency in milliseconds.
func (s Snapshot) AverageExecutionMS() float64 { return s.averageMS }

// Snapshot returns the current counters. The two loads are not mutually
// atomic; under concurrent writes the average is approximate, which is
// acceptable for an observability counter.
func (s *Stats) Snapshot() Snapshot {
	total := s.total.Load()
	latencyUS := s.totalLatencyUS.Load()

	snap := Snapshot{totalSearches: total}
	if total > 0 {
		snap.averageMS = float64(latencyUS) / float64(total) / 1000.0
	}
	return snap
}
