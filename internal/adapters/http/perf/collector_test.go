package perf

import (
	"fmt"
	"testing"
	"time"
)

// TestCollectorRecordAndSnapshot verifies basic recording and aggregation.
func TestCollectorRecordAndSnapshot(t *testing.T) {
	c := NewCollector(16)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "GET /", DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /", DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "QueryContext", DurationMs: 5, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 5)

	if snap.TotalRequests != 3 {
		t.Errorf("TotalRequests = %d, want 3", snap.TotalRequests)
	}
	if len(snap.SlowestPaths) != 1 {
		t.Fatalf("SlowestPaths len = %d, want 1", len(snap.SlowestPaths))
	}
	got := snap.SlowestPaths[0]
	if got.Path != "GET /" || got.Count != 2 || got.AvgMs != 20 || got.MaxMs != 30 {
		t.Errorf("unexpected path stat: %+v", got)
	}
	if len(snap.SlowestQueries) != 1 || snap.SlowestQueries[0].Path != "QueryContext" {
		t.Errorf("unexpected query stats: %+v", snap.SlowestQueries)
	}
}

// TestCollectorRingOverwrite verifies the oldest entries are overwritten when full.
func TestCollectorRingOverwrite(t *testing.T) {
	c := NewCollector(4)
	now := time.Now()

	for i := 0; i < 8; i++ {
		c.Record(Entry{Kind: KindRequest, Path: fmt.Sprintf("GET /p%d", i), DurationMs: 1, Timestamp: now})
	}

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRequests != 8 {
		t.Errorf("TotalRequests = %d, want 8", snap.TotalRequests)
	}
	// Only the last 4 survive in the ring.
	if len(snap.SlowestPaths) != 4 {
		t.Errorf("SlowestPaths len = %d, want 4", len(snap.SlowestPaths))
	}
}

// TestCollectorSinceFilter verifies entries before the window are excluded.
func TestCollectorSinceFilter(t *testing.T) {
	c := NewCollector(8)
	old := time.Now().Add(-2 * time.Hour)
	recent := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "GET /old", DurationMs: 1, Timestamp: old})
	c.Record(Entry{Kind: KindRequest, Path: "GET /new", DurationMs: 1, Timestamp: recent})

	snap := c.Snapshot(recent.Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "GET /new" {
		t.Errorf("since filter failed: %+v", snap.SlowestPaths)
	}
}

// TestPercentile verifies percentile interpolation on a sorted slice.
func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}

	if got := percentile(nil, 50); got != 0 {
		t.Errorf("percentile(nil) = %v, want 0", got)
	}
	if got := percentile(sorted, 0); got != 10 {
		t.Errorf("p0 = %v, want 10", got)
	}
	if got := percentile(sorted, 100); got != 40 {
		t.Errorf("p100 = %v, want 40", got)
	}
	if got := percentile(sorted, 50); got != 25 {
		t.Errorf("p50 = %v, want 25", got)
	}
}
