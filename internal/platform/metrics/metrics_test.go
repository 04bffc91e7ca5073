package metrics

import (
	"testing"
	"time"
)

func TestSnapshotCountsRequestsAndUpstreamCalls(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(502, 30*time.Millisecond)
	c.Record(429, 0)
	c.RecordUpstream(200, 20*time.Millisecond)
	c.RecordUpstream(0, 40*time.Millisecond)
	c.RecordAuthRedirect()
	c.RecordExport()

	snap := c.Snapshot()
	if snap["requestsTotal"].(uint64) != 3 {
		t.Fatalf("unexpected requests total: %v", snap["requestsTotal"])
	}
	if snap["errorsTotal"].(uint64) != 1 {
		t.Fatalf("unexpected errors total: %v", snap["errorsTotal"])
	}
	if snap["rateLimitedTotal"].(uint64) != 1 {
		t.Fatalf("unexpected rate limited total: %v", snap["rateLimitedTotal"])
	}
	if snap["upstreamFailuresTotal"].(uint64) != 1 {
		t.Fatalf("unexpected upstream failures: %v", snap["upstreamFailuresTotal"])
	}
	if snap["upstreamAvgLatencyMs"].(float64) != 30 {
		t.Fatalf("unexpected upstream latency: %v", snap["upstreamAvgLatencyMs"])
	}
	if snap["authRedirectsTotal"].(uint64) != 1 || snap["exportsTotal"].(uint64) != 1 {
		t.Fatalf("unexpected counters: %+v", snap)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.Record(200, time.Millisecond)
	c.RecordUpstream(200, time.Millisecond)
	c.RecordExport()
}
