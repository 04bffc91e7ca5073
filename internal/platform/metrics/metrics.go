package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests     uint64
	errorRequests     uint64
	rateLimited       uint64
	authRedirects     uint64
	totalDurationMs   uint64
	upstreamCalls     uint64
	upstreamFailures  uint64
	upstreamLatencyMs uint64
	exports           uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordUpstream tallies one backend call. status 0 means a transport failure.
func (c *Collector) RecordUpstream(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.upstreamCalls, 1)
	if status == 0 || status >= 400 {
		atomic.AddUint64(&c.upstreamFailures, 1)
	}
	atomic.AddUint64(&c.upstreamLatencyMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordAuthRedirect() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.authRedirects, 1)
}

func (c *Collector) RecordExport() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.exports, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	calls := atomic.LoadUint64(&c.upstreamCalls)
	upstreamMs := atomic.LoadUint64(&c.upstreamLatencyMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	upstreamAvg := float64(0)
	if calls > 0 {
		upstreamAvg = float64(upstreamMs) / float64(calls)
	}
	return map[string]any{
		"requestsTotal":         total,
		"errorsTotal":           errs,
		"rateLimitedTotal":      limited,
		"authRedirectsTotal":    atomic.LoadUint64(&c.authRedirects),
		"avgDurationMs":         avg,
		"totalDurationMs":       totalMs,
		"upstreamCallsTotal":    calls,
		"upstreamFailuresTotal": atomic.LoadUint64(&c.upstreamFailures),
		"upstreamAvgLatencyMs":  upstreamAvg,
		"exportsTotal":          atomic.LoadUint64(&c.exports),
	}
}
