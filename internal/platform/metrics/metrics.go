package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps process-local request counters. Counters only grow;
// there is no reset between snapshots.
type Collector struct {
	requests   uint64
	errors     uint64
	throttled  uint64
	durationMs uint64
}

func New() *Collector {
	return &Collector{}
}

// Record counts one finished request. 5xx responses count as errors,
// 429 responses as throttled.
func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.requests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errors, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.throttled, 1)
	}
	atomic.AddUint64(&c.durationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) Snapshot() map[string]any {
	requests := atomic.LoadUint64(&c.requests)
	totalMs := atomic.LoadUint64(&c.durationMs)
	var avg float64
	if requests > 0 {
		avg = float64(totalMs) / float64(requests)
	}
	return map[string]any{
		"requestsTotal":    requests,
		"errorsTotal":      atomic.LoadUint64(&c.errors),
		"rateLimitedTotal": atomic.LoadUint64(&c.throttled),
		"avgDurationMs":    avg,
		"totalDurationMs":  totalMs,
	}
}
