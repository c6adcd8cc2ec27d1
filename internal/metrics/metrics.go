package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Process wide counters.
var (
	BackendRequests Counter
	BackendFailures Counter
	GuardRedirects  Counter
)

type Stats struct {
	BackendRequests uint64 `json:"backend_requests"`
	BackendFailures uint64 `json:"backend_failures"`
	GuardRedirects  uint64 `json:"guard_redirects"`
}

func Snapshot() Stats {
	return Stats{
		BackendRequests: BackendRequests.Load(),
		BackendFailures: BackendFailures.Load(),
		GuardRedirects:  GuardRedirects.Load(),
	}
}
