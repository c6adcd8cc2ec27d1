package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Inc()
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(50), c.Load())
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, timer.Duration(), time.Millisecond)
}

func TestSnapshot(t *testing.T) {
	before := Snapshot()

	BackendRequests.Inc()
	BackendFailures.Inc()
	GuardRedirects.Inc()

	after := Snapshot()
	assert.Equal(t, before.BackendRequests+1, after.BackendRequests)
	assert.Equal(t, before.BackendFailures+1, after.BackendFailures)
	assert.Equal(t, before.GuardRedirects+1, after.GuardRedirects)
}
