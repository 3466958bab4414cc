package daemonlifecycle

import (
	"sync"
	"sync/atomic"
	"time"
)

// IdleMonitor tracks time since the last recorded activity and Run
// reports expiry once that gap reaches timeout. A timeout of zero disables the
// monitor entirely (the daemon runs until explicitly stopped).
type IdleMonitor struct {
	timeout time.Duration
	lastNS  int64

	mu       sync.Mutex
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewIdleMonitor creates a monitor with the given idle timeout.
func NewIdleMonitor(timeout time.Duration) *IdleMonitor {
	m := &IdleMonitor{timeout: timeout, stopCh: make(chan struct{})}
	m.Touch()
	return m
}

// Touch records activity now, resetting the idle clock.
func (m *IdleMonitor) Touch() {
	atomic.StoreInt64(&m.lastNS, time.Now().UnixNano())
}

// Stop releases the monitor's internal goroutine-coordination resources.
func (m *IdleMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Run blocks until either the idle timeout elapses with no Touch calls
// (in which case it returns true) or Stop is called (returns false).
func (m *IdleMonitor) Run() bool {
	if m.timeout <= 0 {
		<-m.stopCh
		return false
	}

	ticker := time.NewTicker(m.timeout / 4)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return false
		case <-ticker.C:
			last := time.Unix(0, atomic.LoadInt64(&m.lastNS))
			if time.Since(last) >= m.timeout {
				return true
			}
		}
	}
}
