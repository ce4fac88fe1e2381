package metaview

import (
	"sync"
	"time"
)

// timer is the part of *time.Timer the scheduler uses.
type timer interface {
	Reset(d time.Duration) bool
	Stop() bool
}

// Scheduler coalesces bursts of notifications into a single delayed call.
// A notification that arrives while a call is pending buys one more wait.
type Scheduler struct {
	delay time.Duration
	fn    func()

	afterFunc func(time.Duration, func()) timer

	mu    sync.Mutex
	t     timer
	gen   int
	again bool
}

// NewScheduler returns a scheduler that calls fn once per burst, delay after the burst begins.
func NewScheduler(delay time.Duration, fn func()) *Scheduler {
	return &Scheduler{
		delay: delay,
		fn:    fn,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
	}
}

// Trigger notes that a redraw is needed.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.t == nil {
		s.gen++
		gen := s.gen
		s.t = s.afterFunc(s.delay, func() { s.fire(gen) })
		return
	}
	s.again = true
}

// Pending reports whether a call is scheduled.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t != nil
}

// Stop cancels any pending call.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.t != nil {
		s.t.Stop()
	}
	s.t = nil
	s.again = false
}

func (s *Scheduler) fire(gen int) {
	s.mu.Lock()
	if s.t == nil || gen != s.gen {
		s.mu.Unlock()
		return
	}
	if s.again {
		s.again = false
		s.t.Reset(s.delay)
		s.mu.Unlock()
		return
	}
	s.t = nil
	s.mu.Unlock()

	s.fn()
}
