package orders

import (
	"sync"
	"time"

	"github.com/mcoot/rustdonate/internal/dependencies/clock"
	"github.com/mcoot/rustdonate/internal/model"
)

// Scheduler runs one deferred task per order after a delay. Tasks can be
// cancelled individually or all at once on Close.
type Scheduler struct {
	clock clock.Clock

	mu     sync.Mutex
	timers map[model.OrderID]clock.Timer
	closed bool
	wg     sync.WaitGroup
}

// NewScheduler creates a Scheduler driven by clk
func NewScheduler(clk clock.Clock) *Scheduler {
	return &Scheduler{
		clock:  clk,
		timers: make(map[model.OrderID]clock.Timer),
	}
}

// Schedule arranges for task to run once after delay. It returns false if the
// scheduler is closed or a task is already scheduled for id.
func (s *Scheduler) Schedule(id model.OrderID, delay time.Duration, task func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if _, exists := s.timers[id]; exists {
		return false
	}

	s.wg.Add(1)
	s.timers[id] = s.clock.AfterFunc(delay, func() {
		defer s.wg.Done()
		if !s.claim(id) {
			return
		}
		task()
	})
	return true
}

// claim removes id from the pending set, reporting whether it was still there
func (s *Scheduler) claim(id model.OrderID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timers[id]; !ok {
		return false
	}
	delete(s.timers, id)
	return true
}

// Cancel prevents the task for id from running. It returns false if there was
// no pending task for id.
func (s *Scheduler) Cancel(id model.OrderID) bool {
	s.mu.Lock()
	timer, ok := s.timers[id]
	delete(s.timers, id)
	s.mu.Unlock()

	if !ok {
		return false
	}
	if timer.Stop() {
		s.wg.Done()
	}
	return true
}

// Pending returns the number of tasks waiting to fire
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Close cancels every pending task and waits for running ones to finish
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	timers := s.timers
	s.timers = make(map[model.OrderID]clock.Timer)
	s.mu.Unlock()

	for _, timer := range timers {
		if timer.Stop() {
			s.wg.Done()
		}
	}
	s.wg.Wait()
}
