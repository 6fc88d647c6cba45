package settlement

import (
	"sync"
	"time"
)

// ExpiryScheduler arms the single expiry check a payment window gets.
type ExpiryScheduler interface {
	Schedule(windowID string, deadline time.Time)
	Cancel(windowID string)
}

// TimerScheduler fires exactly one expiry callback per window at its
// absolute deadline. Remaining time is recomputed from the stored
// deadline, so rescheduling after a process restart never resets a timer:
// an already-elapsed deadline fires immediately.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	expire func(windowID string)
	now    func() time.Time
}

func NewTimerScheduler(expire func(windowID string)) *TimerScheduler {
	return &TimerScheduler{
		timers: make(map[string]*time.Timer),
		expire: expire,
		now:    time.Now,
	}
}

func (s *TimerScheduler) Schedule(windowID string, deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.timers[windowID]; ok {
		return
	}

	remaining := deadline.Sub(s.now())
	if remaining < 0 {
		remaining = 0
	}

	s.timers[windowID] = time.AfterFunc(remaining, func() {
		s.mu.Lock()
		delete(s.timers, windowID)
		s.mu.Unlock()
		s.expire(windowID)
	})
}

func (s *TimerScheduler) Cancel(windowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[windowID]; ok {
		t.Stop()
		delete(s.timers, windowID)
	}
}
