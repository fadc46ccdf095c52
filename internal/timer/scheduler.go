package timer

import (
	"sync"
	"time"
)

// Cancel stops a scheduled task. It is safe to call more than once and from
// inside the task itself.
type Cancel func()

// Scheduler runs cancellable repeating and one-shot tasks.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Cancel
	After(delay time.Duration, fn func()) Cancel
}

// RealScheduler runs tasks on wall-clock time in background goroutines.
type RealScheduler struct{}

func (RealScheduler) Every(interval time.Duration, fn func()) Cancel {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

func (RealScheduler) After(delay time.Duration, fn func()) Cancel {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}

// ManualScheduler only runs tasks when Advance moves its virtual clock.
// Tasks run synchronously on the caller of Advance, in due order.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks map[int]*manualTask
}

type manualTask struct {
	id       int
	due      time.Duration
	interval time.Duration
	fn       func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{tasks: make(map[int]*manualTask)}
}

func (s *ManualScheduler) Every(interval time.Duration, fn func()) Cancel {
	return s.add(interval, interval, fn)
}

func (s *ManualScheduler) After(delay time.Duration, fn func()) Cancel {
	return s.add(delay, 0, fn)
}

func (s *ManualScheduler) add(delay, interval time.Duration, fn func()) Cancel {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := s.seq
	s.tasks[id] = &manualTask{id: id, due: s.now + delay, interval: interval, fn: fn}
	return func() {
		s.mu.Lock()
		delete(s.tasks, id)
		s.mu.Unlock()
	}
}

// Advance moves the clock forward by d, running every task that falls due.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var next *manualTask
		for _, t := range s.tasks {
			if t.due > target {
				continue
			}
			if next == nil || t.due < next.due || (t.due == next.due && t.id < next.id) {
				next = t
			}
		}
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.due
		if next.interval > 0 {
			next.due += next.interval
		} else {
			delete(s.tasks, next.id)
		}
		fn := next.fn
		s.mu.Unlock()

		fn()
	}
}

// Pending returns the number of scheduled tasks
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Elapsed returns the virtual time advanced so far
func (s *ManualScheduler) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}
