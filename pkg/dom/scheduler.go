package dom

import (
	"sync"
	"time"
)

// noopHandle is returned when work ran synchronously.
type noopHandle struct{}

func (noopHandle) Cancel() {}

// NoopHandle returns a handle for work that has already run.
func NoopHandle() Handle { return noopHandle{} }

// ManualScheduler queues deferred work until Flush is called. It is the
// default scheduler for in-memory documents and gives tests precise
// control over when idle and timer callbacks fire.
type ManualScheduler struct {
	tasks []*manualTask
}

type manualTask struct {
	fn        func()
	cancelled bool
	done      bool
}

// Cancel prevents the task from running. Idempotent.
func (t *manualTask) Cancel() { t.cancelled = true }

// NewManualScheduler creates an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// DeferIdle queues fn; the timeout bound is meaningless under manual
// control and is ignored.
func (s *ManualScheduler) DeferIdle(timeout time.Duration, fn func()) Handle {
	return s.enqueue(fn)
}

// After queues fn; the delay is ignored.
func (s *ManualScheduler) After(d time.Duration, fn func()) Handle {
	return s.enqueue(fn)
}

func (s *ManualScheduler) enqueue(fn func()) Handle {
	t := &manualTask{fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Pending returns the number of queued, uncancelled tasks.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.done && !t.cancelled {
			n++
		}
	}
	return n
}

// Flush runs every task queued before the call. Tasks scheduled while
// flushing stay queued for the next Flush, mirroring how a browser
// would not run a timer scheduled from within a timer callback in the
// same turn.
func (s *ManualScheduler) Flush() {
	pending := s.tasks
	s.tasks = nil
	for _, t := range pending {
		if t.cancelled || t.done {
			continue
		}
		t.done = true
		t.fn()
	}
}

// TimerScheduler runs deferred work on real timers. A post function, if
// given, receives the callback and is responsible for running it on the
// owner's event loop; this is how live sessions keep the single-threaded
// dispatch model while using wall-clock timers.
type TimerScheduler struct {
	post func(func())

	mu      sync.Mutex
	pending map[*timerTask]struct{}
}

type timerTask struct {
	sched     *TimerScheduler
	timer     *time.Timer
	mu        sync.Mutex
	cancelled bool
}

// Cancel stops the timer if it has not fired. Idempotent.
func (t *timerTask) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
	t.timer.Stop()
	t.sched.forget(t)
}

// NewTimerScheduler creates a timer-backed scheduler. post may be nil,
// in which case callbacks run on the timer goroutine.
func NewTimerScheduler(post func(func())) *TimerScheduler {
	return &TimerScheduler{
		post:    post,
		pending: make(map[*timerTask]struct{}),
	}
}

// DeferIdle schedules fn as low-priority work bounded by timeout.
// Without an in-process idle primitive this degrades to the bounded
// timer, which is the contract's fallback tier.
func (s *TimerScheduler) DeferIdle(timeout time.Duration, fn func()) Handle {
	return s.After(timeout, fn)
}

// After schedules fn to run after d.
func (s *TimerScheduler) After(d time.Duration, fn func()) Handle {
	if d <= 0 {
		// Degraded host: no usable timer bound, run synchronously.
		s.run(fn)
		return NoopHandle()
	}
	t := &timerTask{sched: s}
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		cancelled := t.cancelled
		t.mu.Unlock()
		if cancelled {
			return
		}
		s.forget(t)
		s.run(fn)
	})
	s.mu.Lock()
	s.pending[t] = struct{}{}
	s.mu.Unlock()
	return t
}

func (s *TimerScheduler) run(fn func()) {
	if s.post != nil {
		s.post(fn)
		return
	}
	fn()
}

func (s *TimerScheduler) forget(t *timerTask) {
	s.mu.Lock()
	delete(s.pending, t)
	s.mu.Unlock()
}

// CancelAll cancels every pending timer. Used at session shutdown.
func (s *TimerScheduler) CancelAll() {
	s.mu.Lock()
	tasks := make([]*timerTask, 0, len(s.pending))
	for t := range s.pending {
		tasks = append(tasks, t)
	}
	s.pending = make(map[*timerTask]struct{})
	s.mu.Unlock()
	for _, t := range tasks {
		t.mu.Lock()
		t.cancelled = true
		t.mu.Unlock()
		t.timer.Stop()
	}
}
