// Package scheduler implements the Async Scheduler (C4): a single-threaded
// cooperative task runner. Tasks are goroutines, but at most one of them
// ever executes host-visible code at a time — mimicking a single main
// thread the way a host editor's own API requires (see doc.go). Contrast
// with the teacher's AsyncDispatcher (internal/dispatcher), a genuine
// worker pool; that shape is reused here only for its panic-recovery and
// stats idioms, never its concurrency model (SPEC_FULL.md §9).
package scheduler

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Scheduler grants a single cooperative "turn" token: a task holds it while
// running user code and releases it only while awaiting something, so
// handlers never observe concurrent callbacks.
type Scheduler struct {
	turn chan struct{}

	mu    sync.Mutex
	tasks map[string]*Task

	panics  atomic.Int64
	resumes atomic.Int64

	closed atomic.Bool
}

// New creates a Scheduler and grants it the initial turn token.
func New() *Scheduler {
	s := &Scheduler{
		turn:  make(chan struct{}, 1),
		tasks: make(map[string]*Task),
	}
	s.turn <- struct{}{}
	return s
}

// Stats reports scheduler activity counters.
type Stats struct {
	Panics  int64
	Resumes int64
	Running int
}

func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	n := len(s.tasks)
	s.mu.Unlock()
	return Stats{Panics: s.panics.Load(), Resumes: s.resumes.Load(), Running: n}
}

// acquire blocks until this goroutine holds the single turn token.
func (s *Scheduler) acquire() {
	<-s.turn
}

// release hands the turn token back, letting another awaiting task (or a
// resumed continuation) proceed.
func (s *Scheduler) release() {
	s.turn <- struct{}{}
}

// Run starts f as a new Task. f runs with exclusive access to the turn
// token except while blocked inside Await. Run returns immediately; the
// task runs on its own goroutine.
func (s *Scheduler) Run(f func(t *Task)) *Task {
	id := uuid.New().String()
	t := &Task{id: id, sched: s, done: make(chan struct{})}
	s.mu.Lock()
	s.tasks[id] = t
	s.mu.Unlock()

	go func() {
		s.acquire()
		defer func() {
			if r := recover(); r != nil {
				s.panics.Add(1)
				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)
				t.setPanic(fmt.Errorf("scheduler: task panic: %v\n%s", r, buf[:n]))
			}
			t.runCleanups()
			s.mu.Lock()
			delete(s.tasks, id)
			s.mu.Unlock()
			close(t.done)
			s.release()
		}()
		f(t)
	}()

	return t
}

// Post schedules f to run as its own task with no cancellation context of
// its own, useful for one-shot host callbacks (e.g. a timer firing).
func (s *Scheduler) Post(f func()) *Task {
	return s.Run(func(*Task) { f() })
}

// Close cancels every currently-running task. Tasks observe cancellation
// the next time they call Preempted, not instantaneously: this
// scheduler has no preemption, only cooperative yield points.
func (s *Scheduler) Close() {
	s.closed.Store(true)
	s.mu.Lock()
	tasks := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	s.mu.Unlock()
	for _, t := range tasks {
		t.Cancel()
	}
}
