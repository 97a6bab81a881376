package graph

import (
	"fmt"

	"github.com/dshills/dapdebug/internal/reactive"
)

// ThreadState mirrors §3: "stopped iff the most recent Thread event for
// its id was stopped/paused without an intervening continued."
type ThreadState string

const (
	ThreadRunning ThreadState = "running"
	ThreadStopped ThreadState = "stopped"
	ThreadExited  ThreadState = "exited"
)

// Thread is a session's thread of execution. CurrentStack holds the single
// live Stack while stopped (§3: "a Stack entity exists only while its
// Thread is stopped; on resume it is cleared").
type Thread struct {
	Entity

	Session           *Session
	ID                int
	Name              *reactive.Signal[string]
	State             *reactive.Signal[ThreadState]
	LastStoppedReason *reactive.Signal[string]
	HitBreakpointIDs  *reactive.Signal[[]int]

	CurrentStack *reactive.Signal[*Stack]

	nextStackSeq int
}

// NewThread creates a Thread entity owned by the session.
func (s *Session) NewThread(id int, name string) *Thread {
	t := &Thread{
		Entity:            NewEntity(threadURI(s.ID, id), "thread", s.Scope()),
		Session:           s,
		ID:                id,
		Name:              reactive.NewSignal(name),
		State:             reactive.NewSignal(ThreadRunning),
		LastStoppedReason: reactive.NewSignal(""),
		HitBreakpointIDs:  reactive.NewSignal[[]int](nil),
		CurrentStack:      reactive.NewSignal[*Stack](nil),
	}
	s.Threads.Add(t.URI(), t)
	return t
}

func threadURI(sessionID string, threadID int) string {
	return fmt.Sprintf("%s/threads:%d", sessionURI(sessionID), threadID)
}

// MarkStopped records a stop: advances state, reason, and the hit
// breakpoint set (before hit-mapping runs over it), and destroys and clears
// the previous Stack ahead of the forthcoming stackTrace fetch.
func (t *Thread) MarkStopped(reason string, hitIDs []int) {
	t.State.Set(ThreadStopped)
	t.LastStoppedReason.Set(reason)
	t.HitBreakpointIDs.Set(hitIDs)
	if old := t.CurrentStack.Get(); old != nil {
		old.Destroy()
	}
	t.CurrentStack.Set(nil)
}

// MarkContinued clears the current Stack and returns to running.
func (t *Thread) MarkContinued() {
	t.State.Set(ThreadRunning)
	if old := t.CurrentStack.Get(); old != nil {
		old.Destroy()
	}
	t.CurrentStack.Set(nil)
}

// MarkExited marks the thread exited and destroys its current stack.
func (t *Thread) MarkExited() {
	t.State.Set(ThreadExited)
	if old := t.CurrentStack.Get(); old != nil {
		old.Destroy()
	}
	t.CurrentStack.Set(nil)
}

// NewStack replaces the thread's current Stack (e.g. after fetchStackTrace
// completes), destroying the previous one, with seq monotonically
// increasing per stop.
func (t *Thread) NewStack() *Stack {
	if old := t.CurrentStack.Get(); old != nil {
		old.Destroy()
	}
	t.nextStackSeq++
	st := &Stack{
		Entity: NewEntity(fmt.Sprintf("%s/stack", t.URI()), "stack", t.Scope()),
		Thread: t,
		Seq:    t.nextStackSeq,
		Frames: reactive.NewCollection[*Frame](),
	}
	t.CurrentStack.Set(st)
	return st
}

// Stack returns the CurrentStack signal; it is the edge a URL query's
// `stack` segment traverses from a thread.
func (t *Thread) Stack() *reactive.Signal[*Stack] { return t.CurrentStack }
