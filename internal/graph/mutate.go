package graph

import (
	"context"
	"fmt"

	"github.com/dshills/dapdebug/internal/dap"
	"github.com/dshills/dapdebug/internal/scheduler"
	"github.com/dshills/dapdebug/internal/session"
)

// AttachSession wires sess's DAP client events onto gs, performing every
// mutation the entity graph is responsible for (§4.6): thread lifecycle,
// stop/continue, output capture, breakpoint verification, loaded
// sources, capability-driven exception filter bootstrapping, and
// cascading termination. Every handler runs as its own scheduler Task so
// concurrent adapter events are serialized onto the single turn token
// (§4.4) along with query and presentation code.
func AttachSession(d *Debugger, gs *Session, sess *session.Session, sched *scheduler.Scheduler) {
	client := sess.Client()
	gs.Client = client

	client.OnThread(func(body dap.ThreadEventBody) {
		sched.Post(func() { handleThread(gs, body) })
	})
	client.OnStopped(func(body dap.StoppedEventBody) {
		sched.Run(func(t *scheduler.Task) { handleStopped(t, d, gs, sess, body) })
	})
	client.OnContinued(func(body dap.ContinuedEventBody) {
		sched.Post(func() { handleContinued(gs, body) })
	})
	client.OnOutput(func(body dap.OutputEventBody) {
		sched.Post(func() { handleOutput(d, gs, body) })
	})
	client.OnBreakpoint(func(body dap.BreakpointEventBody) {
		sched.Post(func() { handleBreakpointEvent(gs, body) })
	})
	client.OnLoadedSource(func(body dap.LoadedSourceEventBody) {
		sched.Post(func() { d.ResolveSource(body.Source) })
	})
	client.OnCapabilities(func(body dap.CapabilitiesEventBody) {
		sched.Post(func() { applyCapabilities(d, gs, body.Capabilities) })
	})
	client.OnExited(func(body dap.ExitedEventBody) {
		sched.Post(func() { handleExited(gs) })
	})
	client.OnTerminated(func(dap.TerminatedEventBody) {
		sched.Post(func() { gs.Terminate() })
	})

	if caps := sess.Capabilities(); caps != nil {
		applyCapabilities(d, gs, *caps)
	}

	go func() {
		<-sess.Done()
		sched.Post(func() { gs.Terminate() })
	}()
}

func applyCapabilities(d *Debugger, gs *Session, caps dap.Capabilities) {
	gs.Caps.Set(caps)
	d.MergeExceptionFilters(caps.ExceptionBreakpointFilters)
}

func handleThread(gs *Session, body dap.ThreadEventBody) {
	uri := threadURI(gs.ID, body.ThreadID)
	switch body.Reason {
	case "started":
		if _, ok := gs.Threads.Get(uri); !ok {
			gs.NewThread(body.ThreadID, fmt.Sprintf("Thread %d", body.ThreadID))
		}
	case "exited":
		if th, ok := gs.Threads.Get(uri); ok {
			th.MarkExited()
			gs.Threads.Remove(uri)
		}
	}
}

func ensureThread(gs *Session, id int) *Thread {
	uri := threadURI(gs.ID, id)
	if th, ok := gs.Threads.Get(uri); ok {
		return th
	}
	return gs.NewThread(id, fmt.Sprintf("Thread %d", id))
}

func allKnownThreadIDs(gs *Session) []int {
	ids := make([]int, 0, gs.Threads.Len())
	for _, th := range gs.Threads.Iter() {
		ids = append(ids, th.ID)
	}
	return ids
}

// handleStopped runs inside its own Task since it blocks on stackTrace;
// Await releases the turn token for the round trip so other sessions'
// events still progress while this one fetches its stack (§4.4).
func handleStopped(t *scheduler.Task, d *Debugger, gs *Session, sess *session.Session, body dap.StoppedEventBody) {
	ids := []int{body.ThreadID}
	if body.AllThreadsStopped {
		ids = allKnownThreadIDs(gs)
	}
	for _, id := range ids {
		th := ensureThread(gs, id)
		th.MarkStopped(body.Reason, body.HitBreakpointIds)
		stack := fetchStackTrace(t, d, sess, th)
		applyHitMapping(gs, th, body, stack)
	}
	gs.State.Set(SessionStopped)
}

func handleContinued(gs *Session, body dap.ContinuedEventBody) {
	ids := []int{body.ThreadID}
	if body.AllThreadsContinued {
		ids = allKnownThreadIDs(gs)
	}
	for _, id := range ids {
		ensureThread(gs, id).MarkContinued()
	}
	gs.State.Set(SessionRunning)
}

func handleExited(gs *Session) {
	for _, th := range gs.Threads.Iter() {
		th.MarkExited()
	}
}

func handleOutput(d *Debugger, gs *Session, body dap.OutputEventBody) {
	var src *Source
	if body.Source != nil {
		src = d.ResolveSource(*body.Source)
	}
	gs.AppendOutput(body.Category, body.Output, src, body.Line)
}

func handleBreakpointEvent(gs *Session, body dap.BreakpointEventBody) {
	for _, b := range gs.BreakpointBindings.Iter() {
		if b.AdapterID == body.Breakpoint.ID {
			switch body.Reason {
			case "removed":
				b.Remove()
			default:
				b.Update(body.Breakpoint)
			}
			return
		}
	}
}

// callAsync runs fn on its own goroutine and Awaits its result from t,
// releasing the turn token for the duration of the call — the bridge every
// blocking dap.Client request needs to cooperate with the scheduler.
func callAsync[T any](t *scheduler.Task, fn func() (T, error)) (T, error) {
	fut := scheduler.NewFuture[T]()
	go func() {
		v, err := fn()
		fut.Resolve(v, err)
	}()
	return scheduler.Await(t, fut)
}

// fetchStackTrace fetches and builds a fresh Stack for th, resolving and
// binding each frame's Source along the way. Returns nil on error (adapter
// unreachable, thread resumed mid-fetch, etc.) — callers treat a nil stack
// as "no stack available" rather than failing the whole stop handler.
func fetchStackTrace(t *scheduler.Task, d *Debugger, sess *session.Session, th *Thread) *Stack {
	resp, err := callAsync(t, func() (*dap.StackTraceResponseBody, error) {
		return sess.Client().StackTrace(context.Background(), dap.StackTraceArguments{ThreadID: th.ID})
	})
	if err != nil || resp == nil {
		return nil
	}
	if t.Preempted() {
		return nil
	}
	stack := th.NewStack()
	for i, raw := range resp.StackFrames {
		frame := stack.AddFrame(i, raw)
		if raw.Source != nil {
			src := d.ResolveSource(*raw.Source)
			frame.Source.Set(src)
		}
	}
	return stack
}

// applyHitMapping marks which BreakpointBindings were hit by this stop.
// When the adapter supplies hitBreakpointIds, those are authoritative; when
// it omits them (some adapters don't fill the field) this falls back to
// matching bindings at the top frame's source+line, the polyfill from
// SPEC_FULL.md §1.3.
func applyHitMapping(gs *Session, th *Thread, body dap.StoppedEventBody, stack *Stack) {
	for _, b := range gs.BreakpointBindings.Iter() {
		b.ClearHit()
	}
	if len(body.HitBreakpointIds) > 0 {
		for _, id := range body.HitBreakpointIds {
			for _, b := range gs.BreakpointBindings.Iter() {
				if b.AdapterID == id {
					b.Hit.Set(true)
				}
			}
		}
		return
	}
	if body.Reason != "breakpoint" || stack == nil {
		return
	}
	frames := stack.Frames.Iter()
	if len(frames) == 0 {
		return
	}
	top := frames[0]
	for _, b := range gs.BreakpointBindings.Iter() {
		loc := b.Breakpoint.Location
		if loc.Path == "" {
			continue
		}
		src := top.Source.Get()
		if src == nil || src.Path != loc.Path {
			continue
		}
		line := b.ActualLine.Get()
		if line == 0 {
			line = loc.Line
		}
		if line == top.Line.Get() {
			b.Hit.Set(true)
		}
	}
}
