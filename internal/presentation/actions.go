package presentation

import (
	"context"
	"fmt"

	"github.com/dshills/dapdebug/internal/breakpoint"
	"github.com/dshills/dapdebug/internal/dap"
	"github.com/dshills/dapdebug/internal/graph"
)

type inputKey struct{}

// WithInput attaches free-form edit text (from edit_condition and friends)
// to ctx, the only channel an ActionFunc has for input beyond the entity
// itself (§4.10's single (name, entity) action interface).
func WithInput(ctx context.Context, value string) context.Context {
	return context.WithValue(ctx, inputKey{}, value)
}

func inputFromContext(ctx context.Context) string {
	v, _ := ctx.Value(inputKey{}).(string)
	return v
}

// InstallBreakpointActions registers the baseline breakpoint/binding action
// set (§4.9), all driven through engine so sync scheduling stays coalesced
// and owned in one place.
func InstallBreakpointActions(r *Registry, engine *breakpoint.Engine) {
	r.RegisterAction("toggle", "breakpoint", func(_ context.Context, e interface{}) error {
		bp := e.(*graph.Breakpoint)
		bp.Enabled.Set(!bp.Enabled.Get())
		engine.ResyncBreakpoint(bp)
		return nil
	})
	r.RegisterAction("enable", "breakpoint", func(_ context.Context, e interface{}) error {
		bp := e.(*graph.Breakpoint)
		bp.Enabled.Set(true)
		engine.ResyncBreakpoint(bp)
		return nil
	})
	r.RegisterAction("disable", "breakpoint", func(_ context.Context, e interface{}) error {
		bp := e.(*graph.Breakpoint)
		bp.Enabled.Set(false)
		engine.ResyncBreakpoint(bp)
		return nil
	})
	r.RegisterAction("remove", "breakpoint", func(_ context.Context, e interface{}) error {
		engine.RemoveBreakpoint(e.(*graph.Breakpoint))
		return nil
	})
	r.RegisterAction("edit_condition", "breakpoint", func(ctx context.Context, e interface{}) error {
		bp := e.(*graph.Breakpoint)
		bp.Condition.Set(inputFromContext(ctx))
		engine.ResyncBreakpoint(bp)
		return nil
	})
	r.RegisterAction("edit_hit_condition", "breakpoint", func(ctx context.Context, e interface{}) error {
		bp := e.(*graph.Breakpoint)
		bp.HitCondition.Set(inputFromContext(ctx))
		engine.ResyncBreakpoint(bp)
		return nil
	})
	r.RegisterAction("edit_log_message", "breakpoint", func(ctx context.Context, e interface{}) error {
		bp := e.(*graph.Breakpoint)
		bp.LogMessage.Set(inputFromContext(ctx))
		engine.ResyncBreakpoint(bp)
		return nil
	})

	r.RegisterAction("clear_override", "breakpointBinding", func(_ context.Context, e interface{}) error {
		b := e.(*graph.BreakpointBinding)
		b.ConditionOverride = nil
		b.HitConditionOverride = nil
		b.LogMessageOverride = nil
		b.EnabledOverride = nil
		engine.ResyncBreakpoint(b.Breakpoint)
		return nil
	})
}

// InstallSessionActions registers the baseline execution-control action set
// (§4.9) against session and thread entities, dispatched directly through
// the graph's attached dap.Client.
func InstallSessionActions(r *Registry) {
	r.RegisterAction("continue", "session", func(ctx context.Context, e interface{}) error {
		s := e.(*graph.Session)
		th := anyThread(s)
		if th == nil {
			return fmt.Errorf("presentation: session %s has no thread to continue", s.ID)
		}
		_, err := s.Client.Continue(ctx, dap.ContinueArguments{ThreadID: th.ID})
		return err
	})
	r.RegisterAction("pause", "session", func(ctx context.Context, e interface{}) error {
		s := e.(*graph.Session)
		th := anyThread(s)
		if th == nil {
			return fmt.Errorf("presentation: session %s has no thread to pause", s.ID)
		}
		return s.Client.Pause(ctx, dap.PauseArguments{ThreadID: th.ID})
	})
	r.RegisterAction("terminate", "session", func(ctx context.Context, e interface{}) error {
		s := e.(*graph.Session)
		return s.Client.Terminate(ctx, dap.TerminateArguments{})
	})
	r.RegisterAction("disconnect", "session", func(ctx context.Context, e interface{}) error {
		s := e.(*graph.Session)
		return s.Client.Disconnect(ctx, dap.DisconnectArguments{})
	})

	r.RegisterAction("continue", "thread", func(ctx context.Context, e interface{}) error {
		t := e.(*graph.Thread)
		_, err := t.Session.Client.Continue(ctx, dap.ContinueArguments{ThreadID: t.ID})
		return err
	})
	r.RegisterAction("pause", "thread", func(ctx context.Context, e interface{}) error {
		t := e.(*graph.Thread)
		return t.Session.Client.Pause(ctx, dap.PauseArguments{ThreadID: t.ID})
	})
	r.RegisterAction("step_over", "thread", func(ctx context.Context, e interface{}) error {
		t := e.(*graph.Thread)
		return t.Session.Client.Next(ctx, dap.NextArguments{ThreadID: t.ID})
	})
	r.RegisterAction("step_in", "thread", func(ctx context.Context, e interface{}) error {
		t := e.(*graph.Thread)
		return t.Session.Client.StepIn(ctx, dap.StepInArguments{ThreadID: t.ID})
	})
	r.RegisterAction("step_out", "thread", func(ctx context.Context, e interface{}) error {
		t := e.(*graph.Thread)
		return t.Session.Client.StepOut(ctx, dap.StepOutArguments{ThreadID: t.ID})
	})
}

func anyThread(s *graph.Session) *graph.Thread {
	threads := s.Threads.Iter()
	if len(threads) == 0 {
		return nil
	}
	return threads[0]
}
