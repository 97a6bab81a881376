package breakpoint

import (
	"context"
	"time"

	"github.com/dshills/dapdebug/internal/dap"
	"github.com/dshills/dapdebug/internal/graph"
	"github.com/dshills/dapdebug/internal/scheduler"
	"github.com/dshills/dapdebug/internal/session"
)

// batchWindow is the coalescing delay §4.8 specifies: multiple rapid edits
// (toggle, condition change) to the same (session, source) collapse into a
// single adapter round trip.
const batchWindow = 50 * time.Millisecond

type syncKey struct {
	sessionID string
	sourceKey string
}

// QueueSourceSync schedules a sync of every Breakpoint located in src for
// gs/sess, coalescing with any sync already pending for the same
// (session, source) pair.
func (e *Engine) QueueSourceSync(sess *session.Session, gs *graph.Session, src *graph.Source) {
	key := syncKey{sessionID: gs.ID, sourceKey: src.Key}

	e.mu.Lock()
	if e.pending[key] {
		e.mu.Unlock()
		return
	}
	e.pending[key] = true
	e.mu.Unlock()

	e.sched.Run(func(t *scheduler.Task) {
		scheduler.Await(t, scheduler.After(batchWindow))

		e.mu.Lock()
		delete(e.pending, key)
		_, registered := e.sessions[gs.ID]
		e.mu.Unlock()

		if t.Preempted() || !registered {
			return
		}
		e.syncSource(t, sess, gs, src)
	})
}

// syncSource runs the per-source reconciliation algorithm from §4.8: build
// a payload skipping disabled breakpoints, send setBreakpoints, then align
// the adapter's result back onto the payload order to create, update, or
// drop Bindings.
func (e *Engine) syncSource(t *scheduler.Task, sess *session.Session, gs *graph.Session, src *graph.Source) {
	bps := breakpointsAtPath(e.debugger, src.Path)
	existing := existingBindings(gs, src.Path)

	var payload []dap.SourceBreakpoint
	var order []*graph.Breakpoint
	for _, bp := range bps {
		eb, had := existing[bp.ID]
		enabled := bp.EffectiveEnabled()
		if had {
			enabled = eb.EffectiveEnabled()
		}
		if !enabled {
			continue
		}
		if had {
			payload = append(payload, eb.ToDAPBreakpoint())
		} else {
			payload = append(payload, bp.ToDAPBreakpoint())
		}
		order = append(order, bp)
	}

	result, err := callAsync(t, func() ([]dap.Breakpoint, error) {
		return sess.Client().SetBreakpoints(context.Background(), dap.SetBreakpointsArguments{
			Source:      toDAPSource(src),
			Breakpoints: payload,
		})
	})
	if err != nil || t.Preempted() {
		return
	}

	// result[i] aligns with payload[i]/order[i]: authoritative per DAP.
	processed := make(map[string]bool, len(order))
	for i, dapBp := range result {
		if i >= len(order) {
			break
		}
		bp := order[i]
		eb, had := existing[bp.ID]
		if dapBp.Verified {
			if had {
				eb.Update(dapBp)
			} else {
				gs.NewBinding(bp, dapBp)
			}
			processed[bp.ID] = true
		} else {
			if had {
				eb.Remove()
			}
			e.emitBreakpointFailed(bp, gs, dapBp.Message)
		}
	}
	for id, eb := range existing {
		if !processed[id] {
			eb.Remove()
		}
	}
}

func toDAPSource(src *graph.Source) dap.Source {
	raw := src.Raw.Get()
	if raw.Path == "" {
		raw.Path = src.Path
	}
	return raw
}

// callAsync runs fn on its own goroutine and Awaits the result from t,
// releasing the scheduler's turn token for the round trip.
func callAsync[T any](t *scheduler.Task, fn func() (T, error)) (T, error) {
	fut := scheduler.NewFuture[T]()
	go func() {
		v, err := fn()
		fut.Resolve(v, err)
	}()
	return scheduler.Await(t, fut)
}
