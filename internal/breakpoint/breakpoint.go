package breakpoint

import (
	"sync"

	"github.com/dshills/dapdebug/internal/graph"
	"github.com/dshills/dapdebug/internal/scheduler"
	"github.com/dshills/dapdebug/internal/session"
)

// Engine owns breakpoint intent and drives its reconciliation against every
// attached session's adapter (§4.8). It does not own the Breakpoint or
// BreakpointBinding entities themselves — those live on the Debugger and
// Session graph objects — only the sync scheduling that keeps them in
// agreement with the adapter.
type Engine struct {
	debugger *graph.Debugger
	sched    *scheduler.Scheduler

	mu       sync.Mutex
	sessions map[string]registeredSession
	pending  map[syncKey]bool

	onBreakpointFailed func(bp *graph.Breakpoint, gs *graph.Session, message string)
}

type registeredSession struct {
	graph   *graph.Session
	session *session.Session
}

// New creates an Engine bound to d, scheduling all syncs as tasks on sched.
func New(d *graph.Debugger, sched *scheduler.Scheduler) *Engine {
	return &Engine{
		debugger: d,
		sched:    sched,
		sessions: make(map[string]registeredSession),
		pending:  make(map[syncKey]bool),
	}
}

// RegisterSession makes gs/sess a sync target; call once a session reaches
// Ready so addBreakpoint/resyncBreakpoint can find it.
func (e *Engine) RegisterSession(gs *graph.Session, sess *session.Session) {
	e.mu.Lock()
	e.sessions[gs.ID] = registeredSession{graph: gs, session: sess}
	e.mu.Unlock()
}

// OnBreakpointFailed registers fn to be invoked whenever a sync sends a
// breakpoint to an adapter and it comes back unverified (§4.8; §7's
// BreakpointVerificationError), including the first sync for a breakpoint
// that never gained a binding at all.
func (e *Engine) OnBreakpointFailed(fn func(bp *graph.Breakpoint, gs *graph.Session, message string)) {
	e.mu.Lock()
	e.onBreakpointFailed = fn
	e.mu.Unlock()
}

func (e *Engine) emitBreakpointFailed(bp *graph.Breakpoint, gs *graph.Session, message string) {
	e.mu.Lock()
	fn := e.onBreakpointFailed
	e.mu.Unlock()
	if fn != nil {
		fn(bp, gs, message)
	}
}

// UnregisterSession drops gs from future syncs (called on session
// termination); a sync already pending for it returns without contacting
// the adapter once its batch window ends (see QueueSourceSync).
func (e *Engine) UnregisterSession(sessionID string) {
	e.mu.Lock()
	delete(e.sessions, sessionID)
	e.mu.Unlock()
}

func (e *Engine) registeredSessions() []registeredSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]registeredSession, 0, len(e.sessions))
	for _, rs := range e.sessions {
		out = append(out, rs)
	}
	return out
}

// AddBreakpoint returns the existing Breakpoint at loc if one exists;
// otherwise it allocates a new one and schedules a sync for every session
// that already has loc.Path loaded.
func (e *Engine) AddBreakpoint(loc graph.Location, condition, hitCondition, logMessage string) *graph.Breakpoint {
	if existing := e.debugger.FindBreakpointByLocation(loc); existing != nil {
		return existing
	}
	bp := e.debugger.NewBreakpoint(loc, condition, hitCondition, logMessage)
	e.scheduleSyncsForPath(loc.Path)
	return bp
}

// RemoveBreakpoint destroys bp and its bindings, then schedules a sync per
// session so the adapter is told to drop it.
func (e *Engine) RemoveBreakpoint(bp *graph.Breakpoint) {
	path := bp.Location.Path
	e.debugger.RemoveBreakpoint(bp)
	e.scheduleSyncsForPath(path)
}

// ToggleBreakpoint removes the Breakpoint at loc if one exists, else adds
// it; returns the surviving Breakpoint, or nil if this call removed one.
func (e *Engine) ToggleBreakpoint(loc graph.Location) *graph.Breakpoint {
	if existing := e.debugger.FindBreakpointByLocation(loc); existing != nil {
		e.RemoveBreakpoint(existing)
		return nil
	}
	return e.AddBreakpoint(loc, "", "", "")
}

// ResyncBreakpoint re-schedules a sync for every session with bp's source
// loaded — used after editing condition/hitCondition/logMessage/enabled.
func (e *Engine) ResyncBreakpoint(bp *graph.Breakpoint) {
	e.scheduleSyncsForPath(bp.Location.Path)
}

func (e *Engine) scheduleSyncsForPath(path string) {
	if path == "" {
		return
	}
	src := e.findSourceByPath(path)
	if src == nil {
		return
	}
	for _, rs := range e.registeredSessions() {
		if sessionHasSource(rs.graph, src) {
			e.QueueSourceSync(rs.session, rs.graph, src)
		}
	}
}

func (e *Engine) findSourceByPath(path string) *graph.Source {
	for _, src := range e.debugger.Sources().Iter() {
		if src.Path == path {
			return src
		}
	}
	return nil
}
