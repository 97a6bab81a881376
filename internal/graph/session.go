package graph

import (
	"fmt"

	"github.com/dshills/dapdebug/internal/dap"
	"github.com/dshills/dapdebug/internal/reactive"
)

// SessionState mirrors the Session Runtime's externally-observable state
// (§3's invariant: "monotonically advances through starting → running →
// (stopped ⇄ running)* → terminated; no reverse transition").
type SessionState string

const (
	SessionStarting   SessionState = "starting"
	SessionRunning    SessionState = "running"
	SessionStopped    SessionState = "stopped"
	SessionTerminated SessionState = "terminated"
)

// Session is the graph's view of one debug session: reactive state plus
// the collections of everything it owns.
type Session struct {
	Entity

	ID     string
	Name   *reactive.Signal[string]
	State  *reactive.Signal[SessionState]
	Caps   *reactive.Signal[dap.Capabilities]
	Parent *Session

	// Client is the session's DAP protocol client, attached by
	// AttachSession once the session.Session wiring exists (mutate.go);
	// nil until then.
	Client *dap.Client

	Threads                *reactive.Collection[*Thread]
	SourceBindings          *reactive.Collection[*SourceBinding]
	BreakpointBindings      *reactive.Collection[*BreakpointBinding]
	ExceptionFilterBindings *reactive.Collection[*ExceptionFilterBinding]
	Outputs                 *reactive.Collection[*Output]
	Children                *reactive.Collection[*Session]

	nextOutputSeq int
}

// NewSession creates a Session entity under the Debugger, nested under
// parent if this session was created via startDebugging.
func (d *Debugger) NewSession(id string, parent *Session) *Session {
	var scope = d.Scope()
	if parent != nil {
		scope = parent.Scope()
	}
	s := &Session{
		Entity:                  NewEntity(sessionURI(id), "session", scope),
		ID:                      id,
		Name:                    reactive.NewSignal(id),
		State:                   reactive.NewSignal(SessionStarting),
		Caps:                    reactive.NewSignal(dap.Capabilities{}),
		Parent:                  parent,
		Threads:                 reactive.NewCollection[*Thread](),
		SourceBindings:          reactive.NewCollection[*SourceBinding](),
		BreakpointBindings:      reactive.NewCollection[*BreakpointBinding](),
		ExceptionFilterBindings: reactive.NewCollection[*ExceptionFilterBinding](),
		Outputs:                 reactive.NewCollection[*Output](),
		Children:                reactive.NewCollection[*Session](),
	}
	d.Sessions.Add(s.URI(), s)
	if parent != nil {
		parent.Children.Add(s.URI(), s)
	}
	return s
}

func sessionURI(id string) string { return fmt.Sprintf("/sessions:%s", id) }

// Terminate transitions the session to terminated and cascades destruction
// to everything it owns (§3's "destroying a Session destroys its
// Threads→Stacks→Frames→Scopes→Variables and SourceBindings and
// BreakpointBindings").
func (s *Session) Terminate() {
	s.State.Set(SessionTerminated)
	s.Destroy()
}

// NextOutputSeq allocates the next append-only Output sequence number.
func (s *Session) NextOutputSeq() int {
	s.nextOutputSeq++
	return s.nextOutputSeq
}
