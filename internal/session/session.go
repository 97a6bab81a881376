// Package session drives one Session Runtime (C3) state machine per debug
// session: the initialize/launch-attach/configurationDone handshake,
// reverse-request defaults, child-session spawning via startDebugging, and
// ordered shutdown.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/dapdebug/internal/dap"
)

// State is a position in the Session Runtime state machine (§4.3).
type State int

const (
	StateStarting State = iota
	StateAwaitingInitialized
	StateReady
	StateRunning
	StateStopped
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateAwaitingInitialized:
		return "awaiting_initialized"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// MaxDepth bounds startDebugging child nesting (§4.3, error table SessionDepthExceeded).
const MaxDepth = 5

// StartupTimeout bounds the whole initialize/launch/configurationDone handshake.
const StartupTimeout = 30 * time.Second

// Hooks lets a host customize session behavior (SPEC_FULL.md §1, C10).
type Hooks struct {
	// OnSessionCreated is invoked once a Session is constructed, before Start.
	OnSessionCreated func(s *Session)

	// BeforeConfigurationDone runs after "initialized" arrives and before
	// configurationDone is sent; returning an error aborts the handshake.
	BeforeConfigurationDone func(ctx context.Context, s *Session) error

	// OnAdapterProcess takes the adapter's OS process id. Session keeps it
	// with the other hooks but does not call it itself.
	OnAdapterProcess func(pid int)

	// RunInTerminal answers the runInTerminal reverse request. If nil, the
	// session's default implementation spawns a detached process.
	RunInTerminal func(ctx context.Context, args dap.RunInTerminalRequestArguments) (*dap.RunInTerminalResponseBody, error)
}

// Profile is the fixed client-identity profile sent with every initialize
// request (§4.3): "a fixed client profile declaring support for
// runInTerminal, startDebugging, variable types, variable paging, progress
// reporting, invalidated events, memory events, ANSI styling."
func Profile(clientID, clientName, adapterID string) dap.InitializeRequestArguments {
	return dap.InitializeRequestArguments{
		ClientID:                            clientID,
		ClientName:                           clientName,
		AdapterID:                            adapterID,
		LinesStartAt1:                        true,
		ColumnsStartAt1:                      true,
		PathFormat:                           "path",
		SupportsVariableType:                 true,
		SupportsVariablePaging:               true,
		SupportsRunInTerminalRequest:         true,
		SupportsProgressReporting:            true,
		SupportsInvalidatedEvent:             true,
		SupportsMemoryEvent:                 true,
		SupportsStartDebuggingRequest:        true,
		SupportsANSIStyling:                  true,
	}
}

// Config configures a Session's handshake.
type Config struct {
	ClientID   string
	ClientName string
	AdapterID  string

	// LaunchArgs/AttachArgs carry the adapter-specific document built by
	// internal/adapters; exactly one must be non-nil.
	LaunchArgs json.RawMessage
	AttachArgs json.RawMessage
}

// Session is one DAP session: a client plus the handshake/teardown state
// machine and child-session bookkeeping required by startDebugging.
type Session struct {
	id    string
	depth int

	client *dap.Client
	spec   AdapterSpec
	hooks  Hooks

	capabilities atomic.Pointer[dap.Capabilities]

	stateMu sync.RWMutex
	state   State

	onStateChange func(old, new State)

	parent      *Session
	childrenMu  sync.Mutex
	children    map[string]*Session

	initializedOnce sync.Once
	initializedCh   chan struct{}

	terminatedOnce sync.Once
	terminatedCh   chan struct{}

	adapterPID int
}

// New constructs a Session over an already-connected transport. Use
// internal/adapters + AdapterSpec to build transports uniformly so that
// startDebugging children can be respawned or re-dialed the same way.
func New(id string, transport dap.Transport, spec AdapterSpec, hooks Hooks, opts ...dap.ClientOption) *Session {
	s := &Session{
		id:            id,
		spec:          spec,
		hooks:         hooks,
		state:         StateStarting,
		children:      make(map[string]*Session),
		initializedCh: make(chan struct{}),
		terminatedCh:  make(chan struct{}),
	}
	s.client = dap.NewClient(transport, append(opts, dap.WithOnClose(s.onTransportClose))...)
	s.registerEventHandlers()
	s.registerReverseHandlers()

	if hooks.OnSessionCreated != nil {
		hooks.OnSessionCreated(s)
	}
	return s
}

// ID returns the session's identifier (stable across its lifetime).
func (s *Session) ID() string { return s.id }

// Depth returns the session's nesting depth; root sessions are depth 0.
func (s *Session) Depth() int { return s.depth }

// Parent returns the session that spawned this one via startDebugging, or
// nil for a root session.
func (s *Session) Parent() *Session { return s.parent }

// Children returns a snapshot of this session's child sessions.
func (s *Session) Children() []*Session {
	s.childrenMu.Lock()
	defer s.childrenMu.Unlock()
	out := make([]*Session, 0, len(s.children))
	for _, c := range s.children {
		out = append(out, c)
	}
	return out
}

// Client returns the underlying protocol client (C2).
func (s *Session) Client() *dap.Client { return s.client }

// Capabilities returns the adapter capabilities reported at initialize, or
// nil before the handshake completes.
func (s *Session) Capabilities() *dap.Capabilities { return s.capabilities.Load() }

// State returns the session's current state machine position.
func (s *Session) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// OnStateChange registers a callback invoked on every state transition.
func (s *Session) OnStateChange(fn func(old, new State)) { s.onStateChange = fn }

func (s *Session) setState(state State) {
	s.stateMu.Lock()
	old := s.state
	if old == state {
		s.stateMu.Unlock()
		return
	}
	s.state = state
	s.stateMu.Unlock()

	if s.onStateChange != nil {
		s.onStateChange(old, state)
	}
}

// Done returns a channel closed once the session reaches StateTerminated.
func (s *Session) Done() <-chan struct{} { return s.terminatedCh }

func (s *Session) onTransportClose(err error) {
	s.terminatedOnce.Do(func() {
		s.setState(StateTerminated)
		close(s.terminatedCh)
	})
}

func (s *Session) markTerminated() {
	s.terminatedOnce.Do(func() {
		s.setState(StateTerminated)
		close(s.terminatedCh)
	})
}

// registerEventHandlers wires the DAP events that drive the state machine
// itself; graph-level fan-out (C6) is the caller's responsibility via
// Client().On*() or Session-level callbacks layered on top.
func (s *Session) registerEventHandlers() {
	s.client.OnInitialized(func() {
		s.initializedOnce.Do(func() { close(s.initializedCh) })
	})
	s.client.OnStopped(func(dap.StoppedEventBody) {
		s.setState(StateStopped)
	})
	s.client.OnContinued(func(dap.ContinuedEventBody) {
		s.setState(StateRunning)
	})
	s.client.OnExited(func(dap.ExitedEventBody) {
		s.markTerminated()
	})
	s.client.OnTerminated(func(dap.TerminatedEventBody) {
		s.markTerminated()
	})
}

// Shutdown tears the session down per §4.3: children first (joined), then
// self, via disconnect (or terminate then disconnect) followed by transport
// close. The on_close hook firing independently is idempotent.
func (s *Session) Shutdown(ctx context.Context, terminateDebuggee bool) error {
	var wg sync.WaitGroup
	for _, child := range s.Children() {
		wg.Add(1)
		go func(c *Session) {
			defer wg.Done()
			_ = c.Shutdown(ctx, terminateDebuggee)
		}(child)
	}
	wg.Wait()

	var errs []error
	if terminateDebuggee {
		if err := s.client.Terminate(ctx, dap.TerminateArguments{}); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.client.Disconnect(ctx, dap.DisconnectArguments{TerminateDebuggee: terminateDebuggee}); err != nil {
		errs = append(errs, err)
	}
	if err := s.client.Close(); err != nil {
		errs = append(errs, err)
	}
	s.markTerminated()

	if len(errs) > 0 {
		return fmt.Errorf("session shutdown: %v", errs)
	}
	return nil
}
