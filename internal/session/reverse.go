package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/dshills/dapdebug/internal/dap"
	"github.com/dshills/dapdebug/internal/process"
)

// TransportKind distinguishes how an AdapterSpec respawns/reconnects a
// transport for a startDebugging child session (§4.3).
type TransportKind int

const (
	KindStdio TransportKind = iota
	KindTCP
	KindServer
)

// AdapterSpec describes how to (re)create a transport to the same kind of
// adapter a session was started with, so that startDebugging children can
// be spawned (stdio) or attached to the shared endpoint (server) the way
// the parent was.
type AdapterSpec struct {
	Kind TransportKind

	// NewCommand builds a fresh *exec.Cmd for Stdio/Server respawns.
	NewCommand func() *exec.Cmd

	// Supervisor and ProcessID identify the shared adapter process for
	// Server-kind adapters; DialExistingServer reuses it.
	Supervisor *process.Supervisor
	ProcessID  string
	Address    string // dialed TCP/server address, set once known

	// DetectPort recognizes the adapter's port announcement on stdout, used
	// only the first time a Server adapter is spawned.
	DetectPort dap.DetectPort
}

// respawn creates a new transport of the same kind as this session's, for
// use by a startDebugging child.
func (spec AdapterSpec) respawn(ctx context.Context) (dap.Transport, error) {
	switch spec.Kind {
	case KindStdio:
		if spec.NewCommand == nil {
			return nil, fmt.Errorf("session: stdio AdapterSpec missing NewCommand")
		}
		t, _, err := dap.NewStdioTransport(spec.ProcessID, spec.NewCommand())
		return t, err
	case KindServer:
		if spec.Address != "" {
			return dap.DialExistingServer(spec.Supervisor, spec.ProcessID, spec.Address)
		}
		if spec.NewCommand == nil {
			return nil, fmt.Errorf("session: server AdapterSpec missing NewCommand")
		}
		t, err := dap.NewServerTransport(ctx, spec.Supervisor, spec.ProcessID, spec.NewCommand(), spec.DetectPort, 0)
		return t, err
	case KindTCP:
		return dap.DialTCP(ctx, spec.Address)
	default:
		return nil, fmt.Errorf("session: unknown adapter kind %d", spec.Kind)
	}
}

// registerReverseHandlers installs the default runInTerminal and
// startDebugging handlers; a Hooks.RunInTerminal override takes precedence
// over the default detached-process spawn.
func (s *Session) registerReverseHandlers() {
	s.client.RegisterReverseHandler("runInTerminal", s.handleRunInTerminal)
	s.client.RegisterReverseHandler("startDebugging", s.handleStartDebugging)
}

func (s *Session) handleRunInTerminal(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	var args dap.RunInTerminalRequestArguments
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("unmarshal runInTerminal arguments: %w", err)
	}

	if s.hooks.RunInTerminal != nil {
		return s.hooks.RunInTerminal(ctx, args)
	}

	if len(args.Args) == 0 {
		return nil, fmt.Errorf("runInTerminal: empty args")
	}
	cmd := exec.Command(args.Args[0], args.Args[1:]...)
	if args.Cwd != "" {
		cmd.Dir = args.Cwd
	}
	for k, v := range args.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	process.SetDieWithParent(cmd)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawn terminal process: %w", err)
	}
	return dap.RunInTerminalResponseBody{ProcessID: cmd.Process.Pid}, nil
}

// handleStartDebugging implements child-session spawning: depth = parent's
// depth + 1, capped at MaxDepth; the adapter kind is inherited from the
// parent's AdapterSpec, reusing the TCP endpoint for server adapters.
func (s *Session) handleStartDebugging(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	var args dap.StartDebuggingRequestArguments
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("unmarshal startDebugging arguments: %w", err)
	}

	if s.depth+1 > MaxDepth {
		return nil, fmt.Errorf("session: startDebugging depth exceeds maximum of %d", MaxDepth)
	}

	transport, err := s.spec.respawn(ctx)
	if err != nil {
		return nil, fmt.Errorf("startDebugging: create child transport: %w", err)
	}

	childID := fmt.Sprintf("%s/child-%d", s.id, len(s.Children()))
	child := New(childID, transport, s.spec, s.hooks)
	child.parent = s
	child.depth = s.depth + 1

	s.childrenMu.Lock()
	s.children[childID] = child
	s.childrenMu.Unlock()

	cfgJSON, err := json.Marshal(args.Configuration)
	if err != nil {
		return nil, fmt.Errorf("startDebugging: marshal configuration: %w", err)
	}

	cfg := Config{
		ClientID:   "dapdebug",
		ClientName: "dapdebug",
		AdapterID:  s.spec.ProcessID,
	}
	if args.Request == "attach" {
		cfg.AttachArgs = cfgJSON
	} else {
		cfg.LaunchArgs = cfgJSON
	}

	go func() {
		if err := child.Start(context.Background(), cfg); err != nil {
			s.childrenMu.Lock()
			delete(s.children, childID)
			s.childrenMu.Unlock()
		}
	}()

	// startDebugging has no response body; the adapter only needs
	// acknowledgement that the client accepted the request.
	return struct{}{}, nil
}
