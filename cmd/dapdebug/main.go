// Command dapdebug is a demonstration CLI for the DAP client SDK core. It
// launches one adapter-backed session, binds the requested breakpoints,
// mirrors adapter output to stdout, and tears everything down on SIGINT or
// SIGTERM. It is not part of the SDK's public surface — see SPEC_FULL.md
// §1.1.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dshills/dapdebug/internal/adapters"
	"github.com/dshills/dapdebug/internal/breakpoint"
	"github.com/dshills/dapdebug/internal/dap"
	"github.com/dshills/dapdebug/internal/dapconfig"
	"github.com/dshills/dapdebug/internal/graph"
	"github.com/dshills/dapdebug/internal/presentation"
	"github.com/dshills/dapdebug/internal/scheduler"
	"github.com/dshills/dapdebug/internal/session"
)

// stderrLogger is the smallest Logger implementation a host could plug in
// (SPEC_FULL.md §1.1: the SDK imports no logging library itself).
type stderrLogger struct{ debug bool }

func (l stderrLogger) Debugf(format string, args ...interface{}) {
	if l.debug {
		fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", args...)
	}
}

func (l stderrLogger) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[error] "+format+"\n", args...)
}

type breakpointFlag []graph.Location

func (b *breakpointFlag) String() string { return fmt.Sprint([]graph.Location(*b)) }

func (b *breakpointFlag) Set(v string) error {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return fmt.Errorf("breakpoint %q must be path:line", v)
	}
	line, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("breakpoint %q: %w", v, err)
	}
	*b = append(*b, graph.Location{Path: parts[0], Line: line})
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		adapterType = flag.String("adapter", "delve", "adapter type (delve, nodejs, python, lldb, generic)")
		program     = flag.String("program", "", "program or script to debug")
		configPath  = flag.String("config", "debugger.toml", "path to adapter defaults file")
		debug       = flag.Bool("debug", false, "enable debug logging")
		stopOnEntry = flag.Bool("stop-on-entry", false, "stop at the program's entry point")
		breakpoints breakpointFlag
	)
	flag.Var(&breakpoints, "break", "breakpoint as path:line (repeatable)")
	flag.Parse()

	if *program == "" {
		fmt.Fprintln(os.Stderr, "Error: -program is required")
		return 1
	}

	logger := stderrLogger{debug: *debug}

	cfg, err := dapconfig.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading %s: %v\n", *configPath, err)
		return 1
	}
	cfg = cfg.ApplyEnv()

	base := adapters.Config{
		Type:        adapters.AdapterType(*adapterType),
		Name:        "dapdebug",
		Request:     "launch",
		Program:     *program,
		StopOnEntry: *stopOnEntry,
	}
	adapterConfig := cfg.ToAdapterConfig(base.Type, base)

	registry := adapters.NewRegistry()
	adapter, err := registry.Create(adapterConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating adapter: %v\n", err)
		return 1
	}
	if err := adapter.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid adapter configuration: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), session.StartupTimeout)
	defer cancel()

	transport, spec, adapterPID, err := dialAdapter(ctx, adapter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: connecting to adapter: %v\n", err)
		return 1
	}

	launchArgs, err := adapter.GetLaunchArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: building launch arguments: %v\n", err)
		return 1
	}

	d := graph.NewDebugger()
	sched := scheduler.New()
	defer sched.Close()

	engine := breakpoint.New(d, sched)

	reg := presentation.NewRegistry()
	presentation.InstallBaseline(reg)
	presentation.InstallBreakpointActions(reg, engine)
	presentation.InstallSessionActions(reg)

	for _, loc := range breakpoints {
		engine.AddBreakpoint(loc, "", "", "")
	}

	gs := d.NewSession("root", nil)
	hooks := session.Hooks{
		OnAdapterProcess: func(pid int) {
			logger.Debugf("adapter process pid=%d", pid)
		},
	}
	sess := session.New(gs.ID, transport, spec, hooks, dap.WithLogger(logger))

	graph.AttachSession(d, gs, sess, sched)
	engine.RegisterSession(gs, sess)

	unsubscribe := gs.Outputs.Each(func(o *graph.Output) func() {
		fmt.Printf("[%s] %s", o.Category, o.Text)
		return nil
	})
	defer unsubscribe()

	_ = adapterPID
	if err := sess.Start(ctx, session.Config{
		ClientID:   "dapdebug",
		ClientName: "dapdebug",
		AdapterID:  string(adapter.Type()),
		LaunchArgs: launchArgs,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: starting session: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-signals:
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := sess.Shutdown(shutdownCtx, true); err != nil {
			logger.Errorf("shutdown: %v", err)
		}
	case <-sess.Done():
	}

	return 0
}

// dialAdapter starts or connects to the adapter process according to its
// reported connection type, returning a ready Transport plus the
// AdapterSpec a Session needs to respawn startDebugging children the same
// way.
func dialAdapter(ctx context.Context, adapter adapters.Adapter) (dap.Transport, session.AdapterSpec, int, error) {
	cmd, err := adapter.GetCommand()
	if err != nil {
		return nil, session.AdapterSpec{}, 0, err
	}

	switch adapter.GetConnectionType() {
	case "stdio":
		t, _, err := dap.NewStdioTransport("dapdebug-adapter", cmd)
		if err != nil {
			return nil, session.AdapterSpec{}, 0, err
		}
		spec := session.AdapterSpec{
			Kind:       session.KindStdio,
			NewCommand: func() *exec.Cmd { c, _ := adapter.GetCommand(); return c },
		}
		return t, spec, cmd.Process.Pid, nil
	case "socket":
		if err := cmd.Start(); err != nil {
			return nil, session.AdapterSpec{}, 0, fmt.Errorf("starting adapter: %w", err)
		}
		address := adapter.GetAddress()
		host, portStr, err := net.SplitHostPort(address)
		if err != nil {
			return nil, session.AdapterSpec{}, 0, fmt.Errorf("adapter address %q: %w", address, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, session.AdapterSpec{}, 0, fmt.Errorf("adapter port %q: %w", portStr, err)
		}
		if err := adapters.WaitForPort(ctx, host, port); err != nil {
			return nil, session.AdapterSpec{}, 0, fmt.Errorf("waiting for adapter port: %w", err)
		}
		t, err := dap.DialTCP(ctx, address)
		if err != nil {
			return nil, session.AdapterSpec{}, 0, err
		}
		spec := session.AdapterSpec{Kind: session.KindTCP, Address: address}
		return t, spec, cmd.Process.Pid, nil
	default:
		return nil, session.AdapterSpec{}, 0, fmt.Errorf("unknown connection type %q", adapter.GetConnectionType())
	}
}
