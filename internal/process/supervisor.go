package process

import (
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// Supervisor manages debug adapter subprocesses with lifecycle tracking,
// cleanup, and — for the "server" transport variant — reference-counted
// sharing of a single adapter process across sibling sessions spawned via
// startDebugging.
//
// Supervisor is safe for concurrent use.
type Supervisor struct {
	mu        sync.RWMutex
	processes map[string]*Process
	refs      map[string]int // process ID -> active-connection count, for shared server processes

	shutdown chan struct{}
	closed   atomic.Bool

	maxProcesses int
	onExit       func(p *Process)
}

type SupervisorOption func(*Supervisor)

func WithMaxProcesses(max int) SupervisorOption {
	return func(s *Supervisor) { s.maxProcesses = max }
}

func WithProcessExitCallback(fn func(p *Process)) SupervisorOption {
	return func(s *Supervisor) { s.onExit = fn }
}

func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		processes: make(map[string]*Process),
		refs:      make(map[string]int),
		shutdown:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts a new managed process with an auto-generated ID.
func (s *Supervisor) Start(name string, cmd *exec.Cmd) (*Process, error) {
	return s.StartWithID(uuid.New().String(), name, cmd)
}

// StartWithID starts a new managed process with a specific ID.
func (s *Supervisor) StartWithID(id, name string, cmd *exec.Cmd) (*Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil, ErrSupervisorShutdown
	}
	if s.maxProcesses > 0 && len(s.processes) >= s.maxProcesses {
		return nil, fmt.Errorf("process limit reached: %d", s.maxProcesses)
	}
	if _, exists := s.processes[id]; exists {
		return nil, fmt.Errorf("process ID already exists: %s", id)
	}

	proc := NewProcess(id, name, cmd)

	var createdPipes []interface{ Close() error }
	cleanup := func() {
		for _, p := range createdPipes {
			_ = p.Close()
		}
	}

	if cmd.Stdin == nil {
		p, err := cmd.StdinPipe()
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("create stdin pipe: %w", err)
		}
		proc.Stdin = p
		createdPipes = append(createdPipes, p)
	}
	if cmd.Stdout == nil {
		p, err := cmd.StdoutPipe()
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("create stdout pipe: %w", err)
		}
		proc.Stdout = p
		createdPipes = append(createdPipes, p)
	}
	if cmd.Stderr == nil {
		p, err := cmd.StderrPipe()
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("create stderr pipe: %w", err)
		}
		proc.Stderr = p
		createdPipes = append(createdPipes, p)
	}

	if err := proc.Start(); err != nil {
		cleanup()
		return nil, err
	}

	s.processes[id] = proc
	go s.monitor(proc)

	return proc, nil
}

func (s *Supervisor) monitor(proc *Process) {
	<-proc.Done()

	if s.onExit != nil {
		func() {
			defer func() { _ = recover() }()
			s.onExit(proc)
		}()
	}

	s.mu.Lock()
	delete(s.processes, proc.ID)
	delete(s.refs, proc.ID)
	s.mu.Unlock()
}

func (s *Supervisor) Get(id string) *Process {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processes[id]
}

func (s *Supervisor) List() []*Process {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Process, 0, len(s.processes))
	for _, p := range s.processes {
		out = append(out, p)
	}
	return out
}

func (s *Supervisor) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.processes)
}

// Acquire registers a new sibling connection against a shared server-transport
// process and returns the new reference count. Used by the "server" Transport
// variant: the first session to need a given adapter command starts the
// process; subsequent sibling sessions (reached via startDebugging) call
// Acquire instead of starting a new one.
func (s *Supervisor) Acquire(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs[id]++
	return s.refs[id]
}

// Release decrements the reference count for a shared process. When it
// reaches zero the process is killed and removed. Returns the remaining
// count (0 if the process was torn down).
func (s *Supervisor) Release(id string) int {
	s.mu.Lock()
	n, ok := s.refs[id]
	if !ok || n <= 0 {
		s.mu.Unlock()
		return 0
	}
	n--
	s.refs[id] = n
	proc := s.processes[id]
	s.mu.Unlock()

	if n == 0 && proc != nil && proc.IsRunning() {
		_ = proc.Kill()
	}
	return n
}

func (s *Supervisor) Kill(id string) error {
	proc := s.Get(id)
	if proc == nil {
		return ErrProcessNotFound
	}
	if !proc.IsRunning() {
		return nil
	}
	return proc.Kill()
}

func (s *Supervisor) Terminate(id string) error {
	proc := s.Get(id)
	if proc == nil {
		return ErrProcessNotFound
	}
	if !proc.IsRunning() {
		return nil
	}
	return proc.Terminate()
}

func (s *Supervisor) Signal(id string, sig syscall.Signal) error {
	proc := s.Get(id)
	if proc == nil {
		return ErrProcessNotFound
	}
	if !proc.IsRunning() {
		return nil
	}
	return proc.Signal(sig)
}

// Shutdown gracefully terminates all processes, escalating to SIGKILL after
// timeout, and blocks until all have exited and been reaped.
func (s *Supervisor) Shutdown(timeout time.Duration) {
	if s.closed.Swap(true) {
		return
	}
	close(s.shutdown)

	s.mu.RLock()
	procs := make([]*Process, 0, len(s.processes))
	for _, p := range s.processes {
		procs = append(procs, p)
	}
	s.mu.RUnlock()

	if len(procs) == 0 {
		return
	}

	for _, p := range procs {
		if p.IsRunning() {
			_ = p.Terminate()
		}
	}

	done := make(chan struct{})
	go func() {
		for _, p := range procs {
			<-p.Done()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		for _, p := range procs {
			if p.IsRunning() {
				_ = p.Kill()
			}
		}
		<-done
	}

	s.waitForCleanup()
}

func (s *Supervisor) waitForCleanup() {
	for {
		s.mu.RLock()
		n := len(s.processes)
		s.mu.RUnlock()
		if n == 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

func (s *Supervisor) IsShuttingDown() bool { return s.closed.Load() }

func (s *Supervisor) ShutdownChan() <-chan struct{} { return s.shutdown }

var (
	ErrProcessNotFound    = fmt.Errorf("process not found")
	ErrSupervisorShutdown = fmt.Errorf("supervisor is shutting down")
)
