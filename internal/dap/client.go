package dap

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultRequestTimeout is the default time a request waits for a response
// before its callback receives a Timeout error (SPEC_FULL.md §4.2/§5).
const DefaultRequestTimeout = 30 * time.Second

// Logger is the ambient logging seam threaded through the client, mirroring
// the teacher's own choice not to hard-wire a logging package into an
// embeddable library surface.
type Logger interface {
	Debugf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Errorf(string, ...interface{}) {}

// NopLogger is a Logger that discards everything.
var NopLogger Logger = nopLogger{}

// ReverseHandler answers a reverse request (one sent from the adapter to
// the client, e.g. runInTerminal, startDebugging).
type ReverseHandler func(ctx context.Context, args json.RawMessage) (body interface{}, err error)

// Client is a DAP protocol client: sequence numbering, request/response
// correlation, event dispatch, and reverse-request handling (C2).
type Client struct {
	transport Transport
	logger    Logger
	timeout   time.Duration

	seq int64

	pending   map[int]*pendingRequest
	pendingMu sync.Mutex

	handlers  eventHandlers
	handlerMu sync.RWMutex

	reverse   map[string]ReverseHandler
	reverseMu sync.RWMutex

	onClose     func(error)
	closeOnce   sync.Once
	done        chan struct{}

	errMu sync.RWMutex
	err   error
}

type pendingRequest struct {
	done      chan struct{}
	closeOnce sync.Once
	response  *Response
	err       error
}

func (p *pendingRequest) close() {
	p.closeOnce.Do(func() { close(p.done) })
}

type eventHandlers struct {
	onInitialized    func()
	onStopped        func(StoppedEventBody)
	onContinued      func(ContinuedEventBody)
	onExited         func(ExitedEventBody)
	onTerminated     func(TerminatedEventBody)
	onThread         func(ThreadEventBody)
	onOutput         func(OutputEventBody)
	onBreakpoint     func(BreakpointEventBody)
	onModule         func(ModuleEventBody)
	onLoadedSource   func(LoadedSourceEventBody)
	onProcess        func(ProcessEventBody)
	onCapabilities   func(CapabilitiesEventBody)
	onInvalidated    func(InvalidatedEventBody)
	onProgressStart  func(ProgressStartEventBody)
	onProgressUpdate func(ProgressUpdateEventBody)
	onProgressEnd    func(ProgressEndEventBody)
	onAny            func(Event)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

func WithLogger(l Logger) ClientOption { return func(c *Client) { c.logger = l } }

func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithOnClose registers a callback invoked exactly once when the receive
// loop observes transport closure (§4.1's "on_close hook exactly once").
func WithOnClose(fn func(error)) ClientOption { return func(c *Client) { c.onClose = fn } }

// NewClient creates a DAP client over transport and starts its receive loop.
func NewClient(transport Transport, opts ...ClientOption) *Client {
	c := &Client{
		transport: transport,
		logger:    NopLogger,
		timeout:   DefaultRequestTimeout,
		pending:   make(map[int]*pendingRequest),
		reverse:   make(map[string]ReverseHandler),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.receiveLoop()
	return c
}

// Close closes the client and its transport. Idempotent.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return c.transport.Close()
}

func (c *Client) Error() error {
	c.errMu.RLock()
	defer c.errMu.RUnlock()
	return c.err
}

func (c *Client) receiveLoop() {
	var closeErr error
	for {
		msg, err := c.transport.Receive()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}

			closeErr = err
			c.errMu.Lock()
			c.err = err
			c.errMu.Unlock()

			c.pendingMu.Lock()
			for _, req := range c.pending {
				req.err = err
				req.close()
			}
			c.pending = make(map[int]*pendingRequest)
			c.pendingMu.Unlock()

			c.closeOnce.Do(func() { close(c.done) })
			if c.onClose != nil {
				c.onClose(closeErr)
			}
			return
		}

		select {
		case <-c.done:
			return
		default:
		}

		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg *Message) {
	var base ProtocolMessage
	if err := json.Unmarshal(msg.Content, &base); err != nil {
		c.logger.Errorf("dap: dropping malformed message: %v", err)
		return
	}

	switch base.Type {
	case "response":
		c.handleResponse(msg.Content)
	case "event":
		c.handleEvent(msg.Content)
	case "request":
		c.handleReverseRequest(msg.Content)
	default:
		c.logger.Errorf("dap: dropping message of unknown type %q", base.Type)
	}
}

func (c *Client) handleResponse(content []byte) {
	var resp Response
	if err := json.Unmarshal(content, &resp); err != nil {
		c.logger.Errorf("dap: malformed response: %v", err)
		return
	}

	c.pendingMu.Lock()
	req, ok := c.pending[resp.RequestSeq]
	if ok {
		delete(c.pending, resp.RequestSeq)
	}
	c.pendingMu.Unlock()

	if ok {
		req.response = &resp
		req.close()
	}
	// A response with no matching pending request arrived after its
	// timeout fired; it is intentionally dropped (§4.2).
}

func (c *Client) handleEvent(content []byte) {
	var evt Event
	if err := json.Unmarshal(content, &evt); err != nil {
		c.logger.Errorf("dap: malformed event: %v", err)
		return
	}

	c.handlerMu.RLock()
	h := c.handlers
	c.handlerMu.RUnlock()

	switch evt.Event {
	case "initialized":
		if h.onInitialized != nil {
			h.onInitialized()
		}
	case "stopped":
		dispatchBody(evt.Body, h.onStopped, c.logger)
	case "continued":
		dispatchBody(evt.Body, h.onContinued, c.logger)
	case "exited":
		dispatchBody(evt.Body, h.onExited, c.logger)
	case "terminated":
		dispatchBody(evt.Body, h.onTerminated, c.logger)
	case "thread":
		dispatchBody(evt.Body, h.onThread, c.logger)
	case "output":
		dispatchBody(evt.Body, h.onOutput, c.logger)
	case "breakpoint":
		dispatchBody(evt.Body, h.onBreakpoint, c.logger)
	case "module":
		dispatchBody(evt.Body, h.onModule, c.logger)
	case "loadedSource":
		dispatchBody(evt.Body, h.onLoadedSource, c.logger)
	case "process":
		dispatchBody(evt.Body, h.onProcess, c.logger)
	case "capabilities":
		dispatchBody(evt.Body, h.onCapabilities, c.logger)
	case "invalidated":
		dispatchBody(evt.Body, h.onInvalidated, c.logger)
	case "progressStart":
		dispatchBody(evt.Body, h.onProgressStart, c.logger)
	case "progressUpdate":
		dispatchBody(evt.Body, h.onProgressUpdate, c.logger)
	case "progressEnd":
		dispatchBody(evt.Body, h.onProgressEnd, c.logger)
	}

	if h.onAny != nil {
		h.onAny(evt)
	}
}

// dispatchBody decodes body into T and invokes handler, logging (not
// panicking) on a decode failure. A nil handler is a silent no-op.
func dispatchBody[T any](body json.RawMessage, handler func(T), logger Logger) {
	if handler == nil {
		return
	}
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		logger.Errorf("dap: malformed event body: %v", err)
		return
	}
	handler(v)
}

// RegisterReverseHandler installs the handler invoked when the adapter
// sends a reverse request for command. Replaces any previous handler.
func (c *Client) RegisterReverseHandler(command string, handler ReverseHandler) {
	c.reverseMu.Lock()
	defer c.reverseMu.Unlock()
	c.reverse[command] = handler
}

func (c *Client) handleReverseRequest(content []byte) {
	var req Request
	if err := json.Unmarshal(content, &req); err != nil {
		c.logger.Errorf("dap: malformed reverse request: %v", err)
		return
	}

	c.reverseMu.RLock()
	handler := c.reverse[req.Command]
	c.reverseMu.RUnlock()

	if handler == nil {
		c.sendReverseResponse(req, nil, ErrReverseRequestHandlerMissing)
		return
	}

	// Reverse requests may respond asynchronously; run on its own goroutine
	// so a slow host hook (e.g. runInTerminal spawning a process) never
	// blocks the receive loop.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		body, err := handler(ctx, req.Arguments)
		c.sendReverseResponse(req, body, err)
	}()
}

func (c *Client) sendReverseResponse(req Request, body interface{}, err error) {
	resp := Response{
		ProtocolMessage: ProtocolMessage{Seq: int(atomic.AddInt64(&c.seq, 1)), Type: "response"},
		RequestSeq:      req.Seq,
		Command:         req.Command,
		Success:         err == nil,
	}
	if err != nil {
		resp.Message = err.Error()
	} else if body != nil {
		b, merr := json.Marshal(body)
		if merr != nil {
			resp.Success = false
			resp.Message = merr.Error()
		} else {
			resp.Body = b
		}
	}

	content, merr := json.Marshal(resp)
	if merr != nil {
		c.logger.Errorf("dap: marshal reverse response: %v", merr)
		return
	}
	if serr := c.transport.Send(&Message{ContentLength: len(content), Content: content}); serr != nil {
		c.logger.Errorf("dap: send reverse response: %v", serr)
	}
}

// sendRequest assigns seq, sends the request, and awaits the matching
// response, honoring ctx cancellation and the client's default timeout
// when ctx carries no earlier deadline.
func (c *Client) sendRequest(ctx context.Context, command string, args interface{}) (*Response, error) {
	select {
	case <-c.done:
		return nil, ErrClosed
	default:
	}

	// WithTimeout keeps ctx's own deadline whenever that one is earlier.
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	seq := int(atomic.AddInt64(&c.seq, 1))

	var argsJSON json.RawMessage
	if args != nil {
		var err error
		argsJSON, err = json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("marshal arguments: %w", err)
		}
	}

	req := Request{
		ProtocolMessage: ProtocolMessage{Seq: seq, Type: "request"},
		Command:         command,
		Arguments:       argsJSON,
	}

	content, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	pending := &pendingRequest{done: make(chan struct{})}
	c.pendingMu.Lock()
	c.pending[seq] = pending
	c.pendingMu.Unlock()

	if err := c.transport.Send(&Message{ContentLength: len(content), Content: content}); err != nil {
		c.pendingMu.Lock()
		delete(c.pending, seq)
		c.pendingMu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	select {
	case <-ctx.Done():
		c.pendingMu.Lock()
		delete(c.pending, seq)
		c.pendingMu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	case <-pending.done:
		if pending.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, pending.err)
		}
		return pending.response, nil
	}
}

// errorMessage extracts the human-readable error text from a failed
// response: resp.Message first, falling back to body.error.format with
// {variableName} interpolation, per §4.2. gjson avoids decoding the whole
// body just to read one optional nested field.
func errorMessage(resp *Response, command string) error {
	if resp.Message != "" {
		return fmt.Errorf("%w: %s failed: %s", ErrAdapter, command, resp.Message)
	}
	format := gjson.GetBytes(resp.Body, "error.format")
	if !format.Exists() {
		return fmt.Errorf("%w: %s failed", ErrAdapter, command)
	}
	msg := format.String()
	gjson.GetBytes(resp.Body, "error.variables").ForEach(func(k, v gjson.Result) bool {
		msg = replaceAll(msg, "{"+k.String()+"}", v.String())
		return true
	})
	return fmt.Errorf("%w: %s failed: %s", ErrAdapter, command, msg)
}

func replaceAll(s, old, new string) string {
	for {
		idx := indexOf(s, old)
		if idx < 0 {
			return s
		}
		s = s[:idx] + new + s[idx+len(old):]
	}
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

// Event handler setters.

func (c *Client) OnInitialized(h func())                             { c.setHandler(func(e *eventHandlers) { e.onInitialized = h }) }
func (c *Client) OnStopped(h func(StoppedEventBody))                   { c.setHandler(func(e *eventHandlers) { e.onStopped = h }) }
func (c *Client) OnContinued(h func(ContinuedEventBody))               { c.setHandler(func(e *eventHandlers) { e.onContinued = h }) }
func (c *Client) OnExited(h func(ExitedEventBody))                     { c.setHandler(func(e *eventHandlers) { e.onExited = h }) }
func (c *Client) OnTerminated(h func(TerminatedEventBody))             { c.setHandler(func(e *eventHandlers) { e.onTerminated = h }) }
func (c *Client) OnThread(h func(ThreadEventBody))                     { c.setHandler(func(e *eventHandlers) { e.onThread = h }) }
func (c *Client) OnOutput(h func(OutputEventBody))                     { c.setHandler(func(e *eventHandlers) { e.onOutput = h }) }
func (c *Client) OnBreakpoint(h func(BreakpointEventBody))             { c.setHandler(func(e *eventHandlers) { e.onBreakpoint = h }) }
func (c *Client) OnModule(h func(ModuleEventBody))                     { c.setHandler(func(e *eventHandlers) { e.onModule = h }) }
func (c *Client) OnLoadedSource(h func(LoadedSourceEventBody))         { c.setHandler(func(e *eventHandlers) { e.onLoadedSource = h }) }
func (c *Client) OnProcess(h func(ProcessEventBody))                   { c.setHandler(func(e *eventHandlers) { e.onProcess = h }) }
func (c *Client) OnCapabilities(h func(CapabilitiesEventBody))         { c.setHandler(func(e *eventHandlers) { e.onCapabilities = h }) }
func (c *Client) OnInvalidated(h func(InvalidatedEventBody))           { c.setHandler(func(e *eventHandlers) { e.onInvalidated = h }) }
func (c *Client) OnProgressStart(h func(ProgressStartEventBody))       { c.setHandler(func(e *eventHandlers) { e.onProgressStart = h }) }
func (c *Client) OnProgressUpdate(h func(ProgressUpdateEventBody))     { c.setHandler(func(e *eventHandlers) { e.onProgressUpdate = h }) }
func (c *Client) OnProgressEnd(h func(ProgressEndEventBody))           { c.setHandler(func(e *eventHandlers) { e.onProgressEnd = h }) }
func (c *Client) OnAnyEvent(h func(Event))                             { c.setHandler(func(e *eventHandlers) { e.onAny = h }) }

func (c *Client) setHandler(set func(*eventHandlers)) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	set(&c.handlers)
}

// DAP request methods.

func (c *Client) Initialize(ctx context.Context, args InitializeRequestArguments) (*Capabilities, error) {
	resp, err := c.sendRequest(ctx, "initialize", args)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errorMessage(resp, "initialize")
	}
	var caps Capabilities
	if err := json.Unmarshal(resp.Body, &caps); err != nil {
		return nil, fmt.Errorf("unmarshal capabilities: %w", err)
	}
	return &caps, nil
}

func (c *Client) ConfigurationDone(ctx context.Context) error {
	resp, err := c.sendRequest(ctx, "configurationDone", nil)
	if err != nil {
		return err
	}
	if !resp.Success {
		return errorMessage(resp, "configurationDone")
	}
	return nil
}

func (c *Client) Launch(ctx context.Context, args json.RawMessage) error {
	resp, err := c.sendRequest(ctx, "launch", args)
	if err != nil {
		return err
	}
	if !resp.Success {
		return errorMessage(resp, "launch")
	}
	return nil
}

func (c *Client) Attach(ctx context.Context, args json.RawMessage) error {
	resp, err := c.sendRequest(ctx, "attach", args)
	if err != nil {
		return err
	}
	if !resp.Success {
		return errorMessage(resp, "attach")
	}
	return nil
}

func (c *Client) Restart(ctx context.Context, args RestartArguments) error {
	resp, err := c.sendRequest(ctx, "restart", args)
	if err != nil {
		return err
	}
	if !resp.Success {
		return errorMessage(resp, "restart")
	}
	return nil
}

func (c *Client) Disconnect(ctx context.Context, args DisconnectArguments) error {
	resp, err := c.sendRequest(ctx, "disconnect", args)
	if err != nil {
		return err
	}
	if !resp.Success {
		return errorMessage(resp, "disconnect")
	}
	return nil
}

func (c *Client) Terminate(ctx context.Context, args TerminateArguments) error {
	resp, err := c.sendRequest(ctx, "terminate", args)
	if err != nil {
		return err
	}
	if !resp.Success {
		return errorMessage(resp, "terminate")
	}
	return nil
}

func (c *Client) SetBreakpoints(ctx context.Context, args SetBreakpointsArguments) ([]Breakpoint, error) {
	resp, err := c.sendRequest(ctx, "setBreakpoints", args)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errorMessage(resp, "setBreakpoints")
	}
	var body SetBreakpointsResponseBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("unmarshal breakpoints: %w", err)
	}
	return body.Breakpoints, nil
}

func (c *Client) SetFunctionBreakpoints(ctx context.Context, args SetFunctionBreakpointsArguments) ([]Breakpoint, error) {
	resp, err := c.sendRequest(ctx, "setFunctionBreakpoints", args)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errorMessage(resp, "setFunctionBreakpoints")
	}
	var body SetBreakpointsResponseBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("unmarshal breakpoints: %w", err)
	}
	return body.Breakpoints, nil
}

func (c *Client) SetExceptionBreakpoints(ctx context.Context, args SetExceptionBreakpointsArguments) ([]Breakpoint, error) {
	resp, err := c.sendRequest(ctx, "setExceptionBreakpoints", args)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errorMessage(resp, "setExceptionBreakpoints")
	}
	var body SetExceptionBreakpointsResponseBody
	_ = json.Unmarshal(resp.Body, &body)
	return body.Breakpoints, nil
}

func (c *Client) Continue(ctx context.Context, args ContinueArguments) (*ContinueResponseBody, error) {
	resp, err := c.sendRequest(ctx, "continue", args)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errorMessage(resp, "continue")
	}
	var body ContinueResponseBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("unmarshal continue response: %w", err)
	}
	return &body, nil
}

func (c *Client) Next(ctx context.Context, args NextArguments) error {
	resp, err := c.sendRequest(ctx, "next", args)
	if err != nil {
		return err
	}
	if !resp.Success {
		return errorMessage(resp, "next")
	}
	return nil
}

func (c *Client) StepIn(ctx context.Context, args StepInArguments) error {
	resp, err := c.sendRequest(ctx, "stepIn", args)
	if err != nil {
		return err
	}
	if !resp.Success {
		return errorMessage(resp, "stepIn")
	}
	return nil
}

func (c *Client) StepOut(ctx context.Context, args StepOutArguments) error {
	resp, err := c.sendRequest(ctx, "stepOut", args)
	if err != nil {
		return err
	}
	if !resp.Success {
		return errorMessage(resp, "stepOut")
	}
	return nil
}

func (c *Client) Pause(ctx context.Context, args PauseArguments) error {
	resp, err := c.sendRequest(ctx, "pause", args)
	if err != nil {
		return err
	}
	if !resp.Success {
		return errorMessage(resp, "pause")
	}
	return nil
}

func (c *Client) Threads(ctx context.Context) ([]Thread, error) {
	resp, err := c.sendRequest(ctx, "threads", nil)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errorMessage(resp, "threads")
	}
	var body ThreadsResponseBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("unmarshal threads: %w", err)
	}
	return body.Threads, nil
}

func (c *Client) StackTrace(ctx context.Context, args StackTraceArguments) (*StackTraceResponseBody, error) {
	resp, err := c.sendRequest(ctx, "stackTrace", args)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errorMessage(resp, "stackTrace")
	}
	var body StackTraceResponseBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("unmarshal stackTrace: %w", err)
	}
	return &body, nil
}

func (c *Client) Scopes(ctx context.Context, args ScopesArguments) ([]Scope, error) {
	resp, err := c.sendRequest(ctx, "scopes", args)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errorMessage(resp, "scopes")
	}
	var body ScopesResponseBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("unmarshal scopes: %w", err)
	}
	return body.Scopes, nil
}

func (c *Client) Variables(ctx context.Context, args VariablesArguments) ([]Variable, error) {
	resp, err := c.sendRequest(ctx, "variables", args)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errorMessage(resp, "variables")
	}
	var body VariablesResponseBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("unmarshal variables: %w", err)
	}
	return body.Variables, nil
}

func (c *Client) SetVariable(ctx context.Context, args SetVariableArguments) (*SetVariableResponseBody, error) {
	resp, err := c.sendRequest(ctx, "setVariable", args)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errorMessage(resp, "setVariable")
	}
	var body SetVariableResponseBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("unmarshal setVariable: %w", err)
	}
	return &body, nil
}

func (c *Client) Evaluate(ctx context.Context, args EvaluateArguments) (*EvaluateResponseBody, error) {
	resp, err := c.sendRequest(ctx, "evaluate", args)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errorMessage(resp, "evaluate")
	}
	var body EvaluateResponseBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("unmarshal evaluate: %w", err)
	}
	return &body, nil
}

func (c *Client) Source(ctx context.Context, args SourceArguments) (*SourceResponseBody, error) {
	resp, err := c.sendRequest(ctx, "source", args)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errorMessage(resp, "source")
	}
	var body SourceResponseBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("unmarshal source: %w", err)
	}
	return &body, nil
}

func (c *Client) RestartFrame(ctx context.Context, args RestartFrameArguments) error {
	resp, err := c.sendRequest(ctx, "restartFrame", args)
	if err != nil {
		return err
	}
	if !resp.Success {
		return errorMessage(resp, "restartFrame")
	}
	return nil
}

func (c *Client) StepInTargets(ctx context.Context, args StepInTargetsArguments) ([]StepInTarget, error) {
	resp, err := c.sendRequest(ctx, "stepInTargets", args)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errorMessage(resp, "stepInTargets")
	}
	var body StepInTargetsResponseBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("unmarshal stepInTargets: %w", err)
	}
	return body.Targets, nil
}

func (c *Client) Goto(ctx context.Context, args GotoArguments) error {
	resp, err := c.sendRequest(ctx, "goto", args)
	if err != nil {
		return err
	}
	if !resp.Success {
		return errorMessage(resp, "goto")
	}
	return nil
}

func (c *Client) GotoTargets(ctx context.Context, args GotoTargetsArguments) ([]GotoTarget, error) {
	resp, err := c.sendRequest(ctx, "gotoTargets", args)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errorMessage(resp, "gotoTargets")
	}
	var body GotoTargetsResponseBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("unmarshal gotoTargets: %w", err)
	}
	return body.Targets, nil
}

func (c *Client) Completions(ctx context.Context, args CompletionsArguments) ([]CompletionItem, error) {
	resp, err := c.sendRequest(ctx, "completions", args)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, errorMessage(resp, "completions")
	}
	var body CompletionsResponseBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("unmarshal completions: %w", err)
	}
	return body.Targets, nil
}
