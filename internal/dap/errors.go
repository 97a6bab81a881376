package dap

import "errors"

// Sentinel error kinds, per SPEC_FULL.md §7.
var (
	// ErrTransport covers process spawn failures and sockets closing mid-request.
	ErrTransport = errors.New("dap: transport error")

	// ErrTimeout covers request timeouts, port-detection timeouts, and startup timeouts.
	ErrTimeout = errors.New("dap: timeout")

	// ErrProtocol covers malformed JSON and unexpected message shapes.
	ErrProtocol = errors.New("dap: protocol error")

	// ErrAdapter wraps a DAP response with success=false.
	ErrAdapter = errors.New("dap: adapter error")

	// ErrReverseRequestHandlerMissing is returned to the adapter when no
	// handler is registered for an incoming reverse request.
	ErrReverseRequestHandlerMissing = errors.New("dap: no handler for reverse request")

	// ErrClosed is returned by Client methods after Close has been called
	// or the transport has closed.
	ErrClosed = errors.New("dap: client closed")
)
