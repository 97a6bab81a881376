// Package process manages debug adapter subprocess lifecycles for the
// stdio and server Transport variants (see internal/dap).
//
//	Transport ──starts──► Process ──tracked by──► Supervisor
//
// A Supervisor additionally reference-counts "server" adapters so that a
// tree of sessions created via startDebugging shares one adapter process,
// torn down only when the last sibling disconnects.
package process
