// Package adapters provides debug adapter configurations for the
// languages a DAP client SDK ships built in: Go (delve), Node.js,
// Python (debugpy), LLDB (C/C++/Rust), and a generic passthrough for any
// adapter a host supplies its own launch configuration for (C10).
package adapters
