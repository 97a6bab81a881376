// Package session implements the Session Runtime (C3): the
// initialize/launch-attach/configurationDone handshake, the
// starting→awaiting_initialized→ready→running⇄stopped→terminated state
// machine, default reverse-request handling (runInTerminal, startDebugging),
// and ordered shutdown of a session and its startDebugging children.
package session
