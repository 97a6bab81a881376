package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// GenericAdapter drives any DAP adapter a host already knows how to
// configure: it trusts AdapterPath/AdapterArgs for the process and merges
// Extra verbatim over the common launch/attach fields, so the registry is never dead code
// for an adapter this module doesn't ship a named type for
// (SPEC_FULL.md §1.3).
type GenericAdapter struct {
	config Config
}

// NewGenericAdapter creates a generic adapter from config.
func NewGenericAdapter(config Config) (Adapter, error) {
	return &GenericAdapter{config: config}, nil
}

// Type returns the adapter type.
func (a *GenericAdapter) Type() AdapterType { return AdapterGeneric }

// Name returns a human-readable adapter name.
func (a *GenericAdapter) Name() string {
	if a.config.Name != "" {
		return a.config.Name
	}
	return "Generic DAP Adapter"
}

// Validate validates the configuration.
func (a *GenericAdapter) Validate() error {
	if a.config.AdapterPath == "" && a.config.Port == 0 {
		return fmt.Errorf("generic: adapterPath or port is required")
	}
	switch a.config.Request {
	case "launch", "attach", "":
	default:
		return fmt.Errorf("generic: invalid request type: %s", a.config.Request)
	}
	return nil
}

// GetCommand runs AdapterPath with AdapterArgs verbatim.
func (a *GenericAdapter) GetCommand() (*exec.Cmd, error) {
	if a.config.AdapterPath == "" {
		return nil, fmt.Errorf("generic: no adapterPath configured (socket-only adapter)")
	}
	cmd := exec.Command(a.config.AdapterPath, a.config.AdapterArgs...)
	if a.config.Cwd != "" {
		cmd.Dir = a.config.Cwd
	}
	cmd.Env = os.Environ()
	for k, v := range a.config.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	return cmd, nil
}

// GetLaunchArgs returns Config.Extra merged over the common launch
// fields, letting a host fully control the body while still getting
// program/args/cwd/env populated for free when present.
func (a *GenericAdapter) GetLaunchArgs() (json.RawMessage, error) {
	return newArgBuilder().
		Set("program", a.config.Program).
		Set("args", a.config.Args).
		Set("cwd", a.config.Cwd).
		Set("env", a.config.Env).
		Set("stopOnEntry", a.config.StopOnEntry).
		Merge(a.config.Extra).
		Bytes()
}

// GetAttachArgs returns Config.Extra merged over the common attach
// fields.
func (a *GenericAdapter) GetAttachArgs() (json.RawMessage, error) {
	return newArgBuilder().
		Set("processId", a.config.ProcessID).
		Set("port", a.config.Port).
		Set("host", a.config.Host).
		Merge(a.config.Extra).
		Bytes()
}

// GetConnectionType returns whether to use "stdio" or "socket".
func (a *GenericAdapter) GetConnectionType() string {
	if a.config.Port > 0 {
		return "socket"
	}
	return "stdio"
}

// GetAddress returns the socket address (for socket connection).
func (a *GenericAdapter) GetAddress() string {
	if a.config.Port > 0 {
		host := a.config.Host
		if host == "" {
			host = "127.0.0.1"
		}
		return fmt.Sprintf("%s:%d", host, a.config.Port)
	}
	return ""
}
