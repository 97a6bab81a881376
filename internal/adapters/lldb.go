package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// LLDBConfig extends Config with lldb-dap-specific options, for debugging
// C, C++, and Rust binaries.
type LLDBConfig struct {
	Config

	LLDBPath     string   `json:"lldbPath,omitempty"`
	SourceLanguages []string `json:"sourceLanguages,omitempty"`
	InitCommands []string `json:"initCommands,omitempty"`
	PreRunCommands []string `json:"preRunCommands,omitempty"`
	StopCommands []string `json:"stopCommands,omitempty"`
	ExitCommands []string `json:"exitCommands,omitempty"`
	EnableAutoVariableSummaries bool `json:"enableAutoVariableSummaries,omitempty"`
}

// LLDBAdapter implements Adapter for lldb-dap (the LLDB project's native
// DAP server, invoked over stdio like Delve's `dlv dap`).
type LLDBAdapter struct {
	config LLDBConfig
}

// NewLLDBAdapter creates an LLDB adapter with the standard defaults.
func NewLLDBAdapter(baseConfig Config) (Adapter, error) {
	return &LLDBAdapter{config: LLDBConfig{Config: baseConfig}}, nil
}

// Type returns the adapter type.
func (a *LLDBAdapter) Type() AdapterType { return AdapterLLDB }

// Name returns a human-readable adapter name.
func (a *LLDBAdapter) Name() string { return "LLDB (C/C++/Rust Debugger)" }

// Validate validates the configuration.
func (a *LLDBAdapter) Validate() error {
	switch a.config.Request {
	case "launch":
		if a.config.Program == "" {
			return fmt.Errorf("lldb: program is required for launch request")
		}
	case "attach":
		if a.config.ProcessID == 0 && a.config.Port == 0 {
			return fmt.Errorf("lldb: processId or port is required for attach request")
		}
	case "":
	default:
		return fmt.Errorf("lldb: invalid request type: %s", a.config.Request)
	}
	return nil
}

// GetCommand returns the command to start lldb-dap, which speaks DAP
// directly over stdio (no `dap` subcommand the way dlv needs one).
func (a *LLDBAdapter) GetCommand() (*exec.Cmd, error) {
	lldbPath := a.config.LLDBPath
	if lldbPath == "" {
		var err error
		lldbPath, err = FindExecutable("lldb-dap")
		if err != nil {
			lldbPath, err = FindExecutable("lldb-vscode")
			if err != nil {
				return nil, fmt.Errorf("lldb-dap not found: %w (install the LLDB toolchain)", err)
			}
		}
	}

	cmd := exec.Command(lldbPath)
	if a.config.Cwd != "" {
		cmd.Dir = a.config.Cwd
	}
	cmd.Env = os.Environ()
	for k, v := range a.config.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	return cmd, nil
}

// GetLaunchArgs returns the arguments for the launch request.
func (a *LLDBAdapter) GetLaunchArgs() (json.RawMessage, error) {
	return newArgBuilder().
		SetAlways("program", a.config.Program).
		SetAlways("stopOnEntry", a.config.StopOnEntry).
		SetAlways("enableAutoVariableSummaries", a.config.EnableAutoVariableSummaries).
		Set("args", a.config.Args).
		Set("cwd", a.config.Cwd).
		Set("env", envList(a.config.Env)).
		Set("sourceLanguages", a.config.SourceLanguages).
		Set("initCommands", a.config.InitCommands).
		Set("preRunCommands", a.config.PreRunCommands).
		Set("stopCommands", a.config.StopCommands).
		Set("exitCommands", a.config.ExitCommands).
		Merge(a.config.Extra).
		Bytes()
}

// GetAttachArgs returns the arguments for the attach request.
func (a *LLDBAdapter) GetAttachArgs() (json.RawMessage, error) {
	return newArgBuilder().
		Set("pid", a.config.ProcessID).
		Set("program", a.config.Program).
		Set("initCommands", a.config.InitCommands).
		Merge(a.config.Extra).
		Bytes()
}

// GetConnectionType returns whether to use "stdio" or "socket".
func (a *LLDBAdapter) GetConnectionType() string {
	if a.config.Port > 0 {
		return "socket"
	}
	return "stdio"
}

// GetAddress returns the socket address (for socket connection).
func (a *LLDBAdapter) GetAddress() string {
	if a.config.Port > 0 {
		host := a.config.Host
		if host == "" {
			host = "127.0.0.1"
		}
		return fmt.Sprintf("%s:%d", host, a.config.Port)
	}
	return ""
}

// lldb-dap expects env as an array of "KEY=VALUE" strings rather than an
// object the way node/python/delve adapters do.
func envList(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}
