package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// DelveConfig extends Config with Delve-specific options.
type DelveConfig struct {
	Config

	Mode                 string            `json:"mode,omitempty"`
	BuildFlags           string            `json:"buildFlags,omitempty"`
	ShowGlobalVariables  bool              `json:"showGlobalVariables,omitempty"`
	ShowRegisters        bool              `json:"showRegisters,omitempty"`
	ShowPprofLabels      bool              `json:"showPprofLabels,omitempty"`
	HideSystemGoroutines bool              `json:"hideSystemGoroutines,omitempty"`
	StackTraceDepth      int               `json:"stackTraceDepth,omitempty"`
	GoroutineFilters     string            `json:"goroutineFilters,omitempty"`
	DlvPath              string            `json:"dlvPath,omitempty"`
	Substitutions        map[string]string `json:"substitutePath,omitempty"`
	Backend              string            `json:"backend,omitempty"`
	Output               string            `json:"output,omitempty"`
	CoreFilePath         string            `json:"coreFilePath,omitempty"`
	TraceDirPath         string            `json:"traceDirPath,omitempty"`
}

// DelveAdapter implements Adapter for Go debugging with Delve's DAP mode
// (`dlv dap`).
type DelveAdapter struct {
	config DelveConfig
}

// NewDelveAdapter creates a Delve adapter with the standard defaults.
func NewDelveAdapter(baseConfig Config) (Adapter, error) {
	return &DelveAdapter{config: DelveConfig{
		Config:          baseConfig,
		Mode:            "debug",
		StackTraceDepth: 50,
	}}, nil
}

// Type returns the adapter type.
func (a *DelveAdapter) Type() AdapterType { return AdapterDelve }

// Name returns a human-readable adapter name.
func (a *DelveAdapter) Name() string { return "Delve (Go Debugger)" }

// Validate validates the configuration.
func (a *DelveAdapter) Validate() error {
	switch a.config.Request {
	case "launch":
		if a.config.Program == "" {
			return fmt.Errorf("delve: program is required for launch request")
		}
	case "attach":
		if a.config.ProcessID == 0 && a.config.Port == 0 {
			return fmt.Errorf("delve: processId or port is required for attach request")
		}
	case "":
	default:
		return fmt.Errorf("delve: invalid request type: %s", a.config.Request)
	}
	return nil
}

// GetCommand returns the command to start `dlv dap`.
func (a *DelveAdapter) GetCommand() (*exec.Cmd, error) {
	dlvPath := a.config.DlvPath
	if dlvPath == "" {
		var err error
		dlvPath, err = FindExecutable("dlv")
		if err != nil {
			return nil, fmt.Errorf("delve debugger not found: %w (install with: go install github.com/go-delve/delve/cmd/dlv@latest)", err)
		}
	}

	args := []string{"dap"}
	if a.config.Port > 0 {
		args = append(args, "--listen", fmt.Sprintf("%s:%d", a.getHost(), a.config.Port))
	}

	cmd := exec.Command(dlvPath, args...)
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
func (a *DelveAdapter) GetLaunchArgs() (json.RawMessage, error) {
	b := newArgBuilder().
		SetAlways("mode", a.config.Mode).
		SetAlways("program", a.config.Program).
		SetAlways("stopOnEntry", a.config.StopOnEntry).
		Set("args", a.config.Args).
		Set("cwd", a.config.Cwd).
		Set("env", a.config.Env).
		Set("buildFlags", a.config.BuildFlags).
		Set("output", a.config.Output).
		Set("backend", a.config.Backend).
		Set("showGlobalVariables", a.config.ShowGlobalVariables).
		Set("showRegisters", a.config.ShowRegisters).
		Set("showPprofLabels", a.config.ShowPprofLabels).
		Set("hideSystemGoroutines", a.config.HideSystemGoroutines).
		Set("stackTraceDepth", a.config.StackTraceDepth).
		Set("goroutineFilters", a.config.GoroutineFilters).
		Set("substitutePath", substitutionList(a.config.Substitutions))

	switch a.config.Mode {
	case "core":
		b.Set("coreFilePath", a.config.CoreFilePath)
	case "replay":
		b.Set("traceDirPath", a.config.TraceDirPath)
	}
	return b.Merge(a.config.Extra).Bytes()
}

// GetAttachArgs returns the arguments for the attach request.
func (a *DelveAdapter) GetAttachArgs() (json.RawMessage, error) {
	return newArgBuilder().
		SetAlways("mode", "local").
		SetAlways("stopOnEntry", a.config.StopOnEntry).
		Set("processId", a.config.ProcessID).
		Set("cwd", a.config.Cwd).
		Set("showGlobalVariables", a.config.ShowGlobalVariables).
		Set("showRegisters", a.config.ShowRegisters).
		Set("stackTraceDepth", a.config.StackTraceDepth).
		Set("substitutePath", substitutionList(a.config.Substitutions)).
		Merge(a.config.Extra).
		Bytes()
}

// GetConnectionType returns whether to use "stdio" or "socket".
func (a *DelveAdapter) GetConnectionType() string {
	if a.config.Port > 0 {
		return "socket"
	}
	return "stdio"
}

// GetAddress returns the socket address (for socket connection).
func (a *DelveAdapter) GetAddress() string {
	if a.config.Port > 0 {
		return a.getHost() + ":" + strconv.Itoa(a.config.Port)
	}
	return ""
}

func (a *DelveAdapter) getHost() string {
	if a.config.Host != "" {
		return a.config.Host
	}
	return "127.0.0.1"
}

func substitutionList(subs map[string]string) []map[string]string {
	if len(subs) == 0 {
		return nil
	}
	out := make([]map[string]string, 0, len(subs))
	for from, to := range subs {
		out = append(out, map[string]string{"from": from, "to": to})
	}
	return out
}
