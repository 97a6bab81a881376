package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// NodeJSConfig extends Config with Node.js-specific options.
type NodeJSConfig struct {
	Config

	RuntimeExecutable        string   `json:"runtimeExecutable,omitempty"`
	RuntimeArgs               []string `json:"runtimeArgs,omitempty"`
	Console                   string   `json:"console,omitempty"`
	SourceMaps                bool     `json:"sourceMaps,omitempty"`
	OutFiles                  []string `json:"outFiles,omitempty"`
	SkipFiles                 []string `json:"skipFiles,omitempty"`
	Trace                     bool     `json:"trace,omitempty"`
	SmartStep                 bool     `json:"smartStep,omitempty"`
	Restart                   bool     `json:"restart,omitempty"`
	LocalRoot                 string   `json:"localRoot,omitempty"`
	RemoteRoot                string   `json:"remoteRoot,omitempty"`
	Protocol                  string   `json:"protocol,omitempty"`
	Timeout                   int      `json:"timeout,omitempty"`
	ResolveSourceMapLocations []string `json:"resolveSourceMapLocations,omitempty"`
	AutoAttachChildProcesses  bool     `json:"autoAttachChildProcesses,omitempty"`
	ShowAsyncStacks           bool     `json:"showAsyncStacks,omitempty"`
}

// NodeJSAdapter implements Adapter for Node.js debugging via its built-in
// inspector protocol.
type NodeJSAdapter struct {
	config NodeJSConfig
}

// NewNodeJSAdapter creates a Node.js adapter with the standard defaults.
func NewNodeJSAdapter(baseConfig Config) (Adapter, error) {
	return &NodeJSAdapter{config: NodeJSConfig{
		Config:     baseConfig,
		Console:    "internalConsole",
		SourceMaps: true,
		SmartStep:  true,
		Protocol:   "inspector",
		Timeout:    10000,
	}}, nil
}

// Type returns the adapter type.
func (a *NodeJSAdapter) Type() AdapterType { return AdapterNodeJS }

// Name returns a human-readable adapter name.
func (a *NodeJSAdapter) Name() string { return "Node.js Debugger" }

// Validate validates the configuration.
func (a *NodeJSAdapter) Validate() error {
	switch a.config.Request {
	case "launch":
		if a.config.Program == "" {
			return fmt.Errorf("nodejs: program is required for launch request")
		}
	case "attach":
		if a.config.Port == 0 {
			return fmt.Errorf("nodejs: port is required for attach request")
		}
	case "":
	default:
		return fmt.Errorf("nodejs: invalid request type: %s", a.config.Request)
	}
	return nil
}

// GetCommand starts node with --inspect(-brk) listening on the configured
// port, since Node.js has no separate DAP adapter process of its own.
func (a *NodeJSAdapter) GetCommand() (*exec.Cmd, error) {
	runtime := a.config.RuntimeExecutable
	if runtime == "" {
		var err error
		runtime, err = FindExecutable("node")
		if err != nil {
			return nil, fmt.Errorf("node.js runtime not found: %w (install from https://nodejs.org/)", err)
		}
	}

	args := append([]string{}, a.config.RuntimeArgs...)
	if a.config.StopOnEntry {
		args = append(args, fmt.Sprintf("--inspect-brk=%d", a.getPort()))
	} else {
		args = append(args, fmt.Sprintf("--inspect=%d", a.getPort()))
	}
	args = append(args, a.config.Program)
	args = append(args, a.config.Args...)

	cmd := exec.Command(runtime, args...)
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
func (a *NodeJSAdapter) GetLaunchArgs() (json.RawMessage, error) {
	return newArgBuilder().
		SetAlways("type", "node").
		SetAlways("request", "launch").
		SetAlways("program", a.config.Program).
		SetAlways("stopOnEntry", a.config.StopOnEntry).
		SetAlways("sourceMaps", a.config.SourceMaps).
		SetAlways("smartStep", a.config.SmartStep).
		SetAlways("console", a.config.Console).
		SetAlways("protocol", a.config.Protocol).
		Set("args", a.config.Args).
		Set("cwd", a.config.Cwd).
		Set("env", a.config.Env).
		Set("runtimeExecutable", a.config.RuntimeExecutable).
		Set("runtimeArgs", a.config.RuntimeArgs).
		Set("outFiles", a.config.OutFiles).
		Set("skipFiles", a.config.SkipFiles).
		Set("trace", a.config.Trace).
		Set("restart", a.config.Restart).
		Set("resolveSourceMapLocations", a.config.ResolveSourceMapLocations).
		Set("autoAttachChildProcesses", a.config.AutoAttachChildProcesses).
		Set("showAsyncStacks", a.config.ShowAsyncStacks).
		Set("timeout", a.config.Timeout).
		Merge(a.config.Extra).
		Bytes()
}

// GetAttachArgs returns the arguments for the attach request.
func (a *NodeJSAdapter) GetAttachArgs() (json.RawMessage, error) {
	return newArgBuilder().
		SetAlways("type", "node").
		SetAlways("request", "attach").
		SetAlways("port", a.config.Port).
		SetAlways("sourceMaps", a.config.SourceMaps).
		SetAlways("smartStep", a.config.SmartStep).
		SetAlways("protocol", a.config.Protocol).
		Set("address", a.config.Host).
		Set("processId", a.config.ProcessID).
		Set("localRoot", a.config.LocalRoot).
		Set("remoteRoot", a.config.RemoteRoot).
		Set("skipFiles", a.config.SkipFiles).
		Set("trace", a.config.Trace).
		Set("timeout", a.config.Timeout).
		Merge(a.config.Extra).
		Bytes()
}

// GetConnectionType returns whether to use "stdio" or "socket". Node.js
// always uses socket, connecting to the inspector port.
func (a *NodeJSAdapter) GetConnectionType() string { return "socket" }

// GetAddress returns the inspector socket address.
func (a *NodeJSAdapter) GetAddress() string {
	return a.getHost() + ":" + strconv.Itoa(a.getPort())
}

func (a *NodeJSAdapter) getHost() string {
	if a.config.Host != "" {
		return a.config.Host
	}
	return "127.0.0.1"
}

func (a *NodeJSAdapter) getPort() int {
	if a.config.Port > 0 {
		return a.config.Port
	}
	return 9229
}
