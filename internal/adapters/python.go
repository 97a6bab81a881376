package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// PathMapping is a local/remote root pair for remote Python debugging.
type PathMapping struct {
	LocalRoot  string `json:"localRoot"`
	RemoteRoot string `json:"remoteRoot"`
}

// PythonConfig extends Config with Python-specific (debugpy) options.
type PythonConfig struct {
	Config

	PythonPath      string        `json:"pythonPath,omitempty"`
	Console         string        `json:"console,omitempty"`
	JustMyCode      bool          `json:"justMyCode,omitempty"`
	Django          bool          `json:"django,omitempty"`
	Jinja           bool          `json:"jinja,omitempty"`
	Flask           bool          `json:"flask,omitempty"`
	Pyramid         bool          `json:"pyramid,omitempty"`
	GeventSupport   bool          `json:"gevent,omitempty"`
	Sudo            bool          `json:"sudo,omitempty"`
	RedirectOutput  bool          `json:"redirectOutput,omitempty"`
	ShowReturnValue bool          `json:"showReturnValue,omitempty"`
	SubProcess      bool          `json:"subProcess,omitempty"`
	DebugpyPath     string        `json:"debugpyPath,omitempty"`
	PathMappings    []PathMapping `json:"pathMappings,omitempty"`
	LogToFile       bool          `json:"logToFile,omitempty"`
}

// PythonAdapter implements Adapter for Python debugging via debugpy.
type PythonAdapter struct {
	config PythonConfig
}

// NewPythonAdapter creates a Python adapter with the standard defaults.
func NewPythonAdapter(baseConfig Config) (Adapter, error) {
	return &PythonAdapter{config: PythonConfig{
		Config:          baseConfig,
		Console:         "internalConsole",
		JustMyCode:      true,
		RedirectOutput:  true,
		ShowReturnValue: true,
	}}, nil
}

// Type returns the adapter type.
func (a *PythonAdapter) Type() AdapterType { return AdapterPython }

// Name returns a human-readable adapter name.
func (a *PythonAdapter) Name() string { return "Python Debugger (debugpy)" }

// Validate validates the configuration.
func (a *PythonAdapter) Validate() error {
	switch a.config.Request {
	case "launch":
		if a.config.Program == "" && a.config.Module == "" {
			return fmt.Errorf("python: program or module is required for launch request")
		}
	case "attach":
		if a.config.Port == 0 && a.config.ProcessID == 0 {
			return fmt.Errorf("python: port or processId is required for attach request")
		}
	case "":
	default:
		return fmt.Errorf("python: invalid request type: %s", a.config.Request)
	}
	return nil
}

// GetCommand runs `python -m debugpy --listen host:port` wrapping the
// target program or module.
func (a *PythonAdapter) GetCommand() (*exec.Cmd, error) {
	pythonPath := a.config.PythonPath
	if pythonPath == "" {
		var err error
		pythonPath, err = FindExecutable("python3")
		if err != nil {
			pythonPath, err = FindExecutable("python")
			if err != nil {
				return nil, fmt.Errorf("python interpreter not found: %w", err)
			}
		}
	}

	args := []string{"-m", "debugpy", "--listen", fmt.Sprintf("%s:%d", a.getHost(), a.getPort())}
	if a.config.StopOnEntry {
		args = append(args, "--wait-for-client")
	}
	if a.config.Module != "" {
		args = append(args, "-m", a.config.Module)
	} else {
		args = append(args, a.config.Program)
	}
	args = append(args, a.config.Args...)

	cmd := exec.Command(pythonPath, args...)
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
func (a *PythonAdapter) GetLaunchArgs() (json.RawMessage, error) {
	return newArgBuilder().
		SetAlways("type", "python").
		SetAlways("request", "launch").
		SetAlways("console", a.config.Console).
		SetAlways("justMyCode", a.config.JustMyCode).
		SetAlways("redirectOutput", a.config.RedirectOutput).
		SetAlways("showReturnValue", a.config.ShowReturnValue).
		SetAlways("stopOnEntry", a.config.StopOnEntry).
		Set("program", a.config.Program).
		Set("module", a.config.Module).
		Set("args", a.config.Args).
		Set("cwd", a.config.Cwd).
		Set("env", a.config.Env).
		Set("django", a.config.Django).
		Set("jinja", a.config.Jinja).
		Set("flask", a.config.Flask).
		Set("pyramid", a.config.Pyramid).
		Set("gevent", a.config.GeventSupport).
		Set("sudo", a.config.Sudo).
		Set("subProcess", a.config.SubProcess).
		Set("pathMappings", a.config.PathMappings).
		Set("logToFile", a.config.LogToFile).
		Merge(a.config.Extra).
		Bytes()
}

// GetAttachArgs returns the arguments for the attach request.
func (a *PythonAdapter) GetAttachArgs() (json.RawMessage, error) {
	return newArgBuilder().
		SetAlways("type", "python").
		SetAlways("request", "attach").
		SetAlways("justMyCode", a.config.JustMyCode).
		Set("port", a.config.Port).
		Set("processId", a.config.ProcessID).
		Set("pathMappings", a.config.PathMappings).
		Merge(a.config.Extra).
		Bytes()
}

// GetConnectionType returns whether to use "stdio" or "socket". debugpy
// always listens on a socket.
func (a *PythonAdapter) GetConnectionType() string { return "socket" }

// GetAddress returns the debugpy socket address.
func (a *PythonAdapter) GetAddress() string {
	return fmt.Sprintf("%s:%d", a.getHost(), a.getPort())
}

func (a *PythonAdapter) getHost() string {
	if a.config.Host != "" {
		return a.config.Host
	}
	return "127.0.0.1"
}

func (a *PythonAdapter) getPort() int {
	if a.config.Port > 0 {
		return a.config.Port
	}
	return 5678
}
