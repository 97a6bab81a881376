package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os/exec"
	"time"

	"github.com/tidwall/sjson"
)

// AdapterType identifies a debug adapter.
type AdapterType string

const (
	// AdapterDelve is the Go debugger (delve).
	AdapterDelve AdapterType = "delve"
	// AdapterNodeJS is the Node.js debugger.
	AdapterNodeJS AdapterType = "nodejs"
	// AdapterPython is the Python debugger (debugpy).
	AdapterPython AdapterType = "python"
	// AdapterLLDB is the LLDB debugger for C/C++/Rust.
	AdapterLLDB AdapterType = "lldb"
	// AdapterGeneric is a generic DAP adapter driven entirely by Config.
	AdapterGeneric AdapterType = "generic"
)

// Config is the base configuration for a debug adapter.
type Config struct {
	Type AdapterType `json:"type"`
	Name string      `json:"name"`

	// Request is the request type: "launch" or "attach".
	Request string `json:"request"`

	Program string            `json:"program,omitempty"`
	Module  string            `json:"module,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Cwd     string            `json:"cwd,omitempty"`
	Env     map[string]string `json:"env,omitempty"`

	StopOnEntry bool `json:"stopOnEntry,omitempty"`

	Port      int    `json:"port,omitempty"`
	Host      string `json:"host,omitempty"`
	ProcessID int    `json:"processId,omitempty"`

	AdapterPath string   `json:"adapterPath,omitempty"`
	AdapterArgs []string `json:"adapterArgs,omitempty"`

	// Extra carries adapter-specific fields a host wants merged into
	// whatever launch/attach JSON the adapter builds (e.g. a generic
	// adapter's entire argument set, or an extension field a built-in
	// adapter doesn't model explicitly).
	Extra map[string]interface{} `json:"extra,omitempty"`
}

// Adapter provides configuration and launch capabilities for a debug
// adapter. GetLaunchArgs/GetAttachArgs return raw JSON rather than
// interface{} since that is exactly what dap.Client.Launch/Attach expect
// (§6: the adapter is an external collaborator, not re-specified).
type Adapter interface {
	Type() AdapterType
	Name() string
	Validate() error
	GetCommand() (*exec.Cmd, error)
	GetLaunchArgs() (json.RawMessage, error)
	GetAttachArgs() (json.RawMessage, error)
	GetConnectionType() string
	GetAddress() string
}

// Registry manages available debug adapters, keyed by type, so a host can
// register additional factories (e.g. a bespoke in-house adapter) beside
// the built-ins without forking this package.
type Registry struct {
	adapters map[AdapterType]func(Config) (Adapter, error)
}

// NewRegistry creates a registry pre-populated with every built-in adapter
// (SPEC_FULL.md §1.3: the registry ships delve/nodejs/python/lldb/generic,
// not just delve with stubs).
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[AdapterType]func(Config) (Adapter, error))}
	r.Register(AdapterDelve, NewDelveAdapter)
	r.Register(AdapterNodeJS, NewNodeJSAdapter)
	r.Register(AdapterPython, NewPythonAdapter)
	r.Register(AdapterLLDB, NewLLDBAdapter)
	r.Register(AdapterGeneric, NewGenericAdapter)
	return r
}

// Register installs (or overwrites) the factory for adapterType.
func (r *Registry) Register(adapterType AdapterType, factory func(Config) (Adapter, error)) {
	r.adapters[adapterType] = factory
}

// Create builds an Adapter from config.
func (r *Registry) Create(config Config) (Adapter, error) {
	factory, ok := r.adapters[config.Type]
	if !ok {
		return nil, fmt.Errorf("unknown adapter type: %s", config.Type)
	}
	return factory(config)
}

// AvailableAdapters returns the list of registered adapter types.
func (r *Registry) AvailableAdapters() []AdapterType {
	result := make([]AdapterType, 0, len(r.adapters))
	for t := range r.adapters {
		result = append(result, t)
	}
	return result
}

// FindExecutable searches for an executable in PATH.
func FindExecutable(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH: %w", name, err)
	}
	return path, nil
}

// DetectAdapterType attempts to detect the appropriate adapter type for a
// file from its extension.
func DetectAdapterType(filename string) AdapterType {
	switch {
	case hasExtension(filename, ".go"):
		return AdapterDelve
	case hasExtension(filename, ".js", ".ts", ".mjs", ".cjs"):
		return AdapterNodeJS
	case hasExtension(filename, ".py"):
		return AdapterPython
	case hasExtension(filename, ".c", ".cpp", ".cc", ".rs"):
		return AdapterLLDB
	default:
		return AdapterGeneric
	}
}

func hasExtension(filename string, extensions ...string) bool {
	for _, ext := range extensions {
		if len(filename) > len(ext) && filename[len(filename)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// WaitForPort polls address until it accepts connections or ctx is done.
func WaitForPort(ctx context.Context, host string, port int) error {
	address := fmt.Sprintf("%s:%d", host, port)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for port %d: %w", port, ctx.Err())
		case <-ticker.C:
			conn, err := net.DialTimeout("tcp", address, 50*time.Millisecond)
			if err == nil {
				conn.Close()
				return nil
			}
		}
	}
}

// argBuilder accumulates launch/attach JSON with sjson rather than a
// map[string]interface{} (the teacher's adapters/delve.go pattern,
// replaced per SPEC_FULL.md §1.2 since the teacher already depends on
// tidwall/sjson elsewhere and this keeps field-omission logic next to
// each Set call instead of a block of `if` guards).
type argBuilder struct {
	buf []byte
	err error
}

func newArgBuilder() *argBuilder { return &argBuilder{buf: []byte("{}")} }

// Set assigns path to v, skipping the zero value for strings/ints/bools
// and nil/empty for slices/maps, mirroring the teacher's omitempty-by-hand
// style without a struct field for every possible adapter extension.
func (b *argBuilder) Set(path string, v interface{}) *argBuilder {
	if b.err != nil || isZero(v) {
		return b
	}
	b.buf, b.err = sjson.SetBytes(b.buf, path, v)
	return b
}

// SetAlways assigns path to v unconditionally (for fields like
// "stopOnEntry" that are meaningful even at their zero value).
func (b *argBuilder) SetAlways(path string, v interface{}) *argBuilder {
	if b.err != nil {
		return b
	}
	b.buf, b.err = sjson.SetBytes(b.buf, path, v)
	return b
}

// Merge layers extra on top of whatever has been built so far, letting
// host-supplied extension fields override built-in ones.
func (b *argBuilder) Merge(extra map[string]interface{}) *argBuilder {
	for k, v := range extra {
		if b.err != nil {
			return b
		}
		b.buf, b.err = sjson.SetBytes(b.buf, k, v)
	}
	return b
}

func (b *argBuilder) Bytes() (json.RawMessage, error) {
	if b.err != nil {
		return nil, fmt.Errorf("adapters: building argument json: %w", b.err)
	}
	return json.RawMessage(b.buf), nil
}

func isZero(v interface{}) bool {
	switch t := v.(type) {
	case string:
		return t == ""
	case int:
		return t == 0
	case bool:
		return !t
	case []string:
		return len(t) == 0
	case map[string]string:
		return len(t) == 0
	case []map[string]string:
		return len(t) == 0
	case []PathMapping:
		return len(t) == 0
	case nil:
		return true
	default:
		return false
	}
}
