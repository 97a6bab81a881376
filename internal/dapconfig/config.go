package dapconfig

import (
	"os"
	"strconv"
	"time"

	"github.com/dshills/dapdebug/internal/adapters"
)

// AdapterDefaults is one adapter type's configured defaults: where its
// executable lives, what extra arguments to always pass, its per-request
// timeout, and any environment variables to inject into every launched
// instance.
type AdapterDefaults struct {
	Path      string            `toml:"path"`
	Args      []string          `toml:"args"`
	Timeout   time.Duration     `toml:"-"`
	TimeoutMS int               `toml:"timeout_ms"`
	Env       map[string]string `toml:"env"`
}

// Config is the debugger-wide adapter configuration, keyed by
// adapters.AdapterType.
type Config struct {
	Adapters map[adapters.AdapterType]AdapterDefaults `toml:"adapters"`

	// BatchWindowMS is the configured breakpoint sync coalescing window in
	// milliseconds (default 50). The breakpoint engine does not read it;
	// its window is the fixed batchWindow constant in internal/breakpoint.
	BatchWindowMS int `toml:"batch_window_ms"`
}

// DefaultConfig returns the built-in defaults: every adapter type this
// module ships, a 10s timeout, and the spec's default 50ms sync batch
// window.
func DefaultConfig() *Config {
	const defaultTimeoutMS = 10000
	return &Config{
		BatchWindowMS: 50,
		Adapters: map[adapters.AdapterType]AdapterDefaults{
			adapters.AdapterDelve: {
				Timeout:   defaultTimeoutMS * time.Millisecond,
				TimeoutMS: defaultTimeoutMS,
			},
			adapters.AdapterNodeJS: {
				Timeout:   defaultTimeoutMS * time.Millisecond,
				TimeoutMS: defaultTimeoutMS,
			},
			adapters.AdapterPython: {
				Timeout:   defaultTimeoutMS * time.Millisecond,
				TimeoutMS: defaultTimeoutMS,
			},
			adapters.AdapterLLDB: {
				Timeout:   defaultTimeoutMS * time.Millisecond,
				TimeoutMS: defaultTimeoutMS,
			},
			adapters.AdapterGeneric: {
				Timeout:   defaultTimeoutMS * time.Millisecond,
				TimeoutMS: defaultTimeoutMS,
			},
		},
	}
}

// Merge overlays override onto base, field by field, returning base
// mutated in place. Zero-valued fields in override leave base untouched,
// the same "only what was set wins" semantics as the teacher's
// loader.DeepMerge, specialized to this package's fixed shape instead of
// map[string]any.
func (base *Config) Merge(override *Config) *Config {
	if override == nil {
		return base
	}
	if override.BatchWindowMS > 0 {
		base.BatchWindowMS = override.BatchWindowMS
	}
	if base.Adapters == nil {
		base.Adapters = make(map[adapters.AdapterType]AdapterDefaults)
	}
	for t, d := range override.Adapters {
		existing := base.Adapters[t]
		if d.Path != "" {
			existing.Path = d.Path
		}
		if len(d.Args) > 0 {
			existing.Args = d.Args
		}
		if d.TimeoutMS > 0 {
			existing.TimeoutMS = d.TimeoutMS
			existing.Timeout = time.Duration(d.TimeoutMS) * time.Millisecond
		}
		if len(d.Env) > 0 {
			existing.Env = d.Env
		}
		base.Adapters[t] = existing
	}
	return base
}

// ApplyEnv overlays DAP_* environment variables onto cfg, the teacher's
// env-override layer for this package's narrower settings surface:
//
//	DAP_<TYPE>_PATH         adapter executable path
//	DAP_<TYPE>_TIMEOUT_MS   per-request timeout in milliseconds
//	DAP_BATCH_WINDOW_MS     breakpoint sync coalescing window
//
// <TYPE> is the upper-cased adapter type, e.g. DAP_DELVE_PATH.
func (cfg *Config) ApplyEnv() *Config {
	if v := os.Getenv("DAP_BATCH_WINDOW_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.BatchWindowMS = ms
		}
	}
	for t := range cfg.Adapters {
		prefix := "DAP_" + envName(t)
		d := cfg.Adapters[t]
		if v := os.Getenv(prefix + "_PATH"); v != "" {
			d.Path = v
		}
		if v := os.Getenv(prefix + "_TIMEOUT_MS"); v != "" {
			if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
				d.TimeoutMS = ms
				d.Timeout = time.Duration(ms) * time.Millisecond
			}
		}
		cfg.Adapters[t] = d
	}
	return cfg
}

func envName(t adapters.AdapterType) string {
	out := make([]byte, len(t))
	for i := 0; i < len(t); i++ {
		c := t[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// ToAdapterConfig translates the adapter-defaults layer into an
// adapters.Config the registry can build an Adapter from, layering a
// caller-supplied base (program/args/request/etc.) under the configured
// defaults (path/env).
func (cfg *Config) ToAdapterConfig(adapterType adapters.AdapterType, base adapters.Config) adapters.Config {
	d, ok := cfg.Adapters[adapterType]
	if !ok {
		return base
	}
	base.Type = adapterType
	if base.AdapterPath == "" {
		base.AdapterPath = d.Path
	}
	if len(d.Args) > 0 {
		base.AdapterArgs = append(append([]string{}, d.Args...), base.AdapterArgs...)
	}
	if len(d.Env) > 0 {
		merged := make(map[string]string, len(d.Env)+len(base.Env))
		for k, v := range d.Env {
			merged[k] = v
		}
		for k, v := range base.Env {
			merged[k] = v
		}
		base.Env = merged
	}
	return base
}
