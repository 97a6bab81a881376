package dapconfig

import (
	"fmt"
	"os"

	"github.com/dshills/dapdebug/internal/adapters"
	"github.com/pelletier/go-toml/v2"
)

// ParseError reports a failure decoding debugger.toml, mirroring the
// teacher's loader.ParseError shape.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// fileConfig mirrors Config but keeps TimeoutMS as the only duration
// field a TOML table can carry directly.
type fileConfig struct {
	BatchWindowMS int                         `toml:"batch_window_ms"`
	Adapters      map[string]fileAdapterEntry `toml:"adapters"`
}

type fileAdapterEntry struct {
	Path      string            `toml:"path"`
	Args      []string          `toml:"args"`
	TimeoutMS int               `toml:"timeout_ms"`
	Env       map[string]string `toml:"env"`
}

// LoadFile reads path as a debugger.toml document and merges it onto
// DefaultConfig(), returning the merged result. A missing file is not an
// error — it returns the unmodified defaults, per the teacher's
// loader.TOMLLoader.Load ("file doesn't exist, not an error") idiom.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("dapconfig: reading %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	override := &Config{BatchWindowMS: fc.BatchWindowMS, Adapters: map[adapters.AdapterType]AdapterDefaults{}}
	for name, entry := range fc.Adapters {
		override.Adapters[adapters.AdapterType(name)] = AdapterDefaults{
			Path:      entry.Path,
			Args:      entry.Args,
			TimeoutMS: entry.TimeoutMS,
			Env:       entry.Env,
		}
	}
	return cfg.Merge(override), nil
}
