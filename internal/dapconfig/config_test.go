package dapconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/dapdebug/internal/adapters"
)

func TestDefaultConfigHasAllAdapterTypes(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BatchWindowMS != 50 {
		t.Fatalf("got batch window %d, want 50", cfg.BatchWindowMS)
	}
	for _, typ := range []adapters.AdapterType{adapters.AdapterDelve, adapters.AdapterNodeJS, adapters.AdapterPython, adapters.AdapterLLDB, adapters.AdapterGeneric} {
		d, ok := cfg.Adapters[typ]
		if !ok {
			t.Fatalf("missing default entry for %s", typ)
		}
		if d.Timeout != 10*time.Second {
			t.Fatalf("got timeout %v for %s, want 10s", d.Timeout, typ)
		}
	}
}

func TestMergeOverlaysOnlySetFields(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Adapters: map[adapters.AdapterType]AdapterDefaults{
			adapters.AdapterDelve: {Path: "/usr/local/bin/dlv"},
		},
	}

	merged := base.Merge(override)

	if merged.Adapters[adapters.AdapterDelve].Path != "/usr/local/bin/dlv" {
		t.Fatalf("got path %q, want the overridden path", merged.Adapters[adapters.AdapterDelve].Path)
	}
	if merged.BatchWindowMS != 50 {
		t.Fatalf("got batch window %d, want the untouched default of 50 (override left it zero)", merged.BatchWindowMS)
	}
	if merged.Adapters[adapters.AdapterDelve].TimeoutMS != 10000 {
		t.Fatal("expected timeout to remain the default since override didn't set it")
	}
}

func TestMergeNilOverrideIsNoOp(t *testing.T) {
	base := DefaultConfig()
	merged := base.Merge(nil)
	if merged != base {
		t.Fatal("expected Merge(nil) to return base unchanged")
	}
}

func TestApplyEnvOverridesPathAndTimeout(t *testing.T) {
	t.Setenv("DAP_DELVE_PATH", "/env/dlv")
	t.Setenv("DAP_DELVE_TIMEOUT_MS", "2500")
	t.Setenv("DAP_BATCH_WINDOW_MS", "100")

	cfg := DefaultConfig().ApplyEnv()

	if cfg.Adapters[adapters.AdapterDelve].Path != "/env/dlv" {
		t.Fatalf("got path %q, want /env/dlv", cfg.Adapters[adapters.AdapterDelve].Path)
	}
	if cfg.Adapters[adapters.AdapterDelve].TimeoutMS != 2500 {
		t.Fatalf("got timeout_ms %d, want 2500", cfg.Adapters[adapters.AdapterDelve].TimeoutMS)
	}
	if cfg.Adapters[adapters.AdapterDelve].Timeout != 2500*time.Millisecond {
		t.Fatalf("got timeout %v, want 2500ms", cfg.Adapters[adapters.AdapterDelve].Timeout)
	}
	if cfg.BatchWindowMS != 100 {
		t.Fatalf("got batch window %d, want 100", cfg.BatchWindowMS)
	}
}

func TestApplyEnvIgnoresUnsetVars(t *testing.T) {
	cfg := DefaultConfig()
	want := cfg.Adapters[adapters.AdapterPython].Path
	cfg.ApplyEnv()
	if cfg.Adapters[adapters.AdapterPython].Path != want {
		t.Fatal("expected an unset env var to leave the existing value untouched")
	}
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.BatchWindowMS != 50 {
		t.Fatal("expected a missing file to yield unmodified defaults, not an error")
	}
}

func TestLoadFileParsesAndMerges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "debugger.toml")
	contents := `
batch_window_ms = 75

[adapters.delve]
path = "/opt/dlv"
args = ["--log"]
timeout_ms = 5000
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.BatchWindowMS != 75 {
		t.Fatalf("got batch window %d, want 75", cfg.BatchWindowMS)
	}
	d := cfg.Adapters[adapters.AdapterDelve]
	if d.Path != "/opt/dlv" || d.TimeoutMS != 5000 || len(d.Args) != 1 || d.Args[0] != "--log" {
		t.Fatalf("got %+v, want path=/opt/dlv timeout_ms=5000 args=[--log]", d)
	}
	// Adapter types not mentioned in the file must keep their defaults.
	if cfg.Adapters[adapters.AdapterPython].TimeoutMS != 10000 {
		t.Fatal("expected an adapter type absent from the file to keep its default timeout")
	}
}

func TestLoadFileRejectsInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("not = [valid toml"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected an error for malformed TOML")
	}
}

func TestToAdapterConfigLayersDefaultsUnderBase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Adapters[adapters.AdapterDelve] = AdapterDefaults{
		Path: "/opt/dlv",
		Env:  map[string]string{"GOTRACEBACK": "all"},
	}

	base := adapters.Config{Request: "launch", Program: "/bin/app"}
	got := cfg.ToAdapterConfig(adapters.AdapterDelve, base)

	if got.Type != adapters.AdapterDelve {
		t.Fatalf("got type %s, want delve", got.Type)
	}
	if got.AdapterPath != "/opt/dlv" {
		t.Fatalf("got adapter path %q, want /opt/dlv (from configured defaults)", got.AdapterPath)
	}
	if got.Program != "/bin/app" {
		t.Fatal("expected the caller-supplied base program to survive")
	}
	if got.Env["GOTRACEBACK"] != "all" {
		t.Fatal("expected configured default env to be merged in")
	}
}

func TestToAdapterConfigPreservesExplicitBasePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Adapters[adapters.AdapterDelve] = AdapterDefaults{Path: "/opt/dlv"}

	base := adapters.Config{AdapterPath: "/caller/dlv"}
	got := cfg.ToAdapterConfig(adapters.AdapterDelve, base)

	if got.AdapterPath != "/caller/dlv" {
		t.Fatal("expected an explicit base.AdapterPath to win over the configured default")
	}
}

func TestToAdapterConfigUnknownTypeReturnsBaseUnchanged(t *testing.T) {
	cfg := DefaultConfig()
	base := adapters.Config{Program: "/bin/app"}
	got := cfg.ToAdapterConfig("unknown-type", base)
	if got.Program != "/bin/app" || got.Type != "" {
		t.Fatal("expected an unrecognized adapter type to return base untouched")
	}
}
