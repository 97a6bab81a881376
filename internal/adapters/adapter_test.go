package adapters

import (
	"encoding/json"
	"testing"
)

func TestRegistryCreateUnknownType(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Create(Config{Type: "nonexistent"}); err == nil {
		t.Fatal("expected an error for an unregistered adapter type")
	}
}

func TestRegistryCreateKnownTypes(t *testing.T) {
	r := NewRegistry()
	for _, typ := range []AdapterType{AdapterDelve, AdapterNodeJS, AdapterPython, AdapterLLDB, AdapterGeneric} {
		a, err := r.Create(Config{Type: typ})
		if err != nil {
			t.Fatalf("Create(%s): %v", typ, err)
		}
		if a.Type() != typ {
			t.Fatalf("got type %s, want %s", a.Type(), typ)
		}
	}
}

func TestAvailableAdaptersListsAllFive(t *testing.T) {
	r := NewRegistry()
	got := r.AvailableAdapters()
	if len(got) != 5 {
		t.Fatalf("got %d adapter types, want 5", len(got))
	}
}

func TestDetectAdapterType(t *testing.T) {
	cases := map[string]AdapterType{
		"main.go":    AdapterDelve,
		"index.ts":   AdapterNodeJS,
		"script.py":  AdapterPython,
		"program.rs": AdapterLLDB,
		"unknown.xx": AdapterGeneric,
	}
	for name, want := range cases {
		if got := DetectAdapterType(name); got != want {
			t.Errorf("DetectAdapterType(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestDelveValidateRequiresProgramForLaunch(t *testing.T) {
	a, _ := NewDelveAdapter(Config{Request: "launch"})
	if err := a.Validate(); err == nil {
		t.Fatal("expected an error when program is missing for a launch request")
	}

	a, _ = NewDelveAdapter(Config{Request: "launch", Program: "/bin/app"})
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDelveValidateRequiresProcessOrPortForAttach(t *testing.T) {
	a, _ := NewDelveAdapter(Config{Request: "attach"})
	if err := a.Validate(); err == nil {
		t.Fatal("expected an error when neither processId nor port is set for attach")
	}

	a, _ = NewDelveAdapter(Config{Request: "attach", ProcessID: 123})
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDelveGetLaunchArgsOmitsZeroFieldsButKeepsAlways(t *testing.T) {
	a, _ := NewDelveAdapter(Config{Request: "launch", Program: "/bin/app", StopOnEntry: false})
	raw, err := a.GetLaunchArgs()
	if err != nil {
		t.Fatalf("GetLaunchArgs: %v", err)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body["program"] != "/bin/app" {
		t.Errorf("got program %v, want /bin/app", body["program"])
	}
	if _, ok := body["stopOnEntry"]; !ok {
		t.Error("expected stopOnEntry to be present even at its zero value (SetAlways)")
	}
	if _, ok := body["buildFlags"]; ok {
		t.Error("expected buildFlags to be omitted when empty (Set skips zero values)")
	}
}

func TestDelveGetLaunchArgsMergesExtraOverBuiltins(t *testing.T) {
	a, _ := NewDelveAdapter(Config{
		Request: "launch",
		Program: "/bin/app",
		Extra:   map[string]interface{}{"program": "/overridden"},
	})
	raw, err := a.GetLaunchArgs()
	if err != nil {
		t.Fatalf("GetLaunchArgs: %v", err)
	}
	var body map[string]interface{}
	json.Unmarshal(raw, &body)
	if body["program"] != "/overridden" {
		t.Fatalf("got program %v, want Extra to override the built-in value", body["program"])
	}
}

func TestDelveConnectionTypeSwitchesOnPort(t *testing.T) {
	stdio, _ := NewDelveAdapter(Config{})
	if stdio.GetConnectionType() != "stdio" {
		t.Error("expected stdio connection type with no port configured")
	}

	socket, _ := NewDelveAdapter(Config{Port: 4711})
	if socket.GetConnectionType() != "socket" {
		t.Error("expected socket connection type when a port is configured")
	}
	if socket.GetAddress() != "127.0.0.1:4711" {
		t.Errorf("got address %q, want 127.0.0.1:4711", socket.GetAddress())
	}
}

func TestGenericValidateRequiresPathOrPort(t *testing.T) {
	a, _ := NewGenericAdapter(Config{})
	if err := a.Validate(); err == nil {
		t.Fatal("expected an error when neither adapterPath nor port is set")
	}

	a, _ = NewGenericAdapter(Config{AdapterPath: "/usr/bin/my-adapter"})
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestGenericGetLaunchArgsMergesExtraVerbatim(t *testing.T) {
	a, _ := NewGenericAdapter(Config{
		Program: "/bin/app",
		Extra:   map[string]interface{}{"custom": "value"},
	})
	raw, err := a.GetLaunchArgs()
	if err != nil {
		t.Fatalf("GetLaunchArgs: %v", err)
	}
	var body map[string]interface{}
	json.Unmarshal(raw, &body)
	if body["program"] != "/bin/app" {
		t.Errorf("got program %v, want /bin/app", body["program"])
	}
	if body["custom"] != "value" {
		t.Errorf("got custom %v, want value", body["custom"])
	}
}

func TestGenericGetCommandRequiresAdapterPath(t *testing.T) {
	a, _ := NewGenericAdapter(Config{Port: 4000})
	if _, err := a.GetCommand(); err == nil {
		t.Fatal("expected an error for a socket-only adapter with no adapterPath")
	}
}
