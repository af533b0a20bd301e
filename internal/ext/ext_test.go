package ext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/weave/internal/value"
)

type fakeVTable struct{}

func (fakeVTable) Equal(a, b value.Value) bool {
	av, _ := a.(Value)
	bv, _ := b.(Value)
	return av.Payload == bv.Payload
}
func (fakeVTable) Debug(v value.Value) string { return "fake" }
func (fakeVTable) Arbitrary() value.Value     { return value.Unit{} }

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	id := r.Register("widget", fakeVTable{})
	if id == "" {
		t.Fatal("Register should return a non-empty id")
	}
	vt, ok := r.Lookup("widget")
	if !ok {
		t.Fatal("Lookup should find a registered tag")
	}
	if _, ok := vt.(fakeVTable); !ok {
		t.Fatalf("Lookup returned %T, want fakeVTable", vt)
	}
	if _, ok := r.Lookup("nope"); ok {
		t.Fatal("Lookup on an unregistered tag should fail")
	}
}

func TestExtValueEqualUsesVTable(t *testing.T) {
	r := NewRegistry()
	r.Register("widget", fakeVTable{})
	a := New("widget", 1, r)
	b := New("widget", 1, r)
	c := New("widget", 2, r)
	if !a.Equal(b) {
		t.Fatal("same payload should be Equal via the VTable")
	}
	if a.Equal(c) {
		t.Fatal("different payload should not be Equal")
	}
}

func TestExtValueEqualWithoutRegistryFallsBackToPayloadIdentity(t *testing.T) {
	a := New("widget", 7, nil)
	b := New("widget", 7, nil)
	if !a.Equal(b) {
		t.Fatal("nil Registry should fall back to comparable Payload equality")
	}
}

func TestCtrlSignalRoundTrip(t *testing.T) {
	brk := NewCtrlSignal(CtrlBreak)
	cont := NewCtrlSignal(CtrlContinue)

	k, ok := AsCtrlSignal(brk)
	if !ok || k != CtrlBreak {
		t.Fatalf("AsCtrlSignal(break) = %v, %v", k, ok)
	}
	k, ok = AsCtrlSignal(cont)
	if !ok || k != CtrlContinue {
		t.Fatalf("AsCtrlSignal(continue) = %v, %v", k, ok)
	}
	if _, ok := AsCtrlSignal(value.Unit{}); ok {
		t.Fatal("AsCtrlSignal on a non-ctrl-signal value must fail")
	}
	if brk.Equal(cont) {
		t.Fatal("break and continue sentinels must not compare Equal")
	}
	if !brk.Equal(NewCtrlSignal(CtrlBreak)) {
		t.Fatal("two break sentinels must compare Equal")
	}
}

func TestLoadConfigMissingFileIsNotAnError(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("missing weave.yaml should not be an error, got %v", err)
	}
	if len(cfg.Extensions) != 0 {
		t.Fatalf("expected zero-value Config, got %+v", cfg)
	}
}

func TestLoadConfigParsesExtensionsAndRunner(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weave.yaml")
	content := `
extensions:
  - tag: widget
    pkg: example.com/widget
    vtable_type: VTable
runner:
  prompt: "w> "
  history_path: history.db
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Extensions) != 1 || cfg.Extensions[0].Tag != "widget" {
		t.Fatalf("unexpected extensions: %+v", cfg.Extensions)
	}
	if cfg.Runner.Prompt != "w> " || cfg.Runner.HistoryPath != "history.db" {
		t.Fatalf("unexpected runner config: %+v", cfg.Runner)
	}
}

func TestLoadConfigRejectsIncompleteExtensionEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weave.yaml")
	content := `
extensions:
  - tag: widget
    pkg: example.com/widget
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("an extension entry missing vtable_type must fail validation")
	}
}
