// Package ext implements spec §3.1/§6.4's Extension mechanism: an
// opaque host-supplied Value carrying a type tag and a behavior table
// (a VTable), plus a registry from type tags to VTables and the
// weave.yaml loader that describes which Go package provides each tag's
// VTable (entries are checked by VerifyVTable, not loaded into a
// Registry).
//
// Grounded on the teacher's internal/ext package, which parses
// funxy.yaml to bind Go packages into the Funxy runtime as first-class
// modules; this package keeps the same "YAML manifest describes a
// type tag -> Go behavior" shape but binds to the single Extension
// interface of value.Extension rather than generating a whole module's
// worth of per-function stubs, since weave's Value model has exactly
// one escape hatch (Extension) instead of a bound-module namespace.
package ext

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/funvibe/weave/internal/value"
)

// VTable is the behavior table a host-supplied Go type provides for
// one Extension type tag: equality, debug-format and optional
// arbitrary-sampling. There is no hash entry; Map hashing of an
// Extension key uses its Kind and String().
type VTable interface {
	// Equal reports whether a and b (both guaranteed to carry this
	// VTable's type tag) are equal.
	Equal(a, b value.Value) bool
	// Debug renders one instance for print/debug/show.
	Debug(v value.Value) string
	// Arbitrary optionally produces a sample instance for
	// internal/arbitrary; nil if the extension has no sensible random
	// sample (e.g. an open network connection).
	Arbitrary() value.Value
}

// Registry maps a type tag to the VTable registered for it. Entries are
// keyed by tag, so registering a second VTable under the same tag
// replaces the first; each registration also gets a uuid, which Register
// returns but nothing else reads.
type Registry struct {
	mu      sync.RWMutex
	entries map[value.Symbol]registryEntry
}

type registryEntry struct {
	id     string
	vtable VTable
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[value.Symbol]registryEntry)}
}

// Register binds tag to vtable, returning the instance id assigned.
func (r *Registry) Register(tag value.Symbol, vtable VTable) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	r.entries[tag] = registryEntry{id: id, vtable: vtable}
	return id
}

// Lookup returns the VTable bound to tag, if any.
func (r *Registry) Lookup(tag value.Symbol) (VTable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[tag]
	return e.vtable, ok
}

// Value is the concrete value.Extension implementation: an opaque
// payload plus the type tag used to find its VTable in a Registry.
// Mirrors spec §3.1's wording that an Extension is "opaque" to the core
// engine — Kind/Clone/String/Equal are implemented here generically;
// anything domain-specific (grpc connections, proto messages) goes
// through Payload.
type Value struct {
	Tag      value.Symbol
	Payload  any
	Registry *Registry
}

func New(tag value.Symbol, payload any, reg *Registry) Value {
	return Value{Tag: tag, Payload: payload, Registry: reg}
}

func (v Value) Kind() value.Kind   { return value.KindExtension }
func (v Value) TypeTag() value.Symbol { return v.Tag }
func (v Value) Clone() value.Value { return v } // payload shared, not deep-copied

func (v Value) String() string {
	if v.Registry != nil {
		if vt, ok := v.Registry.Lookup(v.Tag); ok {
			return vt.Debug(v)
		}
	}
	return fmt.Sprintf("extension(%s)", v.Tag)
}

func (v Value) Equal(o value.Value) bool {
	ov, ok := o.(Value)
	if !ok || ov.Tag != v.Tag {
		return false
	}
	if v.Registry != nil {
		if vt, ok := v.Registry.Lookup(v.Tag); ok {
			return vt.Equal(v, ov)
		}
	}
	return v.Payload == ov.Payload
}

// ctrlSignalTag is the type tag for the sentinel Extension that
// break/continue throw and loop/for catch (SPEC_FULL.md §6, grounded on
// original_source/lib/src/prelude/ctrl.rs's control-flow-as-value
// design).
const ctrlSignalTag value.Symbol = "ctrl-signal"

// CtrlKind distinguishes break from continue.
type CtrlKind uint8

const (
	CtrlBreak CtrlKind = iota
	CtrlContinue
)

// ctrlVTable is shared by every ctrlSignal instance: two sentinels are
// equal iff they carry the same CtrlKind.
type ctrlVTable struct{}

func (ctrlVTable) Equal(a, b value.Value) bool {
	av, aok := a.(Value)
	bv, bok := b.(Value)
	if !aok || !bok {
		return false
	}
	ak, aok2 := av.Payload.(CtrlKind)
	bk, bok2 := bv.Payload.(CtrlKind)
	return aok2 && bok2 && ak == bk
}

func (ctrlVTable) Debug(v value.Value) string {
	cv, ok := v.(Value)
	if !ok {
		return "ctrl-signal"
	}
	if k, ok := cv.Payload.(CtrlKind); ok && k == CtrlContinue {
		return "ctrl-signal(continue)"
	}
	return "ctrl-signal(break)"
}

func (ctrlVTable) Arbitrary() value.Value { return nil }

var ctrlRegistry = func() *Registry {
	r := NewRegistry()
	r.Register(ctrlSignalTag, ctrlVTable{})
	return r
}()

// NewCtrlSignal builds the sentinel value break/continue throw.
func NewCtrlSignal(kind CtrlKind) Value {
	return New(ctrlSignalTag, kind, ctrlRegistry)
}

// AsCtrlSignal reports whether v is a ctrl-signal sentinel and which
// kind, so loop/for's body evaluation can catch it.
func AsCtrlSignal(v value.Value) (CtrlKind, bool) {
	ev, ok := v.(Value)
	if !ok || ev.Tag != ctrlSignalTag {
		return 0, false
	}
	k, ok := ev.Payload.(CtrlKind)
	return k, ok
}
