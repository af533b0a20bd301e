// Package function implements the Func model of spec.md §4.4: primitive
// and composite callables across three access tiers and two storage
// disciplines, plus the Mode-as-Func wrapper. It depends on
// internal/eval to run a composite body or a wrapped Mode — package
// eval itself never imports this package (Task dispatch only needs the
// value.Func interface), so the dependency is one-directional.
package function

import (
	"github.com/funvibe/weave/internal/eval"
	"github.com/funvibe/weave/internal/value"
)

// PrimBody is the Go function pointer a primitive Func carries (spec
// §4.4: "Primitive functions carry an id and a direct ... function
// pointer. They have no body; Setup is ambient."). ambient is nil at
// Free tier. tier is the access tier the dispatcher actually invoked
// at (Min(declared tier, ambient tier), §4.3 step 4) — a control
// primitive that recurses back into eval.ApplyMode (do/if/loop/for/
// match) must reuse this tier rather than assume its own declared one,
// since a Const-declared ambient caller can never be promoted to Mut.
type PrimBody func(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value

// Prim is a primitive Func. Only the Static storage discipline is ever
// constructed for primitives in this implementation: a Go function
// pointer carries no mutable state of its own to "cell" (mirrors the
// teacher's own naming convention, e.g. `MutStaticPrimFuncVal`, under
// which every primitive in original_source/lib/src/prelude is declared
// `_static()`, never `_cell()`).
type Prim struct {
	id    value.Symbol
	tier  value.AccessTier
	setup value.Setup
	body  PrimBody
}

// NewPrim constructs a primitive Func at the given tier with the given
// Setup and body.
func NewPrim(id value.Symbol, tier value.AccessTier, setup value.Setup, body PrimBody) *Prim {
	return &Prim{id: id, tier: tier, setup: setup, body: body}
}

func (p *Prim) Kind() value.Kind         { return value.KindFunc }
func (p *Prim) FuncKind() value.FuncKind { return value.FuncPrimStatic }
func (p *Prim) ID() value.Symbol         { return p.id }
func (p *Prim) Tier() value.AccessTier   { return p.tier }
func (p *Prim) Setup() value.Setup       { return p.setup }
func (p *Prim) String() string           { return "prim(" + string(p.id) + ")" }
func (p *Prim) Clone() value.Value       { return p } // static storage: dispatch clones by sharing, immutable
func (p *Prim) Equal(o value.Value) bool {
	op, ok := o.(*Prim)
	return ok && op == p
}

func (p *Prim) Invoke(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	return p.body(tier, ambient, action, input)
}

// ModeFunc is the Func variant whose body is a Mode (spec §4.4: "The
// Mode function variant carries a Mode and invokes it as its call
// arrow; its solve arrow defaults to identity."). This is the inverse
// of mode.FuncMode (a Mode wrapping a Func); this is a Func wrapping a
// Mode.
type ModeFunc struct {
	id   value.Symbol
	tier value.AccessTier
	m    value.Mode
}

func NewModeFunc(id value.Symbol, tier value.AccessTier, m value.Mode) *ModeFunc {
	return &ModeFunc{id: id, tier: tier, m: m}
}

func (f *ModeFunc) Kind() value.Kind         { return value.KindFunc }
func (f *ModeFunc) FuncKind() value.FuncKind { return value.FuncModeWrapper }
func (f *ModeFunc) ID() value.Symbol         { return f.id }
func (f *ModeFunc) Tier() value.AccessTier   { return f.tier }
func (f *ModeFunc) Setup() value.Setup       { return value.Setup{} }
func (f *ModeFunc) String() string           { return "mode-func(" + string(f.id) + ")" }
func (f *ModeFunc) Clone() value.Value       { return f }
func (f *ModeFunc) Equal(o value.Value) bool {
	of, ok := o.(*ModeFunc)
	return ok && of == f
}

func (f *ModeFunc) Invoke(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	if action == value.ActionSolve {
		return input
	}
	return eval.ApplyMode(tier, ambient, f.m, input)
}
