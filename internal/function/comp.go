package function

import (
	"github.com/funvibe/weave/internal/eval"
	"github.com/funvibe/weave/internal/value"
)

// Storage is the storage discipline axis of spec §4.4: Static (an
// immutable function value — every invocation starts from the same
// captured closure ctx) vs. Cell (a mutable closure the caller's slot
// holds directly — invocation may leave mutations in the closure that
// persist across calls, which is what makes a self-referential
// recursive mutation through the lock protocol meaningful).
type Storage uint8

const (
	Static Storage = iota
	Cell
)

// Comp is a composite Func: a user-defined closure over body/ctx/
// input_name, optionally also exposing ctx_name for Const/Mut tiers
// (spec §4.4).
type Comp struct {
	id        value.Symbol
	tier      value.AccessTier
	storage   Storage
	setup     value.Setup
	body      value.Value
	closure   value.Ctx
	inputName value.Symbol
	ctxName   value.Symbol // empty for Free tier (ctx_explicit == false)
}

// NewComp constructs a composite Func.
func NewComp(id value.Symbol, tier value.AccessTier, storage Storage, setup value.Setup,
	body value.Value, closure value.Ctx, inputName, ctxName value.Symbol) *Comp {
	return &Comp{
		id: id, tier: tier, storage: storage, setup: setup,
		body: body, closure: closure, inputName: inputName, ctxName: ctxName,
	}
}

func (c *Comp) Kind() value.Kind { return value.KindFunc }
func (c *Comp) FuncKind() value.FuncKind {
	if c.storage == Cell {
		return value.FuncCompCell
	}
	return value.FuncCompStatic
}
func (c *Comp) ID() value.Symbol       { return c.id }
func (c *Comp) Tier() value.AccessTier { return c.tier }
func (c *Comp) Setup() value.Setup     { return c.setup }
func (c *Comp) String() string         { return "fn(" + string(c.id) + ")" }

// Clone returns the receiver unchanged: both storage disciplines share
// their closure by pointer-identity of the underlying Ctx data (spec
// §9: "Implementations with managed runtimes MAY rely on the runtime's
// sharing"). Cell's distinguishing behavior is enforced by the lock
// protocol in internal/eval, not by Clone.
func (c *Comp) Clone() value.Value { return c }
func (c *Comp) Equal(o value.Value) bool {
	oc, ok := o.(*Comp)
	return ok && oc == c
}

// Invoke runs the composite's body (spec §4.4 "Invocation"):
//  1. take the captured closure ctx,
//  2. bind input_name -> input with Contract::Final,
//  3. for dyn variants (tier != Free) bind ctx_name -> ambient for the
//     duration of the body,
//  4. evaluate body under Eval,
//  5. for Cell storage, the closure ctx this Comp holds is mutated in
//     place (c.closure.own() copies-on-write only if actually shared),
//     so the mutation is visible to the next Invoke through the same
//     *Comp — which is exactly the pointer the lock protocol hands
//     back to Unlock.
func (c *Comp) Invoke(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	call := c.closure
	if c.storage == Static {
		cloned := c.closure.Clone().(value.Ctx)
		call = cloned
	}
	_ = call.Put(c.inputName, input, value.ContractFinal)
	if c.ctxName != "" && tier != value.TierFree {
		if ambient != nil {
			_ = call.Put(c.ctxName, *ambient, value.ContractNone)
		} else {
			_ = call.Put(c.ctxName, value.Unit{}, value.ContractNone)
		}
	}

	result := eval.ApplyMode(tier, &call, nil, c.body)

	if c.storage == Cell {
		c.closure = call
	}
	if c.ctxName != "" && tier == value.TierMut && ambient != nil {
		if updated, err := call.Ref(c.ctxName); err == nil {
			if nc, ok := updated.(value.Ctx); ok {
				*ambient = nc
			}
		}
	}
	return result
}
