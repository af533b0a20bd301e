// Package eval implements the Evaluator described in spec.md §4.2: a
// mode-driven walk over Value trees, symbol lookup, task dispatch, and
// ctx navigation. It depends only on internal/value and internal/mode —
// notably NOT on internal/function — so that internal/function can
// depend on internal/eval (a composite Func's body is evaluated by
// calling back into this package) without an import cycle.
package eval

import (
	"github.com/funvibe/weave/internal/mode"
	"github.com/funvibe/weave/internal/value"
)

// rt carries the state that does not change as applyMode recurses: the
// access tier and a trace id for fault-log correlation (spec §7's
// propagation policy; the trace id itself is an ambient-stack addition,
// see SPEC_FULL.md §5).
type rt struct {
	tier  value.AccessTier
	trace string
}

// ApplyMode transforms in under Mode m at the given tier against
// ambient (nil at Free tier). m == nil means "no user mode": the
// default Eval of spec §4.2. This is the single recursive entry point
// every walker and every Setup arrow funnels through. Each ApplyMode call
// starts a fresh trace id, so faults logged inside a primitive or
// composite body that re-enters here carry a different id from the
// host-API call that reached it.
func ApplyMode(tier value.AccessTier, ambient *value.Ctx, m value.Mode, in value.Value) value.Value {
	return applyMode(rt{tier: tier, trace: newTrace()}, ambient, m, in)
}

func applyMode(r rt, amb *value.Ctx, m value.Mode, in value.Value) value.Value {
	if fm, ok := m.(mode.FuncMode); ok {
		return invokeFuncMode(r, amb, fm, in)
	}
	switch v := in.(type) {
	case value.Symbol:
		return evalSymbol(r, amb, symbolMode(m), v)
	case value.Pair:
		return evalPair(r, amb, m, v)
	case value.Task:
		return evalTask(r, amb, m, v)
	case value.List:
		return evalList(r, amb, m, v)
	case value.Map:
		return evalMapVal(r, amb, m, v)
	default:
		// Every other Kind (Unit, Bit, Text, Int, Number, Byte, Ctx,
		// Func, Extension) is an atom under evaluation: identity
		// (spec §4.2, §8 property 1).
		return in
	}
}

// invokeFuncMode applies a mode.FuncMode by invoking its wrapped Func
// as the transformer (spec §3.3: "FuncMode — an arbitrary Func used as
// the transformer").
func invokeFuncMode(r rt, amb *value.Ctx, fm mode.FuncMode, in value.Value) value.Value {
	if fm.Fn == nil {
		return in
	}
	return fm.Fn.Invoke(r.tier, amb, value.ActionCall, in)
}

// symbolMode resolves the SymbolMode a given Mode configures for the
// symbol position, defaulting to Ref (spec §4.2's default Eval).
func symbolMode(m value.Mode) mode.SymbolMode {
	switch v := m.(type) {
	case nil:
		return mode.SymbolRef
	case mode.PrimMode:
		if v.Symbol != nil {
			return *v.Symbol
		}
		return mode.SymbolRef
	case mode.CompMode:
		if v.Symbol != nil {
			return *v.Symbol
		}
		return mode.SymbolRef
	default:
		return mode.SymbolRef
	}
}

// taskPrimSlot extracts the atomic sub-mode configured for a given
// PrimSlotKind, nil meaning "no PrimMode/CompMode override for this
// position" (falls back to default Eval recursion).
func taskPrimSlot(m value.Mode, slot mode.PrimSlotKind) (*mode.TaskPrimMode, bool) {
	pm, ok := m.(mode.PrimMode)
	if !ok {
		return nil, false
	}
	switch slot {
	case mode.SlotPair:
		return pm.Pair, true
	case mode.SlotTask:
		return pm.TaskSlot, true
	case mode.SlotList:
		return pm.ListSlot, true
	case mode.SlotMap:
		return pm.MapSlot, true
	}
	return nil, false
}

func evalPair(r rt, amb *value.Ctx, m value.Mode, p value.Pair) value.Value {
	if cm, ok := m.(mode.CompMode); ok && cm.Pair != nil {
		first := applyMode(r, amb, cm.Pair.First, p.First())
		second := applyMode(r, amb, cm.Pair.Second, p.Second())
		return value.NewPair(first, second)
	}
	if tpm, ok := taskPrimSlot(m, mode.SlotPair); ok && tpm != nil && *tpm == mode.TaskForm {
		return p
	}
	first := applyMode(r, amb, nil, p.First())
	second := applyMode(r, amb, nil, p.Second())
	return value.NewPair(first, second)
}

func evalList(r rt, amb *value.Ctx, m value.Mode, l value.List) value.Value {
	if lm, ok := m.(mode.CompMode); ok && lm.List != nil {
		return evalListWithListMode(r, amb, *lm.List, l)
	}
	if tpm, ok := taskPrimSlot(m, mode.SlotList); ok && tpm != nil && *tpm == mode.TaskForm {
		return l
	}
	items := l.Items()
	out := make([]value.Value, len(items))
	for i, it := range items {
		out[i] = applyMode(r, amb, nil, it)
	}
	return value.NewList(out)
}

func evalListWithListMode(r rt, amb *value.Ctx, lm mode.ListMode, l value.List) value.Value {
	items := l.Items()
	out := make([]value.Value, len(items))
	for i, it := range items {
		if i < len(lm.Head) {
			out[i] = applyMode(r, amb, lm.Head[i], it)
		} else {
			out[i] = applyMode(r, amb, lm.Tail, it)
		}
	}
	return value.NewList(out)
}

func evalMapVal(r rt, amb *value.Ctx, m value.Mode, mp value.Map) value.Value {
	if cm, ok := m.(mode.CompMode); ok && cm.Map != nil {
		return evalMapWithMapMode(r, amb, *cm.Map, mp)
	}
	if tpm, ok := taskPrimSlot(m, mode.SlotMap); ok && tpm != nil && *tpm == mode.TaskForm {
		return mp
	}
	out := value.EmptyMap()
	for _, it := range mp.Items() {
		out.Put(it.Key, applyMode(r, amb, nil, it.Val))
	}
	return out
}

func evalMapWithMapMode(r rt, amb *value.Ctx, mm mode.MapMode, mp value.Map) value.Value {
	out := value.EmptyMap()
	for _, it := range mp.Items() {
		sub := mm.Else
		for _, o := range mm.Some {
			if o.Key.Equal(it.Key) {
				sub = o.Mode
				break
			}
		}
		out.Put(it.Key, applyMode(r, amb, sub, it.Val))
	}
	return out
}
