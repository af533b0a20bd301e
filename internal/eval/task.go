package eval

import (
	"github.com/funvibe/weave/internal/mode"
	"github.com/funvibe/weave/internal/value"
)

// evalTask implements the Task dispatcher (spec §4.3). m is the Mode in
// effect at this Task's position: a TaskForm/CompMode.Task override
// reconstructs the Task literally (rewriting its fields under the
// configured sub-modes) instead of invoking it — the mechanism by which
// code can be manipulated as data without running it. Absent such an
// override, the default behavior is always to dispatch (§4.2: "Task →
// TaskEval").
func evalTask(r rt, amb *value.Ctx, m value.Mode, t value.Task) value.Value {
	if tpm, ok := taskPrimSlot(m, mode.SlotTask); ok && tpm != nil && *tpm == mode.TaskForm {
		return t
	}
	if cm, ok := m.(mode.CompMode); ok && cm.Task != nil {
		fn := applyMode(r, amb, cm.Task.Func, t.Func())
		ctxv := applyMode(r, amb, cm.Task.Ctx, t.Ctx())
		in := applyMode(r, amb, cm.Task.Input, t.Input())
		return value.NewTask(t.Action(), fn, ctxv, in)
	}
	return dispatch(r, amb, t)
}

// dispatch runs the four phases of spec §4.3.
func dispatch(r rt, amb *value.Ctx, t value.Task) value.Value {
	fn, unlock := resolveFunc(r, amb, t.Func())
	defer unlock()
	if fn == nil {
		return fault(r.trace, r.tier, value.ErrTypeMismatch, "task func did not resolve to a Func")
	}

	// Phase 2: evaluate operands under the function's arrow-mode.
	setup := fn.Setup()
	var arrow value.Mode
	if t.Action() == value.ActionSolve {
		arrow = setup.Solve
	} else {
		arrow = setup.Call
	}
	var input value.Value
	if arrow == nil && t.Action() == value.ActionSolve {
		// spec §9: "with no solver, Solve returns the input unchanged."
		input = t.Input()
	} else {
		input = applyMode(r, amb, arrow, t.Input())
	}

	// Phase 3: redirect context.
	ctxDesc := applyMode(r, amb, nil, t.Ctx())
	redirected, err := navigate(amb, ctxDesc)
	if err != nil {
		return fault(r.trace, r.tier, err, "ctx navigation")
	}

	// Phase 4: invoke at the tier permitted by both the function's
	// declared tier and the ambient tier (Free < Const < Mut).
	tier := value.Min(fn.Tier(), r.tier)
	var invokeAmb *value.Ctx
	if tier != value.TierFree {
		invokeAmb = redirected
	}
	return fn.Invoke(tier, invokeAmb, t.Action(), input)
}

// resolveFunc implements spec §4.3 phase 1 together with the lock
// protocol of §4.3's "Lock protocol" subsection. When t's func field is
// a bare symbol (no recognized prefix), resolution is a direct named
// lookup inside amb, which is the precondition for locking: a Static
// storage Func is cloned instead of locked; a Cell storage Func is
// locked for the duration of a Mut-tier call so that a re-entrant
// mutable self-application sees the slot as locked rather than as a
// stale copy. A bare symbol not bound in amb itself is looked up through
// amb's outer scopes (e.g. a composite body calling a prelude name); such
// a Func is cloned and never locked. The returned unlock func must always
// be deferred, even when it is a no-op.
func resolveFunc(r rt, amb *value.Ctx, funcField value.Value) (value.Func, func()) {
	noop := func() {}
	sym, isBareSymbol := funcField.(value.Symbol)
	if isBareSymbol && len(sym) > 0 {
		switch sym[0] {
		case PrefixLiteral, PrefixRef, PrefixEval:
			isBareSymbol = false
		}
	}
	if !isBareSymbol || amb == nil {
		v := applyMode(r, amb, nil, funcField)
		fn, ok := v.(value.Func)
		if !ok {
			return nil, noop
		}
		return fn, noop
	}

	entry, ok := amb.RefEntry(sym)
	if !ok {
		v, err := amb.Ref(sym)
		if err != nil {
			fault(r.trace, r.tier, err, string(sym))
			return nil, noop
		}
		fn, ok := v.(value.Func)
		if !ok {
			return nil, noop
		}
		return fn.Clone().(value.Func), noop
	}
	if entry.Locked() {
		fault(r.trace, r.tier, value.ErrLocked, string(sym))
		return nil, noop
	}
	fn, ok := entry.Value.(value.Func)
	if !ok {
		return nil, noop
	}

	needsLock := r.tier == value.TierMut && (fn.FuncKind() == value.FuncPrimCell || fn.FuncKind() == value.FuncCompCell)
	if !needsLock {
		cloned := fn.Clone().(value.Func)
		return cloned, noop
	}

	locked, err := amb.Lock(sym)
	if err != nil {
		fault(r.trace, r.tier, err, string(sym))
		return nil, noop
	}
	// lockedFn is the same *Comp/*Prim pointer Invoke runs against: a
	// Cell-storage Comp mutates its closure field in place (see
	// internal/function), so by the time this deferred unlock fires
	// lockedFn already reflects whatever the call just did to itself.
	lockedFn := locked.Value.(value.Func)
	return lockedFn, func() {
		_ = amb.Unlock(sym, lockedFn)
	}
}

// navigate implements spec §4.3 phase 3's ctx-redirection rules. desc
// is the already-evaluated Task.Ctx() field. The returned *Ctx always
// aliases amb directly for the Unit case (so ordinary, non-redirected
// mutation — e.g. sequential `do` statements — observes every mutation
// through the single shared pointer); for every other descriptor it
// resolves a path through amb's bindings and is not written back
// automatically — a composite body reaches it only through its ctx_name
// binding, and any mutation it makes is local to that binding unless
// the body explicitly re-stores it (see internal/function).
//
// desc is either Unit (identity), a bare Symbol (one named binding), or
// a Pair(base, selector) chaining a base path to one further selection
// step: selector Int indexes a List, selector Symbol names a Pair/Task
// field (first/second/function/context/input) when base is that kind,
// and any other Value selects a Map key. The final resolved Value must
// itself be a Ctx.
func navigate(amb *value.Ctx, desc value.Value) (*value.Ctx, error) {
	if _, ok := desc.(value.Unit); ok {
		return amb, nil
	}
	if amb == nil {
		return nil, value.ErrTypeMismatch
	}
	v, err := resolvePath(amb, desc)
	if err != nil {
		return nil, err
	}
	nested, ok := v.(value.Ctx)
	if !ok {
		return nil, value.ErrTypeMismatch
	}
	return &nested, nil
}

// resolvePath walks desc against amb, returning whatever Value the path
// reaches — not necessarily a Ctx; navigate checks that once the walk
// is done.
func resolvePath(amb *value.Ctx, desc value.Value) (value.Value, error) {
	switch d := desc.(type) {
	case value.Symbol:
		return amb.Ref(d)
	case value.Pair:
		base, err := resolvePath(amb, d.First())
		if err != nil {
			return nil, err
		}
		return selectField(base, d.Second())
	default:
		return nil, value.ErrTypeMismatch
	}
}

// selectField applies one navigation step to an already-resolved base
// value: an Int selects a List element, a Symbol naming a Pair/Task
// field selects that field, and any other Value (including a Symbol
// that names no such field) selects a Map key.
func selectField(base value.Value, sel value.Value) (value.Value, error) {
	if i, ok := sel.(value.Int); ok {
		l, ok := base.(value.List)
		if !ok {
			return nil, value.ErrTypeMismatch
		}
		idx := i.V.Int64()
		item, ok := l.At(int(idx))
		if !ok {
			return nil, value.ErrOutOfRange
		}
		return item, nil
	}
	if sym, ok := sel.(value.Symbol); ok {
		switch {
		case sym == "first" || sym == "second":
			if p, ok := base.(value.Pair); ok {
				if sym == "first" {
					return p.First(), nil
				}
				return p.Second(), nil
			}
		case sym == "function" || sym == "context" || sym == "input":
			if t, ok := base.(value.Task); ok {
				switch sym {
				case "function":
					return t.Func(), nil
				case "context":
					return t.Ctx(), nil
				default:
					return t.Input(), nil
				}
			}
		}
	}
	m, ok := base.(value.Map)
	if !ok {
		return nil, value.ErrTypeMismatch
	}
	v, found := m.Get(sel)
	if !found {
		return nil, value.ErrNotFound
	}
	return v, nil
}
