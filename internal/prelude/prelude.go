// Package prelude builds the always-present bindings every top-level
// Ctx starts with: the control primitives (do/if/loop/for/match), the
// "->" composite-function constructor, arithmetic/comparison operators,
// list/map/ctx accessors, and the small utility builtins named in
// internal/config (print/debug/trace/len/typeOf/show/read/id).
//
// Grounded on the teacher's builtins_*.go family
// (internal/evaluator/builtins_list.go, builtins_ctx.go,
// builtins_term*.go) for the "one Go function per prelude name,
// registered into a table at startup" shape, adapted here to
// function.NewPrim/value.Setup instead of the teacher's typed-argument
// dispatch table, since every weave builtin operates on the single
// Value sum rather than on a family of static Go types.
package prelude

import (
	"math/big"

	"github.com/funvibe/weave/internal/config"
	"github.com/funvibe/weave/internal/eval"
	"github.com/funvibe/weave/internal/ext"
	"github.com/funvibe/weave/internal/function"
	"github.com/funvibe/weave/internal/mode"
	"github.com/funvibe/weave/internal/pattern"
	"github.com/funvibe/weave/internal/repr"
	"github.com/funvibe/weave/internal/value"
)

// formArrow is the Setup every control primitive uses for its Call
// action: the entire input tree is handed over exactly as written
// (spec §9: "do's forward mode in the original source is
// FuncMode::id_mode()"), since these primitives decide for themselves,
// at runtime, which parts of their input to evaluate and which to
// leave as pattern/block structure.
var formArrow = value.Setup{Call: mode.IdentityPrim()}

// evalArrow is the Setup ordinary value-producing builtins use: input
// is fully evaluated before the Go function ever sees it (spec §4.2's
// default Eval, i.e. a nil Setup.Call already means this, but we spell
// it out for builtins that document it explicitly).
var evalArrow = value.Setup{}

// Register installs every prelude binding into ctx with Contract
// Static, so user code can shadow a name in a nested scope but cannot
// overwrite the prelude's own binding in place (spec §3.2's contract
// lattice: Static forbids rebind, not shadowing through NewEnclosedCtx).
func Register(ctx *value.Ctx) {
	for _, b := range builtins {
		_ = ctx.Put(b.id, b.fn, value.ContractStatic)
	}
}

type binding struct {
	id value.Symbol
	fn value.Func
}

var builtins = buildBuiltins()

func buildBuiltins() []binding {
	bs := []binding{
		{"do", function.NewPrim("do", value.TierMut, formArrow, primDo)},
		{"if", function.NewPrim("if", value.TierMut, value.Setup{Call: ifArrow()}, primIf)},
		{"loop", function.NewPrim("loop", value.TierMut, formArrow, primLoop)},
		{"for", function.NewPrim("for", value.TierMut, formArrow, primFor)},
		{"match", function.NewPrim("match", value.TierConst, evalArrow, primMatch)},
		{"->", function.NewPrim("->", value.TierConst, formArrow, primArrow)},
		{"fn-mut", function.NewPrim("fn-mut", value.TierConst, formArrow, primFnMut)},
		{"break", function.NewPrim("break", value.TierFree, evalArrow, primBreak)},
		{"continue", function.NewPrim("continue", value.TierFree, evalArrow, primContinue)},

		{"+", function.NewPrim("+", value.TierFree, evalArrow, primAdd)},
		{"-", function.NewPrim("-", value.TierFree, evalArrow, primSub)},
		{"*", function.NewPrim("*", value.TierFree, evalArrow, primMul)},
		{"/", function.NewPrim("/", value.TierFree, evalArrow, primDiv)},
		{"<", function.NewPrim("<", value.TierFree, evalArrow, cmpPrim(-1, false))},
		{">", function.NewPrim(">", value.TierFree, evalArrow, cmpPrim(1, false))},
		{"<=", function.NewPrim("<=", value.TierFree, evalArrow, cmpPrim(1, true))},
		{">=", function.NewPrim(">=", value.TierFree, evalArrow, cmpPrim(-1, true))},
		{"=", function.NewPrim("=", value.TierFree, evalArrow, primEq)},

		{"list-get", function.NewPrim("list-get", value.TierFree, evalArrow, primListGet)},
		{"list-push", function.NewPrim("list-push", value.TierFree, evalArrow, primListPush)},
		{"map-get", function.NewPrim("map-get", value.TierFree, evalArrow, primMapGet)},
		{"map-put", function.NewPrim("map-put", value.TierFree, evalArrow, primMapPut)},

		{config.IdFuncName, function.NewPrim(config.IdFuncName, value.TierFree, evalArrow, primId)},
		{config.LenFuncName, function.NewPrim(config.LenFuncName, value.TierFree, evalArrow, primLen)},
		{config.TypeOfFuncName, function.NewPrim(config.TypeOfFuncName, value.TierFree, evalArrow, primTypeOf)},
		{config.ShowFuncName, function.NewPrim(config.ShowFuncName, value.TierFree, evalArrow, primShow)},
		{config.ReadFuncName, function.NewPrim(config.ReadFuncName, value.TierFree, evalArrow, primRead)},
		{config.PrintFuncName, function.NewPrim(config.PrintFuncName, value.TierFree, evalArrow, primPrint)},
		{config.DebugFuncName, function.NewPrim(config.DebugFuncName, value.TierFree, evalArrow, primDebug)},
		{config.TraceFuncName, function.NewPrim(config.TraceFuncName, value.TierFree, evalArrow, primTrace)},

		{"ctx-get", function.NewPrim("ctx-get", value.TierConst, formArrow, primCtxGet)},
		{"ctx-put", function.NewPrim("ctx-put", value.TierMut, formArrow, primCtxPut)},
	}
	bs = append(bs, termBuiltins()...)
	bs = append(bs, grpcBuiltins()...)
	bs = append(bs, protoBuiltins()...)
	return bs
}

// ifArrow evaluates the condition but hands the then/else pair through
// untouched, so only the taken branch is ever evaluated.
func ifArrow() mode.CompMode {
	return mode.CompMode{Pair: &mode.PairMode{First: nil, Second: mode.IdentityPrim()}}
}

func isTruthy(v value.Value) bool {
	switch b := v.(type) {
	case value.Bit:
		return bool(b)
	case value.Int:
		return b.V != nil && b.V.Sign() != 0
	default:
		return false
	}
}

// primDo implements spec §8 scenario 1: a List of block items, each
// either Pair(pattern, valueExpr) — an assignment, evaluated and bound
// into ambient — or a bare expression, evaluated and kept as the
// block's running result. The block's value is the result of the last
// bare expression (assignments leave it unchanged), or Unit if there is
// none.
func primDo(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	l, ok := input.(value.List)
	if !ok {
		return value.Unit{}
	}
	var result value.Value = value.Unit{}
	for _, item := range l.Items() {
		if p, ok := item.(value.Pair); ok {
			pat, ok := pattern.Parse(p.First())
			if !ok {
				return value.Unit{}
			}
			v := eval.ApplyMode(tier, ambient, nil, p.Second())
			pattern.Assign(ambient, pat, v)
			continue
		}
		result = eval.ApplyMode(tier, ambient, nil, item)
	}
	return result
}

// primIf implements spec §8 scenario 2: Pair(evaluatedCond,
// Pair(thenForm, elseForm)); the chosen branch is evaluated here, never
// the rejected one.
func primIf(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	p, ok := input.(value.Pair)
	if !ok {
		return value.Unit{}
	}
	branches, ok := p.Second().(value.Pair)
	if !ok {
		return value.Unit{}
	}
	var chosen value.Value
	if isTruthy(p.First()) {
		chosen = branches.First()
	} else {
		chosen = branches.Second()
	}
	return eval.ApplyMode(tier, ambient, nil, chosen)
}

// primBreak and primContinue implement SPEC_FULL.md §6's supplemented
// control-flow builtins: ordinary Free-tier Prim functions that panic
// with an ext.NewCtrlSignal sentinel, unwinding Go call frames back up to
// the nearest primLoop/primFor, which recovers it. Used outside any
// loop, the panic propagates to the Host API caller uncaught — callers
// embedding weave should expect that and recover at their own call
// boundary, the same way a bare `return` outside a function is a
// caller error rather than a language-level fault.
func primBreak(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	panic(ext.NewCtrlSignal(ext.CtrlBreak))
}

func primContinue(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	panic(ext.NewCtrlSignal(ext.CtrlContinue))
}

// primLoop implements spec §8 scenario 3: Pair(condForm, bodyForm),
// both kept raw so the condition can be re-evaluated each pass.
// break/continue (SPEC_FULL.md §6) are ordinary prelude functions that
// panic with an ext.NewCtrlSignal sentinel; evalLoopBody recovers it here, the
// nearest enclosing loop/for, rather than letting it unwind past this
// primitive's Go call frame.
func primLoop(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	p, ok := input.(value.Pair)
	if !ok {
		return value.Unit{}
	}
	condForm, bodyForm := p.First(), p.Second()
	for {
		cond := eval.ApplyMode(tier, ambient, nil, condForm)
		if !isTruthy(cond) {
			return value.Unit{}
		}
		if broke := evalLoopBody(tier, ambient, bodyForm); broke {
			return value.Unit{}
		}
	}
}

// evalLoopBody evaluates form, catching a break/continue sentinel.
// Returns true when the loop should stop entirely (break).
func evalLoopBody(tier value.AccessTier, ambient *value.Ctx, form value.Value) (stop bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		sig, ok := r.(ext.Value)
		if !ok {
			panic(r)
		}
		kind, ok := ext.AsCtrlSignal(sig)
		if !ok {
			panic(r)
		}
		stop = kind == ext.CtrlBreak
	}()
	eval.ApplyMode(tier, ambient, nil, form)
	return false
}

// primFor implements spec §8 scenario 4: Pair(listForm,
// Pair(paramNameForm, bodyForm)). Each evaluated list element is bound
// to the param name and the body's result is accumulated into the
// returned List, per SPEC_FULL.md §6's Open Question decision (the
// worked scenario, not the original Rust's Unit-returning for, is
// authoritative).
func primFor(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	p, ok := input.(value.Pair)
	if !ok {
		return value.Unit{}
	}
	listForm, ok := p.First().(value.List)
	if !ok {
		return value.Unit{}
	}
	binder, ok := p.Second().(value.Pair)
	if !ok {
		return value.Unit{}
	}
	pat, ok := pattern.Parse(binder.First())
	if !ok {
		return value.Unit{}
	}
	bodyForm := binder.Second()

	out := make([]value.Value, 0, listForm.Len())
	for _, raw := range listForm.Items() {
		item := eval.ApplyMode(tier, ambient, nil, raw)
		pattern.Assign(ambient, pat, item)
		result, kind, caught := evalForBody(tier, ambient, bodyForm)
		if caught && kind == ext.CtrlBreak {
			break
		}
		if caught && kind == ext.CtrlContinue {
			continue
		}
		out = append(out, result)
	}
	return value.NewList(out)
}

// evalForBody mirrors evalLoopBody but also returns the body's value
// when no signal was thrown, since for accumulates results.
func evalForBody(tier value.AccessTier, ambient *value.Ctx, form value.Value) (result value.Value, kind ext.CtrlKind, caught bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		sig, ok := r.(ext.Value)
		if !ok {
			panic(r)
		}
		k, ok := ext.AsCtrlSignal(sig)
		if !ok {
			panic(r)
		}
		kind, caught = k, true
	}()
	result = eval.ApplyMode(tier, ambient, nil, form)
	return result, 0, false
}

// primMatch implements spec §8 scenario 5: input is fully evaluated
// before invocation (evalArrow), so key and every case's key/value are
// already concrete Values; the first case whose key is structurally
// equal to the match key wins.
func primMatch(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	p, ok := input.(value.Pair)
	if !ok {
		return value.Unit{}
	}
	key := p.First()
	cases, ok := p.Second().(value.List)
	if !ok {
		return value.Unit{}
	}
	for _, c := range cases.Items() {
		cp, ok := c.(value.Pair)
		if !ok {
			continue
		}
		if cp.First().Equal(key) {
			return cp.Second()
		}
	}
	return value.Unit{}
}

// primArrow ("->") implements spec §8 scenario 6's composite-function
// literal: Pair(paramSymbol, bodyForm), both raw. It builds a Free-tier,
// Static-storage Comp closing over a scope enclosing the ambient ctx in
// effect at construction — enclosing rather than copying flat lets the
// body resolve prelude/global names through the outer chain (internal/
// value/ctx.go's Ref already walks outer scopes).
func primArrow(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	p, ok := input.(value.Pair)
	if !ok {
		return value.Unit{}
	}
	param, ok := p.First().(value.Symbol)
	if !ok {
		return value.Unit{}
	}
	var outer value.Ctx
	if ambient != nil {
		outer = *ambient
	} else {
		outer = value.NewCtx()
	}
	closure := value.NewEnclosedCtx(outer)
	comp := function.NewComp("lambda", value.TierFree, function.Static, value.Setup{}, p.Second(), closure, param, "")
	return comp
}

// primFnMut builds a Mut-tier, Cell-storage composite exposing the
// ambient ctx under a second bound name: Pair(Pair(paramSymbol,
// ctxSymbol), bodyForm). When invoked at Mut tier, the body's changes to
// that binding are written back to the caller's ctx.
func primFnMut(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	p, ok := input.(value.Pair)
	if !ok {
		return value.Unit{}
	}
	names, ok := p.First().(value.Pair)
	if !ok {
		return value.Unit{}
	}
	param, ok := names.First().(value.Symbol)
	if !ok {
		return value.Unit{}
	}
	ctxName, ok := names.Second().(value.Symbol)
	if !ok {
		return value.Unit{}
	}
	var outer value.Ctx
	if ambient != nil {
		outer = *ambient
	} else {
		outer = value.NewCtx()
	}
	closure := value.NewEnclosedCtx(outer)
	comp := function.NewComp("lambda-mut", value.TierMut, function.Cell, value.Setup{}, p.Second(), closure, param, ctxName)
	return comp
}

func intPair(input value.Value) (*big.Int, *big.Int, bool) {
	p, ok := input.(value.Pair)
	if !ok {
		return nil, nil, false
	}
	a, ok1 := p.First().(value.Int)
	b, ok2 := p.Second().(value.Int)
	if !ok1 || !ok2 || a.V == nil || b.V == nil {
		return nil, nil, false
	}
	return a.V, b.V, true
}

func primAdd(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	a, b, ok := intPair(input)
	if !ok {
		return value.Unit{}
	}
	return value.Int{V: new(big.Int).Add(a, b)}
}

func primSub(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	a, b, ok := intPair(input)
	if !ok {
		return value.Unit{}
	}
	return value.Int{V: new(big.Int).Sub(a, b)}
}

func primMul(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	a, b, ok := intPair(input)
	if !ok {
		return value.Unit{}
	}
	return value.Int{V: new(big.Int).Mul(a, b)}
}

func primDiv(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	a, b, ok := intPair(input)
	if !ok || b.Sign() == 0 {
		return value.Unit{}
	}
	return value.Int{V: new(big.Int).Quo(a, b)}
}

// cmpPrim builds a comparison Prim body. Without orEqual, want is the
// Cmp() result that yields true; with orEqual, want is the Cmp() result
// that yields false (so "<=" is cmpPrim(1, true)).
func cmpPrim(want int, orEqual bool) function.PrimBody {
	return func(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
		a, b, ok := intPair(input)
		if !ok {
			return value.Unit{}
		}
		c := a.Cmp(b)
		if orEqual {
			return value.Bit(c != want)
		}
		return value.Bit(c == want)
	}
}

func primEq(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	p, ok := input.(value.Pair)
	if !ok {
		return value.Unit{}
	}
	return value.Bit(p.First().Equal(p.Second()))
}

func primListGet(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	p, ok := input.(value.Pair)
	if !ok {
		return value.Unit{}
	}
	l, ok := p.First().(value.List)
	i, ok2 := p.Second().(value.Int)
	if !ok || !ok2 || i.V == nil {
		return value.Unit{}
	}
	v, found := l.At(int(i.V.Int64()))
	if !found {
		return value.Unit{}
	}
	return v
}

func primListPush(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	p, ok := input.(value.Pair)
	if !ok {
		return value.Unit{}
	}
	l, ok := p.First().(value.List)
	if !ok {
		return value.Unit{}
	}
	l.Append(p.Second())
	return l
}

func primMapGet(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	p, ok := input.(value.Pair)
	if !ok {
		return value.Unit{}
	}
	m, ok := p.First().(value.Map)
	if !ok {
		return value.Unit{}
	}
	v, found := m.Get(p.Second())
	if !found {
		return value.Unit{}
	}
	return v
}

func primMapPut(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	p, ok := input.(value.Pair)
	if !ok {
		return value.Unit{}
	}
	kv, ok := p.Second().(value.Pair)
	if !ok {
		return value.Unit{}
	}
	m, ok := p.First().(value.Map)
	if !ok {
		return value.Unit{}
	}
	m.Put(kv.First(), kv.Second())
	return m
}

func primId(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	return input
}

func primLen(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	switch v := input.(type) {
	case value.List:
		return value.NewInt(int64(v.Len()))
	case value.Map:
		return value.NewInt(int64(v.Len()))
	case value.Text:
		return value.NewInt(int64(len(string(v))))
	case value.Symbol:
		return value.NewInt(int64(len(string(v))))
	case value.Byte:
		return value.NewInt(int64(len(v)))
	default:
		return value.Unit{}
	}
}

func primTypeOf(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	return value.Symbol(input.Kind().String())
}

func primShow(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	return value.Text(repr.Generate(input))
}

func primRead(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	t, ok := input.(value.Text)
	if !ok {
		return value.Unit{}
	}
	v, err := repr.Parse(string(t))
	if err != nil {
		return value.Unit{}
	}
	return v
}

func primPrint(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	eval.Logger().Printf("print: %s", repr.Generate(input))
	return input
}

func primDebug(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	eval.Logger().Printf("debug: kind=%s value=%s", input.Kind(), repr.Generate(input))
	return input
}

func primTrace(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	eval.Logger().Printf("trace: %s", repr.Generate(input))
	return input
}

// primCtxGet reads a binding out of ambient by name, for programs that
// want to inspect a value bound in their own ctx without a Symbol
// ref's automatic Clone-on-eval semantics getting in the way.
func primCtxGet(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	sym, ok := input.(value.Symbol)
	if !ok || ambient == nil {
		return value.Unit{}
	}
	v, err := ambient.Ref(sym)
	if err != nil {
		return value.Unit{}
	}
	return v
}

// primCtxPut writes Pair(nameSymbol, valueForm) into ambient, evaluating
// valueForm first.
func primCtxPut(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	p, ok := input.(value.Pair)
	if !ok || ambient == nil {
		return value.Unit{}
	}
	sym, ok := p.First().(value.Symbol)
	if !ok {
		return value.Unit{}
	}
	v := eval.ApplyMode(tier, ambient, nil, p.Second())
	_ = ambient.Put(sym, v, value.ContractNone)
	return v
}
