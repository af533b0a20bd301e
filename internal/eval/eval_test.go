package eval

import (
	"testing"

	"github.com/funvibe/weave/internal/mode"
	"github.com/funvibe/weave/internal/value"
)

// identityFunc is a minimal value.Func used only to exercise the Task
// dispatcher without pulling in internal/function (which itself depends
// on this package).
type identityFunc struct {
	tier    value.AccessTier
	setup   value.Setup
	gotTier value.AccessTier // tier of the most recent Invoke
}

func (f *identityFunc) Kind() value.Kind         { return value.KindFunc }
func (f *identityFunc) FuncKind() value.FuncKind { return value.FuncPrimStatic }
func (f *identityFunc) ID() value.Symbol         { return "id" }
func (f *identityFunc) Tier() value.AccessTier   { return f.tier }
func (f *identityFunc) Setup() value.Setup       { return f.setup }
func (f *identityFunc) String() string           { return "id" }
func (f *identityFunc) Clone() value.Value       { return f }
func (f *identityFunc) Equal(o value.Value) bool { of, ok := o.(*identityFunc); return ok && of == f }
func (f *identityFunc) Invoke(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	f.gotTier = tier
	return input
}

func TestApplyModeAtomsAreIdentity(t *testing.T) {
	atoms := []value.Value{value.Unit{}, value.Bit(true), value.Text("x"), value.NewInt(5)}
	for _, a := range atoms {
		got := ApplyMode(value.TierFree, nil, nil, a)
		if !got.Equal(a) {
			t.Errorf("atom %v should evaluate to itself, got %v", a, got)
		}
	}
}

func TestApplyModeSymbolDefaultsToRef(t *testing.T) {
	ctx := value.NewCtx()
	_ = ctx.Put("x", value.NewInt(10), value.ContractNone)
	got := ApplyMode(value.TierMut, &ctx, nil, value.Symbol("x"))
	if got.(value.Int).V.Int64() != 10 {
		t.Fatalf("default symbol eval should Ref the binding, got %v", got)
	}
}

func TestApplyModeSymbolPrefixes(t *testing.T) {
	ctx := value.NewCtx()
	_ = ctx.Put("x", value.Symbol("y"), value.ContractNone)
	_ = ctx.Put("y", value.NewInt(99), value.ContractNone)

	lit := ApplyMode(value.TierMut, &ctx, nil, value.Symbol(".x"))
	if lit.(value.Symbol) != "x" {
		t.Fatalf(". prefix should strip to the literal symbol, got %v", lit)
	}

	ref := ApplyMode(value.TierMut, &ctx, nil, value.Symbol("@x"))
	if ref.(value.Symbol) != "y" {
		t.Fatalf("@ prefix should Ref once without recursing, got %v", ref)
	}

	ev := ApplyMode(value.TierMut, &ctx, nil, value.Symbol("$x"))
	if ev.(value.Int).V.Int64() != 99 {
		t.Fatalf("$ prefix should Ref then recursively evaluate, got %v", ev)
	}
}

func TestApplyModePairDefaultEvaluatesBothSides(t *testing.T) {
	ctx := value.NewCtx()
	_ = ctx.Put("a", value.NewInt(1), value.ContractNone)
	p := value.NewPair(value.Symbol("a"), value.NewInt(2))
	got := ApplyMode(value.TierMut, &ctx, nil, p).(value.Pair)
	if got.First().(value.Int).V.Int64() != 1 {
		t.Fatalf("pair.First should have been evaluated, got %v", got.First())
	}
	if got.Second().(value.Int).V.Int64() != 2 {
		t.Fatalf("pair.Second should round-trip atoms unchanged, got %v", got.Second())
	}
}

func TestApplyModeIdentityPrimLeavesFormUntouched(t *testing.T) {
	ctx := value.NewCtx()
	_ = ctx.Put("a", value.NewInt(1), value.ContractNone)
	p := value.NewPair(value.Symbol("a"), value.NewInt(2))
	got := ApplyMode(value.TierMut, &ctx, mode.IdentityPrim(), p).(value.Pair)
	if got.First().(value.Symbol) != "a" {
		t.Fatalf("IdentityPrim should leave the symbol unevaluated, got %v", got.First())
	}
}

func TestApplyModeListAndMapDefault(t *testing.T) {
	ctx := value.NewCtx()
	_ = ctx.Put("a", value.NewInt(7), value.ContractNone)

	l := value.NewList([]value.Value{value.Symbol("a"), value.NewInt(2)})
	gotL := ApplyMode(value.TierMut, &ctx, nil, l).(value.List)
	if gotL.Items()[0].(value.Int).V.Int64() != 7 {
		t.Fatalf("list element should be evaluated, got %v", gotL.Items()[0])
	}

	m := value.EmptyMap()
	m.Put(value.Symbol("k"), value.Symbol("a"))
	gotM := ApplyMode(value.TierMut, &ctx, nil, m).(value.Map)
	v, _ := gotM.Get(value.Symbol("k"))
	if v.(value.Int).V.Int64() != 7 {
		t.Fatalf("map value should be evaluated, got %v", v)
	}
}

// TestDispatchInvokesAtMinTier confirms spec §4.3 phase 4: invocation
// tier is min(declared, ambient), so a Mut-declared func called from a
// Const-tier ambient runs at Const.
func TestDispatchInvokesAtMinTier(t *testing.T) {
	ctx := value.NewCtx()
	fn := &identityFunc{tier: value.TierMut}
	_ = ctx.Put("f", fn, value.ContractStatic)

	task := value.NewTask(value.ActionCall, value.Symbol("f"), value.Unit{}, value.NewInt(1))
	got := applyMode(rt{tier: value.TierConst, trace: "t"}, &ctx, nil, task)
	if got.(value.Int).V.Int64() != 1 {
		t.Fatalf("dispatch should still invoke and return the input, got %v", got)
	}
	if fn.gotTier != value.TierConst {
		t.Fatalf("invocation tier = %v, want Const", fn.gotTier)
	}
}

// TestDispatchCtxNavigationUnitAliasesAmbient confirms navigate's Unit
// case returns the same ambient pointer rather than a copy, so a
// redirected-to-self Task observes mutation through one shared Ctx.
func TestDispatchCtxNavigationUnitAliasesAmbient(t *testing.T) {
	ctx := value.NewCtx()
	redirected, err := navigate(&ctx, value.Unit{})
	if err != nil {
		t.Fatalf("navigate(Unit) failed: %v", err)
	}
	if redirected != &ctx {
		t.Fatal("navigate(Unit) must alias the ambient pointer directly")
	}
}

func TestNavigateSymbolAndFieldSelection(t *testing.T) {
	inner := value.NewCtx()
	outer := value.NewCtx()
	_ = outer.Put("sub", inner, value.ContractNone)

	got, err := navigate(&outer, value.Symbol("sub"))
	if err != nil {
		t.Fatalf("navigate(Symbol) failed: %v", err)
	}
	if got.Kind() != value.KindCtx {
		t.Fatalf("expected a Ctx, got %v", got.Kind())
	}

	_ = outer.Put("p", value.NewPair(inner, value.NewInt(5)), value.ContractNone)
	sel, err := navigate(&outer, value.NewPair(value.Symbol("p"), value.Symbol("first")))
	if err != nil {
		t.Fatalf("navigate(Pair field path) failed: %v", err)
	}
	if sel.Kind() != value.KindCtx {
		t.Fatalf("expected the Pair's first field (a Ctx), got %v", sel.Kind())
	}
}

func TestSelectFieldPairAndTaskAndList(t *testing.T) {
	p := value.NewPair(value.NewInt(1), value.NewInt(2))
	got, err := selectField(p, value.Symbol("first"))
	if err != nil || got.(value.Int).V.Int64() != 1 {
		t.Fatalf("selectField(pair, first) = %v, %v", got, err)
	}

	task := value.NewTask(value.ActionCall, value.Symbol("f"), value.Unit{}, value.NewInt(3))
	got, err = selectField(task, value.Symbol("input"))
	if err != nil || got.(value.Int).V.Int64() != 3 {
		t.Fatalf("selectField(task, input) = %v, %v", got, err)
	}

	l := value.NewList([]value.Value{value.NewInt(10), value.NewInt(20)})
	got, err = selectField(l, value.NewInt(1))
	if err != nil || got.(value.Int).V.Int64() != 20 {
		t.Fatalf("selectField(list, 1) = %v, %v", got, err)
	}

	if _, err := selectField(l, value.NewInt(5)); err != value.ErrOutOfRange {
		t.Fatalf("out-of-range list index should fail ErrOutOfRange, got %v", err)
	}
}

func TestLockProtocolRejectsReentrantMutCellCall(t *testing.T) {
	ctx := value.NewCtx()
	fn := &identityFunc{tier: value.TierMut}
	_ = ctx.Put("f", fn, value.ContractNone)

	locked, err := ctx.Lock("f")
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	defer func() { _ = ctx.Unlock("f", locked.Value) }()

	r := rt{tier: value.TierMut, trace: "t"}
	resolved, unlock := resolveFunc(r, &ctx, value.Symbol("f"))
	if unlock == nil {
		t.Fatal("resolveFunc must always return a non-nil unlock func")
	}
	if resolved != nil {
		t.Fatal("resolveFunc must refuse a re-entrant lookup of an already-locked slot")
	}
}

func TestEvalFreeConstMutTierSelection(t *testing.T) {
	if got := EvalFree(value.NewInt(1)); got.(value.Int).V.Int64() != 1 {
		t.Fatalf("EvalFree(1) = %v", got)
	}
	ctx := value.NewCtx()
	_ = ctx.Put("x", value.NewInt(2), value.ContractNone)
	if got := EvalConst(ctx, value.Symbol("x")); got.(value.Int).V.Int64() != 2 {
		t.Fatalf("EvalConst should resolve bindings, got %v", got)
	}
	mctx := value.NewCtx()
	_ = mctx.Put("x", value.NewInt(3), value.ContractNone)
	if got := EvalMut(&mctx, value.Symbol("x")); got.(value.Int).V.Int64() != 3 {
		t.Fatalf("EvalMut should resolve bindings, got %v", got)
	}
}
