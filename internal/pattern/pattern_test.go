package pattern

import (
	"testing"

	"github.com/funvibe/weave/internal/value"
)

func TestParseAny(t *testing.T) {
	p, ok := Parse(value.Symbol("x"))
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	any, ok := p.(Any)
	if !ok {
		t.Fatalf("expected Any, got %T", p)
	}
	if any.Binding.Name != "x" {
		t.Fatalf("expected binding name x, got %s", any.Binding.Name)
	}
	if any.Binding.Contract != value.ContractNone {
		t.Fatalf("expected default contract none, got %v", any.Binding.Contract)
	}
}

func TestParseCompound(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
		want Pattern
	}{
		{
			name: "pair",
			in:   value.NewPair(value.Symbol("a"), value.Symbol("b")),
			want: PairPat{First: Any{Binding: Binding{Name: "a"}}, Second: Any{Binding: Binding{Name: "b"}}},
		},
		{
			name: "list",
			in:   value.NewList([]value.Value{value.Symbol("a"), value.Symbol("b"), value.Symbol("c")}),
			want: ListPat{Items: []Pattern{
				Any{Binding: Binding{Name: "a"}},
				Any{Binding: Binding{Name: "b"}},
				Any{Binding: Binding{Name: "c"}},
			}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Parse(tc.in)
			if !ok {
				t.Fatal("expected parse to succeed")
			}
			if !patternEqual(got, tc.want) {
				t.Fatalf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

func patternEqual(a, b Pattern) bool {
	switch av := a.(type) {
	case Any:
		bv, ok := b.(Any)
		return ok && av.Binding == bv.Binding
	case PairPat:
		bv, ok := b.(PairPat)
		return ok && patternEqual(av.First, bv.First) && patternEqual(av.Second, bv.Second)
	case ListPat:
		bv, ok := b.(ListPat)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !patternEqual(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func TestMatch(t *testing.T) {
	any := Any{Binding: Binding{Name: "x"}}
	if !Match(any, value.NewInt(5)) {
		t.Fatal("Any must match anything")
	}

	pairPat := PairPat{First: any, Second: any}
	if !Match(pairPat, value.NewPair(value.NewInt(1), value.NewInt(2))) {
		t.Fatal("pair pattern should match a pair")
	}
	if Match(pairPat, value.NewInt(1)) {
		t.Fatal("pair pattern should not match a non-pair")
	}

	listPat := ListPat{Items: []Pattern{any, any}}
	if !Match(listPat, value.NewList([]value.Value{value.NewInt(1), value.NewInt(2)})) {
		t.Fatal("list pattern should match a same-arity list")
	}
	if Match(listPat, value.NewList([]value.Value{value.NewInt(1)})) {
		t.Fatal("list pattern should not match a different-arity list")
	}
}

func TestAssignList(t *testing.T) {
	ctx := value.NewCtx()
	pat := ListPat{Items: []Pattern{
		Any{Binding: Binding{Name: "a"}},
		Any{Binding: Binding{Name: "b"}},
		Any{Binding: Binding{Name: "c"}},
	}}
	// deficient value-side entries default bound names to Unit (spec §4.5).
	Assign(&ctx, pat, value.NewList([]value.Value{value.NewInt(1)}))

	got, err := ctx.Ref("a")
	if err != nil || !got.Equal(value.NewInt(1)) {
		t.Fatalf("expected a bound to 1, got %v, err %v", got, err)
	}
	got, err = ctx.Ref("b")
	if err != nil || !got.Equal(value.Unit{}) {
		t.Fatalf("expected b bound to Unit, got %v, err %v", got, err)
	}
	got, err = ctx.Ref("c")
	if err != nil || !got.Equal(value.Unit{}) {
		t.Fatalf("expected c bound to Unit, got %v, err %v", got, err)
	}
}

func TestAssignExcessIgnored(t *testing.T) {
	ctx := value.NewCtx()
	pat := ListPat{Items: []Pattern{Any{Binding: Binding{Name: "a"}}}}
	// excess value-side entries are ignored (spec §4.5).
	Assign(&ctx, pat, value.NewList([]value.Value{value.NewInt(1), value.NewInt(2), value.NewInt(3)}))

	if names := ctx.Names(); len(names) != 1 || names[0] != "a" {
		t.Fatalf("expected only binding a, got %v", names)
	}
}

func TestAssignContract(t *testing.T) {
	ctx := value.NewCtx()
	pat := Any{Binding: Binding{Name: "x", Contract: value.ContractFinal}}
	Assign(&ctx, pat, value.NewInt(42))

	entry, ok := ctx.RefEntry("x")
	if !ok {
		t.Fatal("expected binding x to exist")
	}
	if entry.Contract != value.ContractFinal {
		t.Fatalf("expected contract final, got %v", entry.Contract)
	}
}

func TestParseBindingExtras(t *testing.T) {
	m := value.EmptyMap()
	m.Put(value.Symbol("name"), value.Symbol("y"))
	m.Put(value.Symbol("contract"), value.Symbol("const"))
	desc := value.NewPair(value.Symbol("bind"), m)

	p, ok := Parse(desc)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	any, ok := p.(Any)
	if !ok {
		t.Fatalf("expected Any, got %T", p)
	}
	if any.Binding.Name != "y" || any.Binding.Contract != value.ContractConst {
		t.Fatalf("unexpected binding %#v", any.Binding)
	}
}
