// Package pattern implements the pattern engine of spec.md §4.5: parsing
// a Value into a destructuring Pattern tree, matching a Pattern against a
// Value, and assigning bindings into a Ctx. Grounded on spec §4.5's
// grammar directly (Pattern = Any(Binding) | Pair | Task | List | Map);
// no teacher file models pattern destructuring (funxy's own parser binds
// typed parameters, not structural patterns), so the Go shape here
// follows the tagged-union/type-switch convention used throughout
// internal/evaluator for every other tree-walking concern in this repo.
package pattern

import "github.com/funvibe/weave/internal/value"

// Pattern is the parsed destructuring tree (spec §4.5).
type Pattern interface {
	patternNode()
}

// Binding names a target symbol and the contract/static_flag extra that
// governs how assign writes it (spec §4.5, §9 "Pattern extras").
type Binding struct {
	Name     value.Symbol
	Contract value.Contract
	Static   bool
}

// Any is a leaf pattern: matches anything, and on assign writes the
// matched value under Binding.
type Any struct{ Binding Binding }

func (Any) patternNode() {}

// PairPat destructures a Pair.
type PairPat struct{ First, Second Pattern }

func (PairPat) patternNode() {}

// TaskPat destructures a Task's func/ctx/input fields.
type TaskPat struct{ Func, Ctx, Input Pattern }

func (TaskPat) patternNode() {}

// ListPat destructures a List positionally.
type ListPat struct{ Items []Pattern }

func (ListPat) patternNode() {}

// MapPat destructures a Map by key.
type MapPat struct{ Entries []MapPatEntry }

type MapPatEntry struct {
	Key     value.Value
	Pattern Pattern
}

func (MapPat) patternNode() {}

// Parse builds a Pattern tree from its Value representation (spec §4.5:
// patterns are themselves Values). A bare Symbol parses to Any with
// Contract::None, Static false. A Pair whose first is the Symbol
// `bind` and whose second is a Map with a required `name` entry and
// optional `contract`/`static` entries parses to Any with those extras
// (spec §9: "the Extra{
// static_flag} field is parsed but forbidden in top-level pattern
// positions; treat static_flag=true ... as Malformed" is enforced by
// the caller, not here — Parse only builds the tree; Malformed
// detection is the caller's responsibility per §4.5's propagation
// policy, since a parse failure must surface as the indirect "returned
// None" signal control-flow primitives watch for).
func Parse(v value.Value) (Pattern, bool) {
	switch t := v.(type) {
	case value.Symbol:
		return Any{Binding: Binding{Name: t}}, true
	case value.Pair:
		if sym, ok := t.First().(value.Symbol); ok && sym == "bind" {
			return parseBindingExtras(t.Second())
		}
		first, ok := Parse(t.First())
		if !ok {
			return nil, false
		}
		second, ok := Parse(t.Second())
		if !ok {
			return nil, false
		}
		return PairPat{First: first, Second: second}, true
	case value.Task:
		fn, ok := Parse(t.Func())
		if !ok {
			return nil, false
		}
		ctx, ok := Parse(t.Ctx())
		if !ok {
			return nil, false
		}
		in, ok := Parse(t.Input())
		if !ok {
			return nil, false
		}
		return TaskPat{Func: fn, Ctx: ctx, Input: in}, true
	case value.List:
		items := t.Items()
		out := make([]Pattern, len(items))
		for i, it := range items {
			p, ok := Parse(it)
			if !ok {
				return nil, false
			}
			out[i] = p
		}
		return ListPat{Items: out}, true
	case value.Map:
		entries := t.Items()
		out := make([]MapPatEntry, 0, len(entries))
		for _, e := range entries {
			p, ok := Parse(e.Val)
			if !ok {
				return nil, false
			}
			out = append(out, MapPatEntry{Key: e.Key, Pattern: p})
		}
		return MapPat{Entries: out}, true
	default:
		return nil, false
	}
}

func parseBindingExtras(desc value.Value) (Pattern, bool) {
	m, ok := desc.(value.Map)
	if !ok {
		return nil, false
	}
	nameVal, ok := m.Get(value.Symbol("name"))
	if !ok {
		return nil, false
	}
	name, ok := nameVal.(value.Symbol)
	if !ok {
		return nil, false
	}
	b := Binding{Name: name}
	if cv, ok := m.Get(value.Symbol("contract")); ok {
		csym, ok := cv.(value.Symbol)
		if !ok {
			return nil, false
		}
		switch csym {
		case "none":
			b.Contract = value.ContractNone
		case "static":
			b.Contract = value.ContractStatic
		case "still":
			b.Contract = value.ContractStill
		case "final":
			b.Contract = value.ContractFinal
		case "const":
			b.Contract = value.ContractConst
		default:
			return nil, false
		}
	}
	if sv, ok := m.Get(value.Symbol("static")); ok {
		bit, ok := sv.(value.Bit)
		if !ok {
			return nil, false
		}
		b.Static = bool(bit)
	}
	return Any{Binding: b}, true
}

// Match reports whether pat matches v (spec §4.5: "Any matches anything.
// Compound patterns match only values of the same constructor with
// matching arity and componentwise matches.").
func Match(pat Pattern, v value.Value) bool {
	switch p := pat.(type) {
	case Any:
		return true
	case PairPat:
		pv, ok := v.(value.Pair)
		if !ok {
			return false
		}
		return Match(p.First, pv.First()) && Match(p.Second, pv.Second())
	case TaskPat:
		tv, ok := v.(value.Task)
		if !ok {
			return false
		}
		return Match(p.Func, tv.Func()) && Match(p.Ctx, tv.Ctx()) && Match(p.Input, tv.Input())
	case ListPat:
		lv, ok := v.(value.List)
		if !ok {
			return false
		}
		items := lv.Items()
		if len(items) != len(p.Items) {
			return false
		}
		for i, sub := range p.Items {
			if !Match(sub, items[i]) {
				return false
			}
		}
		return true
	case MapPat:
		mv, ok := v.(value.Map)
		if !ok {
			return false
		}
		for _, e := range p.Entries {
			sub, found := mv.Get(e.Key)
			if !found {
				sub = value.Unit{}
			}
			if !Match(e.Pattern, sub) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Assign binds pat's Any leaves into ctx against v (spec §4.5: "For each
// Any(Binding), write put(ctx, binding.name, value, binding.contract);
// for compound patterns recurse into aligned subvalues; excess
// value-side entries are ignored, deficient entries default to Unit.").
// Assign does not itself check Match; callers that need "fail if
// shapes disagree" semantics should Match first.
func Assign(ctx *value.Ctx, pat Pattern, v value.Value) {
	switch p := pat.(type) {
	case Any:
		_ = ctx.Put(p.Binding.Name, v, p.Binding.Contract)
	case PairPat:
		pv, ok := v.(value.Pair)
		if !ok {
			Assign(ctx, p.First, value.Unit{})
			Assign(ctx, p.Second, value.Unit{})
			return
		}
		Assign(ctx, p.First, pv.First())
		Assign(ctx, p.Second, pv.Second())
	case TaskPat:
		tv, ok := v.(value.Task)
		if !ok {
			Assign(ctx, p.Func, value.Unit{})
			Assign(ctx, p.Ctx, value.Unit{})
			Assign(ctx, p.Input, value.Unit{})
			return
		}
		Assign(ctx, p.Func, tv.Func())
		Assign(ctx, p.Ctx, tv.Ctx())
		Assign(ctx, p.Input, tv.Input())
	case ListPat:
		var items []value.Value
		if lv, ok := v.(value.List); ok {
			items = lv.Items()
		}
		for i, sub := range p.Items {
			if i < len(items) {
				Assign(ctx, sub, items[i])
			} else {
				Assign(ctx, sub, value.Unit{})
			}
		}
	case MapPat:
		var mv value.Map
		if m, ok := v.(value.Map); ok {
			mv = m
		} else {
			mv = value.EmptyMap()
		}
		for _, e := range p.Entries {
			sub, found := mv.Get(e.Key)
			if !found {
				sub = value.Unit{}
			}
			Assign(ctx, e.Pattern, sub)
		}
	}
}
