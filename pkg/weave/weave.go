// Package weave is the embedder-facing Host API of spec §6.1: parse
// surface text, generate it back, run the three evaluation entry
// points, build a prelude-populated Ctx, and sample arbitrary values
// for property tests. Every exported func here is a thin re-export
// over the lower internal/* packages, the same "pkg/ is the one
// importable surface, internal/ holds every engine" split the teacher
// itself does not enforce (funxy exports nothing under pkg/; every
// consumer is cmd/funxy in the same module) but which SPEC_FULL.md's
// package table calls for explicitly, so third-party Go programs can
// embed weave without reaching into internal/.
package weave

import (
	"github.com/funvibe/weave/internal/arbitrary"
	"github.com/funvibe/weave/internal/eval"
	"github.com/funvibe/weave/internal/parser"
	"github.com/funvibe/weave/internal/prelude"
	"github.com/funvibe/weave/internal/repr"
	"github.com/funvibe/weave/internal/value"
)

// Value is the alias every Host API signature below is built from.
type Value = value.Value

// Ctx is the alias for a weave evaluation context.
type Ctx = value.Ctx

// Parse reads one Value from weave surface syntax (spec §6.2).
func Parse(src string) (Value, error) {
	return parser.Parse(src)
}

// Generate renders v back to weave surface syntax (spec §6.3).
func Generate(v Value) string {
	return repr.Generate(v)
}

// MakeCtx builds a fresh top-level Ctx pre-populated with every prelude
// binding (control primitives, arithmetic, list/map/ctx/grpc/proto/term
// builtins — internal/prelude.Register).
func MakeCtx() Ctx {
	ctx := value.NewCtx()
	prelude.Register(&ctx)
	return ctx
}

// EvalFree evaluates v with no ambient context (Free tier, spec §5).
func EvalFree(v Value) Value {
	return eval.EvalFree(v)
}

// EvalConst evaluates v against ctx as a shared, read-only reference
// (Const tier, spec §5).
func EvalConst(ctx Ctx, v Value) Value {
	return eval.EvalConst(ctx, v)
}

// EvalMut evaluates v against ctx as a unique, read-write reference
// (Mut tier, spec §5). Mutations ctx.own() localizes are visible
// through the ctx pointer the caller passed in.
func EvalMut(ctx *Ctx, v Value) Value {
	return eval.EvalMut(ctx, v)
}

// ArbitraryOptions configures ArbitraryValue; the zero value samples
// with MaxDepth 8 and a generator seeded with 1.
type ArbitraryOptions = arbitrary.Options

// ArbitraryValue produces one random Value per spec §9's weighted
// generator, for property-style tests.
func ArbitraryValue(opts *ArbitraryOptions) Value {
	return arbitrary.Value(opts)
}
