package eval

import "github.com/funvibe/weave/internal/value"

// EvalFree evaluates v with no ctx at all (Free tier, spec §5, §6.1).
func EvalFree(v value.Value) value.Value {
	return applyMode(rt{tier: value.TierFree, trace: newTrace()}, nil, nil, v)
}

// EvalConst evaluates v against ctx as a shared, read-only reference:
// mutation attempts anywhere in the walk return AccessDenied (spec §5,
// §6.1). The Ctx itself is never written back to the caller: Const
// tier forbids mutation, so there is nothing to observe.
func EvalConst(ctx value.Ctx, v value.Value) value.Value {
	// Clone raises the shared payload's refcount, so any write during the
	// walk copies first instead of landing in the caller's bindings.
	local := ctx.Clone().(value.Ctx)
	return applyMode(rt{tier: value.TierConst, trace: newTrace()}, &local, nil, v)
}

// EvalMut evaluates v against ctx as a unique, read-write reference
// (spec §5, §6.1). Mutations are made through the ctx pointer, so the
// caller observes them in *ctx once the call returns.
func EvalMut(ctx *value.Ctx, v value.Value) value.Value {
	return applyMode(rt{tier: value.TierMut, trace: newTrace()}, ctx, nil, v)
}
