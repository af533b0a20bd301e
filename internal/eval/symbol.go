package eval

import (
	"github.com/funvibe/weave/internal/mode"
	"github.com/funvibe/weave/internal/value"
)

// Prefix characters recognized inside symbols (spec §3.3, §6.2): fixed,
// not configurable.
const (
	PrefixLiteral = '.'
	PrefixRef     = '@'
	PrefixEval    = '$'
)

// evalSymbol implements SymbolMode (spec §3.3): given a symbol s,
//   - "." prefix: strip it, result is the remaining symbol as a value.
//   - "@" prefix: look up the remaining symbol in ctx, clone its value.
//   - "$" prefix: look up, clone, then recursively evaluate the clone.
//   - no recognized prefix: apply the configured default SymbolMode.
func evalSymbol(r rt, amb *value.Ctx, def mode.SymbolMode, s value.Symbol) value.Value {
	str := string(s)
	if len(str) > 0 {
		switch str[0] {
		case PrefixLiteral:
			return value.Symbol(str[1:])
		case PrefixRef:
			return lookupRef(r, amb, value.Symbol(str[1:]))
		case PrefixEval:
			looked := lookupRef(r, amb, value.Symbol(str[1:]))
			return applyMode(r, amb, nil, looked)
		}
	}
	switch def {
	case mode.SymbolLiteral:
		return s
	case mode.SymbolEval:
		looked := lookupRef(r, amb, s)
		return applyMode(r, amb, nil, looked)
	default: // SymbolRef
		return lookupRef(r, amb, s)
	}
}

func lookupRef(r rt, amb *value.Ctx, name value.Symbol) value.Value {
	if amb == nil {
		return fault(r.trace, r.tier, value.ErrNotFound, "free tier has no ctx: @"+string(name))
	}
	v, err := amb.Ref(name)
	if err != nil {
		return fault(r.trace, r.tier, err, string(name))
	}
	return v.Clone()
}
