// Package repr turns a Value back into the surface text of spec.md
// §6.3, and back again, so that `show`/`read` and the round-trip
// invariant of spec §8 (parse(generate(v)) reaches a value structurally
// equal to v) have one place to live rather than being duplicated
// across internal/prelude and cmd/weave.
//
// Grounded on the teacher's internal/prettyprinter/code_printer.go for
// the idea of a dedicated textual-rendering package separate from the
// parser (the teacher renders its typed AST back to Funxy source for
// its formatter/LSP; this renders a Value tree back to weave source for
// `show`/REPL echo) — the teacher's own printer is line-width/
// indentation aware for a statement language, which this homoiconic
// tree has no equivalent need for, so Generate here is a direct
// structural walk rather than a pretty-printing doc-builder.
package repr

import (
	"github.com/funvibe/weave/internal/parser"
	"github.com/funvibe/weave/internal/value"
)

// Generate renders v as weave surface syntax by returning v.String()
// (Pair -> "(a b)", List -> "[a b]", Map -> "{k v, k v}", Task ->
// "f(input)", Text quoted, Int 0/1 as "+0"/"+1"); Generate exists as the
// stable public name `show`/the REPL print loop call. Some renderings do
// not parse back: Unit ("()"), a Number whose exponent is not negative
// ("5e0"), a Task's ctx field (dropped), Ctx/Func/Extension, and a
// Symbol containing characters the lexer does not read as symbol text.
func Generate(v value.Value) string {
	return v.String()
}

// Parse reads src back into a Value, delegating to internal/parser.
func Parse(src string) (value.Value, error) {
	return parser.Parse(src)
}
