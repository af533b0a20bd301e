// Package mode implements the Mode descriptor variants of spec.md §3.3:
// declarative transformer recipes consulted by package eval's form
// walkers. A Mode describes *how* to walk a compound value; it never
// performs the walk itself.
package mode

import "github.com/funvibe/weave/internal/value"

// SymbolMode picks the default behavior for a bare symbol (one with no
// recognized prefix character), per spec §3.3.
type SymbolMode uint8

const (
	SymbolLiteral SymbolMode = iota
	SymbolRef
	SymbolEval
)

// TaskPrimMode is the atomic sub-mode available to a PrimMode slot for
// a Task position: either pass the subtree through as a literal Form,
// or Eval it (spec §3.3).
type TaskPrimMode uint8

const (
	TaskForm TaskPrimMode = iota
	TaskEval
)

// PrimSlotKind names the constructor-kind-keyed slots of a PrimMode (spec
// §3.3: "an array of optional atomic sub-modes keyed by constructor
// kind"). A nil slot in a PrimMode does not pass its subtree through: it
// falls back to default Eval for that position (see IdentityPrim).
type PrimSlotKind uint8

const (
	SlotSymbol PrimSlotKind = iota
	SlotPair
	SlotTask
	SlotList
	SlotMap
)

// PrimMode is the atomic Mode variant: one optional sub-mode per
// constructor kind. A symbol slot holds a SymbolMode; every other slot
// holds a TaskPrimMode (spec uses the same Form/Eval atomic choice for
// pair/task/list/map positions when no CompMode override applies).
type PrimMode struct {
	Symbol    *SymbolMode
	Pair      *TaskPrimMode
	TaskSlot  *TaskPrimMode
	ListSlot  *TaskPrimMode
	MapSlot   *TaskPrimMode
}

func (PrimMode) ModeNode() {}

// Default returns the PrimMode equivalent to "no user mode": the
// default Eval described in spec §4.2 (symbol defaults to Ref, every
// compound position defaults to Eval).
func Default() PrimMode {
	sm := SymbolRef
	ev := TaskEval
	return PrimMode{Symbol: &sm, Pair: &ev, TaskSlot: &ev, ListSlot: &ev, MapSlot: &ev}
}

// IdentityPrim is the PrimMode that leaves every position exactly as
// written: a bare symbol stays a Symbol instead of being looked up, and
// every compound is passed through as Form instead of being walked.
// Used as a control primitive's forward arrow when the primitive wants
// its raw input unevaluated (e.g. `do`'s block list, `->`'s param/body
// pair) so it can inspect or rebuild the tree itself before any
// evaluation happens — mirroring FuncMode::id_mode() in the original
// source. A zero-value PrimMode (all nil) is NOT equivalent to this:
// nil slots fall back to default Eval, per taskPrimSlot/symbolMode in
// internal/eval.
func IdentityPrim() PrimMode {
	sl := SymbolLiteral
	fm := TaskForm
	return PrimMode{Symbol: &sl, Pair: &fm, TaskSlot: &fm, ListSlot: &fm, MapSlot: &fm}
}

// TaskMode carries sub-modes for a Task's func/ctx/input positions
// (spec §3.3).
type TaskMode struct {
	Func, Ctx, Input value.Mode
}

func (TaskMode) ModeNode() {}

// PairMode carries sub-modes for a Pair's first/second positions.
type PairMode struct {
	First, Second value.Mode
}

func (PairMode) ModeNode() {}

// ListMode carries a finite head of per-position Modes plus a tail Mode
// applied to the remainder (spec §3.3).
type ListMode struct {
	Head []value.Mode
	Tail value.Mode
}

func (ListMode) ModeNode() {}

// MapMode carries a Some map of per-key Mode overrides plus an Else
// fallback Mode (spec §3.3).
type MapMode struct {
	Some []MapModeEntry
	Else value.Mode
}

type MapModeEntry struct {
	Key  value.Value
	Mode value.Mode
}

func (MapMode) ModeNode() {}

// CompMode is the composite Mode variant: a record of per-constructor
// sub-modes, each of which recursively references Mode (spec §3.3).
// A nil field falls back to PrimMode's Default for that constructor
// position.
type CompMode struct {
	Symbol *SymbolMode
	Pair   *PairMode
	Task   *TaskMode
	List   *ListMode
	Map    *MapMode
}

func (CompMode) ModeNode() {}

// FuncMode is the Mode variant whose transformer is an arbitrary Func
// (spec §3.3): it invokes the wrapped Func as its call arrow, its solve
// arrow defaulting to identity (spec §4.4, "the Mode function variant").
type FuncMode struct {
	Fn value.Func
}

func (FuncMode) ModeNode() {}
