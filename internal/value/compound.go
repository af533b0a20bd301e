package value

// Pair is an ordered two-tuple of Values. The payload is held behind a
// pointer so Clone is O(1) on the shell; mutating through SetFirst /
// SetSecond copies the payload first if it is shared (refcount > 1),
// the same discipline the teacher's persistent_map.go applies to HAMT
// nodes: never let a mutation through one clone surprise another holder.
type Pair struct{ p *pairData }

type pairData struct {
	first, second Value
	refs          *int
}

func NewPair(first, second Value) Pair {
	one := 1
	return Pair{p: &pairData{first: first, second: second, refs: &one}}
}

func (p Pair) Kind() Kind { return KindPair }
func (p Pair) Clone() Value {
	*p.p.refs++
	return Pair{p: p.p}
}
func (p Pair) String() string { return "(" + p.p.first.String() + " " + p.p.second.String() + ")" }
func (p Pair) Equal(o Value) bool {
	op, ok := o.(Pair)
	if !ok {
		return false
	}
	return p.p.first.Equal(op.p.first) && p.p.second.Equal(op.p.second)
}

func (p Pair) First() Value  { return p.p.first }
func (p Pair) Second() Value { return p.p.second }

// own returns a pairData this Pair can mutate without affecting other
// clones; copies on write if the refcount indicates sharing.
func (p *Pair) own() *pairData {
	if *p.p.refs > 1 {
		*p.p.refs--
		one := 1
		p.p = &pairData{first: p.p.first, second: p.p.second, refs: &one}
	}
	return p.p
}

func (p *Pair) SetFirst(v Value)  { p.own().first = v }
func (p *Pair) SetSecond(v Value) { p.own().second = v }

// TaskAction distinguishes a forward call from a reverse solve, per
// spec §3.1 and §4.3.
type TaskAction uint8

const (
	ActionCall TaskAction = iota
	ActionSolve
)

func (a TaskAction) String() string {
	if a == ActionSolve {
		return "solve"
	}
	return "call"
}

// Task is the sole "call site" constructor: (action, func, ctx, input).
// func, ctx, and input are themselves Values — before resolution func
// may be a Symbol naming a binding, ctx may be Unit/Symbol/Int/etc.
// navigating the ambient context (§4.3 step 3).
type Task struct{ t *taskData }

type taskData struct {
	action       TaskAction
	fn, ctx, in  Value
	refs         *int
}

func NewTask(action TaskAction, fn, ctx, input Value) Task {
	one := 1
	return Task{t: &taskData{action: action, fn: fn, ctx: ctx, in: input, refs: &one}}
}

func (t Task) Kind() Kind { return KindTask }
func (t Task) Clone() Value {
	*t.t.refs++
	return Task{t: t.t}
}
func (t Task) String() string {
	suffix := "("
	if t.t.action == ActionSolve {
		suffix = "?("
	}
	return t.t.fn.String() + suffix + t.t.in.String() + ")"
}
func (t Task) Equal(o Value) bool {
	ot, ok := o.(Task)
	if !ok || t.t.action != ot.t.action {
		return false
	}
	return t.t.fn.Equal(ot.t.fn) && t.t.ctx.Equal(ot.t.ctx) && t.t.in.Equal(ot.t.in)
}

func (t Task) Action() TaskAction { return t.t.action }
func (t Task) Func() Value        { return t.t.fn }
func (t Task) Ctx() Value         { return t.t.ctx }
func (t Task) Input() Value       { return t.t.in }

// List is an ordered sequence of Values, copy-on-write shared.
type List struct{ l *listData }

type listData struct {
	items []Value
	refs  *int
}

func NewList(items []Value) List {
	one := 1
	return List{l: &listData{items: items, refs: &one}}
}

func (l List) Kind() Kind { return KindList }
func (l List) Clone() Value {
	*l.l.refs++
	return List{l: l.l}
}
func (l List) String() string {
	s := "["
	for i, v := range l.l.items {
		if i > 0 {
			s += " "
		}
		s += v.String()
	}
	return s + "]"
}
func (l List) Equal(o Value) bool {
	ol, ok := o.(List)
	if !ok || len(l.l.items) != len(ol.l.items) {
		return false
	}
	for i := range l.l.items {
		if !l.l.items[i].Equal(ol.l.items[i]) {
			return false
		}
	}
	return true
}

func (l List) Len() int         { return len(l.l.items) }
func (l List) Items() []Value   { return l.l.items }
func (l List) At(i int) (Value, bool) {
	if i < 0 || i >= len(l.l.items) {
		return nil, false
	}
	return l.l.items[i], true
}

// own returns a listData this List can mutate without disturbing other
// clones, copying the backing slice first if shared.
func (l *List) own() *listData {
	if *l.l.refs > 1 {
		*l.l.refs--
		cp := make([]Value, len(l.l.items))
		copy(cp, l.l.items)
		one := 1
		l.l = &listData{items: cp, refs: &one}
	}
	return l.l
}

func (l *List) Append(v Value) {
	d := l.own()
	d.items = append(d.items, v)
}

func (l *List) Set(i int, v Value) bool {
	d := l.own()
	if i < 0 || i >= len(d.items) {
		return false
	}
	d.items[i] = v
	return true
}
