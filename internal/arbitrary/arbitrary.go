// Package arbitrary implements spec §9's random Value generator, used
// to back property-style tests the way the teacher's own fuzz targets
// (tests/fuzz/generators, not carried into this repo since it has no Go
// fuzzing harness of its own) exercise its AST. Grounded directly on
// original_source/lib/src/arbitrary.rs's weighted-histogram shape,
// since spec.md §9 describes the generator only in prose.
package arbitrary

import (
	"math/big"
	"math/rand"

	"github.com/funvibe/weave/internal/value"
)

// Options configures a generation run. A nil *Options, or one with a nil
// Rand, uses a fresh generator seeded with 1; MaxDepth defaults to 8.
type Options struct {
	Rand     *rand.Rand
	MaxDepth int
}

func (o *Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	o.Rand = rand.New(rand.NewSource(1))
	return o.Rand
}

// Value produces one random Value at depth 0.
func Value(opts *Options) value.Value {
	if opts == nil {
		opts = &Options{MaxDepth: 8}
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = 8
	}
	return any(opts, 0)
}

// kindWeight mirrors arbitrary.rs's Val::any: atoms are weighted
// 1<<min(depth,32) (heavily favored near the root, decaying as depth
// grows so the tree terminates), every compound constructor weighted 1.
func kindWeight(depth int) int {
	d := depth
	if d > 32 {
		d = 32
	}
	return 1 << uint(d)
}

func any(opts *Options, depth int) value.Value {
	w := kindWeight(depth)
	weights := []int{w, w, w, w, w, w, w, 1, 1, 1, 1, 1, 1, 1}
	// unit bit symbol text int number byte pair task list map ctx func extension
	i := weighted(opts.rng(), weights)
	nd := depth + 1
	if depth >= opts.MaxDepth {
		// force an atom once MaxDepth is reached, same effect as the
		// weight decay making compounds vanishingly unlikely but bounded
		// explicitly here for a hard recursion ceiling.
		i = opts.rng().Intn(7)
	}
	switch i {
	case 0:
		return value.Unit{}
	case 1:
		return value.Bit(opts.rng().Intn(2) == 1)
	case 2:
		return anySymbol(opts)
	case 3:
		return value.Text(anyString(opts))
	case 4:
		return value.NewInt(opts.rng().Int63())
	case 5:
		return anyNumber(opts)
	case 6:
		return anyByte(opts)
	case 7:
		return value.NewPair(any(opts, nd), any(opts, nd))
	case 8:
		action := value.ActionCall
		if opts.rng().Intn(2) == 1 {
			action = value.ActionSolve
		}
		return value.NewTask(action, any(opts, nd), value.Unit{}, any(opts, nd))
	case 9:
		return anyList(opts, depth)
	case 10:
		return anyMap(opts, depth)
	case 11:
		return anyCtx(opts, depth)
	default:
		// func/extension have no host-independent random sample; fall
		// back to an atom rather than fabricate a fake Func/Extension.
		return value.Unit{}
	}
}

// weighted performs the same role as WeightedIndex::sample: pick an
// index proportional to its weight.
func weighted(r *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	n := r.Intn(total)
	for i, w := range weights {
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}

// anyLenWeighted mirrors any_len_weighted's fixed 16-bucket histogram:
// shorter lengths are far more likely, and the result is clamped to
// 16-depth so deep recursion can't run away.
func anyLenWeighted(r *rand.Rand, depth int) int {
	weights := []int{16, 16, 16, 16, 4, 4, 4, 4, 1, 1, 1, 1, 1, 1, 1, 1}
	limit := 16 - depth
	if limit < 0 {
		limit = 0
	}
	n := weighted(r, weights)
	if n > limit {
		n = limit
	}
	return n
}

func anySymbol(opts *Options) value.Symbol {
	n := opts.rng().Intn(12) + 1
	return value.Symbol(anyRunes(opts, n))
}

func anyString(opts *Options) string {
	n := opts.rng().Intn(16)
	return anyRunes(opts, n)
}

func anyRunes(opts *Options, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(value.MinSymbolChar) + byte(opts.rng().Intn(int(value.MaxSymbolChar-value.MinSymbolChar)+1))
	}
	return string(buf)
}

func anyNumber(opts *Options) value.Number {
	m := big.NewInt(opts.rng().Int63())
	exp := int64(opts.rng().Intn(10)) - 5
	neg := opts.rng().Intn(2) == 1
	return value.NewNumber(m, exp, neg)
}

func anyByte(opts *Options) value.Byte {
	n := opts.rng().Intn(8)
	buf := make([]byte, n)
	opts.rng().Read(buf)
	return value.Byte(buf)
}

func anyList(opts *Options, depth int) value.Value {
	n := anyLenWeighted(opts.rng(), depth)
	items := make([]value.Value, n)
	for i := range items {
		items[i] = any(opts, depth+1)
	}
	return value.NewList(items)
}

func anyMap(opts *Options, depth int) value.Value {
	n := anyLenWeighted(opts.rng(), depth)
	m := value.EmptyMap()
	for i := 0; i < n; i++ {
		m.Put(any(opts, depth+1), any(opts, depth+1))
	}
	return m
}

func anyCtx(opts *Options, depth int) value.Value {
	n := anyLenWeighted(opts.rng(), depth)
	ctx := value.NewCtx()
	for i := 0; i < n; i++ {
		name := anySymbol(opts)
		contract := []value.Contract{value.ContractNone, value.ContractStatic, value.ContractStill, value.ContractFinal, value.ContractConst}[opts.rng().Intn(5)]
		_ = ctx.Put(name, any(opts, depth+1), contract)
	}
	return ctx
}
