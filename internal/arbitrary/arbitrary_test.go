package arbitrary

import (
	"math/rand"
	"testing"

	"github.com/funvibe/weave/internal/value"
)

func TestValueTerminatesAndProducesAValue(t *testing.T) {
	opts := &Options{Rand: rand.New(rand.NewSource(1)), MaxDepth: 6}
	for i := 0; i < 200; i++ {
		v := Value(opts)
		if v == nil {
			t.Fatal("Value must never return a nil Value")
		}
	}
}

func TestValueDefaultsWhenOptsIsNil(t *testing.T) {
	v := Value(nil)
	if v == nil {
		t.Fatal("Value(nil) should apply defaults rather than panic or return nil")
	}
}

func TestValueNeverProducesFuncOrExtension(t *testing.T) {
	opts := &Options{Rand: rand.New(rand.NewSource(42)), MaxDepth: 10}
	for i := 0; i < 500; i++ {
		if k := Value(opts).Kind(); k == value.KindFunc || k == value.KindExtension {
			t.Fatalf("Value produced a %s, which has no host-independent random sample", k)
		}
	}
}

func TestWeightedRespectsZeroWeightExclusion(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	weights := []int{0, 0, 5}
	for i := 0; i < 50; i++ {
		if got := weighted(r, weights); got != 2 {
			t.Fatalf("weighted should never select a zero-weight index, got %d", got)
		}
	}
}

func TestAnyLenWeightedClampsToRemainingDepth(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for i := 0; i < 200; i++ {
		n := anyLenWeighted(r, 15)
		if n > 1 {
			t.Fatalf("anyLenWeighted(depth=15) = %d, want <= 16-15 = 1", n)
		}
	}
}

func TestKindWeightGrowsWithDepthThenCaps(t *testing.T) {
	if kindWeight(0) != 1 {
		t.Fatalf("kindWeight(0) = %d, want 1", kindWeight(0))
	}
	if kindWeight(3) != 8 {
		t.Fatalf("kindWeight(3) = %d, want 8", kindWeight(3))
	}
	if kindWeight(32) != kindWeight(100) {
		t.Fatal("kindWeight must clamp depth at 32")
	}
}

func TestAnySymbolIsValid(t *testing.T) {
	opts := &Options{Rand: rand.New(rand.NewSource(9)), MaxDepth: 4}
	for i := 0; i < 100; i++ {
		s := anySymbol(opts)
		if !value.ValidSymbol(string(s)) {
			t.Fatalf("anySymbol produced an invalid symbol %q", s)
		}
	}
}
