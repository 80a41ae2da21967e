package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draw(b *Bag, n int) []Family {
	out := make([]Family, n)
	for i := range out {
		out[i] = b.Next()
	}
	return out
}

func countFamilies(seq []Family) map[Family]int {
	counts := make(map[Family]int, 7)
	for _, f := range seq {
		counts[f]++
	}
	return counts
}

func TestBagEveryGroupIsAPermutation(t *testing.T) {
	b := NewBag(42)
	seq := draw(b, 7*100)

	for start := 0; start < len(seq); start += 7 {
		counts := countFamilies(seq[start : start+7])
		require.Len(t, counts, 7, "group at %d", start)
		for _, f := range AllFamilies {
			assert.Equal(t, 1, counts[f], "family %s in group at %d", f, start)
		}
	}
}

func TestBagFourteenDrawWindows(t *testing.T) {
	b := NewBag(7)
	seq := draw(b, 7*50)

	// Windows aligned to bag boundaries hold every family exactly twice.
	for start := 0; start+14 <= len(seq); start += 7 {
		counts := countFamilies(seq[start : start+14])
		for _, f := range AllFamilies {
			assert.Equal(t, 2, counts[f], "family %s in window at %d", f, start)
		}
	}
}

func TestBagRefillsOnlyWhenEmpty(t *testing.T) {
	b := NewBag(1)
	assert.Equal(t, 0, b.Remaining())

	b.Next()
	assert.Equal(t, 6, b.Remaining())
	draw(b, 6)
	assert.Equal(t, 0, b.Remaining())
	b.Next()
	assert.Equal(t, 6, b.Remaining())
}

func TestBagDeterministic(t *testing.T) {
	assert.Equal(t, draw(NewBag(99), 70), draw(NewBag(99), 70))
	assert.NotEqual(t, draw(NewBag(1), 70), draw(NewBag(2), 70))
}
