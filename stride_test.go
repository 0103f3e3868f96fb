package bury

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestStrideGenerator_RangeBound(t *testing.T) {
	sg := NewStrideGenerator(0xdeadbeef, 9)
	for i := 0; i < 10000; i++ {
		v := sg.Next()
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 8) // [1, maxStride-1]
	}
}

func TestStrideGenerator_MinimalMaxStride(t *testing.T) {
	// maxStride == 2 still yields the fixed convention's lower bound.
	sg := NewStrideGenerator(1, 2)
	for i := 0; i < 100; i++ {
		require.Equal(t, 1, sg.Next())
	}
}

func TestStrideGenerator_SeedDeterminism(t *testing.T) {
	a := NewStrideGenerator(42, 10)
	b := NewStrideGenerator(42, 10)
	for i := 0; i < 500; i++ {
		require.Equal(t, a.Next(), b.Next())
	}
}

func TestSchedule_StrictlyIncreasingAndInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		offset := uint8(rapid.IntRange(0, 255).Draw(t, "offset"))
		maxStride := rapid.IntRange(2, 15).Draw(t, "maxStride")
		seed := uint32(rapid.Int32Range(0, 1<<30).Draw(t, "seed"))
		total := rapid.IntRange(int(offset)+1, 100000).Draw(t, "total")

		pixels := Schedule(offset, maxStride, seed, total)

		prev := int(offset)
		for _, p := range pixels {
			require.Greater(t, p, prev)
			require.Less(t, p, total)
			prev = p
		}
	})
}
