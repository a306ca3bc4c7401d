package rng

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSplitMix64KnownSequence(t *testing.T) {
	expander := NewSplitMix64(0)

	// First outputs for seed 0, computed from the reference algorithm.
	expected := []uint64{
		0xe220a8397b1dcdaf,
		0x6e789e6aa1b965f4,
		0x06c45d188009454f,
		0xf88bb8a8724c81ec,
		0x1b39896a51a8749b,
		0x53cb9f0c747ea2ea,
	}

	for i, want := range expected {
		require.Equal(t, want, expander.Next(), "output %d", i)
	}
}

func TestSplitMix64KnownSequenceNonZeroSeed(t *testing.T) {
	expander := NewSplitMix64(0x123456789abcdef)

	expected := []uint64{
		0x157a3807a48faa9d,
		0xd573529b34a1d093,
		0x2f90b72e996dccbe,
		0xa2d419334c4667ec,
	}

	for i, want := range expected {
		require.Equal(t, want, expander.Next(), "output %d", i)
	}
}

func TestSplitMix64Deterministic(t *testing.T) {
	a := NewSplitMix64(0xdeadbeef)
	b := NewSplitMix64(0xdeadbeef)

	for i := 0; i < 10000; i++ {
		require.Equal(t, a.Next(), b.Next(), "output %d", i)
	}
}

func TestSplitMix64ZeroSeedDoesNotDegenerate(t *testing.T) {
	expander := NewSplitMix64(0)

	seen := map[uint64]int{}

	first := expander.Next()
	require.NotZero(t, first)
	seen[first] = 0

	for i := 1; i < 1000; i++ {
		v := expander.Next()

		prev, dup := seen[v]
		require.False(t, dup, "output %d repeats output %d", i, prev)
		seen[v] = i
	}
}
