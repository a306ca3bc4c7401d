package rng

import (
	"github.com/stretchr/testify/require"
	"math/rand"
	"testing"
)

// Reference vectors computed from the upstream algorithm for the state
// (1, 2, 3, 4).
var (
	referenceSSOutputs = []uint64{
		0x0000000000002d00,
		0x0000000000000000,
		0x000000005a007080,
		0x10e0000000009d80,
		0x10e0b61ce1009d80,
		0x0870021ce143ad00,
		0xe071c3c2e143f089,
		0x75a1690ef7a20380,
	}

	referencePOutputs = []uint64{
		0x0000000000000005,
		0x0000c00000000007,
		0x0000c00018000007,
		0x8001600018040302,
		0x8061900024040305,
		0xc0617014120f0583,
		0x2090780422068642,
		0x1038a418171102c6,
	}
)

func TestStarStarReferenceVector(t *testing.T) {
	gen := NewXoshiro256FromState(VariantStarStar, 1, 2, 3, 4)

	require.Equal(t, referenceSSOutputs[0], gen.Next())
	require.Equal(t, [4]uint64{0x7, 0x0, 0x40002, 0xc00000000000}, gen.State)

	for i, want := range referenceSSOutputs[1:] {
		require.Equal(t, want, gen.Next(), "output %d", i+1)
	}
}

func TestPlusReferenceVector(t *testing.T) {
	gen := NewXoshiro256FromState(VariantPlus, 1, 2, 3, 4)

	require.Equal(t, referencePOutputs[0], gen.Next())
	require.Equal(t, [4]uint64{0x7, 0x0, 0x40002, 0xc00000000000}, gen.State)

	for i, want := range referencePOutputs[1:] {
		require.Equal(t, want, gen.Next(), "output %d", i+1)
	}
}

func TestSeededDeterminism(t *testing.T) {
	for _, variant := range []Variant{VariantStarStar, VariantPlus} {
		a := NewXoshiro256FromSeed(variant, 0xcafef00d)
		b := NewXoshiro256FromSeed(variant, 0xcafef00d)

		for i := 0; i < 10000; i++ {
			require.Equal(t, a.Next(), b.Next(), "%s output %d", variant, i)
		}

		require.Equal(t, a.State, b.State)
	}
}

func TestVariantsShareStateTrajectory(t *testing.T) {
	ss := NewXoshiro256FromState(VariantStarStar, 1, 2, 3, 4)
	p := NewXoshiro256FromState(VariantPlus, 1, 2, 3, 4)

	differed := false

	for i := 0; i < 10000; i++ {
		if ss.Next() != p.Next() {
			differed = true
		}

		require.Equal(t, ss.State, p.State, "state diverged after call %d", i+1)
	}

	require.True(t, differed, "the two extraction formulas never produced different outputs")
}

func TestRotateLeftInverse(t *testing.T) {
	source := rand.New(rand.NewSource(1))

	for k := 1; k < 64; k++ {
		for i := 0; i < 100; i++ {
			x := source.Uint64()
			require.Equal(t, x, GenericRotLeft(GenericRotLeft(x, k), 64-k), "k=%d", k)
		}
	}
}

func TestJump128ReferenceVector(t *testing.T) {
	gen := NewXoshiro256FromState(VariantStarStar, 1, 2, 3, 4)
	gen.Jump128()

	require.Equal(t, [4]uint64{
		0x8c7a153956b5f3d1,
		0x701f1a713401d85e,
		0x6527f66a65469085,
		0x8386b786c4408050,
	}, gen.State)

	require.Equal(t, uint64(0xbbd2f312298443d8), gen.Next())
}

func TestJump192ReferenceVector(t *testing.T) {
	gen := NewXoshiro256FromState(VariantStarStar, 1, 2, 3, 4)
	gen.Jump192()

	require.Equal(t, [4]uint64{
		0x096a8eb71295a400,
		0xdbf84991e50f4516,
		0x534ee745810d2a0e,
		0x31655ca1a2215bf1,
	}, gen.State)
}

func TestJumpsProduceDistinctValidStates(t *testing.T) {
	single := NewXoshiro256FromSeed(VariantStarStar, 42)
	double := single.Clone()

	single.Jump128()
	double.Jump128()
	double.Jump128()

	require.NotEqual(t, single.State, double.State)
	require.NotEqual(t, [4]uint64{}, single.State)
	require.NotEqual(t, [4]uint64{}, double.State)
}

func TestJumpIndependentOfVariant(t *testing.T) {
	ss := NewXoshiro256FromState(VariantStarStar, 1, 2, 3, 4)
	p := NewXoshiro256FromState(VariantPlus, 1, 2, 3, 4)

	ss.Jump128()
	p.Jump128()

	require.Equal(t, ss.State, p.State)
}

func TestCloneIsIndependent(t *testing.T) {
	gen := NewXoshiro256FromSeed(VariantStarStar, 7)
	clone := gen.Clone()

	require.Equal(t, gen.State, clone.State)

	_ = gen.Next()
	require.NotEqual(t, gen.State, clone.State)
}

func TestSeedMatchesFromSeed(t *testing.T) {
	fresh := NewXoshiro256FromSeed(VariantPlus, 99)

	reseeded := NewXoshiro256FromState(VariantPlus, 1, 2, 3, 4)
	reseeded.Seed(99)

	require.Equal(t, fresh.State, reseeded.State)
}

func TestSourceConformance(t *testing.T) {
	gen := NewXoshiro256FromSeed(VariantStarStar, 0x5eed)

	require.Equal(t, uint64(0), gen.Min())
	require.Equal(t, uint64(0xffffffffffffffff), gen.Max())

	sampler := rand.New(gen)

	for i := 0; i < 1000; i++ {
		v := sampler.Intn(100)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 100)
	}

	for i := 0; i < 1000; i++ {
		require.GreaterOrEqual(t, gen.Int63(), int64(0))
	}
}

func TestStringRendersState(t *testing.T) {
	gen := NewXoshiro256FromState(VariantStarStar, 1, 2, 3, 4)

	require.Equal(t,
		"0000000000000001000000000000000200000000000000030000000000000004",
		gen.String())
}
