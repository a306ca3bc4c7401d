package rng

import (
	"fmt"
	"math"
	"time"
)

// Variant selects the output formula of a Xoshiro256State. Both
// variants advance the state identically and walk the exact same state
// trajectory; they differ only in what they compute from the state
// before advancing it.
type Variant int

const (
	// VariantStarStar is xoshiro256**, the all-purpose variant.
	VariantStarStar Variant = iota
	// VariantPlus is xoshiro256+, slightly faster and meant for
	// floating-point generation. Its lowest three bits have low linear
	// complexity, so prefer the upper bits when extracting subsets.
	VariantPlus
)

func (v Variant) String() string {
	switch v {
	case VariantStarStar:
		return "starstar"
	case VariantPlus:
		return "plus"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

func (v Variant) permuter() func([]uint64) uint64 {
	if v == VariantPlus {
		return xoshiro256PPermuteState
	}

	return xoshiro256SSPermuteState
}

// Xoshiro256State is a xoshiro256 generator with 256 bits of state.
// The state must never be everywhere zero; the seed-based constructors
// guarantee this, the four-word constructor leaves it to the caller.
//
// Instances are not safe for concurrent use. For parallel consumers,
// derive one instance per worker with Clone followed by Jump128.
type Xoshiro256State struct {
	State [4]uint64

	variant Variant
	permute func([]uint64) uint64
}

// NewXoshiro256SS returns a time-seeded xoshiro256** generator.
func NewXoshiro256SS() *Xoshiro256State {
	return NewXoshiro256FromSeed(VariantStarStar, uint64(time.Now().UnixNano()))
}

// NewXoshiro256P returns a time-seeded xoshiro256+ generator.
func NewXoshiro256P() *Xoshiro256State {
	return NewXoshiro256FromSeed(VariantPlus, uint64(time.Now().UnixNano()))
}

// NewXoshiro256FromSeed expands a single 64-bit seed into the four
// state words through a SplitMix64 expander, as recommended upstream.
func NewXoshiro256FromSeed(variant Variant, seed uint64) *Xoshiro256State {
	expander := NewSplitMix64(seed)

	state := Xoshiro256State{
		variant: variant,
		permute: variant.permuter(),
	}

	for i := 0; i < len(state.State); i++ {
		state.State[i] = expander.Next()
	}

	return &state
}

// NewXoshiro256FromState constructs a generator directly from four
// state words. No validation is performed; passing four zero words is a
// caller error that degenerates the output.
func NewXoshiro256FromState(variant Variant, s0, s1, s2, s3 uint64) *Xoshiro256State {
	return &Xoshiro256State{
		State: [4]uint64{s0, s1, s2, s3},

		variant: variant,
		permute: variant.permuter(),
	}
}

func (state *Xoshiro256State) Variant() Variant {
	return state.variant
}

// Next computes the output from the current state, advances the state,
// and returns the output.
func (state *Xoshiro256State) Next() uint64 {
	return state.permute(state.State[:])
}

// Min returns the smallest value Next can return.
func (state *Xoshiro256State) Min() uint64 {
	return 0
}

// Max returns the largest value Next can return.
func (state *Xoshiro256State) Max() uint64 {
	return math.MaxUint64
}

// Uint64 makes the generator a math/rand.Source64.
func (state *Xoshiro256State) Uint64() uint64 {
	return state.Next()
}

// Int63 makes the generator a math/rand.Source.
func (state *Xoshiro256State) Int63() int64 {
	return int64(state.Next() >> 1)
}

// Seed re-seeds the generator in place through the expander.
func (state *Xoshiro256State) Seed(seed int64) {
	expander := NewSplitMix64(uint64(seed))

	for i := 0; i < len(state.State); i++ {
		state.State[i] = expander.Next()
	}
}

// Clone returns an independent generator with identical state and
// variant. Combined with Jump128 this derives non-overlapping streams.
func (state *Xoshiro256State) Clone() *Xoshiro256State {
	clone := *state
	return &clone
}

// Jump128 advances the state as if 2^128 calls to Next had been made.
// Calling it repeatedly on clones of one generator yields up to 2^128
// non-overlapping subsequences for parallel use.
func (state *Xoshiro256State) Jump128() {
	var jump = [4]uint64{
		0x180ec6d33cfd0aba,
		0xd5a61266f0c9392c,
		0xa9582618e03fc9aa,
		0x39abdc4529b1661c,
	}

	jumpImpl(state.State[:], jump[:], state.permute)
}

// Jump192 advances the state as if 2^192 calls to Next had been made.
// It generates widely-separated starting points which Jump128 then
// subdivides further.
func (state *Xoshiro256State) Jump192() {
	var jump = [4]uint64{
		0x76e15d3efefdcbbf,
		0xc5004e441c522fb3,
		0x77710069854ee241,
		0x39109bb02acbe635,
	}

	jumpImpl(state.State[:], jump[:], state.permute)
}

func (state *Xoshiro256State) String() string {
	s := ""

	for i := 0; i < 4; i++ {
		s += fmt.Sprintf("%016x", state.State[i])
	}

	return s
}
