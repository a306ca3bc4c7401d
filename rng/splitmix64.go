package rng

// SplitMix64State is a 64-bit seed expander.
// https://prng.di.unimi.it/splitmix64.c
//
// It turns a single 64-bit seed into an arbitrarily long sequence of
// well-mixed values, which is the recommended way to fill the state of
// the larger generators in this package. Any seed is accepted,
// including zero.
type SplitMix64State struct {
	State uint64
}

func NewSplitMix64(seed uint64) *SplitMix64State {
	return &SplitMix64State{
		State: seed,
	}
}

func (state *SplitMix64State) Next() uint64 {
	state.State += 0x9e3779b97f4a7c15

	z := state.State
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb

	return z ^ (z >> 31)
}
