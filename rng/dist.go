package rng

import (
	"errors"
	"fmt"
	"math"
)

// Uniform returns a real uniformly distributed in the open interval
// (low, high). Raw draws of 0 and MaxUint64 are rejected and redrawn so
// the result never lands exactly on an endpoint; the retry fires with
// probability 2/2^64 per draw.
func (state *Xoshiro256State) Uniform(low, high float64) (float64, error) {
	if math.IsNaN(low) || math.IsInf(low, 0) || math.IsNaN(high) || math.IsInf(high, 0) {
		return 0, errors.New("uniform bounds must be finite")
	}

	if low >= high {
		return 0, fmt.Errorf("bad uniform bounds (low: %f, high: %f)", low, high)
	}

	n := state.Next()
	for n == 0 || n == math.MaxUint64 {
		n = state.Next()
	}

	return low + (high-low)*float64(n)/float64(uint64(math.MaxUint64)), nil
}

// Exponential returns an exponentially distributed real with the given
// mean, via inverse-CDF sampling.
func (state *Xoshiro256State) Exponential(mean float64) (float64, error) {
	if math.IsNaN(mean) || mean <= 0 {
		return 0, fmt.Errorf("exponential mean must be positive (got: %f)", mean)
	}

	r, err := state.Uniform(0, 1)
	if err != nil {
		return 0, err
	}

	return -mean * math.Log(1-r), nil
}

// Geometric returns the number of failures before the first success in
// a Bernoulli process with the given success probability, i.e.
// P(i failures) = p * (1-p)^i.
func (state *Xoshiro256State) Geometric(success float64) (int, error) {
	if math.IsNaN(success) || success <= 0 || success >= 1 {
		return 0, fmt.Errorf("success probability must be in (0, 1) (got: %f)", success)
	}

	r, err := state.Uniform(0, 1)
	if err != nil {
		return 0, err
	}

	return int(math.Ceil(-1 + math.Log(1-r)/math.Log(1-success))), nil
}
