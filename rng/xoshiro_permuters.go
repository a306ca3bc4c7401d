package rng

// permutes a [4]uint64 state according to xoshiro256**
// https://prng.di.unimi.it/xoshiro256starstar.c
func xoshiro256SSPermuteState(s []uint64) (result uint64) {
	result = GenericRotLeft(s[1]*5, 7) * 9

	t := s[1] << 17

	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]

	s[2] ^= t

	s[3] = GenericRotLeft(s[3], 45)

	return result
}

// permutes a [4]uint64 state according to xoshiro256+
// https://prng.di.unimi.it/xoshiro256plus.c
func xoshiro256PPermuteState(s []uint64) (result uint64) {
	result = s[0] + s[3]

	t := s[1] << 17

	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]

	s[2] ^= t

	s[3] = GenericRotLeft(s[3], 45)

	return result
}
