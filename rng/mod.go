package rng

import "unsafe"

func GenericRotLeft[T uint8 | uint16 | uint32 | uint64](x T, k int) T {
	bitWidth := int(unsafe.Sizeof(x) * 8)
	return (x << k) | (x >> (bitWidth - k))
}

// jumpImpl walks every bit of every table word and advances the state once
// per bit, set or not; the advances are what encode the skip distance.
func jumpImpl(state []uint64, table []uint64, permute func([]uint64) uint64) {
	s := make([]uint64, len(state))

	for i := 0; i < len(table); i++ {
		for b := 0; b < 64; b++ {
			if (table[i] & (uint64(1) << b)) != 0 {
				for j := 0; j < len(state); j++ {
					s[j] ^= state[j]
				}
			}
			_ = permute(state)
		}
	}

	copy(state, s)
}
