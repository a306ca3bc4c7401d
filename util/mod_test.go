package util

import (
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestRotLRotRInverse(t *testing.T) {
	values := []uint64{1, 0xdeadbeefcafef00d, 0x8000000000000000, 0x5555555555555555}

	for k := uint(1); k < 64; k++ {
		for _, x := range values {
			require.Equal(t, x, RotR(RotL(x, k), k), "k=%d x=%#x", k, x)
			require.Equal(t, x, RotL(RotL(x, k), 64-k), "k=%d x=%#x", k, x)
		}
	}
}

func TestRotL32(t *testing.T) {
	require.Equal(t, uint32(0x00000002), RotL(uint32(1), 1))
	require.Equal(t, uint32(0x00000001), RotL(uint32(0x80000000), 1))
}

func TestArrayToString(t *testing.T) {
	require.Equal(t, "00010002", ArrayToString([]uint16{1, 2}))
	require.Equal(t,
		"0000000000000001000000000000000200000000000000030000000000000004",
		ArrayToString([]uint64{1, 2, 3, 4}))
}

func TestBitString(t *testing.T) {
	require.Equal(t, strings.Repeat("0", 64), BitString(uint64(0)))
	require.Equal(t, strings.Repeat("0", 63)+"1", BitString(uint64(1)))
	require.Equal(t, "1"+strings.Repeat("0", 63), BitString(uint64(1)<<63))
	require.Equal(t, "10100101", BitString(uint8(0xa5)))

	require.Len(t, BitString(uint64(0xdeadbeefcafef00d)), 64)
}
