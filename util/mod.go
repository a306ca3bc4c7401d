package util

import (
	"fmt"
	"unsafe"
)

func RotL[T uint8 | uint16 | uint32 | uint64](x T, k uint) T {
	BitWidth := unsafe.Sizeof(x) * 8
	return (x << k) | (x >> (uint(BitWidth) - k))
}

func RotR[T uint8 | uint16 | uint32 | uint64](x T, k uint) T {
	BitWidth := unsafe.Sizeof(x) * 8
	return (x >> k) | (x << (uint(BitWidth) - k))
}

func ArrayToString[T uint8 | uint16 | uint32 | uint64](arr []T) string {
	ret := ""

	for _, v := range arr {
		bitWidth := int(unsafe.Sizeof(v) * 8)
		ret += fmt.Sprintf("%0[1]*[2]x", bitWidth/4, v)
	}

	return ret
}

// BitString renders a value as its full-width binary representation,
// most significant bit first. Debugging aid, not part of any hot path.
func BitString[T uint8 | uint16 | uint32 | uint64](v T) string {
	bitWidth := int(unsafe.Sizeof(v) * 8)

	return fmt.Sprintf("%0[1]*[2]b", bitWidth, v)
}
