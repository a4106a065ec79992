// Package conv holds checked integer narrowing used for state and class
// indices. Overflow means an automaton outgrew its index type, which the
// compiler's size limits rule out, so the helpers panic instead of returning
// an error.
package conv

import "math"

// IntToUint32 narrows n to uint32, panicking if it does not fit.
func IntToUint32(n int) uint32 {
	if n < 0 || uint64(n) > math.MaxUint32 {
		panic("conv: index out of uint32 range")
	}
	return uint32(n)
}

// IntToUint16 narrows n to uint16, panicking if it does not fit.
func IntToUint16(n int) uint16 {
	if n < 0 || n > math.MaxUint16 {
		panic("conv: index out of uint16 range")
	}
	return uint16(n)
}
