// Package simd provides word-at-a-time scans over subjects.
//
// The lazy DFA uses these to find the ASCII prefix of a subject, over which it
// can look up rune classes directly by byte and skip UTF-8 decoding. All
// routines are portable Go; on CPUs with wide vector units the loops are
// unrolled to 32 bytes per iteration so the independent loads can issue
// together.
package simd

import "golang.org/x/sys/cpu"

// wide selects the 32-byte unrolled loops.
var wide = cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD

const hi8 = uint64(0x8080808080808080)

// Text is any subject the scans accept.
type Text interface {
	~string | ~[]byte
}

// load64 reads 8 bytes little-endian starting at i.
func load64[T Text](s T, i int) uint64 {
	_ = s[i+7]
	return uint64(s[i]) | uint64(s[i+1])<<8 | uint64(s[i+2])<<16 | uint64(s[i+3])<<24 |
		uint64(s[i+4])<<32 | uint64(s[i+5])<<40 | uint64(s[i+6])<<48 | uint64(s[i+7])<<56
}

// FirstNonASCII returns the index of the first byte >= 0x80, or -1 if there
// is none.
func FirstNonASCII[T Text](s T) int {
	i := 0
	if wide {
		for i+32 <= len(s) {
			if (load64(s, i)|load64(s, i+8)|load64(s, i+16)|load64(s, i+24))&hi8 != 0 {
				break
			}
			i += 32
		}
	}
	for i+8 <= len(s) {
		if load64(s, i)&hi8 != 0 {
			break
		}
		i += 8
	}
	for ; i < len(s); i++ {
		if s[i] >= 0x80 {
			return i
		}
	}
	return -1
}
