// Package strsearch holds the hot-path string primitives of the search
// engine: an ASCII-case-insensitive substring search with a
// word-at-a-time first-byte filter, and a prefix-biased Levenshtein
// distance.
package strsearch

import (
	"encoding/binary"
	"math/bits"
)

const (
	lsb   = 0x0101010101010101
	msb   = 0x8080808080808080
	case8 = 0x2020202020202020
)

// IndexOfCI returns the first position i where haystack[i:i+len(needle)]
// equals needle under ASCII-only case folding, or -1. Bytes outside
// 0x41..0x5A / 0x61..0x7A compare literally, so multi-byte UTF-8
// sequences match byte-for-byte. len(needle) must be at least 1.
func IndexOfCI(needle, haystack []byte) int {
	if len(needle) == 0 {
		panic("strsearch: empty needle")
	}
	if len(haystack) < len(needle) {
		return -1
	}

	last := len(haystack) - len(needle)
	first := needle[0]

	if !isASCIILetter(first) {
		for i := 0; i <= last; i++ {
			if haystack[i] == first && matchAt(needle, haystack, i) {
				return i
			}
		}
		return -1
	}

	// First-byte filter: lowercase 8 haystack bytes at a time and look
	// for the earliest byte equal to the lowercased first needle byte.
	// The filter only proposes candidates; matchAt decides.
	splat := lsb * uint64(first|0x20)

	i := 0
	for i+8 <= len(haystack) {
		word := binary.LittleEndian.Uint64(haystack[i:]) | case8
		x := word ^ splat
		zeroes := (x - lsb) & ^x & msb
		for zeroes != 0 {
			pos := i + bits.TrailingZeros64(zeroes)/8
			if pos > last {
				return -1
			}
			if matchAt(needle, haystack, pos) {
				return pos
			}
			zeroes &= zeroes - 1
		}
		i += 8
	}

	for ; i <= last; i++ {
		if foldByte(haystack[i]) == first|0x20 && matchAt(needle, haystack, i) {
			return i
		}
	}
	return -1
}

func matchAt(needle, haystack []byte, pos int) bool {
	for j := 0; j < len(needle); j++ {
		if foldByte(needle[j]) != foldByte(haystack[pos+j]) {
			return false
		}
	}
	return true
}

func foldByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
