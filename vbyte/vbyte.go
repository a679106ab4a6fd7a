// Package vbyte implements the variable-length unsigned-integer coding
// used by the compiled dictionary format.
//
// A value is stored in 1, 2, 3 or 5 bytes. The low 2 bits of the first
// byte carry the length code; the remaining bits of the little-endian
// integer carry the payload.
package vbyte

import "fmt"

// Lengths holds the stored byte length for each of the four codes.
var Lengths = [4]uint8{1, 2, 3, 5}

var masks = [4]uint64{
	(1 << (1 * 8)) - 1,
	(1 << (2 * 8)) - 1,
	(1 << (3 * 8)) - 1,
	(1 << (5 * 8)) - 1,
}

// MaxValue is the largest encodable value (exclusive bound 1<<38).
const MaxValue = (uint64(1) << 38) - 1

// Decode extracts a value from a speculatively-read little-endian
// 8-byte word. It returns the value and the number of bytes actually
// consumed. Streams must carry at least 8 bytes of zero padding after
// the last vbyte so that the speculative read never runs off the end.
func Decode(word uint64) (uint64, int) {
	code := word & 0x3
	return (word & masks[code]) >> 2, int(Lengths[code])
}

// Encode returns the encoded little-endian word and the number of
// bytes of it to store. Values of 2^38 or more do not fit.
func Encode(value uint64) (uint64, int) {
	code := lenCode(value)
	return value<<2 | uint64(code), int(Lengths[code])
}

func lenCode(value uint64) uint8 {
	const (
		threshold0 = 1 << (1*8 - 2)
		threshold1 = 1 << (2*8 - 2)
		threshold2 = 1 << (3*8 - 2)
		threshold3 = 1 << (5*8 - 2)
	)

	if value >= threshold3 {
		panic(fmt.Sprintf("vbyte: value %d out of range", value))
	}

	if value < threshold1 {
		if value < threshold0 {
			return 0
		}
		return 1
	}
	if value < threshold2 {
		return 2
	}
	return 3
}
