// Package hashname computes the 32-bit identifiers the game client uses to
// address asset paths inside its packed archives.
//
// The hash is case-insensitive and treats '\' and '/' as the same
// separator, so "Data\Map\a.dds" and "data/map/a.dds" share an id.
package hashname

import (
	"errors"
	"math"
	"math/bits"
	"strings"
)

// MaxPathLen is the longest path, in bytes, the hash is defined for.
const MaxPathLen = 256

// ErrPathTooLong is returned by Check for paths longer than MaxPathLen.
var ErrPathTooLong = errors.New("hashname: path exceeds 256 bytes")

const (
	sentinel1 = 0x9BE74448
	sentinel2 = 0x66F42C48

	seedV = 0xF4FA8928
	seedX = 0x37A8470E
	seedY = 0x7758B42B

	maskW = 0x267B0B11
	maskA = 0x02040801
	maskB = 0x00804021
	maskC = 0xBFEF7FDF
	maskD = 0x7DFEFBFF

	maxWords = MaxPathLen / 4
)

// ID returns the name hash of path. Only the first MaxPathLen bytes of the
// normalised path take part; use Check to reject longer input.
func ID(path string) uint32 {
	var m [maxWords + 6]uint32
	b := normalize(path)
	if len(b) > MaxPathLen {
		b = b[:MaxPathLen]
	}
	for i, c := range b {
		m[i/4] |= uint32(c) << (8 * (i % 4))
	}

	n := 0
	for n < maxWords && m[n] != 0 {
		n++
	}
	m[n] = sentinel1
	m[n+1] = sentinel2
	n += 2

	v, x, y := uint32(seedV), uint32(seedX), uint32(seedY)
	for i := 0; i < n; i++ {
		v = bits.RotateLeft32(v, 1)
		x ^= m[i]
		y ^= m[i]

		op1 := uint64(y) * uint64((((v^maskW)+x)|maskB)&maskD)
		op2 := uint64(x) * uint64((((v^maskW)+y)|maskA)&maskC)

		// fold the high word back in, doubled, with its carry
		high := 2 * uint64(uint32(op1>>32))
		op1 = uint64(uint32(op1)) + uint64(uint32(high))
		if high > math.MaxUint32 {
			op1++
		}

		if op2 > math.MaxUint32 {
			op2 = 1 + uint64(uint32(op2)) + uint64(uint32(op2>>32))
		}

		x = uint32(op2)
		if op2 > math.MaxUint32 {
			x++
		}
		y = uint32(op1)
		if op1 > math.MaxUint32 {
			y += 2
		}
	}

	return x ^ y
}

// Normalize returns the form of path that ID hashes: forward slashes, lower
// case, and '?' in place of every non-ASCII character.
func Normalize(path string) string {
	return string(normalize(path))
}

func normalize(path string) []byte {
	path = strings.ToLower(strings.ReplaceAll(path, `\`, "/"))

	out := make([]byte, 0, len(path))
	for _, r := range path {
		switch {
		case r > 0xFFFF:
			// surrogate pair, two code units
			out = append(out, '?', '?')
		case r > 0x7F:
			out = append(out, '?')
		default:
			out = append(out, byte(r))
		}
	}
	return out
}

// Check reports whether path is within the length the hash is defined for.
func Check(path string) error {
	if len(normalize(path)) > MaxPathLen {
		return ErrPathTooLong
	}
	return nil
}
