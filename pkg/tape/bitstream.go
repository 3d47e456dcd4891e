package tape

import (
	"fmt"
	"sort"
)

// Fix locates a synthesised bit whose real value is unknown. BitIndex is
// the position inside the owning Bitstream; SourceTimestamp is informational
// (the decode-clock time of the bit slot it fills: the last valid bit's time
// plus whole bit periods), used only for user-facing reports.
type Fix struct {
	BitIndex        int
	SourceTimestamp float64
}

// Bitstream is an immutable ordered sequence of bits plus an ordered,
// index-unique list of Fixes locating bits whose value is still open.
//
// Grounded on original_source/main.cpp's bitstream class, including its
// test_bitstream() unit tests (see bitstream_test.go).
type Bitstream struct {
	bits  []bool
	fixes []Fix
}

// NewBitstream validates and wraps bits and fixes. Fixes need not arrive
// pre-sorted; NewBitstream sorts them by BitIndex and rejects duplicates.
func NewBitstream(bits []bool, fixes []Fix) (*Bitstream, error) {
	sorted := append([]Fix(nil), fixes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].BitIndex < sorted[j].BitIndex })

	for i, f := range sorted {
		if f.BitIndex < 0 || f.BitIndex >= len(bits) {
			return nil, fmt.Errorf("tape: fix bit_index %d out of range [0,%d)", f.BitIndex, len(bits))
		}
		if i > 0 && sorted[i-1].BitIndex == f.BitIndex {
			return nil, fmt.Errorf("tape: duplicate fix bit_index %d", f.BitIndex)
		}
	}

	return &Bitstream{
		bits:  append([]bool(nil), bits...),
		fixes: sorted,
	}, nil
}

// Len returns the number of bits.
func (b *Bitstream) Len() int { return len(b.bits) }

// Fixes returns a copy of the bitstream's ordered, unresolved-bit locations.
func (b *Bitstream) Fixes() []Fix { return append([]Fix(nil), b.fixes...) }

// FixCount returns 2^len(fixes), the number of distinct fills Materialise
// accepts.
func (b *Bitstream) FixCount() int {
	return 1 << uint(len(b.fixes))
}

// Materialise returns a plain bit vector equal to the stored bits with the
// j-th fix (0-indexed) overwritten by bit j of k (LSB-first). 0 <= k <
// FixCount() is required.
func (b *Bitstream) Materialise(k int) []bool {
	if k < 0 || k >= b.FixCount() {
		panic(fmt.Sprintf("tape: materialise index %d out of range [0,%d)", k, b.FixCount()))
	}

	result := append([]bool(nil), b.bits...)
	for j, f := range b.fixes {
		result[f.BitIndex] = k&(1<<uint(j)) != 0
	}
	return result
}

// Slice returns a new Bitstream over the half-open window [start, start+n),
// retaining only the Fixes that fall inside it, rebased to 0.
func (b *Bitstream) Slice(start, n int) *Bitstream {
	if start < 0 || n < 0 || start+n > len(b.bits) {
		panic(fmt.Sprintf("tape: slice [%d,%d) out of range for length %d", start, start+n, len(b.bits)))
	}

	var fixes []Fix
	for _, f := range b.fixes {
		if f.BitIndex >= start && f.BitIndex < start+n {
			fixes = append(fixes, Fix{BitIndex: f.BitIndex - start, SourceTimestamp: f.SourceTimestamp})
		}
	}

	out, err := NewBitstream(append([]bool(nil), b.bits[start:start+n]...), fixes)
	if err != nil {
		panic(err) // fixes were already validated against b; cannot fail here
	}
	return out
}

// IndexOf scans for the first position, at the given stride, where the bits
// form byte c (little-endian, LSB first).
func (b *Bitstream) IndexOf(c byte, stride int) (pos int, found bool) {
	pattern := bitsOf(c)
	return findBits(b.bits, pattern, 0, stride)
}

// bitsOf returns the 8 bits of c, little-endian (bit 0 first).
func bitsOf(c byte) []bool {
	bits := make([]bool, 8)
	for i := range bits {
		bits[i] = c&(1<<uint(i)) != 0
	}
	return bits
}

// findBits scans bits, starting at from, for the first occurrence of
// pattern at the given stride, returning its absolute start position.
func findBits(bits []bool, pattern []bool, from, stride int) (int, bool) {
	if stride <= 0 {
		stride = 1
	}
	for start := from; start+len(pattern) <= len(bits); start += stride {
		if matchesAt(bits, pattern, start) {
			return start, true
		}
	}
	return 0, false
}

func matchesAt(bits, pattern []bool, start int) bool {
	for i, p := range pattern {
		if bits[start+i] != p {
			return false
		}
	}
	return true
}

// Patch applies instructions cyclically over the bitstream's fixes: '0'
// resolves that fix to 0, '1' resolves it to 1 (both removing it from the
// fix list); 'x' (also the default for an empty pattern) leaves it
// unresolved — its stored value stays 1 until Materialise overrides it.
//
// Patch leaves b unchanged: it works on a copy of the bits and returns a
// new Bitstream reflecting the result (or b itself when b has no fixes).
func (b *Bitstream) Patch(pattern string, log patchLogger) *Bitstream {
	if len(b.fixes) == 0 {
		return b
	}
	if pattern == "" {
		pattern = "x"
	}

	bits := append([]bool(nil), b.bits...)
	var remaining []Fix

	for i, f := range b.fixes {
		instr := pattern[i%len(pattern)]
		switch instr {
		case '0':
			bits[f.BitIndex] = false
			if log != nil {
				log.Patched(f.BitIndex, f.SourceTimestamp, "0")
			}
		case '1':
			bits[f.BitIndex] = true
			if log != nil {
				log.Patched(f.BitIndex, f.SourceTimestamp, "1")
			}
		default: // 'x' or anything unrecognised: leave unresolved
			bits[f.BitIndex] = true
			remaining = append(remaining, f)
			if log != nil {
				log.Patched(f.BitIndex, f.SourceTimestamp, "x")
			}
		}
	}

	out, err := NewBitstream(bits, remaining)
	if err != nil {
		panic(err)
	}
	return out
}

type patchLogger interface {
	Patched(bitIndex int, sourceTimestamp float64, value string)
}
