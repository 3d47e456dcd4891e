package tape

import (
	"fmt"
	"io"
)

// DumpBinary writes bits as a grid of 0/1 characters, 8 per group and 64
// per line, matching bitstream::dump_binary. Like the source, a stored
// `true` bit prints as '0' and `false` prints as '1' — the source's own
// inverted convention, kept here so hand-inspected dumps of existing
// recordings still read the way they always have.
func DumpBinary(w io.Writer, bits []bool) {
	for i, b := range bits {
		ch := '1'
		if b {
			ch = '0'
		}
		fmt.Fprintf(w, "%c", ch)
		if (i+1)%8 == 0 {
			fmt.Fprint(w, " ")
		}
		if (i+1)%64 == 0 {
			fmt.Fprint(w, "\n")
		}
	}
	fmt.Fprint(w, "\n")
}

// DumpHex writes bits, skipping the first offset of them, as a classic
// hex+ASCII table (16 bytes per row, 4-byte groups), matching
// bitstream::dump_hexa.
func DumpHex(w io.Writer, bits []bool, offset int) {
	if offset > len(bits) {
		offset = len(bits)
	}
	bytes := bytesFromBitsLE(bits[offset:])

	for i := 0; i < len(bytes); i += 16 {
		fmt.Fprintf(w, "%04X:", i)
		for j := 0; j < 16; j++ {
			if i+j < len(bytes) {
				fmt.Fprintf(w, " %02X", bytes[i+j])
			} else {
				fmt.Fprint(w, "   ")
			}
			if j%4 == 3 {
				fmt.Fprint(w, " ")
			}
		}
		fmt.Fprint(w, ": ")
		for j := 0; j < 16; j++ {
			if i+j < len(bytes) {
				c := bytes[i+j]
				if isGraphic(c) {
					fmt.Fprintf(w, "%c", c)
				} else {
					fmt.Fprint(w, ".")
				}
				if j%4 == 3 {
					fmt.Fprint(w, " ")
				}
			}
		}
		fmt.Fprint(w, "\n")
	}
}

func isGraphic(c byte) bool {
	return c > ' ' && c < 0x7f
}
