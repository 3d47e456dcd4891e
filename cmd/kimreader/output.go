package main

import (
	"fmt"
	"io"

	"github.com/fstark/kimreader/pkg/tape"
	"github.com/fstark/kimreader/pkg/tapewav"
)

// writeOutput renders rec to w per the --output flag: data (the memory
// image, header stripped), kim (the framed KIM-1 byte stream: 100*SYN,
// headers, etc.), bits (the record's literal encoded bit sequence as 0/1
// characters) or wav (a freshly synthesised recording of rec). The empty
// default behaves like "kim".
func writeOutput(w io.Writer, rec tape.Record) error {
	switch output {
	case "data":
		data := rec.Payload
		if len(data) > 3 {
			data = data[3:]
		} else {
			data = nil
		}
		_, err := w.Write(data)
		return err
	case "bits":
		return writeBits(w, rec)
	case "wav":
		return tapewav.Write(w, tape.EncodeWAVSamples(rec), 44100)
	case "kim", "":
		_, err := w.Write(tape.EncodeFrame(rec))
		return err
	default:
		return fmt.Errorf("kimreader: unknown --output format %q", output)
	}
}

// writeBits writes rec's encoded bits as literal (un-inverted) 0/1
// characters on a single line, matching original_source/main.cpp's
// write_bits. This is distinct from the --bitstream debug dump
// (tape.DumpBinary), which uses the source's inverted, grouped format.
func writeBits(w io.Writer, rec tape.Record) error {
	for _, bit := range tape.EncodeBits(rec) {
		ch := '0'
		if bit {
			ch = '1'
		}
		if _, err := fmt.Fprintf(w, "%c", ch); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "\n")
	return err
}
