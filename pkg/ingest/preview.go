package ingest

import (
	"fmt"
	"io"

	shinemp3 "github.com/braheezy/shine-mp3/pkg/mp3"

	"github.com/fstark/kimreader/pkg/tape"
)

// PreviewMP3 renders samples (as produced by pkg/tape's encoder, or read
// from a WAV) as an MP3, so a recovered or synthesised recording can be
// auditioned in an ordinary player instead of a raw 8-bit WAV.
//
// Grounded on the teacher's encodeToMP3 (pkg/converter/encoders.go), with
// the 8-bit-to-16-bit upscale this package's Decode path mirrors in
// reverse.
func PreviewMP3(w io.Writer, samples []tape.Sample, rate int) error {
	pcm16 := make([]int16, len(samples))
	for i, s := range samples {
		pcm16[i] = int16(int(s)-128) * 256
	}

	enc := shinemp3.NewEncoder(rate, 1)
	if err := enc.Write(w, pcm16); err != nil {
		return fmt.Errorf("ingest: encode MP3 preview: %w", err)
	}
	return nil
}
