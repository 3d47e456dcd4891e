// Package tapewav is the WAV boundary for the tape codec: reading the raw
// 8-bit mono samples a KIM-1 recording is carried in, and writing the
// encoder's output back out in the same layout.
package tapewav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/fstark/kimreader/pkg/tape"
)

// ErrUnsupportedFormat is returned when the WAV is not mono 8-bit PCM.
var ErrUnsupportedFormat = fmt.Errorf("tapewav: only mono 8-bit PCM WAV is supported")

// Read decodes a RIFF/WAVE file into its raw 8-bit mono samples and the
// declared sample rate, per SPEC_FULL §6.
func Read(r io.Reader) ([]tape.Sample, int, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, 0, fmt.Errorf("tapewav: read WAV: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("tapewav: invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, 0, fmt.Errorf("tapewav: seek to PCM data: %w", err)
	}

	if int(dec.NumChans) != 1 || int(dec.BitDepth) != 8 {
		return nil, 0, ErrUnsupportedFormat
	}

	buf := &audio.IntBuffer{
		Data:   make([]int, 0, 4096),
		Format: &audio.Format{SampleRate: int(dec.SampleRate), NumChannels: 1},
	}
	chunk := &audio.IntBuffer{Data: make([]int, 4096), Format: buf.Format}

	for {
		n, err := dec.PCMBuffer(chunk)
		if err != nil {
			return nil, 0, fmt.Errorf("tapewav: decode PCM: %w", err)
		}
		if n == 0 {
			break
		}
		buf.Data = append(buf.Data, chunk.Data[:n]...)
	}

	samples := make([]tape.Sample, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = tape.Sample(v)
	}
	return samples, int(dec.SampleRate), nil
}

// Write emits samples as the exact 44-byte-header mono 8-bit PCM WAV
// SPEC_FULL §4.7 describes (chunkSize = payload_bytes + 36). Written by
// hand, like the teacher's own encodeToWAV, rather than through
// go-audio/wav's encoder: the round-trip law in SPEC_FULL §8 requires
// encode(decode(WAV)) to match byte-for-byte, which only holds if the
// header is exactly this layout and nothing more.
func Write(w io.Writer, samples []tape.Sample, rate int) error {
	dataSize := len(samples)
	fileSize := 36 + dataSize
	byteRate := rate

	if _, err := w.Write([]byte("RIFF")); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(fileSize)); err != nil {
		return err
	}
	if _, err := w.Write([]byte("WAVE")); err != nil {
		return err
	}
	if _, err := w.Write([]byte("fmt ")); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(16)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(1)); err != nil { // AudioFormat=1 (PCM)
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(1)); err != nil { // Channels=1
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(rate)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(byteRate)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(1)); err != nil { // BlockAlign
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(8)); err != nil { // BitsPerSample
		return err
	}
	if _, err := w.Write([]byte("data")); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(dataSize)); err != nil {
		return err
	}
	_, err := w.Write(samples)
	return err
}
