// Package ingest normalizes FLAC, MP3 and OGG Vorbis recordings of a KIM-1
// tape into the canonical mono 8-bit PCM samples pkg/tape operates on, so a
// cassette captured through any of those containers can still be decoded.
package ingest

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"

	"github.com/fstark/kimreader/pkg/tape"
)

// Format identifies a container this package can normalize.
type Format int

const (
	FormatWAV Format = iota
	FormatFLAC
	FormatMP3
	FormatOGG
)

// String renders a Format the way it appears in file extensions, matching
// the teacher's converter.Format constants.
func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatFLAC:
		return "flac"
	case FormatMP3:
		return "mp3"
	case FormatOGG:
		return "ogg"
	default:
		return "unknown"
	}
}

// ErrUnsupportedFormat is returned by Decode for FormatWAV or an
// unrecognised Format, and by GetInfo for an unrecognised Format.
var ErrUnsupportedFormat = fmt.Errorf("ingest: unsupported container format")

// DetectFormat identifies a container from path's extension, matching the
// teacher's converter.DetectFormat.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return FormatWAV, nil
	case ".flac":
		return FormatFLAC, nil
	case ".mp3":
		return FormatMP3, nil
	case ".ogg", ".oga":
		return FormatOGG, nil
	default:
		return 0, fmt.Errorf("ingest: unrecognised extension %q", filepath.Ext(path))
	}
}

// pcm is an internal, possibly multi-channel, 16-bit intermediate used only
// to down-mix and rescale before quantizing to tape.Sample.
type pcm struct {
	samples    []int16
	sampleRate int
	channels   int
}

// Decode reads an audio file in the given container and returns its content
// as mono 8-bit unsigned PCM samples plus the declared sample rate, matching
// the layout pkg/tape and pkg/tapewav expect. The source's sample rate is
// kept as is; no resampling is done.
//
// Grounded on the teacher's decodeFLAC/decodeMP3/decodeOGG and
// convertChannels helper (pkg/converter/decoders.go,
// pkg/converter/encoders.go), adapted to the 8-bit unsigned domain instead
// of normalized int16 output.
func Decode(r io.Reader, format Format) ([]tape.Sample, int, error) {
	var p *pcm
	var err error

	switch format {
	case FormatFLAC:
		p, err = decodeFLAC(r)
	case FormatMP3:
		p, err = decodeMP3(r)
	case FormatOGG:
		p, err = decodeOGG(r)
	default:
		return nil, 0, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, 0, err
	}

	p = toMono(p)
	return quantizeTo8Bit(p), p.sampleRate, nil
}

func decodeFLAC(r io.Reader) (*pcm, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("ingest: read FLAC: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	stream, err := flac.New(rs)
	if err != nil {
		return nil, fmt.Errorf("ingest: open FLAC stream: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	shift := int(info.BitsPerSample) - 16 // normalize to 16-bit, like the teacher's normalization factor

	var samples []int16
	for {
		frame, err := stream.ParseNext()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("ingest: parse FLAC frame: %w", err)
		}
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				s := frame.Subframes[ch].Samples[i]
				switch {
				case shift > 0:
					s >>= uint(shift)
				case shift < 0:
					s <<= uint(-shift)
				}
				samples = append(samples, int16(clampInt32(s)))
			}
		}
	}

	return &pcm{samples: samples, sampleRate: int(info.SampleRate), channels: channels}, nil
}

func decodeMP3(r io.Reader) (*pcm, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: create MP3 decoder: %w", err)
	}

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("ingest: decode MP3: %w", err)
	}

	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}

	// go-mp3 always produces interleaved stereo.
	return &pcm{samples: samples, sampleRate: dec.SampleRate(), channels: 2}, nil
}

func decodeOGG(r io.Reader) (*pcm, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: create OGG decoder: %w", err)
	}

	var floats []float32
	buf := make([]float32, 4096)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			floats = append(floats, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: decode OGG: %w", err)
		}
	}

	samples := make([]int16, len(floats))
	for i, f := range floats {
		samples[i] = int16(clampFloat(float64(f) * 32767))
	}

	return &pcm{samples: samples, sampleRate: dec.SampleRate(), channels: dec.Channels()}, nil
}

// toMono averages interleaved channels down to one, matching the teacher's
// convertChannels stereo->mono branch.
func toMono(p *pcm) *pcm {
	if p.channels == 1 {
		return p
	}
	mono := make([]int16, len(p.samples)/p.channels)
	for i := range mono {
		var sum int32
		for ch := 0; ch < p.channels; ch++ {
			sum += int32(p.samples[i*p.channels+ch])
		}
		mono[i] = int16(sum / int32(p.channels))
	}
	return &pcm{samples: mono, sampleRate: p.sampleRate, channels: 1}
}

// quantizeTo8Bit maps signed 16-bit samples to the unsigned 8-bit samples
// pkg/tape's conditioner and classifier read, centred on mid-value 128.
func quantizeTo8Bit(p *pcm) []tape.Sample {
	out := make([]tape.Sample, len(p.samples))
	for i, s := range p.samples {
		out[i] = tape.Sample(uint8(int(s)>>8 + 128))
	}
	return out
}

func clampInt32(v int32) int32 {
	const max32767 = 32767
	const minNeg = -32768
	if v > max32767 {
		return max32767
	}
	if v < minNeg {
		return minNeg
	}
	return v
}

func clampFloat(v float64) float64 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}
