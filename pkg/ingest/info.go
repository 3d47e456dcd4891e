package ingest

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// Info describes a recording's container-level metadata, gathered without
// decoding its audio payload. Grounded on the teacher's converter.AudioInfo
// / converter.GetInfo.
type Info struct {
	Format     Format
	SampleRate int
	Channels   int
	Duration   float64
}

// GetInfo inspects r, read as format, and reports its sample rate, channel
// count and duration. It never runs the tape pipeline or normalizes the
// audio, unlike Decode.
func GetInfo(r io.Reader, format Format) (*Info, error) {
	switch format {
	case FormatWAV:
		return getWAVInfo(r)
	case FormatFLAC:
		return getFLACInfo(r)
	case FormatMP3:
		return getMP3Info(r)
	case FormatOGG:
		return getOGGInfo(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func asReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

func getWAVInfo(r io.Reader) (*Info, error) {
	rs, err := asReadSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: read WAV: %w", err)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("ingest: invalid WAV file")
	}
	dur, err := dec.Duration()
	if err != nil {
		dur = 0
	}

	return &Info{
		Format:     FormatWAV,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		Duration:   dur.Seconds(),
	}, nil
}

func getFLACInfo(r io.Reader) (*Info, error) {
	rs, err := asReadSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: read FLAC: %w", err)
	}

	stream, err := flac.New(rs)
	if err != nil {
		return nil, fmt.Errorf("ingest: open FLAC stream: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	return &Info{
		Format:     FormatFLAC,
		SampleRate: int(info.SampleRate),
		Channels:   int(info.NChannels),
		Duration:   float64(info.NSamples) / float64(info.SampleRate),
	}, nil
}

func getMP3Info(r io.Reader) (*Info, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: create MP3 decoder: %w", err)
	}

	length := dec.Length()
	rate := dec.SampleRate()
	return &Info{
		Format:     FormatMP3,
		SampleRate: rate,
		Channels:   2, // go-mp3 always produces interleaved stereo.
		Duration:   float64(length) / float64(rate) / 4,
	}, nil
}

func getOGGInfo(r io.Reader) (*Info, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: create OGG decoder: %w", err)
	}

	return &Info{
		Format:     FormatOGG,
		SampleRate: dec.SampleRate(),
		Channels:   dec.Channels(),
		Duration:   dec.Length().Seconds(),
	}, nil
}
