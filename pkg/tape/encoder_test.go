package tape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncodeDecodeRoundTrip is scenario 1: synthesising a WAV (here, the bit
// vector the WAV would carry) from R and decoding it back yields exactly R.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	r := Record{ID: 0x01, Addr: 0x0200, Payload: []byte{0x01, 0x00, 0x02, 0xAA, 0xBB}}
	r.Checksum = r.ComputeChecksum()
	require.Equal(t, uint16(0x0167), r.Checksum)

	bits := EncodeBits(r)
	got, err := ExtractFrame(bits)
	require.NoError(t, err)
	assert.True(t, got.Equal(r), "got %+v, want %+v", got, r)
}

// TestEncodeDecodeRoundTripThroughSamplePipeline is scenario 1 driven
// through the actual sample-level pipeline (conditioner, classifier, pulse
// decoder) rather than EncodeBits/ExtractFrame alone, so a regression in the
// zero-cross width tolerances or run-length snapping would surface here.
func TestEncodeDecodeRoundTripThroughSamplePipeline(t *testing.T) {
	r := Record{ID: 0x01, Addr: 0x0200, Payload: []byte{0x01, 0x00, 0x02, 0xAA, 0xBB}}
	r.Checksum = r.ComputeChecksum()

	samples := EncodeWAVSamples(r)
	conditioned := Condition(samples, 0)

	classifier := NewClassifier(Config{}, nil)
	decoder := NewPulseDecoder(nil)
	for _, s := range conditioned {
		if p, ok := classifier.Add(s); ok {
			decoder.AddPulse(p)
		}
	}

	bs := decoder.Bitstream()
	records, err := Recover(bs, Config{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Equal(r), "got %+v, want %+v", records[0], r)
}

func TestEncodeWAVSamplesShape(t *testing.T) {
	r := Record{ID: 0x01, Addr: 0x0200, Payload: []byte{0x01, 0x00, 0x02}}
	r.Checksum = r.ComputeChecksum()

	samples := EncodeWAVSamples(r)

	secondOfSilence := int(1 * wavSampleRate)
	for i := 0; i < secondOfSilence; i++ {
		if samples[i] != 128 {
			t.Fatalf("samples[%d] = %d, want 128 (leading silence)", i, samples[i])
		}
	}
	for i := len(samples) - secondOfSilence; i < len(samples); i++ {
		if samples[i] != 128 {
			t.Fatalf("samples[%d] = %d, want 128 (trailing silence)", i, samples[i])
		}
	}

	nBits := len(EncodeBits(r))
	pulsesPerBit := 3
	samplesPerPulse := int(round(pulseDuration * wavSampleRate))
	wantTonesLen := (nBits*pulsesPerBit + 1) * samplesPerPulse
	wantTotal := 4*secondOfSilence + wantTonesLen // 2s leading + 2s trailing silence
	if len(samples) != wantTotal {
		t.Fatalf("len(samples) = %d, want %d", len(samples), wantTotal)
	}
}

func round(f float64) float64 {
	if f < 0 {
		return float64(int(f - 0.5))
	}
	return float64(int(f + 0.5))
}
