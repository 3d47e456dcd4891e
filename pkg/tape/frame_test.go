package tape

import (
	"errors"
	"testing"
)

func synPreamble() []bool {
	var bits []bool
	for i := 0; i < 100; i++ {
		bits = append(bits, bitsOf(synByte)...)
	}
	return bits
}

func asciiHexBits(s string) []bool {
	var bits []bool
	for i := 0; i < len(s); i++ {
		bits = append(bits, bitsOf(s[i])...)
	}
	return bits
}

// TestExtractFrameEmptyPayload is scenario 2: 100 SYN, '*', '/', "0000", EOT
// extracts successfully with an empty payload and checksum 0.
func TestExtractFrameEmptyPayload(t *testing.T) {
	var bits []bool
	bits = append(bits, synPreamble()...)
	bits = append(bits, bitsOf(starByte)...)
	bits = append(bits, bitsOf(slash)...)
	bits = append(bits, asciiHexBits("0000")...)
	bits = append(bits, bitsOf(eot)...)

	rec, err := ExtractFrame(bits)
	if err != nil {
		t.Fatalf("ExtractFrame() error = %v", err)
	}
	if len(rec.Payload) != 0 {
		t.Fatalf("Payload = %v, want empty", rec.Payload)
	}
	if rec.Checksum != 0 {
		t.Fatalf("Checksum = %d, want 0", rec.Checksum)
	}
}

func TestExtractFrameNoSyn(t *testing.T) {
	bits := asciiHexBits("ABCD")
	_, err := ExtractFrame(bits)
	if !errors.Is(err, ErrNoSyn) {
		t.Fatalf("err = %v, want ErrNoSyn", err)
	}
}

func TestExtractFrameSlashNotFound(t *testing.T) {
	var bits []bool
	bits = append(bits, synPreamble()...)
	bits = append(bits, bitsOf(starByte)...)
	bits = append(bits, asciiHexBits("0102")...) // truncated mid-payload, no '/'

	_, err := ExtractFrame(bits)
	if !errors.Is(err, ErrSlashNotFound) {
		t.Fatalf("err = %v, want ErrSlashNotFound", err)
	}
}

func TestExtractFrameChecksumMismatch(t *testing.T) {
	var bits []bool
	bits = append(bits, synPreamble()...)
	bits = append(bits, bitsOf(starByte)...)
	bits = append(bits, asciiHexBits("010002AABB")...)
	bits = append(bits, bitsOf(slash)...)
	bits = append(bits, asciiHexBits("FFFF")...) // wrong checksum
	bits = append(bits, bitsOf(eot)...)

	_, err := ExtractFrame(bits)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("err = %v, want ErrChecksumMismatch", err)
	}
}

func TestExtractFrameValidRecord(t *testing.T) {
	want := Record{
		ID:      0x01,
		Addr:    0x0200,
		Payload: []byte{0x01, 0x00, 0x02, 0xAA, 0xBB},
	}
	want.Checksum = want.ComputeChecksum()

	bits := EncodeBits(want)
	got, err := ExtractFrame(bits)
	if err != nil {
		t.Fatalf("ExtractFrame() error = %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

// TestExtractFrameTwoConcatenatedRecords is scenario 6: the first match is
// returned when two valid records are concatenated back to back.
func TestExtractFrameTwoConcatenatedRecords(t *testing.T) {
	r1 := Record{ID: 0x01, Addr: 0x0200, Payload: []byte{0x01, 0x00, 0x02, 0xAA}}
	r1.Checksum = r1.ComputeChecksum()
	r2 := Record{ID: 0x02, Addr: 0x0300, Payload: []byte{0x02, 0x00, 0x03, 0xCC}}
	r2.Checksum = r2.ComputeChecksum()

	bits := append(EncodeBits(r1), EncodeBits(r2)...)

	got, err := ExtractFrame(bits)
	if err != nil {
		t.Fatalf("ExtractFrame() error = %v", err)
	}
	if !got.Equal(r1) {
		t.Fatalf("got %+v, want first record %+v", got, r1)
	}
}

func TestExtractFrameRestartsAfterFailedStarMatch(t *testing.T) {
	r := Record{ID: 0x01, Addr: 0x0200, Payload: []byte{0x01, 0x00, 0x02, 0x10}}
	r.Checksum = r.ComputeChecksum()

	var bits []bool
	bits = append(bits, synPreamble()...)
	bits = append(bits, bitsOf(0x00)...) // SYN run ends without '*': forces a restart
	bits = append(bits, EncodeBits(r)...)

	got, err := ExtractFrame(bits)
	if err != nil {
		t.Fatalf("ExtractFrame() error = %v", err)
	}
	if !got.Equal(r) {
		t.Fatalf("got %+v, want %+v", got, r)
	}
}
