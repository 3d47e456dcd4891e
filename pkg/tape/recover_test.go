package tape

import "testing"

// TestRecoverSingleAmbiguousBit is scenario 3: a valid record with one
// internal bit unresolved; the enumerator tries both fills and returns
// exactly the valid one.
func TestRecoverSingleAmbiguousBit(t *testing.T) {
	want := Record{ID: 0x01, Addr: 0x0200, Payload: []byte{0x01, 0x00, 0x02, 0xAA, 0xBB}}
	want.Checksum = want.ComputeChecksum()

	bits := EncodeBits(want)

	// Pick a bit inside the payload's ASCII-hex region and mark it unknown.
	flipIndex := 100*8 + 8 + 4 // a few bits into the id's hex digits

	bs, err := NewBitstream(bits, []Fix{{BitIndex: flipIndex}})
	if err != nil {
		t.Fatal(err)
	}

	matches, err := Recover(bs, Config{})
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1 (%v)", len(matches), matches)
	}
	if !matches[0].Equal(want) {
		t.Fatalf("matches[0] = %+v, want %+v", matches[0], want)
	}
}

func TestRecoverTooManyUnknowns(t *testing.T) {
	bits := make([]bool, 64)
	var fixes []Fix
	for i := 0; i < 21; i++ {
		fixes = append(fixes, Fix{BitIndex: i})
	}
	bs, err := NewBitstream(bits, fixes)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Recover(bs, Config{})
	if err != ErrTooManyUnknowns {
		t.Fatalf("err = %v, want ErrTooManyUnknowns", err)
	}
}

func TestRecoverNoFixesIsSingleTrial(t *testing.T) {
	want := Record{ID: 0x01, Addr: 0x0200, Payload: []byte{0x01, 0x00, 0x02}}
	want.Checksum = want.ComputeChecksum()

	bs, err := NewBitstream(EncodeBits(want), nil)
	if err != nil {
		t.Fatal(err)
	}
	if bs.FixCount() != 1 {
		t.Fatalf("FixCount() = %d, want 1", bs.FixCount())
	}

	matches, err := Recover(bs, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || !matches[0].Equal(want) {
		t.Fatalf("matches = %+v, want [%+v]", matches, want)
	}
}
