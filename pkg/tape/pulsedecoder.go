package tape

const (
	// bitPeriod is the nominal duration of one encoded bit (three pulses).
	bitPeriod = 7.452 / 1000
	// gapThreshold is how far a bit can lag the expected cadence before the
	// decoder starts synthesizing placeholder bits to keep phase.
	gapThreshold = 10.0 / 1000
)

type bitLogger interface {
	Bit(bit int)
	Ambiguous(t float64, c9, c6 int)
	Fix()
}

// PulseDecoder groups classified pulses into KIM-1 frame bits: a run of
// Nines followed by a run of Sixes, closed by the next Six->Nine transition.
// 9-9-6 decodes to 0, 9-6-6 decodes to 1 (phrased here as the snapped run
// lengths (18,6) and (10,11) respectively, matching SPEC_FULL §4.3).
//
// Grounded on original_source/main.cpp's Parser::add_pulse / Parser::add_bit.
type PulseDecoder struct {
	counts [2]int // counts[Nine], counts[Six]
	wasSix bool

	bits  []bool
	fixes []Fix

	first        bool
	lastValidBit float64

	log bitLogger
}

// NewPulseDecoder creates a PulseDecoder. log may be nil.
func NewPulseDecoder(log bitLogger) *PulseDecoder {
	return &PulseDecoder{
		wasSix:       true, // the source starts at the same 6->9 pulse sequence
		first:        true,
		lastValidBit: -1,
		log:          log,
	}
}

// AddPulse folds one classified pulse into the current run.
func (d *PulseDecoder) AddPulse(p Pulse) {
	d.counts[p.Class]++

	if d.wasSix && p.Class == Nine {
		if bit, ok := classifyCounts(d.counts[Nine], d.counts[Six]); ok {
			d.addBit(bit, p.Time)
		} else if d.log != nil {
			d.log.Ambiguous(p.Time, d.counts[Nine], d.counts[Six])
		}

		d.counts[Nine], d.counts[Six] = 0, 0
	}

	d.wasSix = p.Class == Six
}

// classifyCounts snaps a run of Nine-class and Six-class half-period counts
// to the canonical (10,11)->1 / (18,6)->0 shapes, tolerating the 3x3
// neighbourhood around each. ok is false when the run matches neither.
func classifyCounts(rawNine, rawSix int) (bit int, ok bool) {
	c9, c6 := snapNine(rawNine), snapSix(rawSix)
	switch {
	case c9 == 10 && c6 == 11:
		return 1, true
	case c9 == 18 && c6 == 6:
		return 0, true
	default:
		return 0, false
	}
}

func snapNine(c int) int {
	switch c {
	case 9, 10, 11:
		return 10
	case 17, 18, 19:
		return 18
	}
	return c
}

func snapSix(c int) int {
	switch c {
	case 10, 11, 12:
		return 11
	case 5, 6, 7:
		return 6
	}
	return c
}

// addBit appends a decoded bit, first synthesizing placeholder bits (each
// recorded as a Fix) across any gap longer than gapThreshold since the last
// valid bit, so bit-phase alignment survives a short signal dropout.
func (d *PulseDecoder) addBit(bit int, at float64) {
	if !d.first {
		for at-d.lastValidBit > gapThreshold {
			if d.log != nil {
				d.log.Fix()
			}
			d.fixes = append(d.fixes, Fix{BitIndex: len(d.bits), SourceTimestamp: d.lastValidBit})
			d.bits = append(d.bits, true) // placeholder value is always 1
			d.lastValidBit += bitPeriod
		}
	}
	d.first = false
	d.lastValidBit = at

	d.bits = append(d.bits, bit == 1)
	if d.log != nil {
		d.log.Bit(bit)
	}
}

// Bitstream materialises the accumulated bits and fixes into a Bitstream.
func (d *PulseDecoder) Bitstream() *Bitstream {
	bits := make([]bool, len(d.bits))
	copy(bits, d.bits)
	fixes := make([]Fix, len(d.fixes))
	copy(fixes, d.fixes)
	bs, err := NewBitstream(bits, fixes)
	if err != nil {
		// The decoder only ever appends fixes pointing at indices that exist
		// by construction (bit_location == len(bits) at append time), so a
		// validation failure here would indicate a bug in this file, not
		// bad input.
		panic(err)
	}
	return bs
}
