package tape

import "math"

// PulseClass tags a zero-cross event by the tone half-period it measured.
type PulseClass int

const (
	// Nine is the nominal 3700 Hz ("9-count") tone.
	Nine PulseClass = iota
	// Six is the nominal 2400 Hz ("6-count") tone.
	Six
)

func (c PulseClass) String() string {
	if c == Six {
		return "6"
	}
	return "9"
}

// Pulse is a classified zero-cross event: its tone class and the running
// clock time at which it was observed.
type Pulse struct {
	Class PulseClass
	Time  float64
}

const (
	compatSampleRate = 22050

	// width9/width6 are the nominal half-period widths, in seconds, of the
	// two KIM-1 tape tones: three pulses per bit, nine or six samples each
	// at the tool's original fixed clock.
	width9       = (7.452 / 3) / 9 / 1000
	width6       = (7.452 / 3) / 6 / 1000
	widthEpsilon = width9 / 3
)

// Classifier turns a stream of conditioned samples into classified
// zero-cross pulses. Grounded on original_source/main.cpp's Parser::add /
// Parser::zero_cross.
type Classifier struct {
	delta         float64
	time          float64
	lastCrossTime float64
	low           bool // mirrors the source's 'state': true while tracking a Low level
	log           logger
}

type logger interface {
	BadZeroCross(t, w, width9, widthEpsilon, width6 float64)
}

// NewClassifier creates a Classifier. cfg.SampleRate, when non-zero,
// overrides the 22050 Hz compatibility default used to derive the
// per-sample time step (SPEC_FULL Open Question on sample-rate assumption).
func NewClassifier(cfg Config, log logger) *Classifier {
	rate := float64(compatSampleRate)
	if cfg.SampleRate > 0 {
		rate = float64(cfg.SampleRate)
	}
	return &Classifier{
		delta: 1 / rate / 2,
		low:   true, // the source starts "lower than MID"
		log:   log,
	}
}

// Add advances the time cursor by one sample and reports a classified pulse
// when this sample completed a Low->High transition whose width matched one
// of the two KIM-1 tones. It returns ok=false both when no transition
// occurred and when a transition occurred at an unrecognised frequency (the
// pulse is then dropped, optionally logged as '*').
func (c *Classifier) Add(s Sample) (Pulse, bool) {
	c.time += c.delta

	isLow := s < mid
	if c.low == isLow {
		return Pulse{}, false
	}
	c.low = isLow
	if isLow {
		return Pulse{}, false
	}

	return c.zeroCross()
}

func (c *Classifier) zeroCross() (Pulse, bool) {
	w := c.time - c.lastCrossTime
	c.lastCrossTime = c.time

	switch {
	case math.Abs(w-width9) < widthEpsilon:
		return Pulse{Class: Nine, Time: c.time}, true
	case math.Abs(w-width6) < widthEpsilon:
		return Pulse{Class: Six, Time: c.time}, true
	default:
		if c.log != nil {
			c.log.BadZeroCross(c.time, w, width9, widthEpsilon, width6)
		}
		return Pulse{}, false
	}
}
