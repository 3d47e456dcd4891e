package tape

import "testing"

// feedCycle drives c through a low run then one rising sample, returning the
// classification of that rising edge. The edge comes lowSamples+1 sample
// periods after the previous recorded edge (lowSamples low, then 1 high).
func feedCycle(c *Classifier, lowSamples int) (Pulse, bool) {
	var p Pulse
	var ok bool
	for i := 0; i < lowSamples; i++ {
		c.Add(0)
	}
	p, ok = c.Add(255)
	return p, ok
}

func TestClassifierNineAndSix(t *testing.T) {
	c := NewClassifier(Config{}, nil)

	// Calibration edge: establishes lastCrossTime, result discarded.
	feedCycle(c, 5)

	// 12 total sample periods ~= width9.
	p, ok := feedCycle(c, 11)
	if !ok || p.Class != Nine {
		t.Fatalf("got (%v, %v), want a Nine pulse", p, ok)
	}

	// 18 total sample periods ~= width6.
	p, ok = feedCycle(c, 17)
	if !ok || p.Class != Six {
		t.Fatalf("got (%v, %v), want a Six pulse", p, ok)
	}
}

func TestClassifierUnrecognisedWidthIsDropped(t *testing.T) {
	logged := false
	log := fakeBadCrossLog(func() { logged = true })

	c := NewClassifier(Config{}, log)
	feedCycle(c, 5)              // calibration
	p, ok := feedCycle(c, 1000) // far from both tones
	if ok {
		t.Fatalf("got (%v, %v), want no pulse", p, ok)
	}
	if !logged {
		t.Fatal("expected BadZeroCross to be logged")
	}
}

type fakeLogger struct {
	fn func()
}

func (f fakeLogger) BadZeroCross(t, w, width9, widthEpsilon, width6 float64) { f.fn() }

func fakeBadCrossLog(fn func()) logger {
	return fakeLogger{fn: fn}
}

func TestClassifierSampleRateOverride(t *testing.T) {
	c := NewClassifier(Config{SampleRate: 11025}, nil)
	want := 1.0 / 11025 / 2
	if c.delta != want {
		t.Fatalf("delta = %v, want %v", c.delta, want)
	}
}
