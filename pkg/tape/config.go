// Package tape implements the KIM-1 cassette decode/encode pipeline: a
// signal conditioner, a zero-cross frequency classifier, a pulse-to-bit
// decoder, an ambiguity-tracking bitstream model, a frame extractor, a
// combinatorial recoverer and the inverse tape encoder.
package tape

// Config holds the pipeline's tuning knobs (the smoothing radius, the
// classifier's sample rate, the enumeration cap); the source tool's
// silent/verbose globals live on internal/progress.Logger instead. Threading
// it explicitly through
// constructors, instead of relying on package state, keeps every component
// here independently testable and safe to run concurrently over several
// inputs.
type Config struct {
	// Smooth is the conditioner's local-window radius. 0 disables conditioning.
	Smooth int

	// SampleRate, when non-zero, derives the classifier's time-per-sample
	// step from the WAV's declared rate instead of the compatibility
	// default of 22050 Hz. Existing recordings were captured assuming the
	// 22050 Hz step regardless of their actual rate, so the zero value
	// preserves that behaviour.
	SampleRate int

	// MaxFixes caps the number of unresolved bits the combinatorial
	// recoverer will enumerate over (2^MaxFixes trials). 0 means use the
	// package default (20).
	MaxFixes int
}

// DefaultMaxFixes bounds the enumerator's exponential blow-up. Dropouts are
// rare in practice; a bitstream needing more unknowns than this is treated
// as unrecoverable rather than as a multi-hour brute force.
const DefaultMaxFixes = 20

func (c Config) maxFixes() int {
	if c.MaxFixes > 0 {
		return c.MaxFixes
	}
	return DefaultMaxFixes
}
