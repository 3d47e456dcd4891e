// Package progress provides the textual trace the decoder writes while it
// works, replacing the source tool's process-wide silent/verbose booleans
// with a value threaded explicitly through the components that need it.
package progress

import (
	"fmt"
	"io"
)

// Logger writes informational trace characters and diagnostics. It never
// affects control flow: Bit, Ambiguous, BadZeroCross and Fix are no-ops when
// the corresponding verbosity level is disabled; Patched and Linef write
// regardless of Silent and Verbose.
type Logger struct {
	w       io.Writer
	Silent  bool
	Verbose bool
}

// New creates a Logger writing to w. silent suppresses the per-bit trace
// characters; verbose additionally enables detailed diagnostics.
func New(w io.Writer, silent, verbose bool) *Logger {
	return &Logger{w: w, Silent: silent, Verbose: verbose}
}

// Bit writes the decoded bit's trace character ('0' or '1').
func (l *Logger) Bit(bit int) {
	if l == nil || l.Silent {
		return
	}
	fmt.Fprintf(l.w, "%d", bit)
}

// Ambiguous marks a pulse run that didn't decode into a bit ('?').
func (l *Logger) Ambiguous(t float64, c9, c6 int) {
	if l == nil {
		return
	}
	switch {
	case l.Verbose:
		fmt.Fprintf(l.w, "? (%s %d/%d)", FromTime(t), c9, c6)
	case !l.Silent:
		fmt.Fprint(l.w, "?")
	}
}

// BadZeroCross marks a zero-cross whose width matched neither tone ('*').
func (l *Logger) BadZeroCross(t, w, width9, widthEpsilon, width6 float64) {
	if l == nil {
		return
	}
	switch {
	case l.Verbose:
		fmt.Fprintf(l.w, "\nZERO CROSSING AT %s : width = %v [9 = %v-%v] [6 = %v-%v]\n",
			FromTime(t), w, width9-widthEpsilon, width9+widthEpsilon, width6-widthEpsilon, width6+widthEpsilon)
	case !l.Silent:
		fmt.Fprint(l.w, "*")
	}
}

// Fix marks the insertion of a synthesized placeholder bit ('#').
func (l *Logger) Fix() {
	if l == nil || l.Silent {
		return
	}
	fmt.Fprint(l.w, "#")
}

// Patched reports a fix's resolution during Bitstream.Patch, mirroring the
// source's bitstream::patch std::clog trace.
func (l *Logger) Patched(bitIndex int, sourceTimestamp float64, value string) {
	if l == nil {
		return
	}
	start := FromTime(sourceTimestamp)
	end := FromTime(sourceTimestamp + 7.452/1000)
	switch value {
	case "0":
		fmt.Fprintf(l.w, "  %s-%s -- bit #%d inserted 0\n", start, end, bitIndex)
	case "1":
		fmt.Fprintf(l.w, "  %s-%s -- bit #%d inserted 1\n", start, end, bitIndex)
	default:
		fmt.Fprintf(l.w, "  %s-%s -- bit #%d unchanged\n", start, end, bitIndex)
	}
}

// Linef writes a formatted line unconditionally, for informational output
// that is not gated by Silent or Verbose.
func (l *Logger) Linef(format string, args ...any) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.w, format+"\n", args...)
}

// FromTime renders a duration in seconds as hh:mm:ss.ms, matching the
// source tool's from_time() helper used in patch reports.
func FromTime(t float64) string {
	s := int(t)
	t -= float64(s)
	m := s / 60
	s -= m * 60
	return fmt.Sprintf("00:%02d:%02d.%02d", m, s, int(t*1000))
}
