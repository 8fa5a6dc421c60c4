// Package safetime provides overflow- and underflow-checked time arithmetic
// for deadlines, counters, and metrics, and flags backwards monotonic-clock
// jumps for logging without failing on them.
package safetime

import (
	"time"

	"github.com/naab-lang/naab/internal/errtax"
)

// AddDuration returns t+d, raising errtax.KindDivideByZero's sibling —
// a TimeWraparound — if the result would overflow the representable range.
// time.Time addition itself never panics, but wall-clock deadlines computed
// from untrusted durations (e.g. a polyglot timeout read from configuration)
// must still be checked before use.
func AddDuration(t time.Time, d time.Duration) (time.Time, error) {
	result := t.Add(d)
	if d > 0 && !result.After(t) {
		return time.Time{}, wraparound("add", t, d)
	}
	if d < 0 && !result.Before(t) {
		return time.Time{}, wraparound("add", t, d)
	}
	return result, nil
}

// Sub returns b-a as a Duration, raising an error if the subtraction
// overflows time.Duration's int64 nanosecond range.
func Sub(a, b time.Time) (time.Duration, error) {
	d := b.Sub(a)
	// time.Time.Sub saturates at math.MaxInt64/MinInt64 on overflow instead
	// of wrapping; treat saturation as the overflow signal.
	if d == time.Duration(1<<63-1) || d == time.Duration(-1<<63) {
		return 0, wraparound("sub", a, 0)
	}
	return d, nil
}

// MonotonicRegression reports whether now is earlier than last, which can
// happen across NTP steps or VM migration even when both were read from a
// monotonic clock source on different goroutines racing a reset. Callers
// log this; they must not treat it as a hard error.
func MonotonicRegression(last, now time.Time) bool {
	return now.Before(last)
}

// AddInt64 adds two naab Int operands with overflow detection, used by the
// evaluator's arithmetic visitor (spec: "Integer overflow ... raises
// Overflow" rather than silently wrapping).
func AddInt64(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, overflow("add", a, b)
	}
	return sum, nil
}

// SubInt64 subtracts with overflow detection.
func SubInt64(a, b int64) (int64, error) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, overflow("sub", a, b)
	}
	return diff, nil
}

// MulInt64 multiplies with overflow detection.
func MulInt64(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/b != a {
		return 0, overflow("mul", a, b)
	}
	return product, nil
}

func overflow(op string, a, b int64) error {
	return &errtax.Error{
		Kind:    errtax.KindOverflow,
		Message: "integer overflow",
		Detail:  op,
	}
}

func wraparound(op string, t time.Time, d time.Duration) error {
	return &errtax.Error{
		Kind:    errtax.KindTimeWraparound,
		Message: "time arithmetic overflow",
		Detail:  op + ": " + t.String() + " + " + d.String(),
	}
}
