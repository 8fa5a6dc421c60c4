// Package timemod implements the `time` stdlib module (spec §6.3 and the
// safe-time arithmetic of spec §4.9): wall-clock reads and duration math
// that reports overflow and wraparound as typed errors instead of
// silently wrapping, the way Go's own time package would.
package timemod

import (
	"time"

	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/safetime"
	"github.com/naab-lang/naab/internal/stdlib/stdlibutil"
	"github.com/naab-lang/naab/internal/value"
)

// Module is the `time` stdlib module.
type Module struct{}

func New() *Module { return &Module{} }

func (*Module) Name() string { return "time" }

func (*Module) Build() (*value.Environment, error) {
	env := value.NewEnvironment()
	env.Define("now_unix_ms", stdlibutil.Native("time.now_unix_ms", timeNowUnixMS))
	env.Define("add_ms", stdlibutil.Native("time.add_ms", timeAddMS))
	env.Define("diff_ms", stdlibutil.Native("time.diff_ms", timeDiffMS))
	env.Define("format", stdlibutil.Native("time.format", timeFormat))
	return env, nil
}

func timeNowUnixMS(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("time.now_unix_ms", args, 0); err != nil {
		return nil, err
	}
	return value.Int(time.Now().UnixMilli()), nil
}

// timeAddMS adds a millisecond delta to an epoch-millisecond timestamp,
// reporting overflow per spec §4.9 rather than letting int64 wrap
// silently the way raw addition would. The overflow arithmetic itself is
// internal/safetime.AddInt64 (already shared with the evaluator's integer
// arithmetic visitor); only the error's Kind is specialized to
// KindTimeWraparound, since this value is a millisecond timestamp rather
// than a general integer.
func timeAddMS(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("time.add_ms", args, 2); err != nil {
		return nil, err
	}
	base, err := stdlibutil.Int("time.add_ms", args, 0)
	if err != nil {
		return nil, err
	}
	delta, err := stdlibutil.Int("time.add_ms", args, 1)
	if err != nil {
		return nil, err
	}
	sum, err := safetime.AddInt64(base, delta)
	if err != nil {
		return nil, errtax.New(errtax.KindTimeWraparound, "time.add_ms: result overflows a 64-bit millisecond timestamp")
	}
	return value.Int(sum), nil
}

func timeDiffMS(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("time.diff_ms", args, 2); err != nil {
		return nil, err
	}
	a, err := stdlibutil.Int("time.diff_ms", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := stdlibutil.Int("time.diff_ms", args, 1)
	if err != nil {
		return nil, err
	}
	return value.Int(a - b), nil
}

func timeFormat(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("time.format", args, 2); err != nil {
		return nil, err
	}
	ms, err := stdlibutil.Int("time.format", args, 0)
	if err != nil {
		return nil, err
	}
	layout, err := stdlibutil.Str("time.format", args, 1)
	if err != nil {
		return nil, err
	}
	t := time.UnixMilli(ms).UTC()
	return value.String(t.Format(layout)), nil
}
