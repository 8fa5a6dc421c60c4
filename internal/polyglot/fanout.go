package polyglot

import (
	"context"
	"runtime"
	"sync"

	"github.com/naab-lang/naab/internal/value"
)

// Call is one pending polyglot invocation, as collected by the
// evaluator's sibling-block dependency scan (spec §4.5.1).
type Call struct {
	Language string
	Body     string
	Bindings map[string]value.Value
}

// RunParallel launches every call concurrently, bounded by a worker
// pool sized to runtime.NumCPU(), and returns results in the same order
// as calls — "joins before surfacing results in source order" (spec
// §4.5.1). Each element of the returned value/error slices corresponds
// positionally to the same index in calls; a call that errors gets a
// nil value at its index and its error in the matching slot.
func (d *Dispatcher) RunParallel(ctx context.Context, calls []Call) ([]value.Value, []error) {
	results := make([]value.Value, len(calls))
	errs := make([]error, len(calls))

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > len(calls) {
		workers = len(calls)
	}
	if workers == 0 {
		return results, errs
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				c := calls[i]
				v, err := d.Run(ctx, c.Language, c.Body, c.Bindings)
				results[i] = v
				errs[i] = err
			}
		}()
	}
	for i := range calls {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results, errs
}
