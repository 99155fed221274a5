// Package worker runs per-item work concurrently.
package worker

import (
	"context"
	"sync"
)

// FanOut calls fn once per input, all calls running concurrently, and returns
// once every call has returned. results[i] holds fn's value for inputs[i].
//
// Each goroutine writes only its own slot, so the returned slice needs no
// further synchronization. fn must not panic and should honour ctx.
func FanOut[T any](ctx context.Context, inputs []string, fn func(context.Context, string) T) []T {
	results := make([]T, len(inputs))
	var wg sync.WaitGroup
	wg.Add(len(inputs))
	for i, in := range inputs {
		go func() {
			defer wg.Done()
			results[i] = fn(ctx, in)
		}()
	}
	wg.Wait()
	return results
}
