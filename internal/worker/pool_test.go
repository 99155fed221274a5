package worker_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/krwhois/internal/worker"
)

func TestFanOut_OrderPreserved(t *testing.T) {
	inputs := make([]string, 20)
	for i := range inputs {
		inputs[i] = fmt.Sprintf("input-%d", i)
	}

	results := worker.FanOut(context.Background(), inputs, func(_ context.Context, in string) string {
		return "echo:" + in
	})
	require.Len(t, results, len(inputs))
	for i, r := range results {
		assert.Equal(t, "echo:"+inputs[i], r)
	}
}

func TestFanOut_Empty(t *testing.T) {
	results := worker.FanOut(context.Background(), nil, func(_ context.Context, in string) string {
		t.Fatal("fn must not be called")
		return in
	})
	assert.Empty(t, results)
}

func TestFanOut_AllCallsConcurrent(t *testing.T) {
	const n = 8
	inputs := make([]string, n)
	for i := range inputs {
		inputs[i] = fmt.Sprintf("%d", i)
	}

	// Every call blocks until all n calls have started; this only completes
	// when the calls run concurrently.
	var started sync.WaitGroup
	started.Add(n)
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()

	done := make(chan []bool, 1)
	go func() {
		done <- worker.FanOut(context.Background(), inputs, func(_ context.Context, _ string) bool {
			started.Done()
			select {
			case <-allStarted:
				return true
			case <-time.After(5 * time.Second):
				return false
			}
		})
	}()

	select {
	case results := <-done:
		for _, ok := range results {
			assert.True(t, ok)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("FanOut did not return")
	}
}

func TestFanOut_WaitsForSlowest(t *testing.T) {
	var finished atomic.Int32
	inputs := []string{"fast", "slow"}
	worker.FanOut(context.Background(), inputs, func(_ context.Context, in string) struct{} {
		if in == "slow" {
			time.Sleep(20 * time.Millisecond)
		}
		finished.Add(1)
		return struct{}{}
	})
	assert.Equal(t, int32(2), finished.Load())
}

func TestFanOut_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	results := worker.FanOut(ctx, []string{"a"}, func(ctx context.Context, _ string) string {
		s, _ := ctx.Value(key{}).(string)
		return s
	})
	assert.Equal(t, []string{"v"}, results)
}
