// Package testutil provides shared test helpers for service unit tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tbckr/krwhois/internal/record"
	"github.com/tbckr/krwhois/internal/services/whois"
	"github.com/tbckr/krwhois/internal/validate"
)

// MockFetcher stands in for the registry fetcher in orchestrator tests.
// LookupFn decides the outcome per item; when nil every item succeeds with a
// record holding only the query. Calls are recorded in arrival order.
type MockFetcher struct {
	LookupFn func(ctx context.Context, item string) whois.Outcome

	mu    sync.Mutex
	calls []string
	keys  []string
}

// Lookup implements the fetcher contract of the bulk orchestrator.
func (m *MockFetcher) Lookup(ctx context.Context, item string) whois.Outcome {
	m.mu.Lock()
	m.calls = append(m.calls, item)
	m.mu.Unlock()

	if m.LookupFn != nil {
		return m.LookupFn(ctx, item)
	}
	return SuccessOutcome(item)
}

// LookupWithKey records serviceKey and then behaves like Lookup.
func (m *MockFetcher) LookupWithKey(ctx context.Context, item, serviceKey string) whois.Outcome {
	m.mu.Lock()
	m.keys = append(m.keys, serviceKey)
	m.mu.Unlock()
	return m.Lookup(ctx, item)
}

// Keys returns a copy of the service keys passed to LookupWithKey.
func (m *MockFetcher) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.keys...)
}

// Calls returns a copy of the items looked up so far.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.calls...)
}

// SuccessOutcome returns a success for item whose record holds the query
// plus the given key/value pairs.
func SuccessOutcome(item string, kv ...string) whois.Outcome {
	rec := record.New(item)
	for i := 0; i+1 < len(kv); i += 2 {
		rec.Set(kv[i], record.Scalar(kv[i+1]))
	}
	return whois.Success(item, validate.Classify(item), rec, time.Now())
}

// FailureOutcome returns a failure for item caused by err.
func FailureOutcome(item string, err error) whois.Outcome {
	return whois.Failure(item, validate.Classify(item), err, time.Now())
}

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
