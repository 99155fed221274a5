// Package bulk looks up item lists in fixed-size batches: every item of a
// batch is fetched concurrently, the batch is awaited as a whole, and a fixed
// pause separates consecutive batches.
package bulk

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/tbckr/krwhois/internal/apperr"
	"github.com/tbckr/krwhois/internal/metrics"
	"github.com/tbckr/krwhois/internal/services/whois"
	"github.com/tbckr/krwhois/internal/worker"
)

// progressBatches is the default progress interval in batches.
const progressBatches = 10

// Fetcher looks up a single item. Implementations must never panic and must
// report every failure through the returned outcome.
type Fetcher interface {
	Lookup(ctx context.Context, item string) whois.Outcome
}

// Options controls a bulk run.
type Options struct {
	// BatchSize is the number of lookups in flight together. Must be >= 1.
	BatchSize int

	// Delay is the pause between consecutive batches. Must be >= 0.
	Delay time.Duration

	// ProgressEvery logs a progress line each time this many items have been
	// processed. Zero means 10 × BatchSize.
	ProgressEvery int
}

// Service runs bulk lookups.
type Service struct {
	fetcher Fetcher
	logger  *slog.Logger
	metrics *metrics.Recorder
	sleep   func(ctx context.Context, d time.Duration) error
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records batch counts on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithSleep replaces the inter-batch pause.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Service) { s.sleep = sleep }
}

// WithClock replaces the clock used for the run start and finish times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a bulk Service dispatching lookups to fetcher.
func NewService(fetcher Fetcher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		fetcher: fetcher,
		logger:  logger,
		sleep:   sleepContext,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Batches splits items into contiguous chunks of at most size items,
// preserving order. size must be >= 1.
func Batches(items []string, size int) [][]string {
	if len(items) == 0 {
		return nil
	}
	return lo.Chunk(items, size)
}

// Run looks up every item and returns the aggregated summary. Per-item
// failures never abort the run. Cancellation of ctx is honoured between
// batches only; the partial summary is returned together with ctx.Err().
func (s *Service) Run(ctx context.Context, items []string, opts Options) (*Summary, error) {
	if opts.BatchSize < 1 {
		return nil, fmt.Errorf("%w: batch size must be >= 1, got %d", apperr.ErrInvalidInput, opts.BatchSize)
	}
	if opts.Delay < 0 {
		return nil, fmt.Errorf("%w: delay must be >= 0, got %s", apperr.ErrInvalidInput, opts.Delay)
	}
	progressEvery := opts.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = progressBatches * opts.BatchSize
	}

	summary := &Summary{
		RunID:    uuid.NewString(),
		Total:    len(items),
		Outcomes: make([]whois.Outcome, 0, len(items)),
		Started:  s.now(),
	}
	defer func() { summary.Finished = s.now() }()

	if len(items) == 0 {
		return summary, nil
	}

	batches := Batches(items, opts.BatchSize)
	logger := s.logger.With("run_id", summary.RunID)
	logger.Info("bulk lookup started", "items", len(items), "batches", len(batches),
		"batch_size", opts.BatchSize, "delay", opts.Delay)

	lastReported := 0
	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			logger.Warn("bulk lookup cancelled", "processed", summary.Processed(), "total", summary.Total)
			return summary, err
		}

		outcomes := worker.FanOut(ctx, batch, s.fetcher.Lookup)
		summary.add(outcomes)
		s.metrics.ObserveBatch(len(batch))

		logger.Debug("batch completed", "batch", i+1, "of", len(batches),
			"succeeded", summary.Succeeded, "failed", summary.Failed)
		if processed := summary.Processed(); processed/progressEvery > lastReported {
			lastReported = processed / progressEvery
			logger.Info("bulk lookup progress", "processed", processed, "total", summary.Total)
		}

		if i < len(batches)-1 && opts.Delay > 0 {
			if err := s.sleep(ctx, opts.Delay); err != nil {
				logger.Warn("bulk lookup cancelled", "processed", summary.Processed(), "total", summary.Total)
				return summary, err
			}
		}
	}

	logger.Info("bulk lookup finished", "total", summary.Total,
		"succeeded", summary.Succeeded, "failed", summary.Failed)
	return summary, nil
}

// sleepContext pauses for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
