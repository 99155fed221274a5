package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tbckr/krwhois/internal/apperr"
	"github.com/tbckr/krwhois/internal/config"
	"github.com/tbckr/krwhois/internal/httpclient"
	"github.com/tbckr/krwhois/internal/metrics"
	"github.com/tbckr/krwhois/internal/ops"
	"github.com/tbckr/krwhois/internal/output"
	"github.com/tbckr/krwhois/internal/services/bulk"
	"github.com/tbckr/krwhois/internal/services/whois"
)

// deps holds fully-resolved runtime dependencies for a subcommand.
type deps struct {
	logger  *slog.Logger
	cfg     *config.Config
	format  output.Format
	metrics *metrics.Recorder
}

// buildDeps resolves config, logger, output format and the metrics recorder.
func buildDeps(cmd *cobra.Command, stderr io.Writer) (*deps, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cfg.BatchSize < 1 {
		return nil, fmt.Errorf("%w: --batch-size must be at least 1, got %d", apperr.ErrInvalidInput, cfg.BatchSize)
	}
	if cfg.Delay < 0 {
		return nil, fmt.Errorf("%w: --delay must not be negative, got %s", apperr.ErrInvalidInput, cfg.Delay)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("invalid output format %q: must be \"table\", \"json\", or \"plain\"", cfg.Output)
	}

	var rec *metrics.Recorder
	if cfg.MetricsFile != "" {
		rec = metrics.New()
	}

	return &deps{cfg: cfg, logger: logger, format: format, metrics: rec}, nil
}

// newOps wires the HTTP client, the registry fetcher and the bulk orchestrator.
func (d *deps) newOps() (*ops.Ops, error) {
	client, err := httpclient.New(d.cfg.Proxy, d.cfg.UserAgent, d.cfg.Timeout, d.logger, d.cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}
	fetcher := whois.NewService(client, d.cfg.APIURL, d.cfg.ServiceKey, d.logger,
		whois.WithTimeout(d.cfg.Timeout),
		whois.WithMetrics(d.metrics),
	)
	return ops.New(fetcher, d.logger, bulk.WithMetrics(d.metrics)), nil
}

// requireServiceKey fails early when no usable service key is configured.
func (d *deps) requireServiceKey() error {
	if d.cfg.HasServiceKey() {
		return nil
	}
	return fmt.Errorf("%w: set it with \"krwhois config set service_key <key>\", --service-key, or WHOIS_SERVICE_KEY",
		apperr.ErrCredentialMissing)
}

// flushMetrics writes the metrics textfile when --metrics-file is set.
func (d *deps) flushMetrics() error {
	if d.metrics == nil {
		return nil
	}
	if err := d.metrics.WriteTextfile(d.cfg.MetricsFile); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	d.logger.Debug("metrics written", "path", d.cfg.MetricsFile)
	return nil
}

// writeResult formats and writes a report to stdout.
func writeResult(stdout io.Writer, d *deps, result any) error {
	if err := output.Write(stdout, d.format, result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
