// Package ops exposes the krwhois operations as calls returning tagged,
// JSON-serializable reports. Operations never panic and never return Go
// errors: failures are reported with status "error".
package ops

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tbckr/krwhois/internal/apperr"
	"github.com/tbckr/krwhois/internal/config"
	"github.com/tbckr/krwhois/internal/export"
	"github.com/tbckr/krwhois/internal/input"
	"github.com/tbckr/krwhois/internal/record"
	"github.com/tbckr/krwhois/internal/services/bulk"
	"github.com/tbckr/krwhois/internal/services/whois"
)

// Report status values.
const (
	StatusSuccess   = "success"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// PreviewSize is the number of items shown in a LoadReport preview.
const PreviewSize = 10

// Fetcher looks up single items, optionally with an explicit service key.
type Fetcher interface {
	bulk.Fetcher
	LookupWithKey(ctx context.Context, item, serviceKey string) whois.Outcome
}

// Ops runs the operations against one fetcher.
type Ops struct {
	fetcher Fetcher
	bulk    *bulk.Service
	logger  *slog.Logger
}

// New creates Ops. bulkOpts configure the orchestrator used by BulkLookup.
func New(fetcher Fetcher, logger *slog.Logger, bulkOpts ...bulk.Option) *Ops {
	return &Ops{
		fetcher: fetcher,
		bulk:    bulk.NewService(fetcher, logger, bulkOpts...),
		logger:  logger,
	}
}

// LoadReport is the result of LoadList.
type LoadReport struct {
	Status      string   `json:"status"`
	LoadedCount int      `json:"loadedCount"`
	FilePath    string   `json:"filePath,omitempty"`
	Preview     []string `json:"preview,omitempty"`
	Message     string   `json:"message,omitempty"`
	Error       string   `json:"error,omitempty"`

	// Items holds every loaded item for callers that go on to look them up.
	Items []string `json:"-"`
}

// LoadList reads a lookup list from path. At most maxItems lines are read;
// zero or less means input.DefaultMaxLines.
func LoadList(path string, maxItems int) *LoadReport {
	items, err := input.LoadFile(path, maxItems)
	if err != nil {
		return &LoadReport{Status: StatusError, FilePath: path, Error: err.Error()}
	}
	preview := items
	if len(preview) > PreviewSize {
		preview = preview[:PreviewSize]
	}
	return &LoadReport{
		Status:      StatusSuccess,
		LoadedCount: len(items),
		FilePath:    path,
		Preview:     append([]string{}, preview...),
		Message:     fmt.Sprintf("loaded %d items from %s", len(items), path),
		Items:       items,
	}
}

// LookupReport is the result of Lookup.
type LookupReport struct {
	Query     string         `json:"query"`
	Status    string         `json:"status"`
	Data      *record.Record `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	QueryTime string         `json:"queryTime"`
}

// Lookup looks up a single item. An empty serviceKey uses the configured key.
func (o *Ops) Lookup(ctx context.Context, query, serviceKey string) *LookupReport {
	var out whois.Outcome
	if serviceKey != "" {
		out = o.fetcher.LookupWithKey(ctx, query, serviceKey)
	} else {
		out = o.fetcher.Lookup(ctx, query)
	}
	return lookupReport(out)
}

func lookupReport(out whois.Outcome) *LookupReport {
	return &LookupReport{
		Query:     out.Query(),
		Status:    out.Status(),
		Data:      out.Record(),
		Error:     out.ErrorMessage(),
		Reason:    apperr.Reason(out.Err()),
		QueryTime: whois.FormatTime(out.Time()),
	}
}

// BulkOptions controls BulkLookup.
type BulkOptions struct {
	BatchSize int
	Delay     time.Duration

	// IncludeFailures adds the failed items to the report.
	IncludeFailures bool
}

// DefaultBulkOptions returns the default batch size and delay.
func DefaultBulkOptions() BulkOptions {
	return BulkOptions{BatchSize: config.DefaultBatchSize, Delay: config.DefaultDelay}
}

// FailedItem is a failed lookup in a BulkReport.
type FailedItem struct {
	Query  string `json:"query"`
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// BulkReport is the result of BulkLookup.
type BulkReport struct {
	Status      string          `json:"status"`
	RunID       string          `json:"runId,omitempty"`
	TotalItems  int             `json:"totalItems"`
	Successful  int             `json:"successful"`
	Failed      int             `json:"failed"`
	SuccessRate float64         `json:"successRate"`
	Results     []*LookupReport `json:"results"`
	FailedItems []FailedItem    `json:"failedItems,omitempty"`
	Error       string          `json:"error,omitempty"`

	// Summary is the full run summary, successes and failures, for export.
	Summary *bulk.Summary `json:"-"`
}

// BulkLookup looks up items in batches. Results holds the successful lookups
// only; failures are counted and, with IncludeFailures, listed in FailedItems.
// A cancelled run reports status "error" together with the partial counts.
func (o *Ops) BulkLookup(ctx context.Context, items []string, opts BulkOptions) *BulkReport {
	summary, err := o.bulk.Run(ctx, items, bulk.Options{BatchSize: opts.BatchSize, Delay: opts.Delay})
	if summary == nil {
		return &BulkReport{Status: StatusError, TotalItems: len(items), Results: []*LookupReport{}, Error: errorString(err)}
	}

	report := &BulkReport{
		Status:      StatusCompleted,
		RunID:       summary.RunID,
		TotalItems:  summary.Total,
		Successful:  summary.Succeeded,
		Failed:      summary.Failed,
		SuccessRate: summary.SuccessRate(),
		Results:     make([]*LookupReport, 0, summary.Succeeded),
		Summary:     summary,
	}
	for _, out := range summary.Successes() {
		report.Results = append(report.Results, lookupReport(out))
	}
	if opts.IncludeFailures {
		for _, out := range summary.Failures() {
			report.FailedItems = append(report.FailedItems, FailedItem{
				Query:  out.Query(),
				Error:  out.ErrorMessage(),
				Reason: apperr.Reason(out.Err()),
			})
		}
	}
	if err != nil {
		report.Status = StatusError
		report.Error = err.Error()
	}
	return report
}

// SaveReport is the result of SaveCSV and SaveText.
type SaveReport struct {
	Status       string `json:"status"`
	FilePath     string `json:"filePath,omitempty"`
	RecordsSaved int    `json:"recordsSaved"`
	Format       string `json:"format,omitempty"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
}

// SaveCSV writes outcomes to path as CSV with a UTF-8 byte order mark.
func SaveCSV(outcomes []whois.Outcome, path string) *SaveReport {
	if err := export.SaveCSV(path, outcomes, export.CSVOptions{BOM: true}); err != nil {
		return &SaveReport{Status: StatusError, FilePath: path, Error: err.Error()}
	}
	return &SaveReport{
		Status:       StatusSuccess,
		FilePath:     path,
		RecordsSaved: len(outcomes),
		Message:      fmt.Sprintf("saved %d results to %s", len(outcomes), path),
	}
}

// SaveText writes outcomes to path as a text report in format
// ("simple" or "detailed").
func SaveText(outcomes []whois.Outcome, path, format string) *SaveReport {
	style, err := export.ParseStyle(format)
	if err == nil {
		err = export.SaveText(path, outcomes, style)
	}
	if err != nil {
		return &SaveReport{Status: StatusError, FilePath: path, Format: format, Error: err.Error()}
	}
	return &SaveReport{
		Status:       StatusSuccess,
		FilePath:     path,
		RecordsSaved: len(outcomes),
		Format:       string(style),
		Message:      fmt.Sprintf("saved %d results to %s", len(outcomes), path),
	}
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
