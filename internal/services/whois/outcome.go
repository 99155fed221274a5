package whois

import (
	"encoding/json"
	"time"

	"github.com/tbckr/krwhois/internal/apperr"
	"github.com/tbckr/krwhois/internal/record"
	"github.com/tbckr/krwhois/internal/validate"
)

// Status values reported for an Outcome.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Outcome is the result of looking up one item: either a Success carrying the
// normalized record or a Failure carrying the error. Outcomes are immutable
// once constructed; the record of a Success must not be modified.
type Outcome struct {
	query  string
	kind   validate.Kind
	record *record.Record
	err    error
	at     time.Time
}

// Success builds a successful outcome.
func Success(query string, kind validate.Kind, rec *record.Record, at time.Time) Outcome {
	return Outcome{query: query, kind: kind, record: rec, at: at}
}

// Failure builds a failed outcome. A nil err is replaced so Failed stays true.
func Failure(query string, kind validate.Kind, err error, at time.Time) Outcome {
	if err == nil {
		err = apperr.ErrInvalidInput
	}
	return Outcome{query: query, kind: kind, err: err, at: at}
}

// Query returns the lookup item exactly as submitted.
func (o Outcome) Query() string { return o.query }

// Kind returns the endpoint family the item was classified into.
func (o Outcome) Kind() validate.Kind { return o.kind }

// Record returns the normalized record, or nil for a failure.
func (o Outcome) Record() *record.Record { return o.record }

// Err returns the failure cause, or nil for a success.
func (o Outcome) Err() error { return o.err }

// ErrorMessage returns the failure message, or "" for a success.
func (o Outcome) ErrorMessage() string {
	if o.err == nil {
		return ""
	}
	return o.err.Error()
}

// Time returns when the lookup completed.
func (o Outcome) Time() time.Time { return o.at }

// Succeeded reports whether the lookup produced a record.
func (o Outcome) Succeeded() bool { return o.err == nil }

// Failed reports whether the lookup failed.
func (o Outcome) Failed() bool { return o.err != nil }

// Status returns StatusSuccess or StatusError.
func (o Outcome) Status() string {
	if o.err != nil {
		return StatusError
	}
	return StatusSuccess
}

type outcomeJSON struct {
	Query     string         `json:"query"`
	Kind      validate.Kind  `json:"kind"`
	Status    string         `json:"status"`
	Data      *record.Record `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// MarshalJSON renders the outcome with its status tag.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(outcomeJSON{
		Query:     o.query,
		Kind:      o.kind,
		Status:    o.Status(),
		Data:      o.record,
		Error:     o.ErrorMessage(),
		Reason:    apperr.Reason(o.err),
		Timestamp: FormatTime(o.at),
	})
}

// FormatTime renders t the way every report and export does.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
