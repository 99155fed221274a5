package apperr

import "errors"

// ErrInvalidInput is returned when a caller-supplied argument fails validation
// (batch size, delay, report style, ...).
var ErrInvalidInput = errors.New("invalid input")

// ErrInputNotFound is returned when a local input list does not exist.
var ErrInputNotFound = errors.New("input not found")

// ErrCredentialMissing is returned when no usable registry service key is configured.
// The placeholder sentinel counts as missing.
var ErrCredentialMissing = errors.New("service key missing")

// ErrTransport is returned when a lookup fails below HTTP: timeouts, DNS
// failures, refused or reset connections.
var ErrTransport = errors.New("transport error")

// ErrUpstreamStatus is returned when the registry answers with a non-200 status.
var ErrUpstreamStatus = errors.New("upstream error")

// ErrMalformedResponse is returned when a response body is not well-formed XML.
var ErrMalformedResponse = errors.New("malformed response")

// ErrSchemaMismatch is returned when a well-formed response lacks the expected record node.
var ErrSchemaMismatch = errors.New("schema mismatch")

// ErrExportTarget is returned when an export destination cannot be opened for writing.
var ErrExportTarget = errors.New("export target unwritable")

// ErrEmptyInput is returned when an export is requested with nothing to export.
var ErrEmptyInput = errors.New("nothing to export")

// reasons maps each sentinel to a short label. Order matters: the first match wins.
var reasons = []struct {
	err    error
	reason string
}{
	{ErrCredentialMissing, "credential_missing"},
	{ErrTransport, "transport"},
	{ErrUpstreamStatus, "upstream_status"},
	{ErrMalformedResponse, "malformed_response"},
	{ErrSchemaMismatch, "schema_mismatch"},
	{ErrInputNotFound, "input_not_found"},
	{ErrExportTarget, "export_target"},
	{ErrEmptyInput, "empty_input"},
	{ErrInvalidInput, "invalid_input"},
}

// Reason returns a stable, low-cardinality label for err, suitable for metric
// labels and machine-readable output. It returns "" for a nil error and
// "unknown" for errors that wrap none of the sentinels.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "unknown"
}
