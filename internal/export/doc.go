// Package export writes lookup outcomes to CSV tables and plain-text reports.
//
// The CSV column set is derived from the data: the fixed columns query,
// status and timestamp, then the sorted union of field names seen in any
// successful record, then an error column when at least one lookup failed.
// Outcomes are never modified and every outcome produces exactly one row.
package export
