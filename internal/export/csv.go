package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/samber/lo"

	"github.com/tbckr/krwhois/internal/apperr"
	"github.com/tbckr/krwhois/internal/record"
	"github.com/tbckr/krwhois/internal/services/whois"
)

// Fixed column names.
const (
	ColumnQuery     = record.QueryKey
	ColumnStatus    = "status"
	ColumnTimestamp = "timestamp"
	ColumnError     = "error"
)

// utf8BOM lets spreadsheet tools detect UTF-8 encoded Korean text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions controls SaveCSV.
type CSVOptions struct {
	// BOM prefixes the file with a UTF-8 byte order mark.
	BOM bool
}

// Columns returns the CSV header for outcomes.
func Columns(outcomes []whois.Outcome) []string {
	fixed := []string{ColumnQuery, ColumnStatus, ColumnTimestamp}

	var fields []string
	for _, o := range outcomes {
		if rec := o.Record(); rec != nil {
			fields = append(fields, rec.Keys()...)
		}
	}
	fields = lo.Without(lo.Uniq(fields), append(fixed, ColumnError)...)
	sort.Strings(fields)

	cols := append(fixed, fields...)
	if lo.ContainsBy(outcomes, whois.Outcome.Failed) {
		cols = append(cols, ColumnError)
	}
	return cols
}

// row renders o against cols. Missing and absent fields are empty cells.
func row(o whois.Outcome, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		switch c {
		case ColumnQuery:
			out[i] = o.Query()
		case ColumnStatus:
			out[i] = o.Status()
		case ColumnTimestamp:
			out[i] = whois.FormatTime(o.Time())
		case ColumnError:
			out[i] = o.ErrorMessage()
		default:
			if rec := o.Record(); rec != nil {
				if v, ok := rec.Get(c); ok {
					out[i] = v.String()
				}
			}
		}
	}
	return out
}

// WriteCSV writes the header and one row per outcome to w.
func WriteCSV(w io.Writer, outcomes []whois.Outcome) error {
	if len(outcomes) == 0 {
		return apperr.ErrEmptyInput
	}
	cols := Columns(outcomes)

	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	for _, o := range outcomes {
		if err := cw.Write(row(o, cols)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes outcomes to path, replacing any existing file.
func SaveCSV(path string, outcomes []whois.Outcome, opts CSVOptions) error {
	if len(outcomes) == 0 {
		return apperr.ErrEmptyInput
	}
	return writeFile(path, func(w io.Writer) error {
		if opts.BOM {
			if _, err := w.Write(utf8BOM); err != nil {
				return err
			}
		}
		return WriteCSV(w, outcomes)
	})
}

// writeFile creates path and hands it to write. Failing to create the file is
// reported as apperr.ErrExportTarget.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrExportTarget, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
