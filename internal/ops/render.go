package ops

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tbckr/krwhois/internal/output"
	"github.com/tbckr/krwhois/internal/record"
)

// WriteTable renders the load summary and preview.
func (r *LoadReport) WriteTable(w io.Writer) error {
	rows := [][]string{{"Status", r.Status}, {"File", r.FilePath}}
	if r.Error != "" {
		rows = append(rows, []string{"Error", r.Error})
	} else {
		rows = append(rows, []string{"Loaded", strconv.Itoa(r.LoadedCount)})
		for i, item := range r.Preview {
			rows = append(rows, []string{fmt.Sprintf("Preview %d", i+1), item})
		}
	}
	return renderFieldTable(w, rows)
}

// WritePlain writes every loaded item, one per line.
func (r *LoadReport) WritePlain(w io.Writer) error {
	for _, item := range r.Items {
		if _, err := fmt.Fprintln(w, item); err != nil {
			return err
		}
	}
	return nil
}

// LookupReports is the result of several single lookups.
type LookupReports []*LookupReport

// WriteTable renders every field of every report, grouped by query.
func (rs LookupReports) WriteTable(w io.Writer) error {
	var rows [][]string
	for _, r := range rs {
		rows = append(rows, r.fieldRows()...)
	}
	table := output.NewGroupedWrappingTable(w, 45)
	table.Header([]string{"Query", "Field", "Value"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// WritePlain writes one "query<TAB>field<TAB>value" line per non-empty field.
func (rs LookupReports) WritePlain(w io.Writer) error {
	for _, r := range rs {
		for _, row := range r.fieldRows() {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", row[0], row[1], row[2]); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTable renders a single report.
func (r *LookupReport) WriteTable(w io.Writer) error {
	return LookupReports{r}.WriteTable(w)
}

// WritePlain renders a single report.
func (r *LookupReport) WritePlain(w io.Writer) error {
	return LookupReports{r}.WritePlain(w)
}

func (r *LookupReport) fieldRows() [][]string {
	if r.Data == nil {
		return [][]string{{r.Query, "error", r.Error}}
	}
	var rows [][]string
	r.Data.Each(func(key string, v record.Value) {
		if key == record.QueryKey || v.IsEmpty() {
			return
		}
		rows = append(rows, []string{r.Query, key, v.String()})
	})
	if len(rows) == 0 {
		rows = append(rows, []string{r.Query, "status", r.Status})
	}
	return rows
}

// WriteTable renders the run totals followed by one row per listed item.
func (r *BulkReport) WriteTable(w io.Writer) error {
	rows := [][]string{
		{"Status", r.Status},
		{"Total", strconv.Itoa(r.TotalItems)},
		{"Successful", strconv.Itoa(r.Successful)},
		{"Failed", strconv.Itoa(r.Failed)},
		{"Success rate", fmt.Sprintf("%.1f%%", r.SuccessRate)},
	}
	if r.Error != "" {
		rows = append(rows, []string{"Error", r.Error})
	}
	if err := renderFieldTable(w, rows); err != nil {
		return err
	}

	items := r.itemRows()
	if len(items) == 0 {
		return nil
	}
	table := output.NewWrappingTable(w, 35)
	table.Header([]string{"Query", "Status", "Error"})
	if err := table.Bulk(items); err != nil {
		return err
	}
	return table.Render()
}

// WritePlain writes one "query<TAB>status" line per listed item.
func (r *BulkReport) WritePlain(w io.Writer) error {
	for _, row := range r.itemRows() {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}

func (r *BulkReport) itemRows() [][]string {
	rows := make([][]string, 0, len(r.Results)+len(r.FailedItems))
	for _, res := range r.Results {
		rows = append(rows, []string{res.Query, res.Status, ""})
	}
	for _, f := range r.FailedItems {
		rows = append(rows, []string{f.Query, StatusError, f.Error})
	}
	return rows
}

// WriteTable renders the save result.
func (r *SaveReport) WriteTable(w io.Writer) error {
	rows := [][]string{{"Status", r.Status}, {"File", r.FilePath}}
	if r.Format != "" {
		rows = append(rows, []string{"Format", r.Format})
	}
	if r.Error != "" {
		rows = append(rows, []string{"Error", r.Error})
	} else {
		rows = append(rows, []string{"Records", strconv.Itoa(r.RecordsSaved)})
	}
	return renderFieldTable(w, rows)
}

// WritePlain writes the saved file path, or the error.
func (r *SaveReport) WritePlain(w io.Writer) error {
	if r.Error != "" {
		_, err := fmt.Fprintf(w, "%s\t%s\n", r.Status, r.Error)
		return err
	}
	_, err := fmt.Fprintf(w, "%s\t%s\n", r.Status, r.FilePath)
	return err
}

func renderFieldTable(w io.Writer, rows [][]string) error {
	table := output.NewWrappingTable(w, 20)
	table.Header([]string{"Field", "Value"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
