package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

const defaultTermWidth = 80

// TerminalWidth returns the width of the terminal behind w. Pipes, files and
// buffers report defaultTermWidth.
func TerminalWidth(w io.Writer) int {
	type fder interface{ Fd() uintptr }
	if f, ok := w.(fder); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 { //nolint:gosec // uintptr→int is safe for file descriptors; they fit in int on all supported platforms
			return width
		}
	}
	return defaultTermWidth
}

// MinColumnWidth is the narrowest a wrapped column gets, even on a tiny
// terminal. Korean registrant names and addresses wrap badly below it.
const MinColumnWidth = 20

// columnWidth is the wrap width left for the value column once overhead
// (borders, padding and the fixed-width columns) is subtracted.
func columnWidth(w io.Writer, overhead int) int {
	return max(MinColumnWidth, TerminalWidth(w)-overhead)
}

// NewGroupedWrappingTable returns a table for per-query WHOIS records: rows
// sharing the query in the first column are merged into one group, groups are
// separated by lines, and values wrap to the terminal width.
func NewGroupedWrappingTable(w io.Writer, overhead int) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenRows: tw.On},
			},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting:   tw.CellFormatting{MergeMode: tw.MergeHierarchical, AutoWrap: tw.WrapNormal},
				ColMaxWidths: tw.CellWidth{Global: columnWidth(w, overhead)},
			},
		}),
	)
}

// NewWrappingTable returns a flat table (reports, summaries, config) whose
// cells wrap to the terminal width.
func NewWrappingTable(w io.Writer, overhead int) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting:   tw.CellFormatting{AutoWrap: tw.WrapNormal},
				ColMaxWidths: tw.CellWidth{Global: columnWidth(w, overhead)},
			},
		}),
	)
}
