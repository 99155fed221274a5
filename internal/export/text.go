package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tbckr/krwhois/internal/apperr"
	"github.com/tbckr/krwhois/internal/record"
	"github.com/tbckr/krwhois/internal/services/whois"
)

// Style selects the text report layout.
type Style string

const (
	// StyleSimple writes one "query<TAB>status" line per outcome.
	StyleSimple Style = "simple"
	// StyleDetailed writes a block per outcome with every non-empty field.
	StyleDetailed Style = "detailed"
)

// Styles lists the accepted report styles.
var Styles = []string{string(StyleSimple), string(StyleDetailed)}

// ParseStyle validates s as a report style.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleSimple:
		return StyleSimple, nil
	case StyleDetailed:
		return StyleDetailed, nil
	}
	return "", fmt.Errorf("%w: unknown text format %q (want simple or detailed)", apperr.ErrInvalidInput, s)
}

// WriteText writes a text report of outcomes to w. generated is printed in
// the header.
func WriteText(w io.Writer, outcomes []whois.Outcome, style Style, generated time.Time) error {
	if len(outcomes) == 0 {
		return apperr.ErrEmptyInput
	}
	if _, err := ParseStyle(string(style)); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# WHOIS lookup results")
	fmt.Fprintf(bw, "# generated: %s\n", whois.FormatTime(generated))
	fmt.Fprintf(bw, "# total: %d\n\n", len(outcomes))

	for _, o := range outcomes {
		if style == StyleSimple {
			fmt.Fprintf(bw, "%s\t%s\n", o.Query(), o.Status())
			continue
		}
		writeDetailed(bw, o)
	}
	return bw.Flush()
}

func writeDetailed(w io.Writer, o whois.Outcome) {
	fmt.Fprintf(w, "=== %s ===\n", o.Query())
	fmt.Fprintf(w, "status: %s\n", o.Status())
	if rec := o.Record(); rec != nil {
		rec.Each(func(key string, v record.Value) {
			if key == record.QueryKey || v.IsEmpty() {
				return
			}
			fmt.Fprintf(w, "%s: %s\n", key, v.String())
		})
	} else {
		fmt.Fprintf(w, "error: %s\n", o.ErrorMessage())
	}
	fmt.Fprintln(w)
}

// SaveText writes a text report of outcomes to path, replacing any existing file.
func SaveText(path string, outcomes []whois.Outcome, style Style) error {
	if len(outcomes) == 0 {
		return apperr.ErrEmptyInput
	}
	if _, err := ParseStyle(string(style)); err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		return WriteText(w, outcomes, style, time.Now())
	})
}
