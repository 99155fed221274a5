package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tbckr/krwhois/internal/input"
	"github.com/tbckr/krwhois/internal/ops"
)

func newLoadCmd(d *deps) *cobra.Command {
	var maxItems int

	cmd := &cobra.Command{
		Use:     "load <file>",
		Short:   "Load and validate a lookup list without querying the registry",
		GroupID: "whois",
		Long: `Read a lookup list (one domain or IP per line) and report how many items
it holds. Blank lines and lines starting with '#' are skipped. EUC-KR encoded
files are converted to UTF-8.

With --output plain every loaded item is printed, one per line.`,
		Example: `  krwhois load targets.txt
  krwhois load --output plain targets.txt | sort -u > clean.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report := ops.LoadList(args[0], maxItems)
			if report.Status == ops.StatusError {
				return errors.New(report.Error)
			}
			return writeResult(cmd.OutOrStdout(), d, report)
		},
	}
	cmd.Flags().IntVar(&maxItems, "max-items", input.DefaultMaxLines, "maximum number of lines to read")
	return cmd
}
