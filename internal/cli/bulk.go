package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbckr/krwhois/internal/export"
	"github.com/tbckr/krwhois/internal/input"
	"github.com/tbckr/krwhois/internal/ops"
)

type bulkFlags struct {
	maxItems        int
	csvPath         string
	txtPath         string
	txtFormat       string
	includeFailures bool
}

func newBulkCmd(d *deps) *cobra.Command {
	var f bulkFlags

	cmd := &cobra.Command{
		Use:     "bulk [file]",
		Short:   "Look up a list of domains and IP addresses in batches",
		GroupID: "whois",
		Long: `Look up every item of a list against the KISA WHOIS API.

Items are processed in batches of --batch-size lookups that run concurrently;
the next batch starts once the whole batch has finished and --delay has
passed. Failed lookups never stop the run.

The list is read from file, or from stdin when no file is given. Results can
be exported with --csv (UTF-8 with byte order mark) and --txt.`,
		Example: `  # List from a file, export to CSV
  krwhois bulk targets.txt --csv results.csv

  # Slower pacing, detailed text report including failures
  krwhois bulk targets.txt --batch-size 20 --delay 1s --txt report.txt --txt-format detailed

  # From stdin
  cat targets.txt | krwhois bulk --output json --include-failures`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBulk(cmd, d, f, args)
		},
	}

	cmd.Flags().IntVar(&f.maxItems, "max-items", input.DefaultMaxLines, "maximum number of lines to read from the list")
	cmd.Flags().StringVar(&f.csvPath, "csv", "", "write all results to this CSV file")
	cmd.Flags().StringVar(&f.txtPath, "txt", "", "write all results to this text file")
	cmd.Flags().StringVar(&f.txtFormat, "txt-format", string(export.StyleSimple), "text report style: simple, detailed")
	cmd.Flags().BoolVar(&f.includeFailures, "include-failures", false, "list failed items in the output")
	_ = cmd.RegisterFlagCompletionFunc("txt-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return export.Styles, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runBulk(cmd *cobra.Command, d *deps, f bulkFlags, args []string) error {
	if f.txtPath != "" {
		if _, err := export.ParseStyle(f.txtFormat); err != nil {
			return err
		}
	}
	if err := d.requireServiceKey(); err != nil {
		return err
	}

	items, err := bulkInputs(cmd, args, f.maxItems)
	if err != nil {
		return err
	}
	o, err := d.newOps()
	if err != nil {
		return err
	}

	report := o.BulkLookup(cmd.Context(), items, ops.BulkOptions{
		BatchSize:       d.cfg.BatchSize,
		Delay:           d.cfg.Delay,
		IncludeFailures: f.includeFailures,
	})
	if err := writeResult(cmd.OutOrStdout(), d, report); err != nil {
		return err
	}
	if report.Summary == nil {
		return errors.New(report.Error)
	}

	var errs []error
	if f.csvPath != "" {
		errs = append(errs, saved(d, ops.SaveCSV(report.Summary.Outcomes, f.csvPath)))
	}
	if f.txtPath != "" {
		errs = append(errs, saved(d, ops.SaveText(report.Summary.Outcomes, f.txtPath, f.txtFormat)))
	}
	if report.Error != "" {
		errs = append(errs, fmt.Errorf("bulk lookup interrupted: %s", report.Error))
	}
	return errors.Join(errs...)
}

// bulkInputs loads the list from the file argument, or from stdin.
func bulkInputs(cmd *cobra.Command, args []string, maxItems int) ([]string, error) {
	if len(args) == 0 {
		return resolveInputs(cmd, nil, maxItems)
	}
	loaded := ops.LoadList(args[0], maxItems)
	if loaded.Status == ops.StatusError {
		return nil, errors.New(loaded.Error)
	}
	return loaded.Items, nil
}

// saved logs a save report and converts a failed one into an error.
func saved(d *deps, r *ops.SaveReport) error {
	if r.Status == ops.StatusError {
		return fmt.Errorf("saving %s: %s", r.FilePath, r.Error)
	}
	d.logger.Info("results saved", "path", r.FilePath, "records", r.RecordsSaved)
	return nil
}
