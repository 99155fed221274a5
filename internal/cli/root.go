// Package cli provides the Cobra command tree and output wiring for krwhois.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tbckr/krwhois/internal/config"
	"github.com/tbckr/krwhois/internal/input"
	"github.com/tbckr/krwhois/internal/version"
)

// newRootCmd builds the top-level Cobra command for krwhois.
// Callers must set stdout/stderr via cmd.SetOut / cmd.SetErr before Execute.
func newRootCmd() *cobra.Command {
	// d is populated by PersistentPreRunE before any subcommand's RunE runs.
	// INVARIANT: Cobra only executes the innermost PersistentPreRunE in the
	// command chain. If a future subcommand defines its own PersistentPreRunE,
	// the root hook will NOT run and d will be zero-valued. Do not add
	// PersistentPreRunE to any subcommand without also re-calling buildDeps.
	var d deps

	cmd := &cobra.Command{
		Use:   "krwhois",
		Short: "krwhois: bulk WHOIS lookups against the KISA registry",
		Long: `krwhois looks up registration records for domains and IP addresses in the
KISA WHOIS OpenAPI (data.go.kr) and exports the results to CSV or text.

A data.go.kr service key is required. Set it once with
  krwhois config set service_key <key>
or pass it via --service-key, KRWHOIS_SERVICE_KEY or WHOIS_SERVICE_KEY.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := buildDeps(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			d = *resolved
			return nil
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())
	config.RegisterFlagCompletions(cmd)

	cmd.Version = version.Version
	cmd.SetVersionTemplate("krwhois version {{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: "whois", Title: "WHOIS Commands:"},
		&cobra.Group{ID: "utility", Title: "Utility Commands:"},
	)

	cmd.AddCommand(
		newLookupCmd(&d),
		newBulkCmd(&d),
		newLoadCmd(&d),
		newConfigCmd(&d),
		newCompletionCmd(),
		newVersionCmd(&d),
	)
	flushMetricsAfterRun(cmd, &d)

	return cmd
}

// flushMetricsAfterRun wraps every RunE in the tree so the metrics textfile
// is written whether the command succeeds or fails. Cobra skips the
// PostRun hooks once RunE returns an error, and failed runs are the ones
// whose metrics matter most.
func flushMetricsAfterRun(cmd *cobra.Command, d *deps) {
	for _, sub := range cmd.Commands() {
		flushMetricsAfterRun(sub, d)
	}
	if cmd.RunE == nil {
		return
	}
	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if flushErr := d.flushMetrics(); flushErr != nil {
			return errors.Join(err, flushErr)
		}
		return err
	}
}

// Execute builds the root command and runs it with os.Args. ctx is cancelled
// on interrupt so a running bulk lookup stops at the next batch boundary.
func Execute(ctx context.Context, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

// resolveInputs returns positional args, or reads non-empty lines from stdin when
// no args are provided. Returns an error if stdin is an interactive terminal with
// no args (i.e. the user forgot to pass an argument or pipe input).
func resolveInputs(cmd *cobra.Command, args []string, maxItems int) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	r := cmd.InOrStdin()
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // uintptr→int is safe for file descriptors; they fit in int on all supported platforms
		return nil, fmt.Errorf("no input: pass an argument or pipe stdin")
	}
	return input.ReadLimit(r, maxItems)
}
