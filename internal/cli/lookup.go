package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbckr/krwhois/internal/ops"
)

func newLookupCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "lookup [domain|ip...]",
		Short:   "Look up WHOIS records for domains or IP addresses",
		GroupID: "whois",
		Long: `Look up the registration record of one or more domains or IP addresses.

IPv4 and IPv6 literals are sent to the IP endpoint, everything else to the
domain endpoint. Items are looked up one after another; use "bulk" for large
lists.

Multiple inputs can be supplied as arguments or piped via stdin (one per line).`,
		Example: `  # Korean domain
  krwhois lookup kisa.or.kr

  # IP address, JSON output
  krwhois lookup --output json 211.234.118.50

  # Several items from stdin
  echo -e "kisa.or.kr\n8.8.8.8" | krwhois lookup`,
		Args: cobra.ArbitraryArgs,
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := resolveInputs(cmd, args, 0)
			if err != nil {
				return err
			}
			o, err := d.newOps()
			if err != nil {
				return err
			}

			reports := make(ops.LookupReports, 0, len(inputs))
			failed := 0
			for _, item := range inputs {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				r := o.Lookup(cmd.Context(), item, "")
				if r.Status != ops.StatusSuccess {
					failed++
				}
				reports = append(reports, r)
			}

			var result any = reports
			if len(reports) == 1 {
				result = reports[0]
			}
			if err := writeResult(cmd.OutOrStdout(), d, result); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d lookups failed", failed, len(reports))
			}
			return nil
		},
	}
}
