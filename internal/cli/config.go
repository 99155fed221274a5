package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tbckr/krwhois/internal/config"
	"github.com/tbckr/krwhois/internal/output"
)

func newConfigCmd(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Read and write krwhois config file values",
		GroupID: "utility",
	}
	cmd.AddCommand(
		newConfigPathCmd(d),
		newConfigShowCmd(d),
		newConfigGetCmd(d),
		newConfigSetCmd(d),
		newConfigEditCmd(d),
	)
	return cmd
}

func newConfigPathCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), d.cfg.ConfigFile)
			return err
		},
	}
}

// configRow holds one key/value pair for display.
type configRow struct {
	key   string
	value string
}

// buildConfigRows returns all config key/value pairs sorted alphabetically.
// Values come from the resolved d.cfg, so show and get report effective state
// (defaults, env vars and flag overrides), not just the file contents.
func buildConfigRows(d *deps) []configRow {
	keys := config.ValidKeys()
	sort.Strings(keys)

	rows := make([]configRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, configRow{key: k, value: effectiveValue(d, k)})
	}
	return rows
}

// effectiveValue returns the current effective value for key from d.cfg.
// The service key is masked.
func effectiveValue(d *deps, key string) string {
	switch key {
	case "verbose":
		return strconv.FormatBool(d.cfg.Verbose)
	case "output":
		return d.cfg.Output
	case "service_key":
		return config.MaskSecret(d.cfg.ServiceKey)
	case "api_url":
		return d.cfg.APIURL
	case "timeout":
		return d.cfg.Timeout.String()
	case "proxy":
		return d.cfg.Proxy
	case "user_agent":
		return d.cfg.UserAgent
	case "batch_size":
		return strconv.Itoa(d.cfg.BatchSize)
	case "delay":
		return d.cfg.Delay.String()
	case "metrics_file":
		return d.cfg.MetricsFile
	default:
		return ""
	}
}

func newConfigShowCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"cat"},
		Short:   "Display all effective config settings",
		Long: `Display all effective config settings: defaults, config file, environment
and flags merged. The service key is masked. With --output plain the settings
are printed as YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			rows := buildConfigRows(d)
			switch d.format {
			case output.FormatJSON:
				m := make(map[string]string, len(rows))
				for _, r := range rows {
					m[r.key] = r.value
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(m)
			case output.FormatPlain:
				out, err := d.cfg.YAML()
				if err != nil {
					return err
				}
				_, err = w.Write(out)
				return err
			default:
				table := output.NewWrappingTable(w, 6)
				table.Header([]string{"KEY", "VALUE"})
				tableRows := make([][]string, len(rows))
				for i, r := range rows {
					tableRows[i] = []string{r.key, r.value}
				}
				if err := table.Bulk(tableRows); err != nil {
					return err
				}
				return table.Render()
			}
		},
	}
}

func newConfigGetCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:               "get <key>",
		Short:             "Print the value of a config key",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: config.CompleteKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := normalizeConfigKey(args[0])
			if err := config.ValidateKey(key); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), effectiveValue(d, key))
			return err
		},
	}
}

func newConfigSetCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value and persist it to the config file",
		Long: `Set a config value and persist it to the config file. Only the given key is
written; every other key in the file is left untouched.`,
		Example: `  krwhois config set service_key "<key from data.go.kr>"
  krwhois config set batch_size 50
  krwhois config set delay 500ms`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: config.CompleteKey,
		RunE: func(_ *cobra.Command, args []string) error {
			return config.Set(d.cfg.ConfigFile, normalizeConfigKey(args[0]), args[1])
		},
	}
}

func newConfigEditCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the config file in $EDITOR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			editor := os.Getenv("EDITOR")
			if editor == "" {
				editor = os.Getenv("VISUAL")
			}
			if editor == "" {
				editor = "vi"
			}
			c := exec.CommandContext(cmd.Context(), editor, d.cfg.ConfigFile) //nolint:gosec // editor is sourced from user's $EDITOR/$VISUAL env var
			c.Stdin = cmd.InOrStdin()
			c.Stdout = cmd.OutOrStdout()
			c.Stderr = cmd.ErrOrStderr()
			return c.Run()
		},
	}
}

// normalizeConfigKey converts hyphenated flag names to their viper key equivalents
// (e.g. "batch-size" → "batch_size").
func normalizeConfigKey(key string) string {
	result := make([]byte, len(key))
	for i := range key {
		if key[i] == '-' {
			result[i] = '_'
		} else {
			result[i] = key[i]
		}
	}
	return string(result)
}
