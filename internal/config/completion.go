package config

import (
	"github.com/spf13/cobra"
)

// CompleteOutputFormat provides shell completion candidates for the --output flag.
func CompleteOutputFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return OutputFormats, cobra.ShellCompDirectiveNoFileComp
}

// CompleteKey provides shell completion candidates for "config get/set" keys.
func CompleteKey(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return ValidKeys(), cobra.ShellCompDirectiveNoFileComp
}

// RegisterFlagCompletions wires completion functions for config-backed flags on cmd.
func RegisterFlagCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc(FlagOutput, CompleteOutputFormat)
}
