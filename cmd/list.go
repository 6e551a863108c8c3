package cmd

import (
	"strings"

	"github.com/hycu-tools/check-hycu/internal/outwriter"
	"github.com/hycu-tools/check-hycu/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// listCmd prints the supported check types.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the supported check types.",
	Long: `Display every check type with its category, the meaning of -n and the
default warning/critical thresholds. A leading "<" marks checks that alert
when the value drops to or below the threshold.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ow := outwriter.NewOutWriter(cmd.OutOrStdout(), cmd.ErrOrStderr())
		output := schema.OutputMode(strings.ToLower(viper.GetString("output")))
		return ow.WriteChecks(schema.AllChecks(), output, viper.GetString("output-file"))
	},
}
