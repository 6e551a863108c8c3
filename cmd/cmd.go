// Package cmd defines the command-line interface for check-hycu.
package cmd

import (
	"github.com/hycu-tools/check-hycu/internal/contract"
	"github.com/hycu-tools/check-hycu/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add subcommands to the root command
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(mcpCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("host", "l", "", "HYCU controller host name or IP address")
	rootCmd.PersistentFlags().StringP("api-token", "a", "", "HYCU API token (prefer HYCU_API_TOKEN)")
	rootCmd.PersistentFlags().Int("api-port", schema.DefaultAPIPort, "HYCU REST API port")
	rootCmd.PersistentFlags().Bool("insecure", true, "Skip TLS certificate verification (controllers ship self-signed certificates)")
	rootCmd.PersistentFlags().IntP("timeout", "T", schema.DefaultTimeoutSeconds, "Request timeout in seconds (port check caps it at 30)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print diagnostics on stderr and the long output")
	rootCmd.PersistentFlags().String("output", string(schema.NagiosOut), "Output format: nagios or json")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in diagnostics (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-format", "auto", "Log format on stderr: auto or console or json")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all check flags of rootCmd to Viper
	rootCmd.Flags().StringP("type", "t", "", "Check type (see 'check-hycu list')")
	rootCmd.Flags().StringP("name", "n", "", "Object name, VM UUID, port or manager mode, depending on the check")
	rootCmd.Flags().StringP("warning", "w", "", "Warning threshold (defaults per check)")
	rootCmd.Flags().StringP("critical", "c", "", "Critical threshold (defaults per check)")
	rootCmd.Flags().IntP("period", "p", schema.DefaultPeriodHours, "Period in hours for jobs and backup-validation (1-168)")
	rootCmd.Flags().String("textfile", "", "Also write the metrics as Prometheus gauges to this file")
	rootCmd.Flags().String("empty-severity", schema.SeverityUnknown.String(), "Severity when a check has nothing to report: OK or WARNING or CRITICAL or UNKNOWN")
	rootCmd.Flags().String("manager-critical-on", schema.CriticalOnAll, "Manager protected check turns CRITICAL when all or any VMs are unprotected")
	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of listCmd to Viper
	listCmd.Flags().String("output-file", "", "Optional path to write the check list to")
	if err := viper.BindPFlags(listCmd.Flags()); err != nil {
		contract.LogFatal("Error binding list flags", err)
	}
}
