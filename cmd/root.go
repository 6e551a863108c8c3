package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hycu-tools/check-hycu/core"
	"github.com/hycu-tools/check-hycu/internal/contract"
	"github.com/hycu-tools/check-hycu/internal/hycu"
	"github.com/hycu-tools/check-hycu/internal/logging"
	"github.com/hycu-tools/check-hycu/internal/outwriter"
	"github.com/hycu-tools/check-hycu/schema"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// exitCode is the process exit code of the last run.
var exitCode int

// rootCmd runs one check and prints its status line.
var rootCmd = &cobra.Command{
	Use:   "check-hycu",
	Short: "Monitoring plugin for HYCU backup controllers.",
	Long: `check-hycu queries a HYCU controller and reports one check as a monitoring status line
with performance data. The exit code follows the plugin convention:
0 OK, 1 WARNING, 2 CRITICAL, 3 UNKNOWN.`,
	Example: `  check-hycu -l hycu.example.com -a $TOKEN -t vm -n web-01
  check-hycu -l hycu.example.com -a $TOKEN -t jobs -w 5 -c 10 -p 24
  check-hycu -l hycu.example.com -a $TOKEN -t license -w 30 -c 7
  check-hycu -l hycu.example.com -t port -n 8443`,
	Version:            version,
	Args:               cobra.NoArgs,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	RunE:               runCheck,
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A .env file in the working directory seeds the environment; real variables win.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded .env file")
	}

	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("HYCU")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match
	if err := viper.BindEnv("api-token", "HYCU_API_TOKEN", "HYCU_TOKEN"); err != nil {
		contract.LogWarn("binding token environment", err)
	}

	// Set defaults in Viper
	viper.SetDefault("api-port", schema.DefaultAPIPort)
	viper.SetDefault("insecure", true)
	viper.SetDefault("timeout", schema.DefaultTimeoutSeconds)
	viper.SetDefault("period", schema.DefaultPeriodHours)
	viper.SetDefault("output", schema.NagiosOut)
	viper.SetDefault("empty-severity", schema.SeverityUnknown.String())
	viper.SetDefault("manager-critical-on", schema.CriticalOnAll)
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-format", "auto")
}

// setConfigFile points viper at --config, or at .check_hycu.yaml in . or $HOME.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".check_hycu") // Name of config file (without extension)
	viper.SetConfigType("yaml")        // We'll use YAML format
	viper.AddConfigPath(".")           // Look in the current directory
	viper.AddConfigPath("$HOME")       // Look in the home directory
}

// loadInput merges defaults, config file, env and flags into input, then starts logging.
func loadInput() error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return &schema.ConfigError{Field: "config", Msg: fmt.Sprintf("error reading config file: %v", err)}
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return &schema.ConfigError{Field: "config", Msg: fmt.Sprintf("unable to unmarshal config: %v", err)}
	}

	// 3. Logs go to stderr, stdout belongs to the status line.
	logging.Init(logging.Config{
		Format:    viper.GetString("log-format"),
		Level:     logging.LevelFor(input.Verbose),
		Component: "check-hycu",
	})
	return nil
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup() error {
	if err := loadInput(); err != nil {
		return err
	}
	// Populates the global 'cfg' from 'input'.
	return contract.ProcessAndValidate(cfg, input)
}

// runCheck evaluates the configured check. Setup failures still print a status line.
func runCheck(cmd *cobra.Command, _ []string) error {
	ow := outwriter.NewOutWriter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	*cfg = contract.Config{}
	var verdict schema.Verdict
	if err := sharedSetup(); err != nil {
		verdict = core.ErrorVerdict(cfg.Check, err)
		if cfg.Output == "" {
			cfg.Output = schema.NagiosOut
		}
	} else {
		verdict = evaluate(rootCtx, cfg)
	}

	code, err := ow.WriteVerdict(verdict, cfg)
	exitCode = code
	return err
}

// evaluate runs one check with the production controller client and port prober.
func evaluate(ctx context.Context, cfg *contract.Config) schema.Verdict {
	ctx, _ = logging.WithRunID(ctx, "")
	logger := logging.FromContext(ctx)
	logger.Debug().
		Str("check", string(cfg.Check)).
		Str("name", cfg.Name).
		Str("host", cfg.Host).
		Int("api_port", cfg.APIPort).
		Str("token", contract.RedactToken(cfg.APIToken)).
		Dur("timeout", cfg.Timeout).
		Msg("Starting check")

	var src contract.Source
	if info, _ := schema.LookupCheck(cfg.Check); info.NeedsToken {
		client, err := hycu.NewClient(hycu.ConfigFrom(cfg))
		if err != nil {
			return core.ErrorVerdict(cfg.Check, err)
		}
		defer client.Close()
		src = client
	}
	return core.Run(logger.WithContext(ctx), cfg, src, core.NewTCPProber())
}

// Execute runs the root command and returns the process exit code.
// Errors that escape the commands, such as bad flags, are reported as UNKNOWN.
func Execute() int {
	exitCode = 0
	if err := rootCmd.Execute(); err != nil {
		_, line := outwriter.FormatVerdict(schema.Verdict{Severity: schema.SeverityUnknown, Message: err.Error()})
		_, _ = fmt.Fprintln(rootCmd.OutOrStdout(), line)
		return schema.SeverityUnknown.ExitCode()
	}
	return exitCode
}
