package contract

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hycu-tools/check-hycu/schema"
)

// Config holds the runtime configuration for one check.
// This struct remains the "final, validated" config.
type Config struct {
	Host     string
	APIToken string // Please use env var as this is plaintext
	APIPort  int
	Insecure bool

	Check       schema.CheckType
	Name        string
	ManagerMode schema.ManagerMode
	Port        int // port check target

	Thresholds schema.ThresholdSpec
	Period     schema.PeriodSpec
	Timeout    time.Duration

	// EmptySeverity is reported when a threshold-less check has nothing to report.
	EmptySeverity schema.Severity
	// CriticalOn selects when the manager protected check turns CRITICAL: "all" or "any" unprotected.
	CriticalOn string

	Verbose   bool
	Output    schema.OutputMode
	TextFile  string
	UseColors bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Connection ---
	Host     string `mapstructure:"host"`
	APIToken string `mapstructure:"api-token"`
	APIPort  int    `mapstructure:"api-port"`
	Insecure bool   `mapstructure:"insecure"`
	Timeout  int    `mapstructure:"timeout"`

	// --- Check selection ---
	Type     string `mapstructure:"type"`
	Name     string `mapstructure:"name"`
	Warning  string `mapstructure:"warning"`
	Critical string `mapstructure:"critical"`
	Period   int    `mapstructure:"period"`

	// --- Policies for empty results ---
	EmptySeverity     string `mapstructure:"empty-severity"`
	ManagerCriticalOn string `mapstructure:"manager-critical-on"`

	// --- Output ---
	Verbose  bool   `mapstructure:"verbose"`
	Output   string `mapstructure:"output"`
	TextFile string `mapstructure:"textfile"`
	Color    string `mapstructure:"color"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// BaseURL returns the REST root of the controller.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("https://%s:%d/rest/v1.0", c.Host, c.APIPort)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. Every failure is a *schema.ConfigError.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	info, err := processCheckSelection(cfg, input)
	if err != nil {
		return err
	}
	if err := processThresholds(cfg, input, info); err != nil {
		return err
	}
	if err := processPeriod(cfg, input, info); err != nil {
		return err
	}
	return processTimeout(cfg, input)
}

// validateSimpleInputs processes and validates the connection and output fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Host = strings.TrimSpace(input.Host)
	cfg.APIToken = strings.TrimSpace(input.APIToken)
	cfg.Insecure = input.Insecure
	cfg.Verbose = input.Verbose
	cfg.TextFile = input.TextFile

	// --- 1. Host Validation ---
	if cfg.Host == "" {
		return &schema.ConfigError{Field: "host", Msg: "controller host is required (-l)"}
	}

	// --- 2. API Port Validation ---
	if input.APIPort < 1 || input.APIPort > 65535 {
		return &schema.ConfigError{Field: "api-port", Msg: fmt.Sprintf("must be between 1 and 65535 (received %d)", input.APIPort)}
	}
	cfg.APIPort = input.APIPort

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.NagiosOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return &schema.ConfigError{Field: "output", Msg: fmt.Sprintf("invalid output format '%s'. must be nagios, json", input.Output)}
	}

	// --- 4. Color Validation ---
	colors := true
	if input.Color != "" {
		parsed, err := ParseBoolString(input.Color)
		if err != nil {
			return &schema.ConfigError{Field: "color", Msg: err.Error()}
		}
		colors = parsed
	}
	cfg.UseColors = colors

	// --- 5. Empty Result Policies ---
	cfg.EmptySeverity = schema.SeverityUnknown
	if input.EmptySeverity != "" {
		sev, err := schema.ParseSeverity(input.EmptySeverity)
		if err != nil {
			return &schema.ConfigError{Field: "empty-severity", Msg: err.Error()}
		}
		cfg.EmptySeverity = sev
	}

	cfg.CriticalOn = strings.ToLower(strings.TrimSpace(input.ManagerCriticalOn))
	if cfg.CriticalOn == "" {
		cfg.CriticalOn = schema.CriticalOnAll
	}
	if cfg.CriticalOn != schema.CriticalOnAll && cfg.CriticalOn != schema.CriticalOnAny {
		return &schema.ConfigError{Field: "manager-critical-on", Msg: fmt.Sprintf("invalid value '%s'. must be all, any", input.ManagerCriticalOn)}
	}
	return nil
}

// processCheckSelection validates the check type and its -n argument.
func processCheckSelection(cfg *Config, input *ConfigRawInput) (schema.CheckInfo, error) {
	if strings.TrimSpace(input.Type) == "" {
		return schema.CheckInfo{}, &schema.ConfigError{Field: "type", Msg: "check type is required (-t)"}
	}
	checkType, err := schema.ParseCheckType(input.Type)
	if err != nil {
		return schema.CheckInfo{}, err
	}
	info, _ := schema.LookupCheck(checkType)
	cfg.Check = checkType
	cfg.Name = schema.NormalizeName(input.Name)

	if info.NeedsToken && cfg.APIToken == "" {
		return info, &schema.ConfigError{Field: "api-token", Msg: fmt.Sprintf("API token is required for the %s check (-a)", checkType)}
	}

	switch checkType {
	case schema.PortCheck:
		port, err := parsePort(cfg.Name)
		if err != nil {
			return info, err
		}
		cfg.Port = port
	case schema.ManagerCheck:
		cfg.ManagerMode = schema.ManagerMode(strings.ToLower(cfg.Name))
		if _, ok := schema.ValidManagerModes[cfg.ManagerMode]; !ok {
			return info, &schema.ConfigError{Field: "name", Msg: fmt.Sprintf("invalid manager mode '%s'. must be protected, compliance", input.Name)}
		}
	default:
		if info.NeedsName && cfg.Name == "" {
			return info, &schema.ConfigError{Field: "name", Msg: fmt.Sprintf("%s is required for the %s check (-n)", info.NameHint, checkType)}
		}
	}
	return info, nil
}

// parsePort reads the port check target, defaulting to the controller API port.
func parsePort(raw string) (int, error) {
	if raw == "" {
		return schema.DefaultProbePort, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return 0, &schema.ConfigError{Field: "name", Msg: fmt.Sprintf("invalid port '%s'. must be between 1 and 65535", raw)}
	}
	return port, nil
}

// processThresholds fills per-check defaults for missing values, then validates the pair.
// Checks that never compare against thresholds skip validation entirely.
func processThresholds(cfg *Config, input *ConfigRawInput, info schema.CheckInfo) error {
	if !info.Thresholded {
		return nil
	}
	if info.Type == schema.ManagerCheck && cfg.ManagerMode == schema.ManagerProtected {
		return nil
	}
	warning := strings.TrimSpace(input.Warning)
	if warning == "" {
		warning = schema.FormatNumber(info.Warning)
	}
	critical := strings.TrimSpace(input.Critical)
	if critical == "" {
		critical = schema.FormatNumber(info.Critical)
	}
	spec, err := schema.NewThresholdSpec(warning, critical, info.Inverted)
	if err != nil {
		return err
	}
	cfg.Thresholds = spec
	return nil
}

// processPeriod validates the window of the time-windowed checks.
func processPeriod(cfg *Config, input *ConfigRawInput, info schema.CheckInfo) error {
	if !info.Windowed {
		cfg.Period = schema.PeriodSpec{Hours: schema.DefaultPeriodHours}
		return nil
	}
	period, err := schema.NewPeriodSpec(input.Period)
	if err != nil {
		return err
	}
	cfg.Period = period
	return nil
}

// processTimeout validates the request timeout. The port check caps it.
func processTimeout(cfg *Config, input *ConfigRawInput) error {
	if input.Timeout <= 0 {
		return &schema.ConfigError{Field: "timeout", Msg: fmt.Sprintf("must be greater than 0 (received %d)", input.Timeout)}
	}
	seconds := input.Timeout
	if cfg.Check == schema.PortCheck && seconds > schema.MaxPortTimeoutSeconds {
		seconds = schema.MaxPortTimeoutSeconds
	}
	cfg.Timeout = time.Duration(seconds) * time.Second
	return nil
}
