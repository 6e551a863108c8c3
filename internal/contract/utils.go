package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hycu-tools/check-hycu/schema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold) // CriticalColor represents standard danger.
	WarningColor  = color.New(color.FgYellow)          // WarningColor represents standard caution, not bold.
	OKColor       = color.New(color.FgGreen)           // OKColor represents a healthy result.
	UnknownColor  = color.New(color.FgMagenta)         // UnknownColor represents a result that could not be evaluated.
)

// GetPlainLabel returns the plain text label of a severity.
func GetPlainLabel(sev schema.Severity) string {
	return sev.String()
}

// GetColorLabel returns a colored severity label for console output (table).
func GetColorLabel(sev schema.Severity) string {
	text := GetPlainLabel(sev)

	switch sev {
	case schema.SeverityCritical:
		return CriticalColor.Sprint(text)
	case schema.SeverityWarning:
		return WarningColor.Sprint(text)
	case schema.SeverityOK:
		return OKColor.Sprint(text)
	default:
		return UnknownColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program with the UNKNOWN exit code.
func LogFatal(msg string, err error) {
	log.WithLevel(zerolog.FatalLevel).Err(err).Msg(msg)
	os.Exit(schema.SeverityUnknown.ExitCode())
}

// LogWarn logs a warning through the process logger.
func LogWarn(msg string, err error) {
	log.Warn().Err(err).Msg(msg)
}

// RedactToken keeps the first and last characters of a secret for diagnostics.
func RedactToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
