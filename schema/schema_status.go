package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity is the monitoring verdict level. Its ordinal is the process exit code.
type Severity int

// All severities, in exit code order.
const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityCritical
	SeverityUnknown
)

var severityLabels = [...]string{"OK", "WARNING", "CRITICAL", "UNKNOWN"}

// String returns the upper-case label used in the output line.
func (s Severity) String() string {
	if s < SeverityOK || s > SeverityUnknown {
		return severityLabels[SeverityUnknown]
	}
	return severityLabels[s]
}

// ExitCode returns the process exit code for the severity.
func (s Severity) ExitCode() int {
	if s < SeverityOK || s > SeverityUnknown {
		return int(SeverityUnknown)
	}
	return int(s)
}

// MarshalJSON encodes the severity as its label.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ParseSeverity parses a severity label (case-insensitive).
func ParseSeverity(s string) (Severity, error) {
	for i, label := range severityLabels {
		if strings.EqualFold(strings.TrimSpace(s), label) {
			return Severity(i), nil
		}
	}
	return SeverityUnknown, fmt.Errorf("invalid severity %q (expected OK, WARNING, CRITICAL or UNKNOWN)", s)
}

// SeverityFromStatus maps a normalized entity status to a severity.
func SeverityFromStatus(status Status) Severity {
	switch status {
	case StatusOK:
		return SeverityOK
	case StatusWarning:
		return SeverityWarning
	case StatusError:
		return SeverityCritical
	default:
		return SeverityUnknown
	}
}

// StatusGauge is the graphable status: 2 good, 1 degraded, 0 failed.
func StatusGauge(status Status) int {
	switch status {
	case StatusOK:
		return 2
	case StatusError:
		return 0
	default:
		return 1
	}
}
