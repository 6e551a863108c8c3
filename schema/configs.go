package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ThresholdSpec is a validated warning/critical pair.
// Not inverted: Warning <= Critical, alerting when the value grows.
// Inverted: Critical <= Warning, alerting when the value shrinks.
type ThresholdSpec struct {
	Warning  float64 `json:"warning"`
	Critical float64 `json:"critical"`
	Inverted bool    `json:"inverted"`
}

// PeriodSpec is a validated trailing window, in hours.
type PeriodSpec struct {
	Hours int `json:"hours"`
}

// NewThresholdSpec parses and validates a threshold pair.
func NewThresholdSpec(warning, critical string, inverted bool) (ThresholdSpec, error) {
	w, err := parseThreshold("warning", warning)
	if err != nil {
		return ThresholdSpec{}, err
	}
	c, err := parseThreshold("critical", critical)
	if err != nil {
		return ThresholdSpec{}, err
	}
	spec := ThresholdSpec{Warning: w, Critical: c, Inverted: inverted}
	if err := spec.Validate(); err != nil {
		return ThresholdSpec{}, err
	}
	return spec, nil
}

// Validate checks the ordering invariant of the pair.
func (t ThresholdSpec) Validate() error {
	if t.Inverted && t.Critical > t.Warning {
		return &ConfigError{
			Field: "thresholds",
			Msg:   fmt.Sprintf("critical (%s) must be lower than or equal to warning (%s)", FormatNumber(t.Critical), FormatNumber(t.Warning)),
		}
	}
	if !t.Inverted && t.Warning > t.Critical {
		return &ConfigError{
			Field: "thresholds",
			Msg:   fmt.Sprintf("warning (%s) must be lower than or equal to critical (%s)", FormatNumber(t.Warning), FormatNumber(t.Critical)),
		}
	}
	return nil
}

func parseThreshold(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &ConfigError{Field: field, Msg: "threshold is required"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ConfigError{Field: field, Msg: fmt.Sprintf("'%s' is not a number", raw)}
	}
	if v < 0 {
		return 0, &ConfigError{Field: field, Msg: fmt.Sprintf("'%s' must not be negative", raw)}
	}
	return v, nil
}

// NewPeriodSpec validates a window length in hours.
func NewPeriodSpec(hours int) (PeriodSpec, error) {
	if hours <= 0 || hours > MaxPeriodHours {
		return PeriodSpec{}, &ConfigError{
			Field: "period",
			Msg:   fmt.Sprintf("%d hours is out of range (1-%d)", hours, MaxPeriodHours),
		}
	}
	return PeriodSpec{Hours: hours}, nil
}

// FormatNumber renders a float without a trailing ".0" for whole values.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
