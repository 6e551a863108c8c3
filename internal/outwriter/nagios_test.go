package outwriter

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hycu-tools/check-hycu/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatVerdict(t *testing.T) {
	license := schema.ThresholdSpec{Warning: 30, Critical: 7, Inverted: true}

	tests := []struct {
		name     string
		verdict  schema.Verdict
		wantCode int
		wantLine string
	}{
		{
			name:     "no metrics drops the pipe",
			verdict:  schema.Verdict{Severity: schema.SeverityUnknown, Message: "Unexpected error - boom"},
			wantCode: 3,
			wantLine: "UNKNOWN: Unexpected error - boom",
		},
		{
			name: "thresholded metric",
			verdict: schema.Verdict{
				Severity: schema.SeverityWarning,
				Message:  "License expires in 15 days",
				Metrics:  []schema.PerfMetric{schema.Thresholded("days_left", 15, license)},
			},
			wantCode: 1,
			wantLine: "WARNING: License expires in 15 days |days_left=15;30;7;0;",
		},
		{
			name: "empty bounds keep their delimiters",
			verdict: schema.Verdict{
				Severity: schema.SeverityOK,
				Message:  "Port 8443 is OPEN",
				Metrics: []schema.PerfMetric{
					{Name: "response_time", Value: 15, Unit: "ms", Min: schema.Int(0)},
					schema.Gauge("raw", 4),
				},
			},
			wantCode: 0,
			wantLine: "OK: Port 8443 is OPEN |response_time=15ms;;;0; raw=4;;;;",
		},
		{
			name: "percent with fraction",
			verdict: schema.Verdict{
				Severity: schema.SeverityCritical,
				Message:  "Jobs",
				Metrics:  []schema.PerfMetric{schema.Percent("success_rate", 93.14)},
			},
			wantCode: 2,
			wantLine: "CRITICAL: Jobs |success_rate=93.14%;;;0;100",
		},
		{
			name: "message is kept on one line without pipes",
			verdict: schema.Verdict{
				Severity: schema.SeverityOK,
				Message:  "a | b\nc",
				Metrics:  []schema.PerfMetric{schema.Counter("n", 1)},
			},
			wantCode: 0,
			wantLine: "OK: a / b c |n=1;;;0;",
		},
		{
			name: "labels with spaces are quoted",
			verdict: schema.Verdict{
				Severity: schema.SeverityOK,
				Message:  "quoted",
				Metrics:  []schema.PerfMetric{schema.Gauge("it's up", 1)},
			},
			wantCode: 0,
			wantLine: "OK: quoted |'it''s up'=1;;;;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, line := FormatVerdict(tt.verdict)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantLine, line)
		})
	}
}

func TestFormatVerdictIsDeterministic(t *testing.T) {
	v := schema.Verdict{
		Severity: schema.SeverityOK,
		Message:  "stable",
		Metrics:  []schema.PerfMetric{schema.Counter("a", 1), schema.Bounded("b", 2, 3)},
	}
	_, first := FormatVerdict(v)
	for range 10 {
		_, again := FormatVerdict(v)
		assert.Equal(t, first, again)
	}
}

func TestPerfDataRoundTrip(t *testing.T) {
	thresholds := schema.ThresholdSpec{Warning: 10, Critical: 20}
	metrics := []schema.PerfMetric{
		schema.Thresholded("jobs_failed", 5, thresholds),
		schema.Counter("jobs_ok", 95),
		schema.Bounded("vms_protected", 12, 40),
		schema.Gauge("status", 2),
		schema.Percent("success_rate", 93.13725490196079),
		{Name: "response_time", Value: 15, Unit: "ms", Min: schema.Int(0)},
		{Name: "negative", Value: -3.5, Warn: schema.Float(0.25)},
		{Name: "big", Value: 1234567890123, Max: schema.Float(1e15)},
		{Name: "with space", Value: 1},
	}

	_, line := FormatVerdict(schema.Verdict{Severity: schema.SeverityOK, Message: "round trip", Metrics: metrics})
	_, block, found := strings.Cut(line, "|")
	require.True(t, found)

	parsed, err := ParsePerfData(block)
	require.NoError(t, err)
	if diff := cmp.Diff(metrics, parsed); diff != "" {
		t.Errorf("ParsePerfData() mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePerfDataShortForms(t *testing.T) {
	parsed, err := ParsePerfData("  a=1  b=2s;5 ")
	require.NoError(t, err)
	want := []schema.PerfMetric{
		{Name: "a", Value: 1},
		{Name: "b", Value: 2, Unit: "s", Warn: schema.Float(5)},
	}
	if diff := cmp.Diff(want, parsed); diff != "" {
		t.Errorf("ParsePerfData() mismatch (-want +got):\n%s", diff)
	}

	empty, err := ParsePerfData("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParsePerfDataErrors(t *testing.T) {
	tests := map[string]string{
		"missing equals":     "novalue",
		"missing name":       "=1",
		"non numeric value":  "x=abc",
		"non numeric bound":  "x=1;a",
		"too many fields":    "x=1;;;;;",
		"unterminated quote": "'open=1",
	}
	for name, block := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePerfData(block)
			assert.Error(t, err)
		})
	}
}

func TestSplitUnit(t *testing.T) {
	tests := []struct{ in, value, unit string }{
		{"15ms", "15", "ms"},
		{"93.5%", "93.5", "%"},
		{"-3", "-3", ""},
		{"42", "42", ""},
		{"KB", "", "KB"},
	}
	for _, tt := range tests {
		value, unit := splitUnit(tt.in)
		assert.Equal(t, tt.value, value, tt.in)
		assert.Equal(t, tt.unit, unit, tt.in)
	}
}
