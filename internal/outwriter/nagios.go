package outwriter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hycu-tools/check-hycu/schema"
)

// messageReplacer keeps the human text on one line and free of the perfdata separator.
var messageReplacer = strings.NewReplacer("|", "/", "\r\n", " ", "\n", " ", "\r", " ")

// FormatVerdict renders the status line of a verdict and returns it with the exit code.
// The line is "<LABEL>: <message> |<metric> <metric>..."; the pipe is dropped when
// there are no metrics.
func FormatVerdict(v schema.Verdict) (int, string) {
	var sb strings.Builder
	sb.WriteString(v.Severity.String())
	sb.WriteString(": ")
	sb.WriteString(strings.TrimSpace(messageReplacer.Replace(v.Message)))
	if len(v.Metrics) > 0 {
		sb.WriteString(" |")
		sb.WriteString(FormatPerfData(v.Metrics))
	}
	return v.Severity.ExitCode(), sb.String()
}

// FormatPerfData renders the metrics block, space separated.
func FormatPerfData(metrics []schema.PerfMetric) string {
	parts := make([]string, 0, len(metrics))
	for _, m := range metrics {
		parts = append(parts, formatMetric(m))
	}
	return strings.Join(parts, " ")
}

// formatMetric renders name=value[unit];warn;crit;min;max, keeping every delimiter.
func formatMetric(m schema.PerfMetric) string {
	return fmt.Sprintf("%s=%s%s;%s;%s;%s;%s",
		formatLabel(m.Name),
		schema.FormatNumber(m.Value), m.Unit,
		formatBound(m.Warn), formatBound(m.Crit), formatBound(m.Min), formatBound(m.Max))
}

func formatLabel(name string) string {
	if strings.ContainsAny(name, " '=") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return schema.FormatNumber(*v)
}

// ParsePerfData reads back a metrics block produced by FormatPerfData.
func ParsePerfData(block string) ([]schema.PerfMetric, error) {
	var metrics []schema.PerfMetric
	rest := strings.TrimSpace(block)
	for rest != "" {
		item, remaining, err := nextPerfItem(rest)
		if err != nil {
			return nil, err
		}
		m, err := parseMetric(item)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
		rest = strings.TrimSpace(remaining)
	}
	return metrics, nil
}

// nextPerfItem splits off the first item, honoring quoted labels that contain spaces.
func nextPerfItem(s string) (item, rest string, err error) {
	if !strings.HasPrefix(s, "'") {
		if i := strings.IndexByte(s, ' '); i >= 0 {
			return s[:i], s[i+1:], nil
		}
		return s, "", nil
	}
	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			i++
			continue
		}
		end := strings.IndexByte(s[i:], ' ')
		if end < 0 {
			return s, "", nil
		}
		return s[:i+end], s[i+end+1:], nil
	}
	return "", "", fmt.Errorf("unterminated label in %q", s)
}

func parseMetric(item string) (schema.PerfMetric, error) {
	eq := strings.LastIndexByte(item, '=')
	if eq <= 0 {
		return schema.PerfMetric{}, fmt.Errorf("invalid perfdata item %q: missing '='", item)
	}
	name := item[:eq]
	if strings.HasPrefix(name, "'") && strings.HasSuffix(name, "'") && len(name) >= 2 {
		name = strings.ReplaceAll(name[1:len(name)-1], "''", "'")
	}

	fields := strings.Split(item[eq+1:], ";")
	if len(fields) > 5 {
		return schema.PerfMetric{}, fmt.Errorf("invalid perfdata item %q: too many fields", item)
	}
	for len(fields) < 5 {
		fields = append(fields, "")
	}

	value, unit := splitUnit(fields[0])
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return schema.PerfMetric{}, fmt.Errorf("invalid value for %s: %w", name, err)
	}
	m := schema.PerfMetric{Name: name, Value: v, Unit: unit}

	bounds := []**float64{&m.Warn, &m.Crit, &m.Min, &m.Max}
	for i, dst := range bounds {
		raw := fields[i+1]
		if raw == "" {
			continue
		}
		b, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return schema.PerfMetric{}, fmt.Errorf("invalid bound %d for %s: %w", i+1, name, err)
		}
		*dst = schema.Float(b)
	}
	return m, nil
}

// splitUnit separates the trailing unit of measure from a value such as "15ms" or "93.5%".
func splitUnit(s string) (value, unit string) {
	i := len(s)
	for i > 0 {
		c := s[i-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		i--
	}
	return s[:i], s[i:]
}
