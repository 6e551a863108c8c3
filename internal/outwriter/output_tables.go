package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/hycu-tools/check-hycu/internal/contract"
	"github.com/hycu-tools/check-hycu/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// checkRow is the listing shape of one check type.
type checkRow struct {
	Type        schema.CheckType     `json:"type"`
	Category    schema.CheckCategory `json:"category"`
	Name        string               `json:"name,omitempty"`
	Thresholds  string               `json:"thresholds,omitempty"`
	Description string               `json:"description"`
}

func checkRows(checks []schema.CheckInfo) []checkRow {
	rows := make([]checkRow, 0, len(checks))
	for _, c := range checks {
		rows = append(rows, checkRow{
			Type:        c.Type,
			Category:    c.Category,
			Name:        c.NameHint,
			Thresholds:  thresholdHint(c),
			Description: c.Description,
		})
	}
	return rows
}

// thresholdHint shows the default levels, "<" marking the checks that alert on low values.
func thresholdHint(c schema.CheckInfo) string {
	if !c.Thresholded {
		return ""
	}
	hint := fmt.Sprintf("%s/%s", schema.FormatNumber(c.Warning), schema.FormatNumber(c.Critical))
	if c.Inverted {
		hint = "<" + hint
	}
	return hint
}

// writeChecksTable prints the registry of check types.
func writeChecksTable(w io.Writer, checks []schema.CheckInfo, maxWidth int) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Type", "Category", "-n", "Warn/Crit", "Description"})

	// Room left for the description once the fixed columns are drawn.
	descWidth := max(maxWidth-70, 20)

	data := make([][]string, 0, len(checks))
	for _, r := range checkRows(checks) {
		data = append(data, []string{
			string(r.Type),
			string(r.Category),
			r.Name,
			r.Thresholds,
			truncate(r.Description, descWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to add checks to table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render checks table: %w", err)
	}
	return nil
}

// writeMetricsTable prints the verdict and its perfdata as a table, for verbose runs.
func writeMetricsTable(w io.Writer, v schema.Verdict, useColors bool) error {
	label := contract.GetPlainLabel(v.Severity)
	if useColors {
		label = contract.GetColorLabel(v.Severity)
	}
	if _, err := fmt.Fprintf(w, "%s %s: %d metric(s)\n", label, v.Check, len(v.Metrics)); err != nil {
		return err
	}
	if len(v.Metrics) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Metric", "Value", "Warn", "Crit", "Min", "Max"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(v.Metrics))
	for _, m := range v.Metrics {
		data = append(data, []string{
			m.Name,
			schema.FormatNumber(m.Value) + m.Unit,
			formatBound(m.Warn),
			formatBound(m.Crit),
			formatBound(m.Min),
			formatBound(m.Max),
		})
	}

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to add metrics to table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render metrics table: %w", err)
	}
	return nil
}

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 3 || len(runes) <= width {
		return s
	}
	return strings.TrimSpace(string(runes[:width-3])) + "..."
}
