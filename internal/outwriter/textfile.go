package outwriter

import (
	"fmt"

	"github.com/hycu-tools/check-hycu/schema"
	"github.com/prometheus/client_golang/prometheus"
)

// verdictCollectors are the gauges of one check run, for the node_exporter textfile collector.
type verdictCollectors struct {
	metric   *prometheus.GaugeVec
	severity *prometheus.GaugeVec
}

func newVerdictCollectors() *verdictCollectors {
	return &verdictCollectors{
		metric: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "hycu",
				Subsystem: "check",
				Name:      "metric",
				Help:      "Performance data reported by a HYCU check",
			},
			[]string{"check", "object", "metric"},
		),
		severity: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "hycu",
				Subsystem: "check",
				Name:      "severity",
				Help:      "Check result (0 = OK, 1 = WARNING, 2 = CRITICAL, 3 = UNKNOWN)",
			},
			[]string{"check", "object"},
		),
	}
}

// registry records the verdict into a fresh registry.
func (c *verdictCollectors) registry(v schema.Verdict, object string) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(c.metric, c.severity)

	check := string(v.Check)
	c.severity.WithLabelValues(check, object).Set(float64(v.Severity.ExitCode()))
	for _, m := range v.Metrics {
		c.metric.WithLabelValues(check, object, m.Name).Set(m.Value)
	}
	return reg
}

// WriteTextfile writes the verdict as Prometheus gauges to path. The file is replaced atomically.
func WriteTextfile(path string, v schema.Verdict, object string) error {
	reg := newVerdictCollectors().registry(v, object)
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("failed to write textfile %s: %w", path, err)
	}
	return nil
}
