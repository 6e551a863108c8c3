package core

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hycu-tools/check-hycu/core/agg"
	"github.com/hycu-tools/check-hycu/schema"
	"github.com/rs/zerolog/log"
)

// maxFailedDetails bounds the failed job list of the long output.
const maxFailedDetails = 10

// windowJobs fetches the jobs of the period and filters them again locally,
// so the result never depends on the server honoring the time range.
func windowJobs(ctx context.Context, req Request) ([]schema.Entity, error) {
	if err := requireSource(req); err != nil {
		return nil, err
	}
	period := req.Config.Period
	start := req.Now.Add(-time.Duration(period.Hours) * time.Hour)
	jobs, err := req.Source.Jobs(ctx, start, req.Now)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	filtered := agg.FilterPeriod(jobs, period, req.Now)
	log.Debug().
		Int("received", len(jobs)).
		Int("in_window", len(filtered)).
		Time("from", start).
		Time("to", req.Now).
		Msg("Jobs filtered")
	return filtered, nil
}

func evaluateJobs(ctx context.Context, req Request) (schema.Verdict, error) {
	jobs, err := windowJobs(ctx, req)
	if err != nil {
		return schema.Verdict{}, err
	}
	c := agg.CountJobs(jobs)
	th := req.Config.Thresholds
	failed := c.FailedCount()

	sev := ResolveState(float64(failed), th)
	if c.Total == 0 {
		sev = schema.SeverityOK
	}

	return schema.Verdict{
		Severity: sev,
		Message: fmt.Sprintf("HYCU jobs over %dh - %d failed (%d errors, %d warnings), %d successful, %d running",
			req.Config.Period.Hours, failed, c.Error, c.Warning, c.OK, c.Running),
		Metrics: []schema.PerfMetric{
			schema.Counter("jobs_ok", c.OK),
			schema.Counter("jobs_warning", c.Warning),
			schema.Counter("jobs_error", c.Error),
			schema.Thresholded("jobs_failed", failed, th),
			schema.Counter("jobs_running", c.Running),
			schema.Percent("success_rate", c.SuccessRate()),
		},
		Details: failedJobDetails(c.Failed),
	}, nil
}

func failedJobDetails(failed []schema.Entity) []string {
	if len(failed) == 0 {
		return nil
	}
	details := []string{"Failed Jobs Details:"}
	for i, j := range failed {
		if i == maxFailedDetails {
			details = append(details, fmt.Sprintf("  ... and %d more failed jobs", len(failed)-maxFailedDetails))
			break
		}
		details = append(details, fmt.Sprintf("  - [%s] %s (Type: %s)", statusWord(j), displayName(j, j.ID), j.Type))
	}
	return details
}

func evaluateBackupValidation(ctx context.Context, req Request) (schema.Verdict, error) {
	jobs, err := windowJobs(ctx, req)
	if err != nil {
		return schema.Verdict{}, err
	}
	c := agg.CountJobs(agg.FilterValidationJobs(jobs))
	th := req.Config.Thresholds
	failed := c.FailedCount()

	sev := ResolveState(float64(failed), th)
	if c.Total == 0 {
		sev = schema.SeverityOK
	}

	return schema.Verdict{
		Severity: sev,
		Message: fmt.Sprintf("Backup validations over %dh - %d failed (%d errors, %d warnings), %d successful, %d running",
			req.Config.Period.Hours, failed, c.Error, c.Warning, c.OK, c.Running),
		Metrics: []schema.PerfMetric{
			schema.Counter("validations_total", c.Total),
			schema.Counter("validations_ok", c.OK),
			schema.Thresholded("validations_failed", failed, th),
			schema.Counter("validations_running", c.Running),
			schema.Percent("success_rate", c.SuccessRate()),
		},
		Details: failedJobDetails(c.Failed),
	}, nil
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
