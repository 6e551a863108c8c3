package core

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hycu-tools/check-hycu/core/agg"
	"github.com/hycu-tools/check-hycu/schema"
	"github.com/rs/zerolog/log"
)

// kindLabels are the plural labels used in messages and metric names.
var kindLabels = map[schema.ObjectKind]struct{ message, metric, detail string }{
	schema.VMKind:          {"VMs", "vms", "VMs"},
	schema.ShareKind:       {"shares", "shares", "Shares"},
	schema.AppKind:         {"apps", "apps", "Applications"},
	schema.BucketKind:      {"buckets", "buckets", "Buckets"},
	schema.VolumeGroupKind: {"VGs", "vgs", "Volume Groups"},
}

func evaluatePolicyAdvanced(ctx context.Context, req Request) (schema.Verdict, error) {
	detail, err := lookupPolicy(ctx, req)
	if err != nil {
		return schema.Verdict{}, err
	}

	groups := make([]schema.PolicyGroup, 0, len(agg.PolicyKinds))
	for _, kind := range agg.PolicyKinds {
		groups = append(groups, detail.Group(kind))
	}
	totals := agg.SumPolicyGroups(groups)
	rate := totals.ComplianceRate()
	th := req.Config.Thresholds

	message := fmt.Sprintf("Policy '%s' - %d/%d objects compliant (", detail.Name, totals.Compliant, totals.Total)
	metrics := []schema.PerfMetric{
		schema.Counter("total_objects", totals.Total),
		schema.Counter("compliant", totals.Compliant),
		schema.Thresholded("uncompliant", totals.NonCompliant, th),
	}
	details := []string{"Detailed Breakdown:"}
	for i, g := range groups {
		label := kindLabels[g.Kind]
		if i > 0 {
			message += ", "
		}
		message += fmt.Sprintf("%d/%d %s", g.Compliant, g.Total, label.message)
		metrics = append(metrics,
			schema.Bounded(label.metric+"_compliant", g.Compliant, g.Total),
			schema.Bounded(label.metric+"_uncompliant", g.NonCompliant, g.Total),
		)
		if g.Kind != schema.VolumeGroupKind || g.Total > 0 {
			details = append(details, fmt.Sprintf("  %s: %d/%d compliant", label.detail, g.Compliant, g.Total))
		}
	}
	message += ")"
	metrics = append(metrics, schema.Percent("compliance_rate", roundTo(rate, 2)))
	details = append(details, fmt.Sprintf("  Compliance Rate: %s%%", strconv.FormatFloat(rate, 'f', 1, 64)))

	return schema.Verdict{
		Severity: ResolveState(float64(totals.NonCompliant), th),
		Message:  message,
		Metrics:  metrics,
		Details:  details,
	}, nil
}

func evaluateManager(ctx context.Context, req Request) (schema.Verdict, error) {
	if err := requireSource(req); err != nil {
		return schema.Verdict{}, err
	}
	dash, err := req.Source.Dashboard(ctx)
	if err != nil {
		return schema.Verdict{}, fmt.Errorf("get dashboard: %w", err)
	}
	if req.Config.ManagerMode == schema.ManagerCompliance {
		return managerCompliance(dash, req.Config.Thresholds), nil
	}
	return managerProtected(dash, req.Config.EmptySeverity, req.Config.CriticalOn), nil
}

// managerProtected carries no caller thresholds: OK unless nothing is reported
// or the unprotected count reaches the configured critical rule.
func managerProtected(dash schema.Dashboard, empty schema.Severity, criticalOn string) schema.Verdict {
	sev := schema.SeverityOK
	switch {
	case dash.Total == 0:
		sev = empty
	case criticalOn == schema.CriticalOnAny && dash.Unprotected > 0:
		sev = schema.SeverityCritical
	case dash.Unprotected >= dash.Total:
		sev = schema.SeverityCritical
	}
	return schema.Verdict{
		Severity: sev,
		Message:  fmt.Sprintf("%d VMs not protected out of %d total", dash.Unprotected, dash.Total),
		Metrics: []schema.PerfMetric{
			schema.Bounded("vms_unprotected", dash.Unprotected, dash.Total),
			schema.Bounded("vms_protected", dash.Protected, dash.Total),
			schema.Counter("vms_total", dash.Total),
		},
	}
}

func managerCompliance(dash schema.Dashboard, th schema.ThresholdSpec) schema.Verdict {
	return schema.Verdict{
		Severity: ResolveState(float64(dash.CompliantRed), th),
		Message:  fmt.Sprintf("%d VMs with non-compliant backups", dash.CompliantRed),
		Metrics: []schema.PerfMetric{
			schema.Thresholded("vms_noncompliant", dash.CompliantRed, th),
			schema.Counter("vms_compliant", dash.CompliantGreen),
			schema.Counter("vms_unknown", dash.CompliantGrey),
		},
	}
}

func evaluateShares(ctx context.Context, req Request) (schema.Verdict, error) {
	groups, err := storageGroups(ctx, req)
	if err != nil {
		return schema.Verdict{}, err
	}
	return storageVerdict("Shares (NFS/SMB)", "shares", groups.Shares, req.Config.Thresholds), nil
}

func evaluateBuckets(ctx context.Context, req Request) (schema.Verdict, error) {
	groups, err := storageGroups(ctx, req)
	if err != nil {
		return schema.Verdict{}, err
	}
	return storageVerdict("Buckets (S3)", "buckets", groups.Buckets, req.Config.Thresholds), nil
}

func storageGroups(ctx context.Context, req Request) (agg.StorageGroups, error) {
	if err := requireSource(req); err != nil {
		return agg.StorageGroups{}, err
	}
	shares, err := req.Source.Shares(ctx)
	if err != nil {
		return agg.StorageGroups{}, fmt.Errorf("list shares: %w", err)
	}
	groups := agg.ClassifyStorage(shares)
	log.Debug().
		Int("shares", len(groups.Shares)).
		Int("buckets", len(groups.Buckets)).
		Int("unclassified", len(groups.Unclassified)).
		Strs("unclassified_names", firstNames(groups.Unclassified, 10)).
		Msg("Storage classified")
	return groups, nil
}

func storageVerdict(title, prefix string, entities []schema.Entity, th schema.ThresholdSpec) schema.Verdict {
	c := agg.CountCompliance(entities)
	return schema.Verdict{
		Severity: ResolveState(float64(c.NonCompliant), th),
		Message: fmt.Sprintf("%s - %d/%d compliant, %d non-compliant, %d unprotected",
			title, c.Compliant, c.Total, c.NonCompliant, c.Unprotected),
		Metrics: []schema.PerfMetric{
			schema.Counter(prefix+"_total", c.Total),
			schema.Counter(prefix+"_compliant", c.Compliant),
			schema.Thresholded(prefix+"_non_compliant", c.NonCompliant, th),
			schema.Counter(prefix+"_unprotected", c.Unprotected),
		},
	}
}
