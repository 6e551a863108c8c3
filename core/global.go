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

// maxUnassignedNames bounds the names listed per kind in the long output.
const maxUnassignedNames = 10

func evaluateLicense(ctx context.Context, req Request) (schema.Verdict, error) {
	if err := requireSource(req); err != nil {
		return schema.Verdict{}, err
	}
	lic, err := req.Source.License(ctx)
	if err != nil {
		return schema.Verdict{}, fmt.Errorf("get license: %w", err)
	}
	if lic == nil {
		return schema.Verdict{Severity: schema.SeverityCritical, Message: "No license information found"}, nil
	}

	daysLeft := licenseDaysLeft(*lic, req.Now)
	expires := "N/A"
	if !lic.ExpiresAt.IsZero() {
		expires = lic.ExpiresAt.Local().Format(time.DateOnly)
	}
	th := req.Config.Thresholds

	return schema.Verdict{
		Severity: ResolveState(float64(daysLeft), th),
		Message: fmt.Sprintf("License '%s' - %d days left (expires %s), Status: %s, VMs: %d/%d, Sockets: %d/%d",
			orNA(lic.Company), daysLeft, expires, orNA(lic.Status),
			lic.ProtectedVMs, lic.LicensedVMs, lic.ActualSockets, lic.LicensedSockets),
		Metrics: []schema.PerfMetric{
			schema.Thresholded("days_left", daysLeft, th),
			schema.Bounded("vms_protected", lic.ProtectedVMs, lic.LicensedVMs),
			schema.Counter("vms_licensed", lic.LicensedVMs),
			schema.Bounded("sockets_actual", lic.ActualSockets, lic.LicensedSockets),
			schema.Counter("sockets_licensed", lic.LicensedSockets),
		},
	}, nil
}

// licenseDaysLeft floors the time to expiration in whole days, never below zero.
// Without an expiration date the controller's own count is used.
func licenseDaysLeft(lic schema.License, now time.Time) int {
	days := lic.DaysLeft
	if !lic.ExpiresAt.IsZero() {
		days = int(math.Floor(lic.ExpiresAt.Sub(now).Hours() / 24))
	}
	return max(days, 0)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func evaluateVersion(ctx context.Context, req Request) (schema.Verdict, error) {
	if err := requireSource(req); err != nil {
		return schema.Verdict{}, err
	}
	ctrl, err := req.Source.Controller(ctx)
	if err != nil {
		return schema.Verdict{}, fmt.Errorf("get controller: %w", err)
	}
	if ctrl == nil {
		return schema.Verdict{Severity: req.Config.EmptySeverity, Message: "Controller information not available"}, nil
	}
	return schema.Verdict{
		Severity: schema.SeverityOK,
		Message: fmt.Sprintf("HYCU Controller '%s' - Version %s (Build %s), Hypervisor: %s",
			orNA(ctrl.Name), orNA(ctrl.SoftwareVersion), orNA(ctrl.BuildVersion), orNA(ctrl.Hypervisor)),
	}, nil
}

func evaluateUnassigned(ctx context.Context, req Request) (schema.Verdict, error) {
	if err := requireSource(req); err != nil {
		return schema.Verdict{}, err
	}
	var all []schema.Entity

	vms, err := req.Source.VMs(ctx)
	if err != nil {
		return schema.Verdict{}, fmt.Errorf("list vms: %w", err)
	}
	all = append(all, vms...)

	shares, err := req.Source.Shares(ctx)
	if err != nil {
		return schema.Verdict{}, fmt.Errorf("list shares: %w", err)
	}
	storage := agg.ClassifyStorage(shares)
	all = append(all, storage.Shares...)
	all = append(all, storage.Buckets...)

	apps, err := req.Source.Applications(ctx)
	if err != nil {
		return schema.Verdict{}, fmt.Errorf("list applications: %w", err)
	}
	all = append(all, apps...)

	vgs, err := req.Source.VolumeGroups(ctx)
	if err != nil {
		return schema.Verdict{}, fmt.Errorf("list volume groups: %w", err)
	}
	all = append(all, vgs...)

	u := agg.GroupUnassigned(all)
	th := req.Config.Thresholds
	total := u.Total()
	log.Debug().Int("objects", len(all)).Int("unassigned", total).Int("unclassified_storage", len(storage.Unclassified)).Msg("Unassigned objects grouped")

	metrics := []schema.PerfMetric{schema.Thresholded("unassigned_total", total, th)}
	message := fmt.Sprintf("%d unassigned objects - ", total)
	var details []string
	for i, kind := range agg.UnassignedKinds {
		label := kindLabels[kind]
		if i > 0 {
			message += ", "
		}
		message += fmt.Sprintf("%d %s", u.Count(kind), label.message)
		metrics = append(metrics, schema.Counter("unassigned_"+label.metric, u.Count(kind)))
		if names := schema.SummarizeNames(schema.EntityNames(u.ByKind[kind]), maxUnassignedNames); names != "" {
			details = append(details, fmt.Sprintf("%s: %s", label.detail, names))
		}
	}

	return schema.Verdict{
		Severity: ResolveState(float64(total), th),
		Message:  message,
		Metrics:  metrics,
		Details:  details,
	}, nil
}
