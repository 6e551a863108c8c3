package core

import (
	"context"
	"fmt"

	"github.com/hycu-tools/check-hycu/schema"
)

// Archive states of the last backup.
const (
	archiveOK      = "OK"
	archiveFailed  = "FAILED"
	archiveMissing = "MISSING"
)

func evaluateVM(ctx context.Context, req Request) (schema.Verdict, error) {
	vm, err := lookupVM(ctx, req, false)
	if err != nil {
		return schema.Verdict{}, err
	}
	return vmBackupVerdict(ctx, req, vm)
}

func evaluateVMID(ctx context.Context, req Request) (schema.Verdict, error) {
	vm, err := lookupVM(ctx, req, true)
	if err != nil {
		return schema.Verdict{}, err
	}
	return vmBackupVerdict(ctx, req, vm)
}

func lookupVM(ctx context.Context, req Request, byID bool) (schema.Entity, error) {
	if err := requireSource(req); err != nil {
		return schema.Entity{}, err
	}
	vms, err := req.Source.VMs(ctx)
	if err != nil {
		return schema.Entity{}, fmt.Errorf("list vms: %w", err)
	}
	if byID {
		return findByID(vms, req.Config.Name)
	}
	return findByName(vms, req.Config.Name)
}

// latestBackup returns the first backup of a VM, which the controller sorts latest first.
func latestBackup(ctx context.Context, req Request, vm schema.Entity) (schema.Entity, bool, error) {
	backups, err := req.Source.VMBackups(ctx, vm.ID)
	if err != nil {
		return schema.Entity{}, false, fmt.Errorf("list backups of %s: %w", vm.Name, err)
	}
	if len(backups) == 0 {
		return schema.Entity{}, false, nil
	}
	return backups[0], true, nil
}

func vmBackupVerdict(ctx context.Context, req Request, vm schema.Entity) (schema.Verdict, error) {
	name := displayName(vm, req.Config.Name)
	backup, ok, err := latestBackup(ctx, req, vm)
	if err != nil {
		return schema.Verdict{}, err
	}
	if !ok {
		return schema.Verdict{
			Severity: schema.SeverityCritical,
			Message:  fmt.Sprintf("%s has no backups", name),
			Metrics:  []schema.PerfMetric{schema.Gauge("backup_status", 0)},
		}, nil
	}
	return schema.Verdict{
		Severity: schema.SeverityFromStatus(backup.Status),
		Message:  fmt.Sprintf("%s is %s for last %s", name, statusWord(backup), backup.Type),
		Metrics:  []schema.PerfMetric{schema.Gauge("backup_status", schema.StatusGauge(backup.Status))},
	}, nil
}

func evaluateTarget(ctx context.Context, req Request) (schema.Verdict, error) {
	if err := requireSource(req); err != nil {
		return schema.Verdict{}, err
	}
	targets, err := req.Source.Targets(ctx)
	if err != nil {
		return schema.Verdict{}, fmt.Errorf("list targets: %w", err)
	}
	target, err := findByName(targets, req.Config.Name)
	if err != nil {
		return schema.Verdict{}, err
	}
	detail, err := req.Source.Target(ctx, target.ID)
	if err != nil {
		return schema.Verdict{}, fmt.Errorf("get target %s: %w", target.Name, err)
	}
	if detail.Name == "" {
		detail.Name = target.Name
	}
	return schema.Verdict{
		Severity: schema.SeverityFromStatus(detail.Status),
		Message:  fmt.Sprintf("%s is %s", displayName(detail, req.Config.Name), statusWord(detail)),
		Metrics:  []schema.PerfMetric{schema.Gauge("target_health", schema.StatusGauge(detail.Status))},
	}, nil
}

func evaluateArchive(ctx context.Context, req Request) (schema.Verdict, error) {
	vm, err := lookupVM(ctx, req, false)
	if err != nil {
		return schema.Verdict{}, err
	}
	name := displayName(vm, req.Config.Name)
	backup, ok, err := latestBackup(ctx, req, vm)
	if err != nil {
		return schema.Verdict{}, err
	}
	if !ok {
		return schema.Verdict{
			Severity: schema.SeverityCritical,
			Message:  fmt.Sprintf("%s has no backups", name),
			Metrics:  []schema.PerfMetric{schema.Gauge("archive_status", 0)},
		}, nil
	}

	state, sev, gauge := archiveState(backup)
	return schema.Verdict{
		Severity: sev,
		Message:  fmt.Sprintf("%s archive is %s for last %s", name, state, backup.Type),
		Metrics: []schema.PerfMetric{
			schema.Gauge("archive_status", gauge),
			schema.Gauge("archives_ok", backup.ArchivesOK),
			schema.Gauge("archives_failed", backup.ArchivesFailed),
		},
	}, nil
}

// archiveState ranks a failed archive above a successful one.
func archiveState(backup schema.Entity) (string, schema.Severity, int) {
	switch {
	case backup.ArchivesFailed >= 1:
		return archiveFailed, schema.SeverityCritical, 0
	case backup.ArchivesOK >= 1:
		return archiveOK, schema.SeverityOK, 2
	default:
		return archiveMissing, schema.SeverityWarning, 1
	}
}

// lookupPolicy resolves a policy by name and loads its detail.
func lookupPolicy(ctx context.Context, req Request) (schema.PolicyDetail, error) {
	if err := requireSource(req); err != nil {
		return schema.PolicyDetail{}, err
	}
	policies, err := req.Source.Policies(ctx)
	if err != nil {
		return schema.PolicyDetail{}, fmt.Errorf("list policies: %w", err)
	}
	policy, err := findByName(policies, req.Config.Name)
	if err != nil {
		return schema.PolicyDetail{}, err
	}
	detail, err := req.Source.Policy(ctx, policy.ID)
	if err != nil {
		return schema.PolicyDetail{}, fmt.Errorf("get policy %s: %w", policy.Name, err)
	}
	if detail.Name == "" {
		detail.Name = policy.Name
	}
	return detail, nil
}

func evaluatePolicy(ctx context.Context, req Request) (schema.Verdict, error) {
	detail, err := lookupPolicy(ctx, req)
	if err != nil {
		return schema.Verdict{}, err
	}
	compliantVMs := detail.Group(schema.VMKind).Compliant
	word := detail.RawStatus
	if word == "" {
		word = string(detail.Compliance)
	}
	return schema.Verdict{
		Severity: schema.SeverityFromStatus(detail.Compliance),
		Message:  fmt.Sprintf("%s is %s including %d VMs", detail.Name, word, compliantVMs),
		Metrics: []schema.PerfMetric{
			schema.Gauge("policy_status", schema.StatusGauge(detail.Compliance)),
			schema.Gauge("compliant_vms", compliantVMs),
		},
	}, nil
}
