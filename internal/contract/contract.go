// Package contract provides interfaces and shared utilities for check-hycu's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/hycu-tools/check-hycu/schema"
)

// Source defines the controller data the checks read.
// This allows the evaluation logic to be tested without a HYCU controller.
type Source interface {
	// --- Objects ---

	// VMs returns every virtual machine known to the controller.
	VMs(ctx context.Context) ([]schema.Entity, error)

	// VMBackups returns the backups of a VM, latest first.
	VMBackups(ctx context.Context, vmID string) ([]schema.Entity, error)

	// Targets returns every backup target.
	Targets(ctx context.Context) ([]schema.Entity, error)

	// Target returns the detail of one target, health carried in Status/RawStatus.
	Target(ctx context.Context, targetID string) (schema.Entity, error)

	// Applications returns every discovered application.
	Applications(ctx context.Context) ([]schema.Entity, error)

	// VolumeGroups returns every discovered volume group.
	VolumeGroups(ctx context.Context) ([]schema.Entity, error)

	// Shares returns the file shares and object buckets (one endpoint serves both).
	Shares(ctx context.Context) ([]schema.Entity, error)

	// --- Policies ---

	// Policies returns every policy, compliance in Status/RawStatus.
	Policies(ctx context.Context) ([]schema.Entity, error)

	// Policy returns the per-kind compliance detail of one policy.
	Policy(ctx context.Context, policyID string) (schema.PolicyDetail, error)

	// --- Global ---

	// Dashboard returns the VM counters of the manager dashboard.
	Dashboard(ctx context.Context) (schema.Dashboard, error)

	// Jobs returns the jobs reported between start and end.
	Jobs(ctx context.Context, start, end time.Time) ([]schema.Entity, error)

	// License returns the controller license, nil when the controller has none.
	License(ctx context.Context) (*schema.License, error)

	// Controller returns the controller identity, nil when unavailable.
	Controller(ctx context.Context) (*schema.Controller, error)
}

// ProbeOutcome is the result class of a TCP connectivity probe.
type ProbeOutcome string

// All probe outcomes.
const (
	ProbeOpen     ProbeOutcome = "open"
	ProbeClosed   ProbeOutcome = "closed"
	ProbeTimeout  ProbeOutcome = "timeout"
	ProbeDNSError ProbeOutcome = "dns"
)

// ProbeResult is what a PortProber observed.
type ProbeResult struct {
	Outcome ProbeOutcome
	Elapsed time.Duration
	Err     error
}

// PortProber defines a TCP connect attempt. It never talks HTTP and needs no token.
type PortProber interface {
	Probe(ctx context.Context, host string, port int, timeout time.Duration) ProbeResult
}
