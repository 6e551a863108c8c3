package core

import "github.com/hycu-tools/check-hycu/schema"

// Registry binds every check type to its evaluator.
var Registry = map[schema.CheckType]Evaluator{
	schema.VMCheck:               evaluateVM,
	schema.VMIDCheck:             evaluateVMID,
	schema.TargetCheck:           evaluateTarget,
	schema.ArchiveCheck:          evaluateArchive,
	schema.PolicyCheck:           evaluatePolicy,
	schema.PolicyAdvancedCheck:   evaluatePolicyAdvanced,
	schema.ManagerCheck:          evaluateManager,
	schema.JobsCheck:             evaluateJobs,
	schema.LicenseCheck:          evaluateLicense,
	schema.VersionCheck:          evaluateVersion,
	schema.SharesCheck:           evaluateShares,
	schema.BucketsCheck:          evaluateBuckets,
	schema.BackupValidationCheck: evaluateBackupValidation,
	schema.UnassignedCheck:       evaluateUnassigned,
	schema.PortCheck:             evaluatePort,
}

// ResolveState maps a metric to a severity. Boundaries are inclusive in both directions.
// It is the only place the threshold direction is interpreted.
func ResolveState(value float64, t schema.ThresholdSpec) schema.Severity {
	if t.Inverted {
		switch {
		case value <= t.Critical:
			return schema.SeverityCritical
		case value <= t.Warning:
			return schema.SeverityWarning
		default:
			return schema.SeverityOK
		}
	}
	switch {
	case value >= t.Critical:
		return schema.SeverityCritical
	case value >= t.Warning:
		return schema.SeverityWarning
	default:
		return schema.SeverityOK
	}
}
