package agg

import (
	"github.com/hycu-tools/check-hycu/schema"
)

// StorageGroups is the protocol partition of the shares endpoint.
type StorageGroups struct {
	Shares       []schema.Entity
	Buckets      []schema.Entity
	Unclassified []schema.Entity
}

// ClassifyStorage splits storage entities by protocol. NFS or SMB wins over S3
// when an entity exposes both, so each entity lands in exactly one group.
func ClassifyStorage(entities []schema.Entity) StorageGroups {
	var groups StorageGroups
	for _, e := range entities {
		switch {
		case e.HasProtocol(schema.NFSProtocol, schema.SMBProtocol):
			e.Kind = schema.ShareKind
			groups.Shares = append(groups.Shares, e)
		case e.HasProtocol(schema.S3Protocol):
			e.Kind = schema.BucketKind
			groups.Buckets = append(groups.Buckets, e)
		default:
			groups.Unclassified = append(groups.Unclassified, e)
		}
	}
	return groups
}

// UnassignedKinds is the display order of the unassigned breakdown.
var UnassignedKinds = []schema.ObjectKind{
	schema.VMKind,
	schema.ShareKind,
	schema.BucketKind,
	schema.AppKind,
	schema.VolumeGroupKind,
}

// UnassignedCounts holds the objects without a protection group, per kind.
type UnassignedCounts struct {
	ByKind map[schema.ObjectKind][]schema.Entity
}

// Total is the number of unassigned objects across all kinds.
func (u UnassignedCounts) Total() int {
	total := 0
	for _, entities := range u.ByKind {
		total += len(entities)
	}
	return total
}

// Count is the number of unassigned objects of one kind.
func (u UnassignedCounts) Count(kind schema.ObjectKind) int {
	return len(u.ByKind[kind])
}

// GroupUnassigned collects entities with an empty protection group name, keyed by kind.
// Entities of a kind outside UnassignedKinds are ignored.
func GroupUnassigned(entities []schema.Entity) UnassignedCounts {
	counts := UnassignedCounts{ByKind: make(map[schema.ObjectKind][]schema.Entity, len(UnassignedKinds))}
	known := make(map[schema.ObjectKind]bool, len(UnassignedKinds))
	for _, k := range UnassignedKinds {
		known[k] = true
	}
	for _, e := range entities {
		if e.ProtectionGroupName != "" || !known[e.Kind] {
			continue
		}
		counts.ByKind[e.Kind] = append(counts.ByKind[e.Kind], e)
	}
	return counts
}

// ComplianceCounts is the protection breakdown of shares or buckets.
// Entities in an UNDEFINED protection state are not counted at all.
type ComplianceCounts struct {
	Total        int
	Protected    int
	Compliant    int
	NonCompliant int
	Unprotected  int
}

// CountCompliance tallies compliant, non-compliant and unprotected storage entities.
func CountCompliance(entities []schema.Entity) ComplianceCounts {
	var counts ComplianceCounts
	for _, e := range entities {
		switch e.Protection {
		case schema.Protected:
			counts.Total++
			counts.Protected++
			switch e.Compliance {
			case schema.ComplianceGreen:
				counts.Compliant++
			case schema.ComplianceRed, schema.ComplianceYellow:
				counts.NonCompliant++
			}
		case schema.Unprotected:
			counts.Total++
			counts.Unprotected++
		}
	}
	return counts
}

// PolicyTotals is the sum of the per-kind groups of a policy.
type PolicyTotals struct {
	Total        int
	Compliant    int
	NonCompliant int
}

// PolicyKinds is the display order of the policy breakdown.
var PolicyKinds = []schema.ObjectKind{
	schema.VMKind,
	schema.ShareKind,
	schema.AppKind,
	schema.BucketKind,
	schema.VolumeGroupKind,
}

// SumPolicyGroups adds up the independently computed per-kind groups.
func SumPolicyGroups(groups []schema.PolicyGroup) PolicyTotals {
	var totals PolicyTotals
	for _, g := range groups {
		totals.Total += g.Total
		totals.Compliant += g.Compliant
		totals.NonCompliant += g.NonCompliant
	}
	return totals
}

// ComplianceRate is compliant/total as a percentage, 100 for an empty policy.
func (p PolicyTotals) ComplianceRate() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Compliant) / float64(p.Total) * 100
}
