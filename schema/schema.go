// Package schema has the models, constants and input validators shared by all parts of check-hycu.
package schema

import (
	"slices"
	"time"
)

// Entity is a record returned by the controller, decoded into a common shape.
// Fields that an endpoint does not carry stay at their zero value.
type Entity struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Kind                ObjectKind `json:"kind"`
	Type                string     `json:"type,omitempty"`       // native type, e.g. FULL or BACKUP_VALIDATION
	Status              Status     `json:"status"`               // normalized status
	RawStatus           string     `json:"raw_status,omitempty"` // controller's own word, e.g. FATAL or GREEN
	Protocols           []Protocol `json:"protocols,omitempty"`
	ProtectionGroupName string     `json:"protection_group_name,omitempty"`
	Timestamp           time.Time  `json:"timestamp,omitzero"` // zero when the endpoint has none
	Protection          Protection `json:"protection,omitempty"`
	Compliance          Compliance `json:"compliance,omitempty"`
	ArchivesOK          int        `json:"archives_ok,omitempty"`
	ArchivesFailed      int        `json:"archives_failed,omitempty"`
}

// HasProtocol reports whether the entity is reachable through any of the given protocols.
func (e Entity) HasProtocol(protocols ...Protocol) bool {
	for _, p := range protocols {
		if slices.Contains(e.Protocols, p) {
			return true
		}
	}
	return false
}

// PolicyGroup is the compliance figure of one object kind inside a policy.
type PolicyGroup struct {
	Kind         ObjectKind `json:"kind"`
	Total        int        `json:"total"`
	Compliant    int        `json:"compliant"`
	NonCompliant int        `json:"non_compliant"`
}

// PolicyDetail is the detailed view of one policy.
type PolicyDetail struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Compliance Status        `json:"compliance"`
	RawStatus  string        `json:"raw_status"`
	Groups     []PolicyGroup `json:"groups"`
}

// Group returns the figure for a kind, or an empty group when the policy has none.
func (p PolicyDetail) Group(kind ObjectKind) PolicyGroup {
	for _, g := range p.Groups {
		if g.Kind == kind {
			return g
		}
	}
	return PolicyGroup{Kind: kind}
}

// Dashboard holds the VM counters of the manager dashboard.
type Dashboard struct {
	Total           int `json:"total"`
	Protected       int `json:"protected"`
	Unprotected     int `json:"unprotected"`
	CompliantGreen  int `json:"compliant_green"`
	CompliantRed    int `json:"compliant_red"`
	CompliantGrey   int `json:"compliant_grey"`
	CompliantYellow int `json:"compliant_yellow"`
}

// License is the controller license. DaysLeft is what the controller reports;
// the license check computes its own figure from ExpiresAt when present.
type License struct {
	Company         string    `json:"company"`
	Type            string    `json:"type"`
	Status          string    `json:"status"`
	DaysLeft        int       `json:"days_left"`
	ExpiresAt       time.Time `json:"expires_at,omitzero"`
	LicensedVMs     int       `json:"licensed_vms"`
	ProtectedVMs    int       `json:"protected_vms"`
	LicensedSockets int       `json:"licensed_sockets"`
	ActualSockets   int       `json:"actual_sockets"`
}

// Controller is the controller identity shown by the version check.
type Controller struct {
	Name            string `json:"name"`
	SoftwareVersion string `json:"software_version"`
	BuildVersion    string `json:"build_version"`
	Hypervisor      string `json:"hypervisor"`
}

// PerfMetric is one performance data item. Nil bounds render as empty fields.
type PerfMetric struct {
	Name  string   `json:"name"`
	Value float64  `json:"value"`
	Unit  string   `json:"unit,omitempty"`
	Warn  *float64 `json:"warn,omitempty"`
	Crit  *float64 `json:"crit,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

// Verdict is the terminal result of one evaluation.
type Verdict struct {
	Check    CheckType    `json:"check"`
	Severity Severity     `json:"severity"`
	Message  string       `json:"message"`
	Metrics  []PerfMetric `json:"metrics"`
	Details  []string     `json:"details,omitempty"` // long output, printed in verbose mode
}

// Float returns a pointer to v, for optional PerfMetric bounds.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to float64(v), for optional PerfMetric bounds.
func Int(v int) *float64 {
	return Float(float64(v))
}

// Counter builds a metric with a zero minimum and no thresholds, the most common shape.
func Counter(name string, value int) PerfMetric {
	return PerfMetric{Name: name, Value: float64(value), Min: Int(0)}
}

// Bounded builds a counter with a known maximum.
func Bounded(name string, value, maxValue int) PerfMetric {
	m := Counter(name, value)
	m.Max = Int(maxValue)
	return m
}

// Gauge builds a metric without any bound.
func Gauge(name string, value int) PerfMetric {
	return PerfMetric{Name: name, Value: float64(value)}
}

// Thresholded builds a counter carrying the check's warning and critical levels.
func Thresholded(name string, value int, t ThresholdSpec) PerfMetric {
	m := Counter(name, value)
	m.Warn = Float(t.Warning)
	m.Crit = Float(t.Critical)
	return m
}

// Percent builds a 0-100 percentage metric.
func Percent(name string, value float64) PerfMetric {
	return PerfMetric{Name: name, Value: value, Unit: "%", Min: Int(0), Max: Int(100)}
}
