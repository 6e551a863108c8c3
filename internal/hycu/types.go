package hycu

import (
	"strings"
	"time"

	"github.com/hycu-tools/check-hycu/schema"
)

// envelope is the common list response of the controller.
type envelope[T any] struct {
	Metadata struct {
		GrandTotalEntityCount int `json:"grandTotalEntityCount"`
	} `json:"metadata"`
	Entities []T `json:"entities"`
}

type vmResponse struct {
	UUID                string `json:"uuid"`
	VMName              string `json:"vmName"`
	ProtectionGroupName string `json:"protectionGroupName"`
}

type backupResponse struct {
	UUID                   string `json:"uuid"`
	VMName                 string `json:"vmName"`
	Status                 string `json:"status"`
	Type                   string `json:"type"`
	NumberOfArchives       int    `json:"numberOfArchives"`
	NumberOfFailedArchives int    `json:"numberOfFailedArchives"`
}

type targetResponse struct {
	UUID   string `json:"uuid"`
	Name   string `json:"name"`
	Health string `json:"health"`
}

// targetDetailResponse accepts both the bare object and the entities wrapper.
type targetDetailResponse struct {
	targetResponse
	Entities []targetResponse `json:"entities"`
}

func (r targetDetailResponse) target() targetResponse {
	if len(r.Entities) > 0 {
		return r.Entities[0]
	}
	return r.targetResponse
}

type namedResponse struct {
	UUID                string `json:"uuid"`
	Name                string `json:"name"`
	ProtectionGroupName string `json:"protectionGroupName"`
}

type shareResponse struct {
	UUID                string   `json:"uuid"`
	ShareName           string   `json:"shareName"`
	ProtocolTypeList    []string `json:"protocolTypeList"`
	Status              string   `json:"status"`
	CompliancyStatus    string   `json:"compliancyStatus"`
	ProtectionGroupName string   `json:"protectionGroupName"`
}

type policyResponse struct {
	UUID             string `json:"uuid"`
	Name             string `json:"name"`
	CompliancyStatus string `json:"compliancyStatus"`

	VmsCount            int `json:"vmsCount"`
	CompliantVmsCount   int `json:"compliantVmsCount"`
	UncompliantVmsCount int `json:"uncompliantVmsCount"`

	SharesCount            int `json:"sharesCount"`
	CompliantSharesCount   int `json:"compliantSharesCount"`
	UncompliantSharesCount int `json:"uncompliantSharesCount"`

	AppsCount            int `json:"appsCount"`
	CompliantAppsCount   int `json:"compliantAppsCount"`
	UncompliantAppsCount int `json:"uncompliantAppsCount"`

	BucketsCount            int `json:"bucketsCount"`
	CompliantBucketsCount   int `json:"compliantBucketsCount"`
	UncompliantBucketsCount int `json:"uncompliantBucketsCount"`

	VgsCount            int `json:"vgsCount"`
	CompliantVgsCount   int `json:"compliantVgsCount"`
	UncompliantVgsCount int `json:"uncompliantVgsCount"`
}

type dashboardResponse struct {
	TotalCount            int `json:"totalCount"`
	ProtectedCount        int `json:"protectedCount"`
	UnprotectedCount      int `json:"unprotectedCount"`
	CompliancyGreenCount  int `json:"compliancyGreenCount"`
	CompliancyRedCount    int `json:"compliancyRedCount"`
	CompliancyGreyCount   int `json:"compliancyGreyCount"`
	CompliancyYellowCount int `json:"compliancyYellowCount"`
}

type licenseResponse struct {
	CompanyName     string `json:"companyName"`
	Type            string `json:"type"`
	Status          string `json:"status"`
	DaysLeft        int    `json:"daysLeft"`
	ExpirationDate  int64  `json:"expirationDate"` // epoch milliseconds
	LicensedVms     int    `json:"licensedVms"`
	ProtectedVms    int    `json:"protectedVms"`
	LicensedSockets int    `json:"licensedSockets"`
	ActualSockets   int    `json:"actualSockets"`
}

type controllerResponse struct {
	ControllerVMName       string `json:"controllerVmName"`
	SoftwareVersion        string `json:"softwareVersion"`
	BuildVersion           string `json:"buildVersion"`
	ExternalHypervisorType string `json:"externalHypervisorType"`
}

type jobResponse struct {
	UUID      string `json:"uuid"`
	TaskName  string `json:"taskName"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	StartTime int64  `json:"startTime"` // epoch milliseconds
	EndTime   int64  `json:"endTime"`
}

func (r vmResponse) entity() schema.Entity {
	return schema.Entity{
		ID:                  r.UUID,
		Name:                r.VMName,
		Kind:                schema.VMKind,
		ProtectionGroupName: r.ProtectionGroupName,
	}
}

func (r backupResponse) entity() schema.Entity {
	return schema.Entity{
		ID:             r.UUID,
		Name:           r.VMName,
		Kind:           schema.BackupKind,
		Type:           r.Type,
		Status:         backupStatus(r.Status),
		RawStatus:      r.Status,
		ArchivesOK:     r.NumberOfArchives,
		ArchivesFailed: r.NumberOfFailedArchives,
	}
}

func (r targetResponse) entity() schema.Entity {
	return schema.Entity{
		ID:        r.UUID,
		Name:      r.Name,
		Kind:      schema.TargetKind,
		Status:    healthStatus(r.Health),
		RawStatus: r.Health,
	}
}

func (r namedResponse) entity(kind schema.ObjectKind) schema.Entity {
	return schema.Entity{
		ID:                  r.UUID,
		Name:                r.Name,
		Kind:                kind,
		ProtectionGroupName: r.ProtectionGroupName,
	}
}

// entity leaves Kind empty: shares and buckets share the endpoint and the classifier decides.
func (r shareResponse) entity() schema.Entity {
	protocols := make([]schema.Protocol, 0, len(r.ProtocolTypeList))
	for _, p := range r.ProtocolTypeList {
		protocols = append(protocols, schema.Protocol(strings.ToUpper(strings.TrimSpace(p))))
	}
	return schema.Entity{
		ID:                  r.UUID,
		Name:                r.ShareName,
		Protocols:           protocols,
		Protection:          schema.Protection(strings.ToUpper(r.Status)),
		Compliance:          compliance(r.CompliancyStatus),
		RawStatus:           r.CompliancyStatus,
		ProtectionGroupName: r.ProtectionGroupName,
	}
}

func (r policyResponse) entity() schema.Entity {
	return schema.Entity{
		ID:        r.UUID,
		Name:      r.Name,
		Kind:      schema.PolicyKind,
		Status:    policyStatus(r.CompliancyStatus),
		RawStatus: r.CompliancyStatus,
	}
}

func (r policyResponse) detail() schema.PolicyDetail {
	return schema.PolicyDetail{
		ID:         r.UUID,
		Name:       r.Name,
		Compliance: policyStatus(r.CompliancyStatus),
		RawStatus:  r.CompliancyStatus,
		Groups: []schema.PolicyGroup{
			{Kind: schema.VMKind, Total: r.VmsCount, Compliant: r.CompliantVmsCount, NonCompliant: r.UncompliantVmsCount},
			{Kind: schema.ShareKind, Total: r.SharesCount, Compliant: r.CompliantSharesCount, NonCompliant: r.UncompliantSharesCount},
			{Kind: schema.AppKind, Total: r.AppsCount, Compliant: r.CompliantAppsCount, NonCompliant: r.UncompliantAppsCount},
			{Kind: schema.BucketKind, Total: r.BucketsCount, Compliant: r.CompliantBucketsCount, NonCompliant: r.UncompliantBucketsCount},
			{Kind: schema.VolumeGroupKind, Total: r.VgsCount, Compliant: r.CompliantVgsCount, NonCompliant: r.UncompliantVgsCount},
		},
	}
}

func (r dashboardResponse) dashboard() schema.Dashboard {
	return schema.Dashboard{
		Total:           r.TotalCount,
		Protected:       r.ProtectedCount,
		Unprotected:     r.UnprotectedCount,
		CompliantGreen:  r.CompliancyGreenCount,
		CompliantRed:    r.CompliancyRedCount,
		CompliantGrey:   r.CompliancyGreyCount,
		CompliantYellow: r.CompliancyYellowCount,
	}
}

func (r licenseResponse) license() *schema.License {
	lic := &schema.License{
		Company:         r.CompanyName,
		Type:            r.Type,
		Status:          r.Status,
		DaysLeft:        r.DaysLeft,
		LicensedVMs:     r.LicensedVms,
		ProtectedVMs:    r.ProtectedVms,
		LicensedSockets: r.LicensedSockets,
		ActualSockets:   r.ActualSockets,
	}
	if r.ExpirationDate > 0 {
		lic.ExpiresAt = time.UnixMilli(r.ExpirationDate)
	}
	return lic
}

func (r controllerResponse) controller() *schema.Controller {
	return &schema.Controller{
		Name:            r.ControllerVMName,
		SoftwareVersion: r.SoftwareVersion,
		BuildVersion:    r.BuildVersion,
		Hypervisor:      r.ExternalHypervisorType,
	}
}

// entity dates a job by its start, falling back to its end.
func (r jobResponse) entity() schema.Entity {
	e := schema.Entity{
		ID:        r.UUID,
		Name:      r.TaskName,
		Kind:      schema.JobKind,
		Type:      r.Type,
		Status:    jobStatus(r.Status),
		RawStatus: strings.ToUpper(r.Status),
	}
	switch {
	case r.StartTime > 0:
		e.Timestamp = time.UnixMilli(r.StartTime)
	case r.EndTime > 0:
		e.Timestamp = time.UnixMilli(r.EndTime)
	}
	return e
}

func backupStatus(s string) schema.Status {
	switch strings.ToUpper(s) {
	case "OK":
		return schema.StatusOK
	case "WARNING":
		return schema.StatusWarning
	case "FATAL", "ERROR":
		return schema.StatusError
	default:
		return schema.StatusUnknown
	}
}

func healthStatus(s string) schema.Status {
	switch strings.ToUpper(s) {
	case "GREEN":
		return schema.StatusOK
	case "GREY", "GRAY":
		return schema.StatusWarning
	case "RED":
		return schema.StatusError
	default:
		return schema.StatusUnknown
	}
}

func policyStatus(s string) schema.Status {
	switch strings.ToUpper(s) {
	case "GREEN":
		return schema.StatusOK
	case "WARNING", "YELLOW":
		return schema.StatusWarning
	case "RED":
		return schema.StatusError
	default:
		return schema.StatusUnknown
	}
}

func jobStatus(s string) schema.Status {
	switch strings.ToUpper(s) {
	case "OK":
		return schema.StatusOK
	case "WARNING":
		return schema.StatusWarning
	case "ERROR":
		return schema.StatusError
	case "RUNNING", "QUEUED", "PENDING":
		return schema.StatusRunning
	default:
		return schema.StatusUnknown
	}
}

func compliance(s string) schema.Compliance {
	switch c := schema.Compliance(strings.ToUpper(s)); c {
	case "GRAY":
		return schema.ComplianceGrey
	default:
		return c
	}
}
