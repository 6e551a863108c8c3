package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/hycu-tools/check-hycu/internal/contract"
	"github.com/hycu-tools/check-hycu/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// fixClock pins the evaluation clock for the duration of a test.
func fixClock(t *testing.T, now time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = prev })
}

// newTestConfig returns a validated-looking config for the given check.
func newTestConfig(check schema.CheckType, name string) *contract.Config {
	info, _ := schema.LookupCheck(check)
	return &contract.Config{
		Host:          "hycu.example.com",
		APIToken:      "secret-token",
		APIPort:       schema.DefaultAPIPort,
		Check:         check,
		Name:          name,
		ManagerMode:   schema.ManagerProtected,
		Port:          schema.DefaultProbePort,
		Thresholds:    schema.ThresholdSpec{Warning: info.Warning, Critical: info.Critical, Inverted: info.Inverted},
		Period:        schema.PeriodSpec{Hours: schema.DefaultPeriodHours},
		Timeout:       5 * time.Second,
		EmptySeverity: schema.SeverityUnknown,
		CriticalOn:    schema.CriticalOnAll,
		Output:        schema.NagiosOut,
	}
}

func metricByName(t *testing.T, v schema.Verdict, name string) schema.PerfMetric {
	t.Helper()
	for _, m := range v.Metrics {
		if m.Name == name {
			return m
		}
	}
	require.Failf(t, "metric not found", "no metric %q in %v", name, v.Metrics)
	return schema.PerfMetric{}
}

func metricNames(v schema.Verdict) []string {
	names := make([]string, 0, len(v.Metrics))
	for _, m := range v.Metrics {
		names = append(names, m.Name)
	}
	return names
}

func makeJobs(n int, status schema.Status, at time.Time, prefix string) []schema.Entity {
	jobs := make([]schema.Entity, 0, n)
	for i := range n {
		jobs = append(jobs, schema.Entity{
			ID:        fmt.Sprintf("%s-%d", prefix, i),
			Name:      fmt.Sprintf("%s job %d", prefix, i),
			Kind:      schema.JobKind,
			Type:      "BACKUP",
			Status:    status,
			RawStatus: string(status),
			Timestamp: at,
		})
	}
	return jobs
}

func TestRunJobsWithinThresholds(t *testing.T) {
	fixClock(t, testNow)
	cfg := newTestConfig(schema.JobsCheck, "")
	cfg.Thresholds = schema.ThresholdSpec{Warning: 10, Critical: 20}

	at := testNow.Add(-2 * time.Hour)
	var jobs []schema.Entity
	jobs = append(jobs, makeJobs(95, schema.StatusOK, at, "ok")...)
	jobs = append(jobs, makeJobs(4, schema.StatusError, at, "err")...)
	jobs = append(jobs, makeJobs(1, schema.StatusWarning, at, "warn")...)
	jobs = append(jobs, makeJobs(2, schema.StatusRunning, at, "run")...)

	src := new(contract.MockSource)
	src.On("Jobs", mock.Anything, testNow.Add(-24*time.Hour), testNow).Return(jobs, nil)

	v := Run(context.Background(), cfg, src, nil)

	assert.Equal(t, schema.SeverityOK, v.Severity)
	assert.Equal(t, schema.JobsCheck, v.Check)
	assert.Equal(t, "HYCU jobs over 24h - 5 failed (4 errors, 1 warnings), 95 successful, 2 running", v.Message)
	failed := metricByName(t, v, "jobs_failed")
	assert.Equal(t, 5.0, failed.Value)
	assert.Equal(t, 10.0, *failed.Warn)
	assert.Equal(t, 20.0, *failed.Crit)
	assert.Equal(t, 93.14, metricByName(t, v, "success_rate").Value)
	assert.Equal(t, []string{"jobs_ok", "jobs_warning", "jobs_error", "jobs_failed", "jobs_running", "success_rate"}, metricNames(v))
	require.NotEmpty(t, v.Details)
	assert.Equal(t, "Failed Jobs Details:", v.Details[0])
	src.AssertExpectations(t)
}

func TestRunLicenseExpiringSoon(t *testing.T) {
	fixClock(t, testNow)
	cfg := newTestConfig(schema.LicenseCheck, "")

	src := new(contract.MockSource)
	src.On("License", mock.Anything).Return(&schema.License{
		Company:         "Acme",
		Status:          "VALID",
		ExpiresAt:       testNow.Add(15 * 24 * time.Hour),
		LicensedVMs:     100,
		ProtectedVMs:    42,
		LicensedSockets: 8,
		ActualSockets:   6,
	}, nil)

	v := Run(context.Background(), cfg, src, nil)

	assert.Equal(t, schema.SeverityWarning, v.Severity)
	assert.Contains(t, v.Message, "License 'Acme' - 15 days left")
	assert.Contains(t, v.Message, "VMs: 42/100, Sockets: 6/8")
	days := metricByName(t, v, "days_left")
	assert.Equal(t, 15.0, days.Value)
	assert.Equal(t, 30.0, *days.Warn)
	assert.Equal(t, 7.0, *days.Crit)
	assert.Equal(t, 100.0, *metricByName(t, v, "vms_protected").Max)
}

func TestRunUnassignedObjects(t *testing.T) {
	cfg := newTestConfig(schema.UnassignedCheck, "")
	cfg.Thresholds = schema.ThresholdSpec{Warning: 5, Critical: 10}

	src := new(contract.MockSource)
	src.On("VMs", mock.Anything).Return([]schema.Entity{
		{ID: "vm-1", Name: "web-01", Kind: schema.VMKind},
		{ID: "vm-2", Name: "web-02", Kind: schema.VMKind},
		{ID: "vm-3", Name: "db-01", Kind: schema.VMKind},
		{ID: "vm-4", Name: "db-02", Kind: schema.VMKind, ProtectionGroupName: "Gold"},
	}, nil)
	src.On("Shares", mock.Anything).Return([]schema.Entity{
		{ID: "sh-1", Name: "home", Protocols: []schema.Protocol{schema.NFSProtocol}},
		{ID: "sh-2", Name: "public", Protocols: []schema.Protocol{schema.SMBProtocol}},
		{ID: "bk-1", Name: "archive", Protocols: []schema.Protocol{schema.S3Protocol}, ProtectionGroupName: "Silver"},
	}, nil)
	src.On("Applications", mock.Anything).Return([]schema.Entity{
		{ID: "app-1", Name: "sql", Kind: schema.AppKind},
	}, nil)
	src.On("VolumeGroups", mock.Anything).Return([]schema.Entity{}, nil)

	v := Run(context.Background(), cfg, src, nil)

	// Thresholds are inclusive: 6 reaches the warning level of 5.
	assert.Equal(t, schema.SeverityWarning, v.Severity)
	assert.Equal(t, "6 unassigned objects - 3 VMs, 2 shares, 0 buckets, 1 apps, 0 VGs", v.Message)
	assert.Equal(t, []string{
		"unassigned_total", "unassigned_vms", "unassigned_shares",
		"unassigned_buckets", "unassigned_apps", "unassigned_vgs",
	}, metricNames(v))
	assert.Equal(t, 6.0, metricByName(t, v, "unassigned_total").Value)
	assert.Equal(t, 3.0, metricByName(t, v, "unassigned_vms").Value)
	assert.Equal(t, 2.0, metricByName(t, v, "unassigned_shares").Value)
	assert.Equal(t, 1.0, metricByName(t, v, "unassigned_apps").Value)
	assert.Equal(t, []string{
		"VMs: web-01, web-02, db-01",
		"Shares: home, public",
		"Applications: sql",
	}, v.Details)

	cfg.Thresholds = schema.ThresholdSpec{Warning: 7, Critical: 10}
	v = Run(context.Background(), cfg, src, nil)
	assert.Equal(t, schema.SeverityOK, v.Severity)
	assert.Equal(t, 6.0, metricByName(t, v, "unassigned_total").Value)
	src.AssertExpectations(t)
}

type fakeResolver struct {
	addrs []string
	err   error
}

func (f fakeResolver) LookupHost(context.Context, string) ([]string, error) {
	return f.addrs, f.err
}

// steppingClock advances by step on every call.
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func TestRunPortOpen(t *testing.T) {
	cfg := newTestConfig(schema.PortCheck, "8443")
	cfg.Host = "hycu.example.com"

	var dialed string
	prober := &TCPProber{
		Resolver: fakeResolver{addrs: []string{"10.0.0.5"}},
		Dial: func(_ context.Context, _, address string) (net.Conn, error) {
			dialed = address
			client, server := net.Pipe()
			t.Cleanup(func() { _ = server.Close() })
			return client, nil
		},
		Now: steppingClock(testNow, 15*time.Millisecond),
	}

	v := Run(context.Background(), cfg, nil, prober)

	assert.Equal(t, schema.SeverityOK, v.Severity)
	assert.Equal(t, "10.0.0.5:8443", dialed)
	assert.Equal(t, "Port 8443 is OPEN on hycu.example.com (response time: 15ms)", v.Message)
	rt := metricByName(t, v, "response_time")
	assert.Equal(t, 15.0, rt.Value)
	assert.Equal(t, "ms", rt.Unit)
}

func TestRunVMNotFound(t *testing.T) {
	cfg := newTestConfig(schema.VMCheck, "ghost")

	src := new(contract.MockSource)
	src.On("VMs", mock.Anything).Return([]schema.Entity{
		{ID: "vm-1", Name: "web-01", Kind: schema.VMKind},
	}, nil)

	v := Run(context.Background(), cfg, src, nil)

	assert.Equal(t, schema.SeverityCritical, v.Severity)
	assert.Equal(t, "ghost does not exist or is not discoverable", v.Message)
	assert.Empty(t, v.Metrics)
	src.AssertNotCalled(t, "VMBackups", mock.Anything, mock.Anything)
}

func TestRunTransportError(t *testing.T) {
	cfg := newTestConfig(schema.TargetCheck, "nfs-target")

	src := new(contract.MockSource)
	src.On("Targets", mock.Anything).Return(nil, &schema.TransportError{
		Kind:   schema.TransportAuth,
		Status: 401,
		Msg:    "Authentication failed. Check your API token.",
	})

	v := Run(context.Background(), cfg, src, nil)

	assert.Equal(t, schema.SeverityCritical, v.Severity)
	assert.Equal(t, "API Error - Authentication failed. Check your API token.", v.Message)
}

func TestRunUnknownCheck(t *testing.T) {
	cfg := newTestConfig("bogus", "")
	v := Run(context.Background(), cfg, nil, nil)
	assert.Equal(t, schema.SeverityUnknown, v.Severity)
	assert.Contains(t, v.Message, "bogus")
}

func TestRunRecoversPanic(t *testing.T) {
	cfg := newTestConfig(schema.VersionCheck, "")

	src := new(contract.MockSource)
	src.On("Controller", mock.Anything).Run(func(mock.Arguments) { panic("boom") })

	v := Run(context.Background(), cfg, src, nil)

	assert.Equal(t, schema.SeverityUnknown, v.Severity)
	assert.Equal(t, "Unexpected error - boom", v.Message)
}

func TestRunWithoutSource(t *testing.T) {
	v := Run(context.Background(), newTestConfig(schema.ManagerCheck, "x"), nil, nil)
	assert.Equal(t, schema.SeverityUnknown, v.Severity)
	assert.Contains(t, v.Message, "Unexpected error")
}

func TestErrorVerdict(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		severity schema.Severity
		message  string
	}{
		{
			name:     "config error",
			err:      &schema.ConfigError{Field: "warning", Msg: "must be a number"},
			severity: schema.SeverityUnknown,
			message:  "warning: must be a number",
		},
		{
			name:     "wrapped transport error",
			err:      fmt.Errorf("list vms: %w", &schema.TransportError{Kind: schema.TransportServer, Status: 503, Msg: "Server error (HTTP 503)"}),
			severity: schema.SeverityCritical,
			message:  "API Error - Server error (HTTP 503)",
		},
		{
			name:     "not found",
			err:      &schema.NotFoundError{Name: "Gold"},
			severity: schema.SeverityCritical,
			message:  "Gold does not exist or is not discoverable",
		},
		{
			name:     "anything else",
			err:      errors.New("kaput"),
			severity: schema.SeverityUnknown,
			message:  "Unexpected error - kaput",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ErrorVerdict(schema.VMCheck, tt.err)
			assert.Equal(t, tt.severity, v.Severity)
			assert.Equal(t, tt.message, v.Message)
			assert.Equal(t, schema.VMCheck, v.Check)
			assert.Empty(t, v.Metrics)
		})
	}
}

func TestRunPortFailures(t *testing.T) {
	tests := []struct {
		name    string
		result  contract.ProbeResult
		message string
		metrics []string
	}{
		{
			name:    "dns",
			result:  contract.ProbeResult{Outcome: contract.ProbeDNSError, Err: errors.New("no such host")},
			message: "Cannot resolve hostname hycu.example.com - DNS error",
			metrics: []string{},
		},
		{
			name:    "timeout",
			result:  contract.ProbeResult{Outcome: contract.ProbeTimeout, Elapsed: 5 * time.Second},
			message: "Port 8443 on hycu.example.com - Connection timeout after 5s",
			metrics: []string{},
		},
		{
			name:    "closed",
			result:  contract.ProbeResult{Outcome: contract.ProbeClosed, Err: errors.New("connection refused")},
			message: "Port 8443 is CLOSED on hycu.example.com",
			metrics: []string{"response_time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig(schema.PortCheck, "8443")
			prober := new(contract.MockPortProber)
			prober.On("Probe", mock.Anything, "hycu.example.com", 8443, 5*time.Second).Return(tt.result)

			v := Run(context.Background(), cfg, nil, prober)

			assert.Equal(t, schema.SeverityCritical, v.Severity)
			assert.Equal(t, tt.message, v.Message)
			assert.Equal(t, tt.metrics, metricNames(v))
			prober.AssertExpectations(t)
		})
	}
}
