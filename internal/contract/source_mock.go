package contract

import (
	"context"
	"time"

	"github.com/hycu-tools/check-hycu/schema"
	"github.com/stretchr/testify/mock"
)

// MockSource is a testify mock for the Source interface.
type MockSource struct {
	mock.Mock
}

var _ Source = &MockSource{} // Compile-time check

func (m *MockSource) entities(method string, args ...any) ([]schema.Entity, error) {
	ret := m.MethodCalled(method, args...)
	out, _ := ret.Get(0).([]schema.Entity)
	return out, ret.Error(1)
}

// VMs implements the Source interface.
func (m *MockSource) VMs(ctx context.Context) ([]schema.Entity, error) {
	return m.entities("VMs", ctx)
}

// VMBackups implements the Source interface.
func (m *MockSource) VMBackups(ctx context.Context, vmID string) ([]schema.Entity, error) {
	return m.entities("VMBackups", ctx, vmID)
}

// Targets implements the Source interface.
func (m *MockSource) Targets(ctx context.Context) ([]schema.Entity, error) {
	return m.entities("Targets", ctx)
}

// Target implements the Source interface.
func (m *MockSource) Target(ctx context.Context, targetID string) (schema.Entity, error) {
	ret := m.Called(ctx, targetID)
	out, _ := ret.Get(0).(schema.Entity)
	return out, ret.Error(1)
}

// Applications implements the Source interface.
func (m *MockSource) Applications(ctx context.Context) ([]schema.Entity, error) {
	return m.entities("Applications", ctx)
}

// VolumeGroups implements the Source interface.
func (m *MockSource) VolumeGroups(ctx context.Context) ([]schema.Entity, error) {
	return m.entities("VolumeGroups", ctx)
}

// Shares implements the Source interface.
func (m *MockSource) Shares(ctx context.Context) ([]schema.Entity, error) {
	return m.entities("Shares", ctx)
}

// Policies implements the Source interface.
func (m *MockSource) Policies(ctx context.Context) ([]schema.Entity, error) {
	return m.entities("Policies", ctx)
}

// Policy implements the Source interface.
func (m *MockSource) Policy(ctx context.Context, policyID string) (schema.PolicyDetail, error) {
	ret := m.Called(ctx, policyID)
	out, _ := ret.Get(0).(schema.PolicyDetail)
	return out, ret.Error(1)
}

// Dashboard implements the Source interface.
func (m *MockSource) Dashboard(ctx context.Context) (schema.Dashboard, error) {
	ret := m.Called(ctx)
	out, _ := ret.Get(0).(schema.Dashboard)
	return out, ret.Error(1)
}

// Jobs implements the Source interface.
func (m *MockSource) Jobs(ctx context.Context, start, end time.Time) ([]schema.Entity, error) {
	return m.entities("Jobs", ctx, start, end)
}

// License implements the Source interface.
func (m *MockSource) License(ctx context.Context) (*schema.License, error) {
	ret := m.Called(ctx)
	out, _ := ret.Get(0).(*schema.License)
	return out, ret.Error(1)
}

// Controller implements the Source interface.
func (m *MockSource) Controller(ctx context.Context) (*schema.Controller, error) {
	ret := m.Called(ctx)
	out, _ := ret.Get(0).(*schema.Controller)
	return out, ret.Error(1)
}

// MockPortProber is a testify mock for the PortProber interface.
type MockPortProber struct {
	mock.Mock
}

var _ PortProber = &MockPortProber{} // Compile-time check

// Probe implements the PortProber interface.
func (m *MockPortProber) Probe(ctx context.Context, host string, port int, timeout time.Duration) ProbeResult {
	ret := m.Called(ctx, host, port, timeout)
	out, _ := ret.Get(0).(ProbeResult)
	return out
}
