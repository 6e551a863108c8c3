package hycu

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hycu-tools/check-hycu/internal/contract"
	"github.com/hycu-tools/check-hycu/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/*.json
var fixtures embed.FS

const testToken = "test-token-123"

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := fixtures.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

// serveFixture answers with a fixture after checking the bearer token.
func serveFixture(t *testing.T, name string) http.HandlerFunc {
	data := fixture(t, name)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}
}

// newTestClient starts a TLS server with the given routes under /rest/v1.0.
func newTestClient(t *testing.T, routes map[string]http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc("GET /rest/v1.0"+pattern, h)
	}
	srv := httptest.NewTLSServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{
		BaseURL:  srv.URL + "/rest/v1.0",
		Token:    testToken,
		Insecure: true,
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.True(t, schema.IsConfigError(err))

	c, err := NewClient(ClientConfig{BaseURL: "https://hycu.example.com:8443/rest/v1.0/"})
	require.NoError(t, err)
	assert.Equal(t, "https://hycu.example.com:8443/rest/v1.0", c.baseURL)
	assert.Equal(t, defaultTimeout, c.timeout)
}

func TestConfigFrom(t *testing.T) {
	cfg := &contract.Config{Host: "hycu.example.com", APIPort: 9443, APIToken: "abc", Insecure: true, Timeout: 7 * time.Second}
	assert.Equal(t, ClientConfig{
		BaseURL:  "https://hycu.example.com:9443/rest/v1.0",
		Token:    "abc",
		Insecure: true,
		Timeout:  7 * time.Second,
	}, ConfigFrom(cfg))
}

func TestClientVMs(t *testing.T) {
	var mu sync.Mutex
	var query string
	c := newTestClient(t, map[string]http.HandlerFunc{
		"/vms": func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			query = r.URL.RawQuery
			mu.Unlock()
			serveFixture(t, "vms.json")(w, r)
		},
	})

	vms, err := c.VMs(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "pageNumber=1&pageSize=1000", query)
	want := []schema.Entity{
		{ID: "vm-0001", Name: "web-01", Kind: schema.VMKind, ProtectionGroupName: "Gold"},
		{ID: "vm-0002", Name: "web-02", Kind: schema.VMKind},
		{ID: "vm-0003", Name: "db-01", Kind: schema.VMKind},
	}
	if diff := cmp.Diff(want, vms); diff != "" {
		t.Errorf("VMs mismatch (-want +got):\n%s", diff)
	}
}

func TestClientVMBackups(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"/vms/{id}/backups": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "vm-0001", r.PathValue("id"))
			assert.Equal(t, "10", r.URL.Query().Get("pageSize"))
			serveFixture(t, "backups.json")(w, r)
		},
	})

	backups, err := c.VMBackups(context.Background(), "vm-0001")
	require.NoError(t, err)
	require.Len(t, backups, 2)

	want := schema.Entity{
		ID: "bk-2", Name: "web-01", Kind: schema.BackupKind, Type: "INCREMENTAL",
		Status: schema.StatusError, RawStatus: "FATAL", ArchivesFailed: 1,
	}
	if diff := cmp.Diff(want, backups[0]); diff != "" {
		t.Errorf("latest backup mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, schema.StatusOK, backups[1].Status)
}

func TestClientTargets(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"/targets":      serveFixture(t, "targets.json"),
		"/targets/tg-1": serveFixture(t, "target_bare.json"),
		"/targets/tg-2": serveFixture(t, "target_wrapped.json"),
	})
	ctx := context.Background()

	targets, err := c.Targets(ctx)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, schema.StatusWarning, targets[1].Status, "GRAY is the alternative spelling of GREY")

	bare, err := c.Target(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, "nfs-target", bare.Name)
	assert.Equal(t, schema.StatusOK, bare.Status)
	assert.Equal(t, "GREEN", bare.RawStatus)

	wrapped, err := c.Target(ctx, "tg-2")
	require.NoError(t, err)
	assert.Equal(t, "s3-target", wrapped.Name)
	assert.Equal(t, schema.StatusError, wrapped.Status)
}

func TestClientShares(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{"/shares": serveFixture(t, "shares.json")})

	shares, err := c.Shares(context.Background())
	require.NoError(t, err)

	want := []schema.Entity{
		{
			ID: "sh-1", Name: "home", Protocols: []schema.Protocol{schema.NFSProtocol},
			Protection: schema.Protected, Compliance: schema.ComplianceGreen, RawStatus: "GREEN", ProtectionGroupName: "Silver",
		},
		{
			ID: "sh-2", Name: "public", Protocols: []schema.Protocol{schema.SMBProtocol},
			Protection: schema.Unprotected, Compliance: schema.ComplianceGrey, RawStatus: "GRAY",
		},
		{
			ID: "bk-1", Name: "archive", Protocols: []schema.Protocol{schema.S3Protocol},
			Protection: schema.Protected, Compliance: schema.ComplianceRed, RawStatus: "RED", ProtectionGroupName: "Gold",
		},
	}
	if diff := cmp.Diff(want, shares); diff != "" {
		t.Errorf("Shares mismatch (-want +got):\n%s", diff)
	}
}

func TestClientApplicationsAndVolumeGroups(t *testing.T) {
	body := []byte(`{"metadata":{"grandTotalEntityCount":1},"entities":[{"uuid":"x-1","name":"sql","protectionGroupName":""}]}`)
	handler := func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write(body) }
	c := newTestClient(t, map[string]http.HandlerFunc{"/applications": handler, "/volumegroups": handler})
	ctx := context.Background()

	apps, err := c.Applications(ctx)
	require.NoError(t, err)
	assert.Equal(t, []schema.Entity{{ID: "x-1", Name: "sql", Kind: schema.AppKind}}, apps)

	vgs, err := c.VolumeGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []schema.Entity{{ID: "x-1", Name: "sql", Kind: schema.VolumeGroupKind}}, vgs)
}

func TestClientPolicies(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"/policies":       serveFixture(t, "policies.json"),
		"/policies/pol-1": serveFixture(t, "policy_detail.json"),
		"/policies/pol-9": serveFixture(t, "empty.json"),
	})
	ctx := context.Background()

	policies, err := c.Policies(ctx)
	require.NoError(t, err)
	require.Len(t, policies, 2)
	assert.Equal(t, schema.StatusOK, policies[0].Status)
	assert.Equal(t, schema.StatusWarning, policies[1].Status)

	detail, err := c.Policy(ctx, "pol-1")
	require.NoError(t, err)
	want := schema.PolicyDetail{
		ID: "pol-1", Name: "Gold", Compliance: schema.StatusError, RawStatus: "RED",
		Groups: []schema.PolicyGroup{
			{Kind: schema.VMKind, Total: 12, Compliant: 10, NonCompliant: 2},
			{Kind: schema.ShareKind, Total: 3, Compliant: 3},
			{Kind: schema.AppKind, Total: 2, Compliant: 1, NonCompliant: 1},
			{Kind: schema.BucketKind, Total: 1, Compliant: 1},
			{Kind: schema.VolumeGroupKind},
		},
	}
	if diff := cmp.Diff(want, detail); diff != "" {
		t.Errorf("Policy mismatch (-want +got):\n%s", diff)
	}

	_, err = c.Policy(ctx, "pol-9")
	assert.True(t, schema.IsNotFound(err))
}

func TestClientDashboard(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{"/mom/dashboards/vms": serveFixture(t, "dashboard.json")})

	dash, err := c.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.Dashboard{
		Total: 40, Protected: 37, Unprotected: 3,
		CompliantGreen: 30, CompliantRed: 5, CompliantGrey: 4, CompliantYellow: 1,
	}, dash)
}

func TestClientLicenseAndController(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"/administration/license":    serveFixture(t, "license.json"),
		"/administration/controller": serveFixture(t, "controller.json"),
	})
	ctx := context.Background()

	lic, err := c.License(ctx)
	require.NoError(t, err)
	require.NotNil(t, lic)
	assert.Equal(t, "Acme", lic.Company)
	assert.Equal(t, 45, lic.DaysLeft)
	assert.True(t, lic.ExpiresAt.Equal(time.UnixMilli(1798761600000)))
	assert.Equal(t, 42, lic.ProtectedVMs)
	assert.Equal(t, 6, lic.ActualSockets)

	ctrl, err := c.Controller(ctx)
	require.NoError(t, err)
	assert.Equal(t, &schema.Controller{
		Name: "hycu-01", SoftwareVersion: "5.1.0", BuildVersion: "5.1.0-1234", Hypervisor: "NUTANIX",
	}, ctrl)
}

func TestClientLicenseMissing(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"/administration/license":    serveFixture(t, "empty.json"),
		"/administration/controller": serveFixture(t, "empty.json"),
	})

	lic, err := c.License(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, lic)

	ctrl, err := c.Controller(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, ctrl)
}

func TestClientJobs(t *testing.T) {
	start := time.UnixMilli(1773100000000)
	end := time.UnixMilli(1773186400000)
	c := newTestClient(t, map[string]http.HandlerFunc{
		"/jobs": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "1773100000000", q.Get("startTime"))
			assert.Equal(t, "1773186400000", q.Get("endTime"))
			assert.Equal(t, "10000", q.Get("pageSize"))
			serveFixture(t, "jobs.json")(w, r)
		},
	})

	jobs, err := c.Jobs(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, jobs, 4)

	assert.Equal(t, schema.StatusOK, jobs[0].Status)
	assert.True(t, jobs[0].Timestamp.Equal(time.UnixMilli(1773140400000)), "start time wins")
	assert.Equal(t, schema.StatusError, jobs[1].Status)
	assert.Equal(t, "BACKUP_VALIDATION", jobs[1].Type)
	assert.Equal(t, schema.StatusRunning, jobs[2].Status, "queued jobs count as running")
	assert.True(t, jobs[2].Timestamp.Equal(time.UnixMilli(1773147600000)), "end time is the fallback")
	assert.Equal(t, schema.StatusUnknown, jobs[3].Status)
	assert.Equal(t, "ABORTED", jobs[3].RawStatus)
	assert.True(t, jobs[3].Timestamp.IsZero())
	assert.Equal(t, "Restore db-01", jobs[3].Name)
}

func TestClientPagination(t *testing.T) {
	const total = 1500
	var mu sync.Mutex
	var pages []string
	c := newTestClient(t, map[string]http.HandlerFunc{
		"/vms": func(w http.ResponseWriter, r *http.Request) {
			page, _ := strconv.Atoi(r.URL.Query().Get("pageNumber"))
			mu.Lock()
			pages = append(pages, r.URL.Query().Get("pageNumber"))
			mu.Unlock()
			from := (page - 1) * listPageSize
			to := min(from+listPageSize, total)
			_, _ = fmt.Fprintf(w, `{"metadata":{"grandTotalEntityCount":%d},"entities":[`, total)
			for i := from; i < to; i++ {
				if i > from {
					_, _ = w.Write([]byte(","))
				}
				_, _ = fmt.Fprintf(w, `{"uuid":"vm-%d","vmName":"vm-%d"}`, i, i)
			}
			_, _ = w.Write([]byte("]}"))
		},
	})

	vms, err := c.VMs(context.Background())
	require.NoError(t, err)
	assert.Len(t, vms, total)
	mu.Lock()
	assert.Equal(t, []string{"1", "2"}, pages)
	mu.Unlock()
	assert.Equal(t, "vm-1499", vms[total-1].Name)
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		kind   schema.TransportKind
		msg    string
	}{
		{http.StatusUnauthorized, schema.TransportAuth, "Authentication failed. Check your API token."},
		{http.StatusForbidden, schema.TransportAuth, "Access forbidden. Check API token permissions."},
		{http.StatusNotFound, schema.TransportNotFound, "Resource not found."},
		{http.StatusBadGateway, schema.TransportServer, "HYCU server error: 502"},
		{http.StatusTeapot, schema.TransportStatus, "HTTP 418: short and stout"},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			c := newTestClient(t, map[string]http.HandlerFunc{
				"/targets": func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte("short and stout\n"))
				},
			})

			_, err := c.Targets(context.Background())
			var te *schema.TransportError
			require.True(t, errors.As(err, &te), "got %v", err)
			assert.Equal(t, tt.kind, te.Kind)
			assert.Equal(t, tt.status, te.Status)
			assert.Equal(t, tt.msg, te.Error())
			assert.Equal(t, "/targets", te.Endpoint)
		})
	}
}

func TestClientWrongToken(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{"/vms": serveFixture(t, "vms.json")})
	c.token = "wrong"

	_, err := c.VMs(context.Background())
	var te *schema.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, schema.TransportAuth, te.Kind)
}

func TestClientDecodeError(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"/mom/dashboards/vms": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		},
	})

	_, err := c.Dashboard(context.Background())
	var te *schema.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, schema.TransportDecode, te.Kind)
	assert.Equal(t, "Invalid JSON response from API", te.Error())
}

func TestClientTimeout(t *testing.T) {
	c := newTestClient(t, map[string]http.HandlerFunc{
		"/vms": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		},
	})
	c.http.Timeout = 50 * time.Millisecond

	_, err := c.VMs(context.Background())
	var te *schema.TransportError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, schema.TransportTimeout, te.Kind)
	assert.Contains(t, te.Error(), "Request timeout after")
}

func TestClientConnectionRefused(t *testing.T) {
	srv := httptest.NewTLSServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: addr + "/rest/v1.0", Token: testToken, Insecure: true, Timeout: 2 * time.Second})
	require.NoError(t, err)

	_, err = c.Policies(context.Background())
	var te *schema.TransportError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, schema.TransportConnection, te.Kind)
	assert.Equal(t, "Connection error. Check host address and network.", te.Error())
}
