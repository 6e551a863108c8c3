// Package hycu is a read-only client for the HYCU controller REST API v1.0.
package hycu

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hycu-tools/check-hycu/internal/contract"
	"github.com/hycu-tools/check-hycu/schema"
	"github.com/rs/dnscache"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout = time.Duration(schema.DefaultTimeoutSeconds) * time.Second

	// maxPages bounds pagination when the controller misreports its totals.
	maxPages = 50

	maxErrorBodyBytes = 4096
)

// ClientConfig configures the controller client.
type ClientConfig struct {
	BaseURL  string // e.g. https://hycu.example.com:8443/rest/v1.0
	Token    string
	Insecure bool
	Timeout  time.Duration
}

// ConfigFrom derives the client settings of a validated check configuration.
func ConfigFrom(cfg *contract.Config) ClientConfig {
	return ClientConfig{
		BaseURL:  cfg.BaseURL(),
		Token:    cfg.APIToken,
		Insecure: cfg.Insecure,
		Timeout:  cfg.Timeout,
	}
}

// Client talks to one controller with a bearer token.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *http.Client
}

var _ contract.Source = &Client{} // Compile-time check

// NewClient creates a client. Host names are resolved through a dnscache resolver.
func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, &schema.ConfigError{Field: "host", Msg: "controller address is required"}
	}
	if _, err := url.Parse(base); err != nil {
		return nil, &schema.ConfigError{Field: "host", Msg: fmt.Sprintf("invalid controller address: %v", err)}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	resolver := &dnscache.Resolver{}
	dialer := &net.Dialer{KeepAlive: 30 * time.Second}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.Insecure,
		MinVersion:         tls.VersionTLS12,
	}
	transport.DialContext = func(ctx context.Context, network, address string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(address)
		if err != nil {
			return nil, err
		}
		ips, err := resolver.LookupHost(ctx, host)
		if err != nil {
			return nil, err
		}
		if len(ips) == 0 {
			return nil, &net.DNSError{Err: "no IP addresses found", Name: host}
		}
		return dialer.DialContext(ctx, network, net.JoinHostPort(ips[0], port))
	}

	return &Client{
		baseURL: base,
		token:   cfg.Token,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout, Transport: transport},
	}, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// getJSON performs one GET and decodes the body into dest.
// Every failure is returned as a *schema.TransportError.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &schema.TransportError{Kind: schema.TransportConnection, Endpoint: path, Msg: fmt.Sprintf("Request failed: %v", err), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return c.requestError(ctx, path, err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("path", path).
		Str("query", query.Encode()).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Controller responded")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return statusError(path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return c.requestError(ctx, path, err)
		}
		return &schema.TransportError{Kind: schema.TransportDecode, Endpoint: path, Status: resp.StatusCode, Msg: "Invalid JSON response from API", Err: err}
	}
	return nil
}

func (c *Client) requestError(ctx context.Context, path string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err) {
		return &schema.TransportError{
			Kind:     schema.TransportTimeout,
			Endpoint: path,
			Msg:      fmt.Sprintf("Request timeout after %d seconds", int(c.timeout/time.Second)),
			Err:      err,
		}
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return &schema.TransportError{
			Kind:     schema.TransportConnection,
			Endpoint: path,
			Msg:      "Connection error. Check host address and network.",
			Err:      err,
		}
	}
	return &schema.TransportError{Kind: schema.TransportConnection, Endpoint: path, Msg: fmt.Sprintf("Request failed: %v", err), Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// statusError maps a non-200 answer to its transport error.
func statusError(path string, status int, body string) *schema.TransportError {
	e := &schema.TransportError{Endpoint: path, Status: status}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind, e.Msg = schema.TransportAuth, "Authentication failed. Check your API token."
	case status == http.StatusForbidden:
		e.Kind, e.Msg = schema.TransportAuth, "Access forbidden. Check API token permissions."
	case status == http.StatusNotFound:
		e.Kind, e.Msg = schema.TransportNotFound, "Resource not found."
	case status >= http.StatusInternalServerError:
		e.Kind, e.Msg = schema.TransportServer, "HYCU server error: "+strconv.Itoa(status)
	default:
		e.Kind, e.Msg = schema.TransportStatus, fmt.Sprintf("HTTP %d: %s", status, body)
	}
	return e
}

func pageQuery(size, number int) url.Values {
	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(size))
	q.Set("pageNumber", strconv.Itoa(number))
	return q
}

// listAll follows pageNumber until the reported total is reached or a page comes back short.
func listAll[T any](ctx context.Context, c *Client, path string, pageSize int, extra url.Values) ([]T, error) {
	var out []T
	for page := 1; page <= maxPages; page++ {
		q := pageQuery(pageSize, page)
		for k, vs := range extra {
			for _, v := range vs {
				q.Add(k, v)
			}
		}

		var env envelope[T]
		if err := c.getJSON(ctx, path, q, &env); err != nil {
			return nil, err
		}
		out = append(out, env.Entities...)

		total := env.Metadata.GrandTotalEntityCount
		if len(env.Entities) < pageSize || total == 0 || len(out) >= total {
			return out, nil
		}
	}
	log.Warn().Str("path", path).Int("pages", maxPages).Int("entities", len(out)).Msg("Pagination limit reached")
	return out, nil
}

// first fetches one page and returns its first entity, nil when the page is empty.
func first[T any](ctx context.Context, c *Client, path string, pageSize int) (*T, error) {
	var env envelope[T]
	if err := c.getJSON(ctx, path, pageQuery(pageSize, 1), &env); err != nil {
		return nil, err
	}
	if len(env.Entities) == 0 {
		return nil, nil
	}
	return &env.Entities[0], nil
}
