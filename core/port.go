package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/hycu-tools/check-hycu/internal/contract"
	"github.com/hycu-tools/check-hycu/schema"
	"github.com/rs/dnscache"
	"github.com/rs/zerolog/log"
)

// Resolver looks up the addresses of a host name.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// TCPProber implements the PortProber interface with a plain TCP connect.
type TCPProber struct {
	Resolver Resolver
	Dial     func(ctx context.Context, network, address string) (net.Conn, error)
	Now      func() time.Time
}

var _ contract.PortProber = &TCPProber{} // Compile-time check

// NewTCPProber creates a prober resolving through a dnscache resolver.
func NewTCPProber() *TCPProber {
	dialer := &net.Dialer{}
	return &TCPProber{
		Resolver: &dnscache.Resolver{},
		Dial:     dialer.DialContext,
		Now:      time.Now,
	}
}

// Probe resolves host and attempts one TCP connection within timeout.
// Elapsed covers resolution and connection, like a socket connect to a host name.
func (p *TCPProber) Probe(ctx context.Context, host string, port int, timeout time.Duration) contract.ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := p.Now()
	addrs, err := p.Resolver.LookupHost(ctx, host)
	if err == nil && len(addrs) == 0 {
		err = &net.DNSError{Err: "no IP addresses found", Name: host}
	}
	if err != nil {
		if isTimeout(ctx, err) {
			return contract.ProbeResult{Outcome: contract.ProbeTimeout, Elapsed: p.Now().Sub(start), Err: err}
		}
		return contract.ProbeResult{Outcome: contract.ProbeDNSError, Err: err}
	}

	conn, err := p.Dial(ctx, "tcp", net.JoinHostPort(addrs[0], strconv.Itoa(port)))
	elapsed := p.Now().Sub(start)
	if err != nil {
		if isTimeout(ctx, err) {
			return contract.ProbeResult{Outcome: contract.ProbeTimeout, Elapsed: elapsed, Err: err}
		}
		return contract.ProbeResult{Outcome: contract.ProbeClosed, Elapsed: elapsed, Err: err}
	}
	_ = conn.Close()
	return contract.ProbeResult{Outcome: contract.ProbeOpen, Elapsed: elapsed}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func evaluatePort(ctx context.Context, req Request) (schema.Verdict, error) {
	if req.Prober == nil {
		return schema.Verdict{}, errors.New("no port prober configured")
	}
	cfg := req.Config
	res := req.Prober.Probe(ctx, cfg.Host, cfg.Port, cfg.Timeout)
	log.Debug().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("outcome", string(res.Outcome)).
		Dur("elapsed", res.Elapsed).
		AnErr("cause", res.Err).
		Msg("Port probed")

	switch res.Outcome {
	case contract.ProbeOpen:
		ms := int(res.Elapsed / time.Millisecond)
		return schema.Verdict{
			Severity: schema.SeverityOK,
			Message:  fmt.Sprintf("Port %d is OPEN on %s (response time: %dms)", cfg.Port, cfg.Host, ms),
			Metrics:  []schema.PerfMetric{responseTime(ms)},
		}, nil
	case contract.ProbeDNSError:
		return schema.Verdict{
			Severity: schema.SeverityCritical,
			Message:  fmt.Sprintf("Cannot resolve hostname %s - DNS error", cfg.Host),
		}, nil
	case contract.ProbeTimeout:
		return schema.Verdict{
			Severity: schema.SeverityCritical,
			Message:  fmt.Sprintf("Port %d on %s - Connection timeout after %ds", cfg.Port, cfg.Host, int(cfg.Timeout/time.Second)),
		}, nil
	default:
		return schema.Verdict{
			Severity: schema.SeverityCritical,
			Message:  fmt.Sprintf("Port %d is CLOSED on %s", cfg.Port, cfg.Host),
			Metrics:  []schema.PerfMetric{responseTime(0)},
		}, nil
	}
}

func responseTime(ms int) schema.PerfMetric {
	return schema.PerfMetric{Name: "response_time", Value: float64(ms), Unit: "ms", Min: schema.Int(0)}
}
