// Package core has the check evaluation engine: registry, evaluators and severity resolution.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hycu-tools/check-hycu/internal/contract"
	"github.com/hycu-tools/check-hycu/schema"
	"github.com/rs/zerolog/log"
)

// Request carries everything one evaluation may read.
type Request struct {
	Config *contract.Config
	Source contract.Source     // nil for the port check
	Prober contract.PortProber // nil for API checks
	Now    time.Time
}

// Evaluator turns collected data into a Verdict. Returned errors are converted by Run.
type Evaluator func(ctx context.Context, req Request) (schema.Verdict, error)

// timeNow is the evaluation clock.
var timeNow = time.Now

// Run evaluates the configured check. It never fails: every error becomes a Verdict.
func Run(ctx context.Context, cfg *contract.Config, src contract.Source, prober contract.PortProber) (verdict schema.Verdict) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			verdict = ErrorVerdict(cfg.Check, fmt.Errorf("%v", r))
		}
		log.Debug().
			Str("check", string(cfg.Check)).
			Str("severity", verdict.Severity.String()).
			Int("metrics", len(verdict.Metrics)).
			Dur("duration", time.Since(start)).
			Msg("Check evaluated")
	}()

	eval, ok := Registry[cfg.Check]
	if !ok {
		return ErrorVerdict(cfg.Check, &schema.ConfigError{Field: "type", Msg: fmt.Sprintf("no evaluator for check type '%s'", cfg.Check)})
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	req := Request{Config: cfg, Source: src, Prober: prober, Now: timeNow()}
	v, err := eval(ctx, req)
	if err != nil {
		return ErrorVerdict(cfg.Check, err)
	}
	v.Check = cfg.Check
	return v
}

// ErrorVerdict maps an error to its terminal Verdict.
func ErrorVerdict(check schema.CheckType, err error) schema.Verdict {
	v := schema.Verdict{Check: check}

	var cfgErr *schema.ConfigError
	var transportErr *schema.TransportError
	var notFound *schema.NotFoundError
	switch {
	case errors.As(err, &cfgErr):
		v.Severity = schema.SeverityUnknown
		v.Message = cfgErr.Error()
	case errors.As(err, &transportErr):
		v.Severity = schema.SeverityCritical
		v.Message = "API Error - " + transportErr.Error()
	case errors.As(err, &notFound):
		v.Severity = schema.SeverityCritical
		v.Message = notFound.Error()
	default:
		v.Severity = schema.SeverityUnknown
		v.Message = "Unexpected error - " + err.Error()
	}

	log.Debug().Err(err).Str("check", string(check)).Msg("Check failed")
	return v
}

// requireSource guards the API checks against a missing client.
func requireSource(req Request) error {
	if req.Source == nil {
		return errors.New("no controller client configured")
	}
	return nil
}
