// Package logging configures the zerolog logger used by every check-hycu package.
// Logs always go to stderr; stdout carries the plugin output only.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

type ctxKey string

const runIDKey ctxKey = "logging_run_id"

// Config controls logger initialization.
type Config struct {
	Format    string    // "json", "console", or "auto"
	Level     string    // "debug", "info", "warn", "error"
	Component string    // optional component name
	Out       io.Writer // defaults to os.Stderr
}

var (
	mu           sync.Mutex
	isTerminalFn = term.IsTerminal

	defaultTimeFmt = time.RFC3339
)

func init() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Init configures zerolog globals and replaces the global logger.
func Init(cfg Config) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	zerolog.TimeFieldFormat = defaultTimeFmt
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	builder := zerolog.New(selectWriter(cfg.Format, out)).With().Timestamp()
	if component := strings.TrimSpace(cfg.Component); component != "" {
		builder = builder.Str("component", component)
	}

	log.Logger = builder.Logger()
	return log.Logger
}

// LevelFor maps the verbose flag to a level: debug when set, warnings only otherwise.
func LevelFor(verbose bool) string {
	if verbose {
		return "debug"
	}
	return "warn"
}

// WithRunID stores (or generates) the id of one check run on the context.
func WithRunID(ctx context.Context, runID string) (context.Context, string) {
	if ctx == nil {
		ctx = context.Background()
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		runID = uuid.NewString()
	}
	return context.WithValue(ctx, runIDKey, runID), runID
}

// RunID returns the run id stored on ctx, empty when there is none.
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// FromContext returns the global logger tagged with the run id of ctx.
func FromContext(ctx context.Context) zerolog.Logger {
	if id := RunID(ctx); id != "" {
		return log.Logger.With().Str("run_id", id).Logger()
	}
	return log.Logger
}

// ParseLevel converts a level name, falling back to warn for unknown names.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "", "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		fmt.Fprintf(os.Stderr, "logging: invalid level %q; using %q\n", level, "warn")
		return zerolog.WarnLevel
	}
}

func selectWriter(format string, out io.Writer) io.Writer {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "console":
		return newConsoleWriter(out)
	case "json":
		return out
	case "auto", "":
		if isTerminal(out) {
			return newConsoleWriter(out)
		}
		return out
	default:
		fmt.Fprintf(os.Stderr, "logging: invalid format %q; using %q\n", format, "json")
		return out
	}
}

func newConsoleWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isTerminalFn(int(f.Fd()))
}
