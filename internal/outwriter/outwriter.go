// Package outwriter renders check verdicts for the monitoring system and for humans.
package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/hycu-tools/check-hycu/internal/contract"
	"github.com/hycu-tools/check-hycu/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// Out receives the monitoring output, Err the verbose diagnostics.
type OutWriter struct {
	Out io.Writer
	Err io.Writer
}

// NewOutWriter creates an output writer. Nil writers default to stdout and stderr.
func NewOutWriter(out, errOut io.Writer) *OutWriter {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &OutWriter{Out: out, Err: errOut}
}

// WriteVerdict prints the verdict in the configured format and returns the exit code.
// A textfile export failure is reported on stderr and never changes the verdict.
func (ow *OutWriter) WriteVerdict(v schema.Verdict, cfg *contract.Config) (int, error) {
	exitCode, line := FormatVerdict(v)

	var err error
	switch cfg.Output {
	case schema.JSONOut:
		err = writeVerdictJSON(ow.Out, v, exitCode, line)
	default:
		err = writeVerdictText(ow.Out, v, line, cfg.Verbose)
	}
	if err != nil {
		return exitCode, fmt.Errorf("error writing %s output: %w", cfg.Output, err)
	}

	if cfg.Verbose {
		if err := writeMetricsTable(ow.Err, v, cfg.UseColors); err != nil {
			contract.LogWarn("metrics table", err)
		}
	}
	if cfg.TextFile != "" {
		if err := WriteTextfile(cfg.TextFile, v, cfg.Name); err != nil {
			contract.LogWarn("textfile export", err)
		}
	}
	return exitCode, nil
}

// WriteChecks prints the table of supported check types, to outputFile when set.
func (ow *OutWriter) WriteChecks(checks []schema.CheckInfo, output schema.OutputMode, outputFile string) error {
	write := func(w io.Writer) error {
		if output == schema.JSONOut {
			return writeJSON(w, checkRows(checks))
		}
		return writeChecksTable(w, checks, GetMaxTableWidth(w))
	}
	if outputFile != "" {
		return writeWithFile(outputFile, write, "Wrote check list")
	}
	return write(ow.Out)
}

// writeVerdictText prints the status line, then the long output when verbose.
func writeVerdictText(w io.Writer, v schema.Verdict, line string, verbose bool) error {
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	if !verbose {
		return nil
	}
	for _, d := range v.Details {
		if _, err := fmt.Fprintln(w, messageReplacer.Replace(d)); err != nil {
			return err
		}
	}
	return nil
}

// GetMaxTableWidth returns the terminal width of w, or a conservative default
// when w is not a terminal.
func GetMaxTableWidth(w io.Writer) int {
	const fallback = 100
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
