package outwriter

import (
	"io"

	"github.com/hycu-tools/check-hycu/schema"
)

// verdictJSON is the JSON document of one check run.
type verdictJSON struct {
	schema.Verdict
	ExitCode int    `json:"exit_code"`
	Line     string `json:"line"`
}

func writeVerdictJSON(w io.Writer, v schema.Verdict, exitCode int, line string) error {
	if v.Metrics == nil {
		v.Metrics = []schema.PerfMetric{}
	}
	return writeJSON(w, verdictJSON{Verdict: v, ExitCode: exitCode, Line: line})
}
