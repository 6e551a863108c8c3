package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hycu-tools/check-hycu/core"
	"github.com/hycu-tools/check-hycu/internal/contract"
	"github.com/hycu-tools/check-hycu/internal/logging"
	"github.com/hycu-tools/check-hycu/internal/outwriter"
	"github.com/hycu-tools/check-hycu/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	base    contract.ConfigRawInput
	sources SourceFactory
	prober  contract.PortProber
}

// checkResult is the tool payload of run_check.
type checkResult struct {
	schema.Verdict
	ExitCode int    `json:"exit_code"`
	Line     string `json:"line"`
}

func (h *toolHandler) handleRunCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input := h.base
	input.Type = request.GetString("type", "")
	input.Name = request.GetString("name", "")
	input.Warning = request.GetString("warning", "")
	input.Critical = request.GetString("critical", "")
	if p := request.GetInt("period", 0); p != 0 {
		input.Period = p
	}

	cfg := &contract.Config{}
	if err := contract.ProcessAndValidate(cfg, &input); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid check parameters: %v", err)), nil
	}

	var src contract.Source
	if info, _ := schema.LookupCheck(cfg.Check); info.NeedsToken {
		opened, err := h.sources(cfg)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("cannot reach controller: %v", err)), nil
		}
		if closer, ok := opened.(interface{ Close() }); ok {
			defer closer.Close()
		}
		src = opened
	}

	ctx, _ = logging.WithRunID(ctx, "")
	logger := logging.FromContext(ctx)
	logger.Debug().Str("check", string(cfg.Check)).Str("name", cfg.Name).Msg("mcp run_check")

	verdict := core.Run(ctx, cfg, src, h.prober)
	exitCode, line := outwriter.FormatVerdict(verdict)

	logger.Debug().Int("exit_code", exitCode).Msg("mcp run_check done")

	jsonData, _ := json.MarshalIndent(checkResult{Verdict: verdict, ExitCode: exitCode, Line: line}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListChecks(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type checkEntry struct {
		Type        schema.CheckType     `json:"type"`
		Category    schema.CheckCategory `json:"category"`
		Name        string               `json:"name,omitempty"`
		Thresholded bool                 `json:"thresholded"`
		Inverted    bool                 `json:"inverted,omitempty"`
		Windowed    bool                 `json:"windowed,omitempty"`
		Warning     float64              `json:"warning,omitempty"`
		Critical    float64              `json:"critical,omitempty"`
		Description string               `json:"description"`
	}

	checks := schema.AllChecks()
	entries := make([]checkEntry, 0, len(checks))
	for _, c := range checks {
		entries = append(entries, checkEntry{
			Type:        c.Type,
			Category:    c.Category,
			Name:        c.NameHint,
			Thresholded: c.Thresholded,
			Inverted:    c.Inverted,
			Windowed:    c.Windowed,
			Warning:     c.Warning,
			Critical:    c.Critical,
			Description: c.Description,
		})
	}

	jsonData, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
