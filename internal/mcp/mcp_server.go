// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/hycu-tools/check-hycu/internal/contract"
	"github.com/hycu-tools/check-hycu/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SourceFactory opens the controller source for one validated config.
type SourceFactory func(cfg *contract.Config) (contract.Source, error)

// NewMCPServer initializes and configures the check-hycu MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(base contract.ConfigRawInput, sources SourceFactory, prober contract.PortProber, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"HYCU Check Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		base:    base,
		sources: sources,
		prober:  prober,
	}

	types := make([]string, 0, len(schema.AllChecks()))
	for _, c := range schema.AllChecks() {
		types = append(types, string(c.Type))
	}

	// --- 1. Tool: run_check ---
	s.AddTool(mcp.NewTool("run_check",
		mcp.WithDescription("Run one HYCU check against the configured controller and return its verdict."),
		mcp.WithString("type", mcp.Description("Check type."), mcp.Required(), mcp.Enum(types...)),
		mcp.WithString("name", mcp.Description("Object name, VM UUID, port or manager mode, depending on the check.")),
		mcp.WithString("warning", mcp.Description("Warning threshold. Defaults to the check's own level.")),
		mcp.WithString("critical", mcp.Description("Critical threshold. Defaults to the check's own level.")),
		mcp.WithNumber("period", mcp.Description("Period in hours for jobs and backup-validation (1-168).")),
	), h.handleRunCheck)

	// --- 2. Tool: list_checks ---
	s.AddTool(mcp.NewTool("list_checks",
		mcp.WithDescription("List the supported check types with their arguments and default thresholds."),
	), h.handleListChecks)

	return s
}

// StartMCPServer starts the check-hycu MCP server on stdio.
func StartMCPServer(_ context.Context, base contract.ConfigRawInput, sources SourceFactory, prober contract.PortProber, version string) error {
	s := NewMCPServer(base, sources, prober, version)
	return server.ServeStdio(s)
}
