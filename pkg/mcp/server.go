// Package mcp exposes uiloop as MCP tools for AI agents.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates a new MCP server with uiloop tools registered.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer(
		"uiloop",
		version,
		server.WithToolCapabilities(true),
	)

	// Register tools
	s.AddTool(
		mcp.NewTool("uiloop/run",
			mcp.WithDescription("Execute a loop request against a scripted page fixture"),
			mcp.WithString("spec", mcp.Required(), mcp.Description("Path to the loop request YAML file")),
			mcp.WithString("fixture", mcp.Required(), mcp.Description("Path to the scripted page fixture YAML file")),
			mcp.WithString("trace", mcp.Description("Path to append a JSONL trace of loop events (optional)")),
		),
		HandleRun,
	)

	s.AddTool(
		mcp.NewTool("uiloop/validate",
			mcp.WithDescription("Validate a uiloop request YAML file"),
			mcp.WithString("spec", mcp.Required(), mcp.Description("Path to the loop request YAML file")),
		),
		HandleValidate,
	)

	s.AddTool(
		mcp.NewTool("uiloop/schema",
			mcp.WithDescription("Export uiloop JSON Schema (request or fixture)"),
			mcp.WithString("type", mcp.Required(), mcp.Description("Schema type: 'request' or 'fixture'")),
		),
		HandleSchema,
	)

	return s
}
