package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ormasoftchile/uiloop/pkg/loop"
	"github.com/ormasoftchile/uiloop/pkg/schema"
	"github.com/ormasoftchile/uiloop/pkg/scripted"
	"github.com/ormasoftchile/uiloop/pkg/trace"
)

// HandleValidate implements the uiloop/validate MCP tool.
func HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["spec"].(string)
	if path == "" {
		return errorResult("spec argument is required"), nil
	}

	r, errs := schema.ValidateFile(path)
	if schema.HasErrors(errs) {
		return errorResult(formatErrors(errs)), nil
	}
	return textResult(fmt.Sprintf("✓ %s loop request is valid", r.Loop.Type)), nil
}

// HandleSchema implements the uiloop/schema MCP tool.
func HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	schemaType, _ := args["type"].(string)

	var data []byte
	var err error

	switch schemaType {
	case "request":
		data, err = schema.GenerateRequestJSONSchema()
	case "fixture":
		data, err = scripted.GenerateFixtureJSONSchema()
	default:
		return errorResult(fmt.Sprintf("unknown schema type %q — use 'request' or 'fixture'", schemaType)), nil
	}

	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(string(data)), nil
}

// HandleRun implements the uiloop/run MCP tool.
func HandleRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	specPath, _ := args["spec"].(string)
	if specPath == "" {
		return errorResult("spec argument is required"), nil
	}
	fixturePath, _ := args["fixture"].(string)
	if fixturePath == "" {
		return errorResult("fixture argument is required"), nil
	}

	// Validate
	r, errs := schema.ValidateFile(specPath)
	if schema.HasErrors(errs) {
		return errorResult(formatErrors(errs)), nil
	}

	// Build the scripted page
	fx, err := scripted.LoadFixtureFile(fixturePath)
	if err != nil {
		return errorResult(fmt.Sprintf("fixture: %s", err)), nil
	}
	pg, err := scripted.NewPage(fx)
	if err != nil {
		return errorResult(fmt.Sprintf("fixture: %s", err)), nil
	}

	runID := "mcp-" + uuid.NewString()
	cfg := loop.RunConfig{
		RunID:   runID,
		Session: pg,
	}
	if tracePath, _ := args["trace"].(string); tracePath != "" {
		tw, err := trace.NewFileWriter(tracePath, runID)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		cfg.Trace = tw
	}

	// Execute
	eng := loop.New(pg.Actions(), pg.Conditions(), cfg)
	rep, err := eng.Run(ctx, r)
	if err != nil {
		return errorResult(fmt.Sprintf("run: %s", err)), nil
	}

	data, _ := json.MarshalIndent(rep, "", "  ")

	isErr := rep.Summary.Status != "pass"
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
		IsError: isErr,
	}, nil
}

func formatErrors(errs []*schema.ValidationError) string {
	var msgs []string
	for _, e := range errs {
		if e.Severity == "error" {
			msgs = append(msgs, fmt.Sprintf("[%s] %s", e.Phase, e.Message))
		}
	}
	return strings.Join(msgs, "; ")
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(msg),
		},
		IsError: true,
	}
}
