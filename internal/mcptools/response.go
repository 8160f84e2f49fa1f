// Package mcptools registers spec.md §6's four operations —
// start_search, get_more_results, terminate_search, list_active_sessions
// — as MCP tools over internal/session.Manager. Grounded on the
// teacher's internal/mcp/server.go (mcp.NewServer/AddTool/StdioTransport
// wiring) and internal/mcp/response.go (createJSONResponse/
// createErrorResponse shape), using the same
// github.com/modelcontextprotocol/go-sdk and github.com/google/jsonschema-go
// already in its go.mod.
package mcptools

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/codesearch/internal/apperr"
)

func jsonResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(content)}},
	}, nil
}

func errorResponse(op string, err error) (*mcp.CallToolResult, error) {
	errorData := map[string]interface{}{
		"success":   false,
		"error":     err.Error(),
		"operation": op,
	}
	if appErr, ok := err.(*apperr.Error); ok {
		errorData["kind"] = string(appErr.Kind)
	}
	resp, marshalErr := jsonResponse(errorData)
	if marshalErr != nil {
		return nil, marshalErr
	}
	resp.IsError = true
	return resp, nil
}
