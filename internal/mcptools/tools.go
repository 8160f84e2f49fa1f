package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/codesearch/internal/session"
)

// Register attaches spec.md §6's four operations to server, dispatching
// onto mgr. Grounded on the teacher's registerTools: one AddTool call
// per tool, a literal jsonschema.Schema describing its parameters, and
// a bound method handler.
func Register(server *mcp.Server, mgr *session.Manager) {
	h := &handlers{mgr: mgr}

	server.AddTool(&mcp.Tool{
		Name:        "start_search",
		Description: "Start a cancellable, streaming file/content search session and return the session id plus its first results.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"root_path":    {Type: "string", Description: "Directory to search under"},
				"pattern":      {Type: "string", Description: "Search pattern (regex, glob, or literal substring depending on engine/literal_search)"},
				"search_type":  {Type: "string", Description: "\"files\" or \"content\""},
				"file_pattern": {Type: "string", Description: "Glob restricting which files are walked"},
				"type":         {Type: "array", Items: &jsonschema.Schema{Type: "string"}, Description: "Named file-type groups to include"},
				"type_not":     {Type: "array", Items: &jsonschema.Schema{Type: "string"}, Description: "Named file-type groups to exclude"},
				"case_mode":    {Type: "string", Description: "\"sensitive\", \"insensitive\", or \"smart\""},
				"max_results":  {Type: "integer", Description: "Result cap; defaulted and capped per configured constants"},
				"include_hidden":    {Type: "boolean"},
				"no_ignore":         {Type: "boolean", Description: "Disable gitignore/ignore-file filtering"},
				"context":           {Type: "integer", Description: "Context lines before and after a content match"},
				"before_context":    {Type: "integer", Description: "Overrides context for lines before a match"},
				"after_context":     {Type: "integer", Description: "Overrides context for lines after a match"},
				"timeout_ms":        {Type: "integer"},
				"early_termination": {Type: "boolean", Description: "files-mode only: stop at the first exact name match"},
				"literal_search":    {Type: "boolean"},
				"boundary_mode":     {Type: "string", Description: "\"word\", \"line\", or \"none\""},
				"output_mode":       {Type: "string", Description: "\"full\", \"files-only\", or \"count-per-file\""},
				"invert_match":      {Type: "boolean"},
				"engine":            {Type: "string", Description: "\"auto\", \"default\", or \"pcre-like\""},
				"preprocessor":       {Type: "string", Description: "Command piping matched files through before they're searched"},
				"preprocessor_globs": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
				"search_zip":         {Type: "boolean"},
				"binary_mode":        {Type: "string", Description: "\"auto\", \"binary\", or \"text\""},
				"multiline":          {Type: "boolean"},
				"max_filesize":       {Type: "integer", Description: "Bytes"},
				"max_depth":          {Type: "integer"},
				"only_matching":      {Type: "boolean"},
				"list_files_only":    {Type: "boolean"},
				"sort_by":            {Type: "string", Description: "\"path\", \"modified\", \"accessed\", or \"created\""},
				"sort_direction":     {Type: "string", Description: "\"ascending\" or \"descending\""},
				"encoding":           {Type: "string", Description: "\"auto\" or \"none\" accepted"},
				"thread_count":       {Type: "integer"},
				"follow_symlinks":    {Type: "boolean"},
				"one_file_system":    {Type: "boolean"},
			},
			Required: []string{"root_path", "pattern"},
		},
	}, h.startSearch)

	server.AddTool(&mcp.Tool{
		Name:        "get_more_results",
		Description: "Fetch a window of results from an active or completed search session.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"session_id": {Type: "string"},
				"offset":     {Type: "integer", Description: "Negative offset returns a tail window of the last -offset results"},
				"length":     {Type: "integer"},
			},
			Required: []string{"session_id", "offset", "length"},
		},
	}, h.getMoreResults)

	server.AddTool(&mcp.Tool{
		Name:        "terminate_search",
		Description: "Cancel an active search session. Returns false if the session is unknown or already complete.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"session_id": {Type: "string"},
			},
			Required: []string{"session_id"},
		},
	}, h.terminateSearch)

	server.AddTool(&mcp.Tool{
		Name:        "list_active_sessions",
		Description: "List every session currently tracked by the registry, active or recently completed.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, h.listActiveSessions)
}

type handlers struct {
	mgr *session.Manager
}

func (h *handlers) startSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params startSearchParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return errorResponse("start_search", fmt.Errorf("invalid parameters: %w", err))
	}

	resp, err := h.mgr.StartSearch(ctx, params.toOptions())
	if err != nil {
		return errorResponse("start_search", err)
	}
	return jsonResponse(resp)
}

func (h *handlers) getMoreResults(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		SessionID string `json:"session_id"`
		Offset    int    `json:"offset"`
		Length    int    `json:"length"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return errorResponse("get_more_results", fmt.Errorf("invalid parameters: %w", err))
	}

	resp, err := h.mgr.GetMoreResults(params.SessionID, params.Offset, params.Length)
	if err != nil {
		return errorResponse("get_more_results", err)
	}
	return jsonResponse(resp)
}

func (h *handlers) terminateSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return errorResponse("terminate_search", fmt.Errorf("invalid parameters: %w", err))
	}

	cancelled := h.mgr.TerminateSearch(params.SessionID)
	return jsonResponse(map[string]bool{"cancelled": cancelled})
}

func (h *handlers) listActiveSessions(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResponse(h.mgr.ListActiveSessions())
}
