package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/docweave/docweave/internal/pipeline"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyQuery    = -32004 // Query parameter is empty
	ErrorCodeNotFound      = -32005 // No documentation for the symbol
)

// handleSyncDocs handles the sync_docs tool invocation
func (s *Server) handleSyncDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	var files []string
	switch {
	case getBoolDefault(args, "all", false):
		files = nil // full pass
	case args["files"] != nil:
		raw, ok := args["files"].([]interface{})
		if !ok {
			return nil, newMCPError(ErrorCodeInvalidParams, "files must be an array of strings", map[string]interface{}{
				"param": "files",
			})
		}
		for _, item := range raw {
			f, ok := item.(string)
			if !ok || f == "" {
				return nil, newMCPError(ErrorCodeInvalidParams, "files must be an array of non-empty strings", map[string]interface{}{
					"param": "files",
				})
			}
			files = append(files, f)
		}
		if len(files) == 0 {
			return mcp.NewToolResultText(formatJSON(map[string]interface{}{
				"synced":  false,
				"message": "No files given and nothing inferred; nothing to do.",
			})), nil
		}
	default:
		files = s.changes.ChangedFiles()
		if len(files) == 0 {
			return mcp.NewToolResultText(formatJSON(map[string]interface{}{
				"synced":  false,
				"message": "No changed Go files since the previous commit.",
			})), nil
		}
	}

	report, err := s.pipeline.Run(ctx, files)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "sync failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"synced":            true,
		"files_processed":   report.FilesProcessed,
		"symbols_changed":   report.SymbolsChanged,
		"symbols_deleted":   report.SymbolsDeleted,
		"symbols_unchanged": report.SymbolsUnchanged,
		"docs_written":      report.DocsWritten,
		"impact_updates":    report.ImpactUpdates,
		"symbol_failures":   report.SymbolFailures,
	})), nil
}

// handleSearchSymbols handles the search_symbols tool invocation
func (s *Server) handleSearchSymbols(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	results, err := s.searcher.Search(ctx, query, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	items := make([]map[string]interface{}, 0, len(results))
	for _, res := range results {
		items = append(items, map[string]interface{}{
			"symbol_id": res.SymbolID,
			"qualname":  res.Qualname,
			"kind":      res.Kind,
			"file":      res.File,
			"score":     res.Score,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query":   query,
		"count":   len(items),
		"results": items,
	})), nil
}

// handleGetSymbolDoc handles the get_symbol_doc tool invocation
func (s *Server) handleGetSymbolDoc(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	symbolID, ok := args["symbol_id"].(string)
	if !ok || symbolID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "symbol_id parameter is required", map[string]interface{}{
			"param":  "symbol_id",
			"reason": "missing or empty",
		})
	}

	block, ok := s.docs.DocForSymbol(symbolID)
	if !ok {
		return nil, newMCPError(ErrorCodeNotFound, "no documentation for symbol", map[string]interface{}{
			"symbol_id": symbolID,
		})
	}
	return mcp.NewToolResultText(block), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payloads, err := s.store.ScrollAll(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read index", map[string]interface{}{
			"error": err.Error(),
		})
	}

	kinds := make(map[string]int)
	files := make(map[string]bool)
	for _, p := range payloads {
		kinds[p.Kind]++
		files[p.File] = true
	}

	response := map[string]interface{}{
		"repo_root":     s.cfg.RepoRoot,
		"docs_root":     s.docs.Root(),
		"branch":        s.changes.CurrentBranch(),
		"symbols_count": len(payloads),
		"files_count":   len(files),
		"kinds":         kinds,
	}

	if lu, ok := s.store.(interface {
		LastUpdated(ctx context.Context) (time.Time, error)
	}); ok {
		if ts, err := lu.LastUpdated(ctx); err == nil && !ts.IsZero() {
			response["last_indexed_at"] = ts.Format(time.RFC3339)
		}
	}

	s.mu.Lock()
	last := s.lastReport
	s.mu.Unlock()
	if last != nil {
		response["last_sync"] = lastSyncSummary(last)
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

func lastSyncSummary(r *pipeline.Report) map[string]interface{} {
	return map[string]interface{}{
		"files_processed": r.FilesProcessed,
		"symbols_changed": r.SymbolsChanged,
		"symbols_deleted": r.SymbolsDeleted,
		"docs_written":    r.DocsWritten,
		"impact_updates":  r.ImpactUpdates,
		"symbol_failures": r.SymbolFailures,
	}
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}
