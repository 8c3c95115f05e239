package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// syncDocsTool returns the tool definition for sync_docs
func syncDocsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sync_docs",
		Description: "Detect changed symbols in the repository and regenerate their documentation sections",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"files": map[string]interface{}{
					"type":        "array",
					"description": "Go files to sync, relative to the repository root. Omit to sync files changed in the last commit.",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"all": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, sync every Go file in the repository regardless of git state",
					"default":     false,
				},
			},
		},
	}
}

// searchSymbolsTool returns the tool definition for search_symbols
func searchSymbolsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_symbols",
		Description: "Semantic search over the indexed symbols of the repository",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (natural language or a qualified symbol name)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// getSymbolDocTool returns the tool definition for get_symbol_doc
func getSymbolDocTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_symbol_doc",
		Description: "Retrieve the generated Markdown documentation block for a symbol",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"symbol_id": map[string]interface{}{
					"type":        "string",
					"description": "Fully qualified symbol id, e.g. internal.calc.core.Engine.Add",
				},
			},
			Required: []string{"symbol_id"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query index statistics and the result of the most recent sync pass",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
