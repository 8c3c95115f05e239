package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/docstore"
	"github.com/docweave/docweave/internal/gitdiff"
	"github.com/docweave/docweave/internal/pipeline"
	"github.com/docweave/docweave/internal/searcher"
	"github.com/docweave/docweave/internal/vectorstore"
)

const (
	// ServerName is the MCP server name
	ServerName = "docweave"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	cfg      config.Config
	pipeline *pipeline.Pipeline
	searcher *searcher.Searcher
	docs     *docstore.Store
	store    vectorstore.Store
	changes  *gitdiff.ChangeSource

	mu         sync.Mutex
	lastReport *pipeline.Report
}

// NewServer creates an MCP server over already-wired components
func NewServer(cfg config.Config, p *pipeline.Pipeline, s *searcher.Searcher,
	docs *docstore.Store, store vectorstore.Store, changes *gitdiff.ChangeSource) *Server {
	srv := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		cfg:      cfg,
		pipeline: p,
		searcher: s,
		docs:     docs,
		store:    store,
		changes:  changes,
	}
	srv.registerTools()
	return srv
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.store.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(syncDocsTool(), s.handleSyncDocs)
	s.mcp.AddTool(searchSymbolsTool(), s.handleSearchSymbols)
	s.mcp.AddTool(getSymbolDocTool(), s.handleGetSymbolDoc)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
