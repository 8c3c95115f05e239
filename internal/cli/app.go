package cli

import (
	"fmt"
	"path/filepath"

	"github.com/docweave/docweave/internal/agent"
	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/docstore"
	"github.com/docweave/docweave/internal/embedder"
	"github.com/docweave/docweave/internal/gitdiff"
	"github.com/docweave/docweave/internal/indexer"
	"github.com/docweave/docweave/internal/llm"
	"github.com/docweave/docweave/internal/parser"
	"github.com/docweave/docweave/internal/pipeline"
	"github.com/docweave/docweave/internal/review"
	"github.com/docweave/docweave/internal/searcher"
	"github.com/docweave/docweave/internal/vectorstore"
)

// app bundles the wired components of one invocation
type app struct {
	cfg      config.Config
	store    vectorstore.Store
	docs     *docstore.Store
	searcher *searcher.Searcher
	pipeline *pipeline.Pipeline
	changes  *gitdiff.ChangeSource
}

// buildApp wires every component from the configuration. The caller owns the
// returned store and must Close it.
func buildApp(repoFlag string, includeTests, reviewEnabled bool) (*app, error) {
	repoRoot, err := filepath.Abs(repoFlag)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve repository root: %w", err)
	}

	cfg := config.FromEnv(repoRoot)
	cfg.IncludeTests = includeTests
	cfg.Review = reviewEnabled

	store, err := vectorstore.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	emb := embedder.NewOpenAI(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.EmbedModel, cfg.EmbedDim, embedder.NewCache(0))
	svc := llm.NewOpenAIClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)

	docs := docstore.New(cfg.DocsRoot)
	srch := searcher.NewSearcher(store, emb)
	ix := indexer.New(parser.New(), store, emb, cfg.IncludeTests)

	registry := agent.NewRegistry()
	registry.Register(agent.SearchCodeTool(cfg.RepoRoot, cfg.SearchMatchLimit))
	registry.Register(agent.DocLookupTool(docs))
	registry.Register(agent.ListDirectoryTool(cfg.RepoRoot))

	audit := agent.NewAuditLog(cfg.AuditLogPath())

	var reviewer *review.Reviewer
	if cfg.Review {
		reviewer = review.New(svc, cfg.ReviewRetries, cfg.ReviewFailurePath())
	}

	return &app{
		cfg:      cfg,
		store:    store,
		docs:     docs,
		searcher: srch,
		pipeline: pipeline.New(cfg, ix, srch, docs, svc, registry, audit, reviewer),
		changes:  gitdiff.New(cfg.RepoRoot),
	}, nil
}
