// Package config builds the single immutable configuration value that is
// threaded explicitly through every component at process start.
package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Environment variable names
const (
	EnvLLMBaseURL = "DOCWEAVE_LLM_BASE_URL"
	EnvLLMAPIKey  = "DOCWEAVE_LLM_API_KEY"
	EnvLLMModel   = "DOCWEAVE_LLM_MODEL"
	EnvEmbedModel = "DOCWEAVE_EMBED_MODEL"
	EnvEmbedDim   = "DOCWEAVE_EMBED_DIM"
	EnvDBPath     = "DOCWEAVE_DB_PATH"
	EnvDocsRoot   = "DOCWEAVE_DOCS_ROOT"
	EnvAuditDir   = "DOCWEAVE_AUDIT_DIR"
)

// Defaults target a local OpenAI-compatible endpoint (Ollama's /v1 API).
const (
	DefaultLLMBaseURL = "http://localhost:11434/v1"
	DefaultLLMAPIKey  = "ollama"
	DefaultLLMModel   = "qwen3:4b"
	DefaultEmbedModel = "nomic-embed-text"
	DefaultEmbedDim   = 768

	DefaultMaxSteps         = 5
	DefaultObservationLimit = 1000
	DefaultTopK             = 5
	DefaultReviewRetries    = 3
	DefaultSearchMatchLimit = 10
)

// Config carries every ambient setting of the pipeline. It is constructed
// once and never mutated afterwards.
type Config struct {
	RepoRoot string // repository being documented
	DocsRoot string // directory holding generated Markdown documents
	DBPath   string // SQLite vector collection file
	AuditDir string // agent audit log and review failure records

	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string

	EmbedModel string
	EmbedDim   int

	MaxSteps         int // agent loop step budget
	ObservationLimit int // tool result truncation length in history
	TopK             int // nearest neighbors fetched for retrieval context
	ReviewRetries    int // review loop revision budget
	SearchMatchLimit int // cap on search_code tool matches

	IncludeTests bool // whether _test.go files are documented
	Review       bool // enable the review-gated generation variant
}

// FromEnv constructs a Config for the given repository root, reading
// overrides from the environment and falling back to defaults.
func FromEnv(repoRoot string) Config {
	cfg := Config{
		RepoRoot:         repoRoot,
		DocsRoot:         getenv(EnvDocsRoot, filepath.Join(repoRoot, "docs")),
		DBPath:           getenv(EnvDBPath, filepath.Join(repoRoot, ".docweave", "vectors.db")),
		AuditDir:         getenv(EnvAuditDir, filepath.Join(repoRoot, ".docweave")),
		LLMBaseURL:       getenv(EnvLLMBaseURL, DefaultLLMBaseURL),
		LLMAPIKey:        getenv(EnvLLMAPIKey, DefaultLLMAPIKey),
		LLMModel:         getenv(EnvLLMModel, DefaultLLMModel),
		EmbedModel:       getenv(EnvEmbedModel, DefaultEmbedModel),
		EmbedDim:         getenvInt(EnvEmbedDim, DefaultEmbedDim),
		MaxSteps:         DefaultMaxSteps,
		ObservationLimit: DefaultObservationLimit,
		TopK:             DefaultTopK,
		ReviewRetries:    DefaultReviewRetries,
		SearchMatchLimit: DefaultSearchMatchLimit,
	}
	return cfg
}

// AuditLogPath returns the location of the append-only agent audit log.
func (c Config) AuditLogPath() string {
	return filepath.Join(c.AuditDir, "agent_history.log")
}

// ReviewFailurePath returns the location of the review failure records.
func (c Config) ReviewFailurePath() string {
	return filepath.Join(c.AuditDir, "review_failures.jsonl")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
