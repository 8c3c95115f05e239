// Package embedder turns symbol text into fixed-dimension vectors through an
// OpenAI-compatible embeddings endpoint, with content-hash caching and
// bounded retry.
package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Common errors
var (
	ErrEmptyText      = errors.New("text cannot be empty")
	ErrProviderFailed = errors.New("embedding provider failed")
)

// Embedder generates embeddings for batches of texts. Implementations must
// return one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	Model() string
}

// ComputeHash returns the cache key for a text
func ComputeHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Cache provides in-memory LRU caching of embeddings by content hash
type Cache struct {
	cache *lru.Cache[string, []float32]
}

// NewCache creates a new embedding cache with LRU eviction
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 10000
	}
	// lru.New only errors on non-positive size
	c, _ := lru.New[string, []float32](maxLen)
	return &Cache{cache: c}
}

// Get retrieves a cached vector by content hash
func (c *Cache) Get(hash string) ([]float32, bool) {
	return c.cache.Get(hash)
}

// Set stores a vector under its content hash
func (c *Cache) Set(hash string, vector []float32) {
	c.cache.Add(hash, vector)
}
