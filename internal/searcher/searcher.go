// Package searcher turns a symbol into a nearest-neighbor context snippet by
// embedding its qualified name and querying the vector store.
package searcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/docweave/docweave/internal/embedder"
	"github.com/docweave/docweave/internal/vectorstore"
)

// NoContextFound is emitted when no neighbors survive self-exclusion
const NoContextFound = "No related context found."

// Searcher performs semantic search over the indexed symbols
type Searcher struct {
	store    vectorstore.Store
	embedder embedder.Embedder
}

// NewSearcher creates a Searcher over the given store and embedder
func NewSearcher(store vectorstore.Store, emb embedder.Embedder) *Searcher {
	return &Searcher{store: store, embedder: emb}
}

// Search embeds the query text and returns the k nearest payloads
func (s *Searcher) Search(ctx context.Context, query string, k int) ([]vectorstore.ScoredPayload, error) {
	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	results, err := s.store.Search(ctx, vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	return results, nil
}

// BuildContext renders the retrieval context for a symbol: the k nearest
// neighbors minus the symbol itself, one line each, or the sentinel when
// nothing survives.
func (s *Searcher) BuildContext(ctx context.Context, qualname string, k int) (string, error) {
	results, err := s.Search(ctx, qualname, k)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, res := range results {
		if res.Qualname == qualname {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s (%s) from %s", res.Qualname, res.Kind, res.File))
	}

	if len(lines) == 0 {
		return NoContextFound, nil
	}
	return strings.Join(lines, "\n"), nil
}
