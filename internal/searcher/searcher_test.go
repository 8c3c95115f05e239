package searcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/vectorstore"
)

type stubStore struct {
	results   []vectorstore.ScoredPayload
	searchErr error
}

func (s *stubStore) Upsert(ctx context.Context, vectors [][]float32, payloads []vectorstore.Payload) error {
	return nil
}
func (s *stubStore) Delete(ctx context.Context, pointIDs []string) error { return nil }
func (s *stubStore) Search(ctx context.Context, vector []float32, k int) ([]vectorstore.ScoredPayload, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	if k > len(s.results) {
		k = len(s.results)
	}
	return s.results[:k], nil
}
func (s *stubStore) ScrollAll(ctx context.Context) ([]vectorstore.Payload, error) { return nil, nil }
func (s *stubStore) Close() error                                                 { return nil }

type stubEmbedder struct {
	embedErr error
}

func (e *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.embedErr != nil {
		return nil, e.embedErr
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}
func (e *stubEmbedder) Dimension() int { return 3 }
func (e *stubEmbedder) Model() string  { return "stub" }

func scored(qualname, kind, file string, score float64) vectorstore.ScoredPayload {
	return vectorstore.ScoredPayload{
		Payload: vectorstore.Payload{
			SymbolID: qualname,
			Qualname: qualname,
			Kind:     kind,
			File:     file,
		},
		Score: score,
	}
}

func TestBuildContextFormatsNeighbors(t *testing.T) {
	store := &stubStore{results: []vectorstore.ScoredPayload{
		scored("calc.Add", "function", "calc.go", 0.95),
		scored("calc.Sub", "function", "calc.go", 0.90),
	}}
	s := NewSearcher(store, &stubEmbedder{})

	ctxText, err := s.BuildContext(context.Background(), "calc.Mul", 5)
	require.NoError(t, err)

	assert.Equal(t, "- calc.Add (function) from calc.go\n- calc.Sub (function) from calc.go", ctxText)
}

func TestBuildContextExcludesSelf(t *testing.T) {
	store := &stubStore{results: []vectorstore.ScoredPayload{
		scored("calc.Add", "function", "calc.go", 1.0),
		scored("calc.Sub", "function", "calc.go", 0.8),
	}}
	s := NewSearcher(store, &stubEmbedder{})

	ctxText, err := s.BuildContext(context.Background(), "calc.Add", 5)
	require.NoError(t, err)

	assert.NotContains(t, ctxText, "calc.Add")
	assert.Contains(t, ctxText, "calc.Sub")
}

func TestBuildContextSentinelWhenEmpty(t *testing.T) {
	s := NewSearcher(&stubStore{}, &stubEmbedder{})

	ctxText, err := s.BuildContext(context.Background(), "calc.Add", 5)
	require.NoError(t, err)
	assert.Equal(t, NoContextFound, ctxText)
}

func TestBuildContextSentinelWhenOnlySelfMatches(t *testing.T) {
	store := &stubStore{results: []vectorstore.ScoredPayload{
		scored("calc.Add", "function", "calc.go", 1.0),
	}}
	s := NewSearcher(store, &stubEmbedder{})

	ctxText, err := s.BuildContext(context.Background(), "calc.Add", 5)
	require.NoError(t, err)
	assert.Equal(t, NoContextFound, ctxText)
}

func TestSearchPropagatesErrors(t *testing.T) {
	_, err := NewSearcher(&stubStore{}, &stubEmbedder{embedErr: errors.New("embed down")}).
		Search(context.Background(), "query", 3)
	assert.Error(t, err)

	_, err = NewSearcher(&stubStore{searchErr: errors.New("store down")}, &stubEmbedder{}).
		Search(context.Background(), "query", 3)
	assert.Error(t, err)
}
