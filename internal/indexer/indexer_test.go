package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docweave/internal/parser"
	"github.com/docweave/docweave/internal/vectorstore"
)

// memoryStore implements vectorstore.Store in memory for testing
type memoryStore struct {
	points    map[string]vectorstore.Payload // point id -> payload
	upserts   int
	scrollErr error
	deleteErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{points: make(map[string]vectorstore.Payload)}
}

func (m *memoryStore) Upsert(ctx context.Context, vectors [][]float32, payloads []vectorstore.Payload) error {
	if len(vectors) != len(payloads) {
		return vectorstore.ErrLengthMismatch
	}
	m.upserts++
	for _, p := range payloads {
		m.points[vectorstore.PointID(p.SymbolID)] = p
	}
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, pointIDs []string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, id := range pointIDs {
		delete(m.points, id)
	}
	return nil
}

func (m *memoryStore) Search(ctx context.Context, vector []float32, k int) ([]vectorstore.ScoredPayload, error) {
	return nil, nil
}

func (m *memoryStore) ScrollAll(ctx context.Context) ([]vectorstore.Payload, error) {
	if m.scrollErr != nil {
		return nil, m.scrollErr
	}
	out := make([]vectorstore.Payload, 0, len(m.points))
	for _, p := range m.points {
		out = append(out, p)
	}
	return out, nil
}

func (m *memoryStore) Close() error { return nil }

// mockEmbedder returns constant vectors and records inputs
type mockEmbedder struct {
	texts    []string
	embedErr error
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.texts = append(m.texts, texts...)
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimension() int { return 3 }
func (m *mockEmbedder) Model() string  { return "mock" }

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
}

const fileA = `package calc

// Add returns a + b.
func Add(a, b int) int {
	return a + b
}

// Sub returns a - b.
func Sub(a, b int) int {
	return a - b
}
`

func TestSyncInitialPassIndexesEverything(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "calc.go", fileA)

	store := newMemoryStore()
	emb := &mockEmbedder{}
	ix := New(parser.New(), store, emb, false)

	result, err := ix.Sync(context.Background(), root, nil)
	require.NoError(t, err)

	// Module symbols are structural only; Add and Sub get embedded.
	assert.Len(t, result.Changed, 2)
	assert.Equal(t, 0, result.Unchanged)
	assert.Empty(t, result.DeletedIDs)
	assert.Equal(t, []string{"calc.go"}, result.ChangedFiles)
	assert.Len(t, store.points, 2)
}

func TestSyncUnchangedSymbolsAreSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "calc.go", fileA)

	store := newMemoryStore()
	ix := New(parser.New(), store, &mockEmbedder{}, false)

	_, err := ix.Sync(context.Background(), root, nil)
	require.NoError(t, err)

	result, err := ix.Sync(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Empty(t, result.Changed)
	assert.Equal(t, 2, result.Unchanged)
	assert.Equal(t, 1, store.upserts)
}

func TestSyncDetectsModifiedSymbol(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "calc.go", fileA)

	store := newMemoryStore()
	ix := New(parser.New(), store, &mockEmbedder{}, false)
	_, err := ix.Sync(context.Background(), root, nil)
	require.NoError(t, err)

	modified := `package calc

// Add returns the sum of a and b.
func Add(a, b int) int {
	return a + b
}

// Sub returns a - b.
func Sub(a, b int) int {
	return a - b
}
`
	writeFile(t, root, "calc.go", modified)

	result, err := ix.Sync(context.Background(), root, nil)
	require.NoError(t, err)

	require.Len(t, result.Changed, 1)
	assert.Equal(t, "calc.Add", result.Changed[0].SymbolID)
	assert.Equal(t, 1, result.Unchanged)
}

func TestSyncDetectsDeletedSymbol(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "calc.go", fileA)

	store := newMemoryStore()
	ix := New(parser.New(), store, &mockEmbedder{}, false)
	_, err := ix.Sync(context.Background(), root, nil)
	require.NoError(t, err)

	withoutSub := `package calc

// Add returns a + b.
func Add(a, b int) int {
	return a + b
}
`
	writeFile(t, root, "calc.go", withoutSub)

	result, err := ix.Sync(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"calc.Sub"}, result.DeletedIDs)
	assert.Len(t, store.points, 1)
	_, remains := store.points[vectorstore.PointID("calc.Add")]
	assert.True(t, remains)
}

func TestSyncSkipsUnparseableFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "good.go", fileA)
	writeFile(t, root, "broken.go", "package calc\n\nfunc Broken( {")

	store := newMemoryStore()
	ix := New(parser.New(), store, &mockEmbedder{}, false)

	result, err := ix.Sync(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"good.go"}, result.ChangedFiles)
	assert.Len(t, result.Changed, 2)
}

func TestSyncUnparseableFileNeverTriggersDeletion(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "calc.go", fileA)

	store := newMemoryStore()
	ix := New(parser.New(), store, &mockEmbedder{}, false)
	_, err := ix.Sync(context.Background(), root, nil)
	require.NoError(t, err)

	writeFile(t, root, "calc.go", "package calc\n\nfunc Add( {")

	result, err := ix.Sync(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Empty(t, result.DeletedIDs)
	assert.Len(t, store.points, 2)
}

func TestSyncStoreReadFailureTreatsAllAsNew(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "calc.go", fileA)

	store := newMemoryStore()
	store.scrollErr = errors.New("disk on fire")
	ix := New(parser.New(), store, &mockEmbedder{}, false)

	result, err := ix.Sync(context.Background(), root, nil)
	require.NoError(t, err)
	assert.Len(t, result.Changed, 2)
}

func TestSyncEmbedFailureIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "calc.go", fileA)

	ix := New(parser.New(), newMemoryStore(), &mockEmbedder{embedErr: errors.New("quota")}, false)

	_, err := ix.Sync(context.Background(), root, nil)
	assert.Error(t, err)
}

func TestSyncExplicitFileList(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "calc.go", fileA)
	writeFile(t, root, "other.go", "package calc\n\n// Mul returns a * b.\nfunc Mul(a, b int) int {\n\treturn a * b\n}\n")

	store := newMemoryStore()
	ix := New(parser.New(), store, &mockEmbedder{}, false)

	result, err := ix.Sync(context.Background(), root, []string{"other.go"})
	require.NoError(t, err)

	assert.Equal(t, []string{"other.go"}, result.ChangedFiles)
	require.Len(t, result.Changed, 1)
	assert.Equal(t, "other.Mul", result.Changed[0].SymbolID)
}

func TestEmbeddingTextUsesQualnameAndDocstring(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "calc.go", fileA)

	emb := &mockEmbedder{}
	ix := New(parser.New(), newMemoryStore(), emb, false)

	_, err := ix.Sync(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Contains(t, emb.texts, "calc.Add: Add returns a + b.")
}
