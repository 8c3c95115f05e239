package vectorstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "vectors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func payload(symbolID, file, hash string) Payload {
	return Payload{
		SymbolID: symbolID,
		Qualname: symbolID,
		File:     file,
		Kind:     "function",
		Hash:     hash,
	}
}

func TestPointIDIsDeterministic(t *testing.T) {
	a := PointID("pkg.calc.Add")
	b := PointID("pkg.calc.Add")
	c := PointID("pkg.calc.Sub")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 36) // canonical UUID string
}

func TestUpsertAndScrollAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx,
		[][]float32{{1, 0, 0}, {0, 1, 0}},
		[]Payload{payload("m.Add", "m.go", "h1"), payload("m.Sub", "m.go", "h2")})
	require.NoError(t, err)

	payloads, err := store.ScrollAll(ctx)
	require.NoError(t, err)
	require.Len(t, payloads, 2)

	ids := []string{payloads[0].SymbolID, payloads[1].SymbolID}
	assert.ElementsMatch(t, []string{"m.Add", "m.Sub"}, ids)
}

func TestUpsertOverwritesExistingSymbol(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, [][]float32{{1, 0}}, []Payload{payload("m.Add", "m.go", "old")}))
	require.NoError(t, store.Upsert(ctx, [][]float32{{0, 1}}, []Payload{payload("m.Add", "m.go", "new")}))

	payloads, err := store.ScrollAll(ctx)
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Equal(t, "new", payloads[0].Hash)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpsertRejectsLengthMismatch(t *testing.T) {
	store := newTestStore(t)

	err := store.Upsert(context.Background(), [][]float32{{1}}, nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestDeleteRemovesPoints(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx,
		[][]float32{{1, 0}, {0, 1}},
		[]Payload{payload("m.Add", "m.go", "h1"), payload("m.Sub", "m.go", "h2")}))

	require.NoError(t, store.Delete(ctx, []string{PointID("m.Sub"), PointID("m.NeverExisted")}))

	payloads, err := store.ScrollAll(ctx)
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Equal(t, "m.Add", payloads[0].SymbolID)
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx,
		[][]float32{{1, 0, 0}, {0.9, 0.1, 0}, {0, 0, 1}},
		[]Payload{
			payload("m.Exact", "m.go", "h1"),
			payload("m.Close", "m.go", "h2"),
			payload("m.Far", "m.go", "h3"),
		}))

	results, err := store.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "m.Exact", results[0].SymbolID)
	assert.Equal(t, "m.Close", results[1].SymbolID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchSkipsDimensionMismatches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx,
		[][]float32{{1, 0}, {1, 0, 0}},
		[]Payload{payload("m.TwoDim", "m.go", "h1"), payload("m.ThreeDim", "m.go", "h2")}))

	results, err := store.Search(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "m.ThreeDim", results[0].SymbolID)
}

func TestSearchEmptyCollection(t *testing.T) {
	store := newTestStore(t)

	results, err := store.Search(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}

func TestVectorSerializationRoundTrip(t *testing.T) {
	original := []float32{0.1, -2.5, 3.25, 0}
	assert.Equal(t, original, deserializeVector(serializeVector(original)))
}
