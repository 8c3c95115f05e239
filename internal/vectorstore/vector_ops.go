package vectorstore

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

// rankCandidates computes cosine similarity against every stored vector and
// returns the candidates sorted best first. The collection is small enough
// (one point per symbol) that a full scan in Go is the simplest correct
// ranking strategy.
func rankCandidates(rows *sql.Rows, queryVector []float32) ([]ScoredPayload, error) {
	var candidates []ScoredPayload

	for rows.Next() {
		var p Payload
		var docstring sql.NullString
		var blob []byte
		if err := rows.Scan(&p.SymbolID, &p.Qualname, &p.File, &p.Kind, &p.Hash, &docstring, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		p.Docstring = docstring.String

		vector := deserializeVector(blob)
		if len(vector) != len(queryVector) {
			continue // dimension mismatch, skip
		}

		candidates = append(candidates, ScoredPayload{
			Payload: p,
			Score:   cosineSimilarity(queryVector, vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}

// cosineSimilarity computes the cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// serializeVector converts a float32 slice to a byte blob (little-endian)
func serializeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// deserializeVector converts a byte blob back to a float32 slice
func deserializeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector
}
