// Package vectorstore persists symbol embeddings and their payloads. The
// Store interface is the fixed capability set the rest of the pipeline
// programs against; the SQLite implementation keeps the collection in a
// single local file.
package vectorstore

import (
	"context"
	"crypto/md5"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrLengthMismatch is returned when vectors and payloads differ in length
	ErrLengthMismatch = errors.New("vectors and payloads must have same length")
)

// Payload is the metadata stored alongside each point
type Payload struct {
	SymbolID  string
	Qualname  string
	File      string
	Kind      string
	Hash      string
	Docstring string
}

// ScoredPayload is a search result: payload plus similarity score
type ScoredPayload struct {
	Payload
	Score float64
}

// Store is the capability set required of a vector store. Point identity is
// a pure function of the payload's SymbolID (see PointID), so repeated
// upserts of the same symbol overwrite rather than duplicate.
type Store interface {
	Upsert(ctx context.Context, vectors [][]float32, payloads []Payload) error
	Delete(ctx context.Context, pointIDs []string) error
	Search(ctx context.Context, vector []float32, k int) ([]ScoredPayload, error)
	ScrollAll(ctx context.Context) ([]Payload, error)
	Close() error
}

// PointID derives the stable point identity for a symbol: the 128-bit MD5
// digest of the UTF-8 symbol id, formatted as a canonical UUID string.
func PointID(symbolID string) string {
	sum := md5.Sum([]byte(symbolID))
	id, err := uuid.FromBytes(sum[:])
	if err != nil {
		// md5.Sum always yields 16 bytes; FromBytes cannot fail on it
		panic(err)
	}
	return id.String()
}
