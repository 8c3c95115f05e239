// Package indexer diffs the current symbols of changed files against the
// hashes persisted in the vector store, deciding at sub-file granularity
// which units must be re-embedded and which have disappeared.
package indexer

import (
	"context"
	"fmt"
	"log"

	"github.com/docweave/docweave/internal/embedder"
	"github.com/docweave/docweave/internal/parser"
	"github.com/docweave/docweave/internal/vectorstore"
	"github.com/docweave/docweave/pkg/types"
)

// Indexer coordinates the diff pass: extract -> classify -> embed -> store
type Indexer struct {
	parser       *parser.Parser
	store        vectorstore.Store
	embedder     embedder.Embedder
	includeTests bool
}

// Result carries everything downstream stages need from one sync pass
type Result struct {
	Symbols      []types.Symbol // all current symbols of the target files
	Changed      []types.Symbol // indexable symbols that were re-embedded
	DeletedIDs   []string       // symbol ids removed from the store
	ChangedFiles []string       // resolved target files, in processing order
	Unchanged    int
}

// New creates an Indexer
func New(p *parser.Parser, store vectorstore.Store, emb embedder.Embedder, includeTests bool) *Indexer {
	return &Indexer{parser: p, store: store, embedder: emb, includeTests: includeTests}
}

// Sync extracts symbols for the changed files (all files when changedFiles
// is nil), classifies each against the stored hash map, deletes vanished
// symbols from the store, and re-embeds changed and new ones.
//
// Files that fail to parse are skipped, logged, and excluded from the
// returned file list; they never trigger deletions. A store read failure
// degrades to an empty hash map so the pass still completes, treating every
// symbol as new.
func (ix *Indexer) Sync(ctx context.Context, root string, changedFiles []string) (*Result, error) {
	files := changedFiles
	if files == nil {
		var err error
		files, err = parser.CollectFiles(root, ix.includeTests)
		if err != nil {
			return nil, fmt.Errorf("failed to discover files: %w", err)
		}
	}

	result := &Result{}
	currentByFile := make(map[string]map[string]bool)

	for _, file := range files {
		symbols, err := ix.parser.ParseFile(root, file)
		if err != nil {
			log.Printf("indexer: skipping %s: %v", file, err)
			continue
		}
		result.ChangedFiles = append(result.ChangedFiles, file)
		result.Symbols = append(result.Symbols, symbols...)

		ids := make(map[string]bool, len(symbols))
		for _, sym := range symbols {
			if sym.Indexable() {
				ids[sym.SymbolID] = true
			}
		}
		currentByFile[file] = ids
	}

	existingHashes, existingByFile := ix.loadStoredState(ctx)

	// Symbols present in the store for a target file but absent from its
	// current set have been deleted from the source.
	var deletedIDs []string
	for _, file := range result.ChangedFiles {
		for id := range existingByFile[file] {
			if !currentByFile[file][id] {
				deletedIDs = append(deletedIDs, id)
			}
		}
	}
	if len(deletedIDs) > 0 {
		pointIDs := make([]string, len(deletedIDs))
		for i, id := range deletedIDs {
			pointIDs[i] = vectorstore.PointID(id)
		}
		if err := ix.store.Delete(ctx, pointIDs); err != nil {
			log.Printf("indexer: failed to delete %d stale points: %v", len(pointIDs), err)
		} else {
			result.DeletedIDs = deletedIDs
		}
	}

	for _, sym := range result.Symbols {
		if !sym.Indexable() {
			continue
		}
		if stored, ok := existingHashes[sym.SymbolID]; ok && stored == sym.Hash {
			result.Unchanged++
			continue
		}
		result.Changed = append(result.Changed, sym)
	}

	if len(result.Changed) == 0 {
		return result, nil
	}

	texts := make([]string, len(result.Changed))
	payloads := make([]vectorstore.Payload, len(result.Changed))
	for i, sym := range result.Changed {
		texts[i] = sym.EmbeddingText()
		payloads[i] = vectorstore.Payload{
			SymbolID:  sym.SymbolID,
			Qualname:  sym.Qualname,
			File:      sym.File,
			Kind:      string(sym.Kind),
			Hash:      sym.Hash,
			Docstring: sym.Docstring,
		}
	}

	vectors, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %d symbols: %w", len(texts), err)
	}
	if err := ix.store.Upsert(ctx, vectors, payloads); err != nil {
		return nil, fmt.Errorf("failed to upsert %d points: %w", len(payloads), err)
	}

	return result, nil
}

// loadStoredState reconstructs the symbol-id to hash map and the per-file id
// sets from the store. Read failures degrade to empty maps: the pass must
// not abort, everything simply classifies as new.
func (ix *Indexer) loadStoredState(ctx context.Context) (map[string]string, map[string]map[string]bool) {
	hashes := make(map[string]string)
	byFile := make(map[string]map[string]bool)

	payloads, err := ix.store.ScrollAll(ctx)
	if err != nil {
		log.Printf("indexer: could not read store, treating all symbols as new: %v", err)
		return hashes, byFile
	}

	for _, p := range payloads {
		if p.SymbolID == "" || p.Hash == "" {
			continue
		}
		hashes[p.SymbolID] = p.Hash
		if byFile[p.File] == nil {
			byFile[p.File] = make(map[string]bool)
		}
		byFile[p.File][p.SymbolID] = true
	}
	return hashes, byFile
}
