// Package docstore is the section-addressable document store. A document is
// free-form UTF-8 text containing zero or more blocks delimited by a marker
// pair unique per symbol id; everything outside the blocks is opaque and
// preserved byte-for-byte.
package docstore

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/docweave/docweave/pkg/types"
)

// Section marker literals. The symbol id is spliced between prefix and
// suffix; ids containing marker syntax are rejected up front so matching
// stays unambiguous.
const (
	beginPrefix  = "<!-- BEGIN: auto:"
	endPrefix    = "<!-- END: auto:"
	markerSuffix = " -->"
)

// BeginMarker returns the opening marker for a symbol id
func BeginMarker(symbolID string) string {
	return beginPrefix + symbolID + markerSuffix
}

// EndMarker returns the closing marker for a symbol id
func EndMarker(symbolID string) string {
	return endPrefix + symbolID + markerSuffix
}

// ValidateSymbolID rejects ids that would break marker matching
func ValidateSymbolID(symbolID string) error {
	if symbolID == "" {
		return fmt.Errorf("empty symbol id")
	}
	if strings.Contains(symbolID, "<!--") || strings.Contains(symbolID, "-->") {
		return types.ErrUnsafeSymbolID
	}
	return nil
}

// DocFileName maps a source file (relative, slash-separated) to its document
// name: path separators become underscores and the extension becomes .md, so
// every document lives flat in the docs root.
func DocFileName(relFile string) string {
	flat := strings.ReplaceAll(filepath.ToSlash(relFile), "/", "_")
	return strings.TrimSuffix(flat, filepath.Ext(flat)) + ".md"
}

// blockPattern matches one delimited block (markers included), capturing the
// symbol id from the opening marker. Anchored non-greedy matching keeps
// adjacent blocks separate.
var blockPattern = regexp.MustCompile(`(?s)<!-- BEGIN: auto:(.*?) -->.*?<!-- END: auto:.*? -->`)

// Store writes and reorders delimited sections inside documents under a
// single docs root. Last writer wins per block id; callers owning concurrent
// writers to the same document must serialize externally.
type Store struct {
	root string
}

// New creates a Store rooted at the given docs directory
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the docs root directory
func (s *Store) Root() string {
	return s.root
}

// WriteSection inserts or replaces the block for symbolID inside the named
// document. The operation is idempotent: writing the same (symbolID,
// content) twice yields byte-identical output after the first call. The
// document (and the docs root) is created lazily with a default title
// header on first write.
func (s *Store) WriteSection(docName, symbolID, content string) error {
	if err := ValidateSymbolID(symbolID); err != nil {
		return err
	}

	docPath := filepath.Join(s.root, docName)

	var text string
	data, err := os.ReadFile(docPath)
	switch {
	case err == nil:
		text = string(data)
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(filepath.Dir(docPath), 0755); mkErr != nil {
			return fmt.Errorf("failed to create docs directory: %w", mkErr)
		}
		stem := strings.TrimSuffix(docName, filepath.Ext(docName))
		text = "# API Documentation: " + stem + "\n\n"
	default:
		return fmt.Errorf("failed to read document %s: %w", docName, err)
	}

	begin := BeginMarker(symbolID)
	end := EndMarker(symbolID)
	block := begin + "\n" + content + "\n" + end

	pattern := regexp.MustCompile(`(?s)` + regexp.QuoteMeta(begin) + `.*?` + regexp.QuoteMeta(end))
	if pattern.MatchString(text) {
		text = pattern.ReplaceAllLiteralString(text, block)
	} else {
		text += "\n\n" + block + "\n\n---"
	}

	if err := os.WriteFile(docPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", docName, err)
	}
	return nil
}

// ReorderSections rebuilds the named document as header followed by the
// blocks for orderedIDs, in that exact order, separated by blank lines.
// Blocks whose id is absent from orderedIDs are dropped; ids without an
// existing block are silently skipped. A document without blocks (or a
// missing document) is left untouched.
func (s *Store) ReorderSections(docName string, orderedIDs []string) error {
	docPath := filepath.Join(s.root, docName)

	data, err := os.ReadFile(docPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read document %s: %w", docName, err)
	}
	text := string(data)

	matches := blockPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	blocks := make(map[string]string, len(matches))
	for _, m := range matches {
		id := text[m[2]:m[3]]
		blocks[id] = text[m[0]:m[1]]
	}
	header := text[:matches[0][0]]

	ordered := make([]string, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		if block, ok := blocks[id]; ok {
			ordered = append(ordered, block)
		}
	}

	rebuilt := header + strings.Join(ordered, "\n\n") + "\n"
	if err := os.WriteFile(docPath, []byte(rebuilt), 0644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", docName, err)
	}
	return nil
}

// DocForSymbol scans every document in the docs root for the block belonging
// to symbolID and returns it with markers included.
func (s *Store) DocForSymbol(symbolID string) (string, bool) {
	block, _, ok := s.findSymbol(symbolID)
	return block, ok
}

// LocateSymbol returns the name of the document holding the block for
// symbolID.
func (s *Store) LocateSymbol(symbolID string) (string, bool) {
	_, docName, ok := s.findSymbol(symbolID)
	return docName, ok
}

func (s *Store) findSymbol(symbolID string) (block, docName string, ok bool) {
	if err := ValidateSymbolID(symbolID); err != nil {
		return "", "", false
	}

	docs, err := filepath.Glob(filepath.Join(s.root, "*.md"))
	if err != nil {
		return "", "", false
	}

	begin := BeginMarker(symbolID)
	end := EndMarker(symbolID)
	pattern := regexp.MustCompile(`(?s)` + regexp.QuoteMeta(begin) + `.*?` + regexp.QuoteMeta(end))

	for _, doc := range docs {
		data, err := os.ReadFile(doc)
		if err != nil {
			continue
		}
		if match := pattern.FindString(string(data)); match != "" {
			return match, filepath.Base(doc), true
		}
	}
	return "", "", false
}
