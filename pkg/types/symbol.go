package types

import (
	"errors"
	"strings"
)

// SymbolKind represents the kind of documentable code unit
type SymbolKind string

const (
	KindModule   SymbolKind = "module"
	KindClass    SymbolKind = "class"
	KindFunction SymbolKind = "function"
	KindMethod   SymbolKind = "method"
)

// Symbol represents one documentable unit of code extracted from a source file.
//
// SymbolID is a globally unique dotted path (e.g. "pkg.calc.core.Engine.Add")
// that is stable across runs as long as the qualified name is unchanged.
// Hash is a content digest over the exact [Start,End] line span: it changes
// if and only if the text of that span changes.
type Symbol struct {
	SymbolID  string
	Kind      SymbolKind
	File      string // path relative to the repository root
	Qualname  string
	Parent    string // parent symbol id, empty for top-level modules
	Start     int    // 1-indexed, inclusive
	End       int    // 1-indexed, inclusive
	Docstring string
	Hash      string
}

// ValidateKind checks if the symbol kind is valid
func (s *Symbol) ValidateKind() error {
	switch s.Kind {
	case KindModule, KindClass, KindFunction, KindMethod:
		return nil
	default:
		return errors.New("invalid symbol kind")
	}
}

// Indexable reports whether the symbol participates in embedding and
// documentation. Modules are structural only.
func (s *Symbol) Indexable() bool {
	switch s.Kind {
	case KindClass, KindFunction, KindMethod:
		return true
	default:
		return false
	}
}

// EmbeddingText renders the text that is embedded for this symbol.
func (s *Symbol) EmbeddingText() string {
	return s.Qualname + ": " + s.Docstring
}

// Validate performs comprehensive validation of the symbol
func (s *Symbol) Validate() error {
	if s.SymbolID == "" {
		return errors.New("symbol id is required")
	}
	if err := s.ValidateKind(); err != nil {
		return err
	}
	if s.File == "" {
		return errors.New("file is required")
	}
	if s.Start <= 0 || s.End <= 0 {
		return errors.New("invalid span: line numbers must be positive")
	}
	if s.Start > s.End {
		return errors.New("invalid span: start line must be before or equal to end line")
	}
	// Marker syntax inside the id would make section markers ambiguous
	if strings.Contains(s.SymbolID, "<!--") || strings.Contains(s.SymbolID, "-->") {
		return ErrUnsafeSymbolID
	}
	return nil
}
