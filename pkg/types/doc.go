// Package types defines the shared data model for the documentation
// synchronization pipeline: the Symbol record produced by extraction and the
// domain errors crossing package boundaries.
//
// A Symbol is recomputed wholesale on every run; the only cross-run identity
// is SymbolID equality plus Hash comparison against persisted state.
package types
