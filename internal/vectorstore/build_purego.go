//go:build !cgo_sqlite
// +build !cgo_sqlite

package vectorstore

// Default build: pure Go SQLite implementation, no C compiler required.
//
// Build command:
//   CGO_ENABLED=0 go build ./...

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
