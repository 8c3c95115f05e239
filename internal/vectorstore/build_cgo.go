//go:build cgo_sqlite
// +build cgo_sqlite

package vectorstore

// CGO build: the mattn driver is noticeably faster for blob-heavy scans.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "cgo_sqlite" ./...

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
