//go:build sqlite_cgo

package storage

// Compiled with the sqlite_cgo tag: the C SQLite library through
// github.com/mattn/go-sqlite3.
//
//   CGO_ENABLED=1 go build -tags sqlite_cgo ./...

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
