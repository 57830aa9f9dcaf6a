package storage

import (
	_ "modernc.org/sqlite"
)

// NewPureGoStorage creates a storage backend using the cgo-free SQLite
// driver ("sqlite"). It shares schema and behavior with
// NewSQLiteStorage and exists for builds without a C toolchain.
func NewPureGoStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	return openSQLite("sqlite", config)
}
