// Package storage provides audit.Storage backends.
//
// Three backends are available: an in-memory ring suitable for tests
// and short-lived tooling, and two SQLite-backed stores sharing one
// schema. NewSQLiteStorage uses the cgo driver (github.com/mattn/go-sqlite3,
// driver name "sqlite3"); NewPureGoStorage uses the cgo-free driver
// (modernc.org/sqlite, driver name "sqlite"), trading some throughput
// for cross-compilation without a C toolchain.
package storage
