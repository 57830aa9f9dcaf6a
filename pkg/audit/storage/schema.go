package storage

// SchemaVersion is the current audit schema version. Bump when the
// applications table changes shape.
const SchemaVersion = 1

// Schema creates the audit tables and indexes. Statements are
// idempotent so re-opening an existing database is safe.
const Schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS applications (
	id          TEXT PRIMARY KEY,
	recorded_at TIMESTAMP NOT NULL,
	class       TEXT NOT NULL,
	member      TEXT NOT NULL DEFAULT '',
	descriptor  TEXT NOT NULL DEFAULT '',
	transform   TEXT NOT NULL,
	sources     TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	before_flags INTEGER NOT NULL,
	after_flags  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_applications_recorded_at ON applications(recorded_at);
CREATE INDEX IF NOT EXISTS idx_applications_class ON applications(class);
CREATE INDEX IF NOT EXISTS idx_applications_outcome ON applications(outcome);
`

// InsertSchemaVersion records the schema version, ignoring conflicts
// from previous runs.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

// GetSchemaVersion reads the highest recorded schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_version`
