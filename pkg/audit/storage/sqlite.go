package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"starloader-hq/ras/pkg/audit"
)

// SQLiteConfig contains configuration for the SQLite storage backends.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 5
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 2
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "./ras-audit.db",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements audit.Storage over a SQLite database. The
// same type serves both drivers; only the driver name passed at open
// time differs.
type SQLiteStorage struct {
	db      *sql.DB
	config  *SQLiteConfig
	backend string
	logger  *slog.Logger
}

// NewSQLiteStorage creates a storage backend using the cgo SQLite
// driver ("sqlite3"). It initializes the schema and enables WAL mode
// if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	return openSQLite("sqlite3", config)
}

func openSQLite(driver string, config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "audit.storage."+driver)

	db, err := sql.Open(driver, config.Path)
	if err != nil {
		return nil, audit.NewStorageError(driver, "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:      db,
		config:  config,
		backend: driver,
		logger:  logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite audit storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the schema and PRAGMAs.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return audit.NewStorageError(s.backend, "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return audit.NewStorageError(s.backend, "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return audit.NewStorageError(s.backend, "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return audit.NewStorageError(s.backend, "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return audit.NewStorageError(s.backend, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return audit.NewStorageError(s.backend, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Write persists one audit record.
func (s *SQLiteStorage) Write(ctx context.Context, record *audit.Record) error {
	sources, _ := json.Marshal(record.Sources)

	query := `
		INSERT INTO applications (
			id, recorded_at, class, member, descriptor,
			transform, sources, outcome, before_flags, after_flags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.RecordedAt, record.Class, record.Member, record.Descriptor,
		record.Transform, string(sources), record.Outcome, record.Before, record.After,
	)
	if err != nil {
		return audit.NewStorageError(s.backend, "write", err)
	}
	return nil
}

// Query retrieves records matching the filter, newest first.
func (s *SQLiteStorage) Query(ctx context.Context, filter *audit.QueryFilter) ([]*audit.Record, error) {
	whereClause, args := buildWhereClause(filter)

	sqlQuery := "SELECT id, recorded_at, class, member, descriptor, transform, sources, outcome, before_flags, after_flags FROM applications"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}
	sqlQuery += " ORDER BY recorded_at DESC"

	limit := 100
	if filter != nil && filter.Limit > 0 {
		limit = filter.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if filter != nil && filter.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, audit.NewStorageError(s.backend, "query", err)
	}
	defer rows.Close()

	records := []*audit.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, audit.NewStorageError(s.backend, "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, audit.NewStorageError(s.backend, "query", err)
	}

	return records, nil
}

// Count returns the number of records matching the filter.
func (s *SQLiteStorage) Count(ctx context.Context, filter *audit.QueryFilter) (int64, error) {
	whereClause, args := buildWhereClause(filter)

	sqlQuery := "SELECT COUNT(*) FROM applications"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, audit.NewStorageError(s.backend, "count", err)
	}
	return count, nil
}

// DeleteOlderThan removes records recorded before the cutoff.
func (s *SQLiteStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM applications WHERE recorded_at < ?", cutoff)
	if err != nil {
		return 0, audit.NewStorageError(s.backend, "delete_older_than", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, audit.NewStorageError(s.backend, "delete_older_than", err)
	}
	return count, nil
}

// DeleteExceedingCount removes the oldest records until at most max
// remain.
func (s *SQLiteStorage) DeleteExceedingCount(ctx context.Context, max int64) (int64, error) {
	query := `
		DELETE FROM applications WHERE id IN (
			SELECT id FROM applications
			ORDER BY recorded_at DESC
			LIMIT -1 OFFSET ?
		)
	`
	result, err := s.db.ExecContext(ctx, query, max)
	if err != nil {
		return 0, audit.NewStorageError(s.backend, "delete_exceeding_count", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, audit.NewStorageError(s.backend, "delete_exceeding_count", err)
	}
	return count, nil
}

// Close releases the database connection.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return audit.NewStorageError(s.backend, "close", err)
	}
	s.logger.Info("SQLite audit storage closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause from the filter. Returns
// the clause (without the "WHERE" keyword) and the query arguments.
func buildWhereClause(filter *audit.QueryFilter) (string, []interface{}) {
	if filter == nil {
		return "", nil
	}

	var conditions []string
	var args []interface{}

	if filter.Class != "" {
		conditions = append(conditions, "class = ?")
		args = append(args, filter.Class)
	}
	if filter.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, filter.Outcome)
	}
	if filter.Since != nil {
		conditions = append(conditions, "recorded_at >= ?")
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		conditions = append(conditions, "recorded_at <= ?")
		args = append(args, *filter.Until)
	}

	return strings.Join(conditions, " AND "), args
}

// scanRow scans one applications row into a Record.
func scanRow(rows *sql.Rows) (*audit.Record, error) {
	var record audit.Record
	var sources string

	err := rows.Scan(
		&record.ID, &record.RecordedAt, &record.Class, &record.Member, &record.Descriptor,
		&record.Transform, &sources, &record.Outcome, &record.Before, &record.After,
	)
	if err != nil {
		return nil, err
	}

	if sources != "" {
		json.Unmarshal([]byte(sources), &record.Sources)
	}

	return &record, nil
}
