package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"complyhq/compass/pkg/evaluation"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/evaluations.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements evaluation.Storage on an embedded SQLite
// database. Results are immutable documents, so verdicts persist as a JSON
// column with indexed id/timestamp metadata beside it.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens (or creates) the database and bootstraps the schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "evaluation.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, evaluation.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{db: db, config: config, logger: logger}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("sqlite storage ready", "path", config.Path, "wal", config.WALMode)
	return s, nil
}

// initialize applies pragmas and creates the schema.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			return evaluation.NewStorageError("sqlite", "pragma", err)
		}
	}
	if s.config.BusyTimeout > 0 {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", s.config.BusyTimeout.Milliseconds())); err != nil {
			return evaluation.NewStorageError("sqlite", "pragma", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return evaluation.NewStorageError("sqlite", "schema", err)
	}

	var version int
	err := s.db.QueryRow("SELECT version FROM schema_info LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.Exec("INSERT INTO schema_info (version) VALUES (?)", SchemaVersion); err != nil {
			return evaluation.NewStorageError("sqlite", "schema", err)
		}
	case err != nil:
		return evaluation.NewStorageError("sqlite", "schema", err)
	case version != SchemaVersion:
		return evaluation.NewStorageError("sqlite", "schema",
			fmt.Errorf("schema version mismatch: have %d, want %d", version, SchemaVersion))
	}

	return nil
}

// Append persists a result.
func (s *SQLiteStorage) Append(ctx context.Context, result *evaluation.Result) error {
	verdicts, err := json.Marshal(result.AppliedObligations)
	if err != nil {
		return evaluation.NewStorageError("sqlite", "append", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO evaluations (id, business_id, evaluated_at, applied_obligations) VALUES (?, ?, ?, ?)",
		result.ID, result.BusinessID, result.EvaluatedAt, string(verdicts),
	)
	if err != nil {
		return evaluation.NewStorageError("sqlite", "append", err)
	}
	return nil
}

// Get retrieves a result by id.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*evaluation.Result, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, business_id, evaluated_at, applied_obligations FROM evaluations WHERE id = ?", id)

	result, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, evaluation.ErrNotFound
	}
	if err != nil {
		return nil, evaluation.NewStorageError("sqlite", "get", err)
	}
	return result, nil
}

// List returns all results in append order.
func (s *SQLiteStorage) List(ctx context.Context) ([]*evaluation.Result, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, business_id, evaluated_at, applied_obligations FROM evaluations ORDER BY seq")
	if err != nil {
		return nil, evaluation.NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	var results []*evaluation.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, evaluation.NewStorageError("sqlite", "list", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, evaluation.NewStorageError("sqlite", "list", err)
	}
	return results, nil
}

// Count returns the number of stored results.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM evaluations").Scan(&count); err != nil {
		return 0, evaluation.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// DeleteOlderThan removes results evaluated before the cutoff.
func (s *SQLiteStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM evaluations WHERE evaluated_at < ?", cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, evaluation.NewStorageError("sqlite", "delete", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, evaluation.NewStorageError("sqlite", "delete", err)
	}
	return deleted, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// scanner abstracts sql.Row and sql.Rows for scanResult.
type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*evaluation.Result, error) {
	var result evaluation.Result
	var verdicts string
	if err := row.Scan(&result.ID, &result.BusinessID, &result.EvaluatedAt, &verdicts); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(verdicts), &result.AppliedObligations); err != nil {
		return nil, err
	}
	return &result, nil
}
