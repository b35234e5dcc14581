package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mwalimu/shulesync/internal/client/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Storage is the SQLite-backed local store. It implements RecordStore,
// QueueStore and MetaStore over a single database file so that record
// reconciliation and queue rewrites share one transaction.
type Storage struct {
	db *sql.DB
}

var (
	_ storage.RecordStore = (*Storage)(nil)
	_ storage.QueueStore  = (*Storage)(nil)
	_ storage.MetaStore   = (*Storage)(nil)
)

// New opens (or creates) the local store at dbPath and applies pending
// migrations. Use ":memory:" for an in-memory database in tests.
// A store that cannot be opened or migrated is reported as ErrStoreCorrupt;
// callers may attempt Reinit for best-effort recovery.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", storage.ErrStoreCorrupt, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %w", storage.ErrStoreCorrupt, err)
	}

	// SQLite allows one writer; the foreground client and the background agent
	// both open this file, so keep the pool at a single connection and rely on
	// busy_timeout for cross-process contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", storage.ErrStoreCorrupt, err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying database connection for testing purposes.
func (s *Storage) DB() *sql.DB {
	return s.db
}

func (s *Storage) runMigrations() error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetBaseFS(embedMigrations)
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}
	return nil
}

// Reinit drops every table and re-runs the migrations. Best-effort recovery
// from a corrupt store; all cached data and the mutation queue are lost, so
// callers must warn the user before invoking it.
func (s *Storage) Reinit(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	drops := []string{
		"DROP TABLE IF EXISTS records;",
		"DROP TABLE IF EXISTS sync_queue;",
		"DROP TABLE IF EXISTS sync_meta;",
		"DROP TABLE IF EXISTS goose_db_version;",
	}
	for _, stmt := range drops {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to reinitialize store: %w", err)
	}
	return nil
}
