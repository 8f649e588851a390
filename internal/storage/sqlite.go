package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dm"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/scan"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps entries in the kv_entries table of a local SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	exec bob.Executor
}

var _ KeyValueStore = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if _, err := RunMigrations(DriverSQLite, dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open(DriverSQLite, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection serialises writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteStore{db: db, exec: bob.NewDB(db)}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := sqlite.Select(
		sm.Columns("value"),
		sm.From(kvTable),
		sm.Where(sqlite.Quote("key").EQ(sqlite.Arg(key))),
	)

	value, err := bob.One(ctx, s.exec, query, scan.SingleColumnMapper[string])
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select key %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	query := sqlite.Insert(
		im.Into(kvTable, "key", "value"),
		im.Values(sqlite.Arg(key, value)),
		im.OnConflict("key").DoUpdate(
			im.SetExcluded("value"),
		),
	)

	if _, err := bob.Exec(ctx, s.exec, query); err != nil {
		return fmt.Errorf("upsert key %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	query := sqlite.Delete(
		dm.From(kvTable),
		dm.Where(sqlite.Quote("key").EQ(sqlite.Arg(key))),
	)

	if _, err := bob.Exec(ctx, s.exec, query); err != nil {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
