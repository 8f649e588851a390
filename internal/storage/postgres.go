package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

const kvTable = "kv_entries"

// PostgresStore keeps entries in the kv_entries table of a Postgres database.
type PostgresStore struct {
	db   *sql.DB
	exec bob.Executor
}

var _ KeyValueStore = (*PostgresStore)(nil)

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	if _, err := RunMigrations(DriverPostgres, connStr); err != nil {
		return nil, err
	}

	db, err := sql.Open(DriverPostgres, connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db, exec: bob.NewDB(db)}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := psql.Select(
		sm.Columns("value"),
		sm.From(kvTable),
		sm.Where(psql.Quote("key").EQ(psql.Arg(key))),
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

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	query := psql.Insert(
		im.Into(kvTable, "key", "value"),
		im.Values(psql.Arg(key, value)),
		im.OnConflict("key").DoUpdate(
			im.SetExcluded("value"),
		),
	)

	if _, err := bob.Exec(ctx, s.exec, query); err != nil {
		return fmt.Errorf("upsert key %q: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	query := psql.Delete(
		dm.From(kvTable),
		dm.Where(psql.Quote("key").EQ(psql.Arg(key))),
	)

	if _, err := bob.Exec(ctx, s.exec, query); err != nil {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
