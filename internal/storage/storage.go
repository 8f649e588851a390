package storage

import (
	"context"
	"fmt"

	"github.com/carson-networks/financas-pro/internal/config"
)

// KeyValueStore is a durable map from string keys to string values. A missing
// key is reported with ok == false rather than an error.
//
//go:generate mockery --name KeyValueStore --inpackage --with-expecter --filename mock_KeyValueStore.go
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NewStorage opens the backend selected by env.StorageBackend.
func NewStorage(ctx context.Context, env *config.Config) (KeyValueStore, error) {
	switch env.StorageBackend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile:
		return NewFileStore(env.FileStorageDir)
	case config.BackendSQLite:
		return NewSQLiteStore(env.SQLiteDBPath)
	case config.BackendPostgres:
		return NewPostgresStore(env.PostgresConnectionString())
	case config.BackendMongo:
		return NewMongoStore(ctx, env.MongoURI, env.MongoDB, env.MongoCollection)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", env.StorageBackend)
	}
}
