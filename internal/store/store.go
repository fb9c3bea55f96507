// Package store persists opaque serialized blobs (location state, enrichment
// cache) behind a small key-value interface with several backends.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/cesargomez89/menusync/internal/constants"
	"github.com/cesargomez89/menusync/internal/logger"
)

var ErrNotFound = errors.New("store: key not found")

// Store is a last-write-wins key-value store. Implementations must be safe
// for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Type          string
	DataDir       string
	DBPath        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	S3            S3Options
}

// New opens the configured backend once at startup. Durable backends are
// wrapped so write failures degrade to process memory; a backend that cannot
// be opened at all degrades the same way.
func New(ctx context.Context, opts Options, log *logger.Logger) Store {
	if log == nil {
		log = logger.Default()
	}
	log = log.WithComponent("store")

	primary, err := open(ctx, opts)
	if err != nil {
		log.Warn("Failed to open durable store, keeping state in memory", "type", opts.Type, "error", err)
		return NewMemoryStore()
	}
	if m, ok := primary.(*MemoryStore); ok {
		return m
	}
	log.Info("Opened durable store", "type", opts.Type)
	return NewResilientStore(primary, log)
}

func open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Type {
	case constants.StoreTypeMemory:
		return NewMemoryStore(), nil
	case constants.StoreTypeFile:
		return NewFileStore(opts.DataDir)
	case constants.StoreTypeSQLite:
		db, err := NewSQLiteDB(opts.DBPath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db), nil
	case constants.StoreTypeRedis:
		return NewRedisStore(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case constants.StoreTypeS3:
		return NewS3Store(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unknown store type %q", opts.Type)
	}
}
