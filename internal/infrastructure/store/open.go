package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wanderlust/travel-portal/internal/core/ports"
	mongostore "github.com/wanderlust/travel-portal/internal/infrastructure/db/mongo"
	redisstore "github.com/wanderlust/travel-portal/internal/infrastructure/db/redis"
	"github.com/wanderlust/travel-portal/internal/pkg/config"
)

const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"

	defaultStateDir = ".travelctl"
)

// Open builds the KeyValueStore selected by cfg.Storage.Driver. The returned
// closer must be called on shutdown; it is a no-op for local stores.
func Open(ctx context.Context, cfg *config.Config) (ports.KeyValueStore, io.Closer, error) {
	switch cfg.Storage.Driver {
	case DriverMemory:
		return NewMemory(), nopCloser{}, nil
	case DriverFile, "":
		dir, err := stateDir(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		f, err := NewFile(dir)
		if err != nil {
			return nil, nil, err
		}
		return f, nopCloser{}, nil
	case DriverRedis:
		s, err := redisstore.Open(ctx, redisstore.Config{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case DriverMongo:
		s, err := mongostore.Open(ctx, mongostore.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func stateDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, defaultStateDir), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
