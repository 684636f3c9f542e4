package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"doctrack/config"
	"doctrack/pkg/logger"
	"doctrack/store"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

const (
	connectAttempts = 5
	retryDelay      = 2 * time.Second
)

// Open returns the store backend selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Sugar.Warn("Using in-memory store, data is lost on restart")
		return store.NewMemoryBackend(), nil
	case config.DriverPostgres:
		db, err := Connect(ctx, "postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return withSchema(ctx, store.NewSQLBackend(db, store.Postgres))
	case config.DriverSQLite:
		db, err := Connect(ctx, "sqlite", SQLiteDSN(cfg.SQLitePath))
		if err != nil {
			return nil, err
		}
		// SQLite serialises writers anyway; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		return withSchema(ctx, store.NewSQLBackend(db, store.SQLite))
	case config.DriverRedis:
		client, err := ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return store.NewRedisBackend(client), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func withSchema(ctx context.Context, b *store.SQLBackend) (store.Backend, error) {
	if err := b.EnsureSchema(ctx); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

// Connect opens a database/sql handle and pings it, retrying a few times in
// case of temporary DNS/network blips.
func Connect(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	for i := 0; i < connectAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			logger.Sugar.Infof("Successfully connected to the %s database", driver)
			return db, nil
		}
		logger.Sugar.Infof("Database connection failed, retrying in %s... (%v)", retryDelay, err)
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	_ = db.Close()
	return nil, fmt.Errorf("could not connect to %s after %d attempts: %w", driver, connectAttempts, err)
}

// SQLiteDSN adds the pragmas the store expects to a file path.
func SQLiteDSN(path string) string {
	if strings.TrimSpace(path) == "" || path == ":memory:" {
		return ":memory:"
	}
	return filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// ConnectRedis parses a redis:// URL and pings the server.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	logger.Sugar.Info("Successfully connected to redis")
	return client, nil
}
