package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"

	"todo-services/pkg/logger"
)

// ErrNoDatabaseURL is returned by Open when no connection string is configured.
var ErrNoDatabaseURL = errors.New("DATABASE_URL is not set")

// Open creates a Postgres connection pool and verifies it with a ping.
func Open(ctx context.Context, url string, poolSize int) (*sql.DB, error) {
	if url == "" {
		return nil, ErrNoDatabaseURL
	}
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	if poolSize <= 0 {
		poolSize = 10
	}
	db.SetMaxOpenConns(poolSize)
	db.SetMaxIdleConns(poolSize / 2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info(ctx, "Database pool initialized", "max_open", poolSize)
	return db, nil
}
