package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

const retryDelay = 2 * time.Second

// Connect opens a PostgreSQL pool and pings it, retrying up to attempts times.
func Connect(ctx context.Context, databaseURL string, attempts int, logger *slog.Logger) (*sql.DB, error) {
	if attempts < 1 {
		attempts = 1
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for i := 1; i <= attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			logger.InfoContext(ctx, "connected to postgres", "attempt", i)
			return db, nil
		}
		if i == attempts {
			break
		}
		logger.WarnContext(ctx, "postgres not reachable, retrying", "attempt", i, "retry_in", retryDelay, "err", err)
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", attempts, err)
}
