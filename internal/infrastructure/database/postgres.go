package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/config"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// NewPostgresDB opens the sqlx pool and waits until the server answers a
// ping or ctx expires.
func NewPostgresDB(ctx context.Context, cfg *config.DatabaseConfig, log *logger.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(50)
	db.SetConnMaxLifetime(time.Hour)

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			break
		}
		log.Warn("database not ready", "host", cfg.Host, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}

	log.Info("connected to postgres", "host", cfg.Host, "db", cfg.DBName)
	return db, nil
}
