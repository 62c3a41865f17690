package recorder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresRecorder persists the lookup history to PostgreSQL.
type PostgresRecorder struct {
	sqlStore
}

// NewPostgresRecorder connects with the given DSN and runs migrations.
func NewPostgresRecorder(dsn string) (*PostgresRecorder, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := &PostgresRecorder{sqlStore{db: db}}
	if err := r.migrate([]string{
		`CREATE TABLE IF NOT EXISTS lookups (
			id          TEXT PRIMARY KEY,
			timestamp   BIGINT NOT NULL,
			source      TEXT,
			provider    TEXT,
			symbol      TEXT NOT NULL,
			start_date  TEXT,
			end_date    TEXT,
			bars        INTEGER,
			cagr_1y     DOUBLE PRECISION,
			cagr_3y     DOUBLE PRECISION,
			cagr_5y     DOUBLE PRECISION,
			volatility  DOUBLE PRECISION,
			error_text  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lookups_ts ON lookups(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_lookups_symbol ON lookups(symbol)`,
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Println("[INFO] postgres recorder connected")
	return r, nil
}

func (r *PostgresRecorder) Close() error {
	log.Println("[INFO] closing postgres recorder")
	return r.db.Close()
}
