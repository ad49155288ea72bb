package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver for database/sql
)

// DB holds the database connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB creates a new DB instance and verifies the connection.
func NewDB(ctx context.Context, dbURL string) (*DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// OpenSQL opens a database/sql handle over the pgx driver. The session store
// needs this form rather than a pgx pool.
func OpenSQL(ctx context.Context, dbURL string) (*sql.DB, error) {
	sqlDB, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection for session store: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database for session store: %w", err)
	}
	return sqlDB, nil
}

// Close closes the database connection
func (db *DB) Close() {
	db.Pool.Close()
}
