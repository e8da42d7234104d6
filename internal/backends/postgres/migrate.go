package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is applied in order; every statement is idempotent. The seq column
// carries insertion order for list queries.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		seq  BIGSERIAL PRIMARY KEY,
		id   TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		seq   BIGSERIAL PRIMARY KEY,
		id    TEXT NOT NULL UNIQUE,
		name  TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		seq        BIGSERIAL PRIMARY KEY,
		id         TEXT NOT NULL UNIQUE,
		client_id  TEXT NOT NULL,
		product_id TEXT NOT NULL,
		quantity   INTEGER NOT NULL
	)`,
}

// Migrate creates the tables used by the stores.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
