package history

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is portable between postgres and sqlite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS lottery_draws (
		variant  TEXT NOT NULL,
		draw_no  BIGINT NOT NULL,
		drawn_at TIMESTAMP NULL,
		n1 INTEGER NOT NULL,
		n2 INTEGER NOT NULL,
		n3 INTEGER NOT NULL,
		n4 INTEGER NOT NULL,
		n5 INTEGER NOT NULL,
		n6 INTEGER NOT NULL,
		PRIMARY KEY (variant, draw_no)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lottery_draws_variant ON lottery_draws (variant)`,
}

// Apply creates the history schema if it does not exist.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
