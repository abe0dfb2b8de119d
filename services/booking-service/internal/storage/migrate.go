package storage

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/md-rashed-zaman/slotbook/libs/db"
)

//go:embed schema.sql
var schemaSQL string

// migrateLockKey serializes replicas that start at the same time.
const migrateLockKey = 0x736c6f74

// Migrate applies the embedded schema in one transaction. Every statement
// is idempotent.
func Migrate(ctx context.Context, pool *db.Pool) error {
	return pool.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, migrateLockKey); err != nil {
			return fmt.Errorf("migration lock: %w", err)
		}
		if _, err := tx.Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		return nil
	})
}
