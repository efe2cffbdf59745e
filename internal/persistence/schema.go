package persistence

import (
	"context"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the users and posts tables when they are missing.
// The DDL is idempotent; there is no versioning.
func EnsureSchema(ctx context.Context, db DB, logger *zap.Logger) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	logger.Info("schema ensured")
	return nil
}
