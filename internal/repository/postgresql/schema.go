package postgresql

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/database"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates any missing tables. Every statement is idempotent.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
