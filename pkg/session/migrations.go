package session

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/beacon/pkg/db"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate creates the sessions table for the database driver.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	return db.Migrate(ctx, pool, sub, log)
}
