package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate runs all pending goose migrations from the given filesystem
// against the pool. The filesystem is typically an embed.FS holding
// *.sql files.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, log *slog.Logger) error {
	if pool == nil {
		return ErrNilPool
	}

	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLoggerAdapter{log: log})

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// gooseLoggerAdapter routes goose output through slog.
type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (a *gooseLoggerAdapter) Fatalf(format string, v ...any) {
	if a.log != nil {
		a.log.Error("migration fatal", slog.String("detail", fmt.Sprintf(format, v...)))
	}
}

func (a *gooseLoggerAdapter) Printf(format string, v ...any) {
	if a.log != nil {
		a.log.Info("migration", slog.String("detail", fmt.Sprintf(format, v...)))
	}
}
