package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"summit-scheduler/core/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies every embedded migration in file name order. Each file is
// written to be re-runnable.
func Migrate(ctx context.Context, db IDatabase) error {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		body, err := migrationFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := db.ExecContext(ctx, string(body)); err != nil {
			logger.Error("Database:Migrate", "file", name, "error", err)
			return fmt.Errorf("apply %s: %w", name, err)
		}
		logger.Info("Database:Migrate:Applied", "file", name)
	}
	return nil
}
