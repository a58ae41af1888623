package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (version VARCHAR(255) NOT NULL PRIMARY KEY)`

// Migrate applies the migrations under migrations/<driver>/ that have not been applied yet,
// in file name order, and returns the versions it applied.
func Migrate(ctx context.Context, db *sqlx.DB, migrations fs.FS) ([]string, error) {
	dir := path.Join("migrations", db.DriverName())
	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("fs.ReadDir(%s) > %w", dir, err)
	}

	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("db.ExecContext(create schema_migrations) > %w", err)
	}
	var done []string
	if err := db.SelectContext(ctx, &done, "SELECT version FROM schema_migrations"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(schema_migrations) > %w", err)
	}
	applied := lo.Associate(done, func(v string) (string, bool) { return v, true })

	var versions []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") || applied[name] {
			continue
		}
		content, err := fs.ReadFile(migrations, path.Join(dir, name))
		if err != nil {
			return versions, fmt.Errorf("fs.ReadFile(%s) > %w", name, err)
		}

		err = RunInTx(ctx, db, func(ctx context.Context, tx *sqlx.Tx) error {
			for _, stmt := range splitStatements(string(content)) {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("tx.ExecContext(%s) > %w", name, err)
				}
			}
			if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", name); err != nil {
				return fmt.Errorf("tx.ExecContext(record %s) > %w", name, err)
			}
			return nil
		})
		if err != nil {
			return versions, err
		}
		slog.Info("applied migration", "version", name, "driver", db.DriverName())
		versions = append(versions, name)
	}
	return versions, nil
}

func splitStatements(script string) []string {
	return lo.FilterMap(strings.Split(script, ";"), func(stmt string, _ int) (string, bool) {
		stmt = strings.TrimSpace(stmt)
		return stmt, stmt != ""
	})
}
