package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies every embedded *.up.sql file that schema_migrations does not list yet,
// each in its own transaction, in file name order.
func Migrate(ctx context.Context, db *sql.DB, logger *logrus.Entry) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	files, err := upMigrations()
	if err != nil {
		return err
	}

	for _, filename := range files {
		version := extractVersion(filename)

		var exists int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = $1", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + filename)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", filename, err)
		}

		txn, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}
		if _, err := txn.ExecContext(ctx, string(content)); err != nil {
			txn.Rollback()
			return fmt.Errorf("executing migration %s: %w", filename, err)
		}
		if _, err := txn.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
			txn.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := txn.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}

		logger.WithFields(logrus.Fields{"version": version, "file": filename}).Info("Applied migration")
	}
	return nil
}

func upMigrations() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func extractVersion(filename string) int {
	var version int
	fmt.Sscanf(filename, "%d_", &version)
	return version
}
