package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration. Up receives the driver
// name so it can pick dialect-specific DDL.
type Migration struct {
	Up          func(tx *sql.Tx, driver string) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx, driver string) error {
			id := "INTEGER PRIMARY KEY AUTOINCREMENT"
			if driver == DriverPostgres {
				id = "BIGSERIAL PRIMARY KEY"
			}
			queries := []string{
				`CREATE TABLE IF NOT EXISTS snapshots (
					id ` + id + `,
					taken_at TIMESTAMP NOT NULL,
					isv_score DOUBLE PRECISION NOT NULL DEFAULT 0,
					isv_goal DOUBLE PRECISION NOT NULL DEFAULT 0,
					mayapur_score DOUBLE PRECISION NOT NULL DEFAULT 0
				)`,
			}
			return execAll(tx, queries)
		},
	},
	{
		Version:     2,
		Description: "Store percent reached and index by time",
		Up: func(tx *sql.Tx, _ string) error {
			return execAll(tx, []string{
				`ALTER TABLE snapshots ADD COLUMN percent_reached DOUBLE PRECISION NOT NULL DEFAULT 0`,
				`CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at)`,
			})
		},
	},
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *SnapshotStore) SchemaVersion(ctx context.Context) (int, error) {
	if err := s.ensureMigrationsTable(ctx); err != nil {
		return 0, err
	}

	query, args, err := s.builder.
		Select("COALESCE(MAX(version), 0)").
		From("schema_migrations").
		ToSql()
	if err != nil {
		return 0, err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

func (s *SnapshotStore) ensureMigrationsTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	return nil
}

// Migrate applies all pending database migrations.
func (s *SnapshotStore) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		if err := s.apply(ctx, migration); err != nil {
			return err
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

func (s *SnapshotStore) apply(ctx context.Context, migration Migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if upErr := migration.Up(tx, s.driver); upErr != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
	}

	query, args, err := s.builder.
		Insert("schema_migrations").
		Columns("version", "description", "applied_at").
		Values(migration.Version, migration.Description, timeNow().UTC()).
		ToSql()
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, execErr := tx.ExecContext(ctx, query, args...); execErr != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to update schema version: %w", execErr)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
	}
	return nil
}
