package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migration is one versioned schema change. Migrations are embedded
// rather than shipped as files so the binaries stay self-contained.
type migration struct {
	Version string
	SQL     string
}

var migrations = []migration{
	{
		Version: "001_create_aars",
		SQL: `
			CREATE TABLE IF NOT EXISTS aars (
				aar_id TEXT PRIMARY KEY,
				mission_id TEXT NOT NULL,
				compliance_score DOUBLE PRECISION NOT NULL DEFAULT 0,
				report_content JSONB NOT NULL DEFAULT '{}',
				metadata JSONB NOT NULL DEFAULT '{}',
				generated_at TIMESTAMPTZ NOT NULL,
				status TEXT NOT NULL DEFAULT 'completed',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_aars_mission_id ON aars (mission_id);
			CREATE INDEX IF NOT EXISTS idx_aars_created_at ON aars (created_at DESC);`,
	},
	{
		Version: "002_create_aar_patterns",
		SQL: `
			CREATE TABLE IF NOT EXISTS aar_patterns (
				id BIGSERIAL PRIMARY KEY,
				aar_id TEXT NOT NULL REFERENCES aars (aar_id) ON DELETE CASCADE,
				pattern_name TEXT NOT NULL,
				pattern_score DOUBLE PRECISION NOT NULL DEFAULT 0,
				valid BOOLEAN NOT NULL DEFAULT FALSE,
				details JSONB NOT NULL DEFAULT '{}',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_aar_patterns_name ON aar_patterns (pattern_name, created_at DESC);`,
	},
}

// Migrator handles database schema migrations
type Migrator struct {
	db *sqlx.DB
}

// NewMigrator creates a new migrator
func NewMigrator(db *sqlx.DB) *Migrator {
	return &Migrator{db: db}
}

// Up executes all pending migrations
func (m *Migrator) Up(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, mig := range migrations {
		if applied[mig.Version] {
			continue
		}
		if err := m.apply(ctx, mig); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", mig.Version, err)
		}
	}

	return nil
}

func (m *Migrator) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) apply(ctx context.Context, mig migration) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, mig.SQL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version) VALUES ($1)`, mig.Version); err != nil {
		return err
	}
	return tx.Commit()
}
