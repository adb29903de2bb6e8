package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

type migration struct {
	version    int
	statements []string
}

// migrations are applied in order, each inside its own transaction.
// {{ts}} expands to the dialect's timestamp type.
var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS stages (
				id TEXT PRIMARY KEY,
				tenant_id TEXT NOT NULL,
				label TEXT NOT NULL,
				color TEXT NOT NULL DEFAULT '',
				position INTEGER NOT NULL,
				archived_at {{ts}},
				created_at {{ts}} NOT NULL
			)`,
			// Archived stages release both their position and their label
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_stages_tenant_position
				ON stages(tenant_id, position) WHERE archived_at IS NULL`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_stages_tenant_label
				ON stages(tenant_id, label) WHERE archived_at IS NULL`,
			`CREATE TABLE IF NOT EXISTS deals (
				id TEXT PRIMARY KEY,
				stage_id TEXT NOT NULL REFERENCES stages(id) ON DELETE CASCADE,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				amount BIGINT NOT NULL DEFAULT 0,
				due_date {{ts}},
				assignee_id TEXT NOT NULL DEFAULT '',
				contact_id TEXT NOT NULL DEFAULT '',
				created_at {{ts}} NOT NULL,
				updated_at {{ts}} NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_deals_stage
				ON deals(stage_id, created_at)`,
			`CREATE TABLE IF NOT EXISTS deal_tags (
				deal_id TEXT NOT NULL REFERENCES deals(id) ON DELETE CASCADE,
				tag TEXT NOT NULL,
				ord INTEGER NOT NULL,
				PRIMARY KEY (deal_id, tag)
			)`,
		},
	},
}

func runMigrations(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			_ = rows.Close()
			return err
		}
		applied[v] = true
	}
	if err := rows.Close(); err != nil {
		return err
	}

	ts := "TIMESTAMP"
	if dialect == Postgres {
		ts = "TIMESTAMPTZ"
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		err := withTx(ctx, db, func(tx *sql.Tx) error {
			for _, stmt := range m.statements {
				if _, err := tx.ExecContext(ctx, strings.ReplaceAll(stmt, "{{ts}}", ts)); err != nil {
					return err
				}
			}
			_, err := tx.ExecContext(ctx, dialect.rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), m.version)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		slog.Debug("applied migration", "version", m.version)
	}
	return nil
}
