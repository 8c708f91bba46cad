package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/renato0307/agentplans/internal/logging"
)

// migration is one forward-only schema step
type migration struct {
	description string
	statements  []string
	version     int
}

var migrations = []migration{
	{
		version:     1,
		description: "plan metadata, subtasks and dependencies",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS plan_metadata (
				filename TEXT PRIMARY KEY,
				source TEXT NOT NULL DEFAULT 'markdown',
				status TEXT DEFAULT 'todo',
				priority TEXT,
				due_date TEXT,
				estimate TEXT,
				assignee TEXT,
				tags TEXT,
				project_path TEXT,
				session_id TEXT,
				archived_at DATETIME,
				created_at DATETIME NOT NULL,
				modified_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS subtasks (
				id TEXT NOT NULL,
				plan_filename TEXT NOT NULL,
				title TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'todo' CHECK (status IN ('todo', 'done')),
				assignee TEXT,
				due_date TEXT,
				sort_order INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (plan_filename, id),
				FOREIGN KEY (plan_filename) REFERENCES plan_metadata(filename) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS plan_dependencies (
				plan_filename TEXT NOT NULL,
				blocked_by_filename TEXT NOT NULL,
				PRIMARY KEY (plan_filename, blocked_by_filename),
				FOREIGN KEY (plan_filename) REFERENCES plan_metadata(filename) ON DELETE CASCADE,
				FOREIGN KEY (blocked_by_filename) REFERENCES plan_metadata(filename) ON DELETE CASCADE
			)`,
			`CREATE INDEX IF NOT EXISTS idx_plan_metadata_modified_at ON plan_metadata(modified_at)`,
			`CREATE INDEX IF NOT EXISTS idx_subtasks_order ON subtasks(plan_filename, sort_order)`,
		},
	},
	{
		version:     2,
		description: "reverse dependency lookup index",
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_plan_dependencies_blocked_by ON plan_dependencies(blocked_by_filename)`,
		},
	},
}

// latestSchemaVersion is the version a fully migrated database reports
func latestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// migrate applies every migration not yet recorded in schema_migrations.
// Each migration runs in its own transaction together with its bookkeeping row.
func migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var applied []int
	if err := db.WithContext(ctx).Model(&SchemaMigrationModel{}).Pluck("version", &applied).Error; err != nil {
		return fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, m := range migrations {
		if done[m.version] {
			continue
		}

		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, stmt := range m.statements {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&SchemaMigrationModel{Version: m.version, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.version, m.description, err)
		}

		logging.Logger.Info("Applied schema migration", "version", m.version, "description", m.description)
	}

	return nil
}
