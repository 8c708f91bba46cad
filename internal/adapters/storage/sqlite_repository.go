package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/renato0307/agentplans/internal/config"
	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/ports"
)

// metadataColumns are overwritten by Upsert on conflict. created_at is kept.
var metadataColumns = []string{
	"source", "status", "priority", "due_date", "estimate", "assignee",
	"tags", "project_path", "session_id", "archived_at",
}

// fieldColumns maps allow-listed metadata fields to their columns
var fieldColumns = map[domain.MetadataField]string{
	domain.FieldArchivedAt:  "archived_at",
	domain.FieldAssignee:    "assignee",
	domain.FieldDueDate:     "due_date",
	domain.FieldEstimate:    "estimate",
	domain.FieldPriority:    "priority",
	domain.FieldProjectPath: "project_path",
	domain.FieldSessionID:   "session_id",
	domain.FieldSource:      "source",
	domain.FieldStatus:      "status",
	domain.FieldTags:        "tags",
}

// gcChunkSize keeps IN lists under SQLite's bound variable limit
const gcChunkSize = 500

// SQLiteRepository implements ports.MetadataStore using GORM
type SQLiteRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// Verify interface compliance at compile time
var _ ports.MetadataStore = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (creating if needed) the metadata database at
// dbPath and applies pending migrations
func NewSQLiteRepository(ctx context.Context, dbPath string) (*SQLiteRepository, error) {
	dbPath = config.ExpandPath(dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them
	dsn := dbPath + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt: false,
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", domain.ErrStoreUnavailable, err)
	}

	if err := withRetry(ctx, func() error { return migrate(ctx, db) }, 3); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	logging.Logger.Debug("Metadata store opened", "path", dbPath)

	return &SQLiteRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SchemaVersion returns the highest applied migration version
func (r *SQLiteRepository) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Model(&SchemaMigrationModel{}).
			Select("COALESCE(MAX(version), 0)").Scan(&version).Error
	}, 3)
	if err != nil {
		return 0, storeError("read schema version", err)
	}
	return version, nil
}

// Get implements MetadataReader.Get
func (r *SQLiteRepository) Get(ctx context.Context, filename string) (*domain.PlanMetadata, error) {
	var model PlanMetadataModel

	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("filename = ?", filename).First(&model).Error
	}, 3)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError(filename)
		}
		return nil, storeError("get metadata", err)
	}

	meta := metadataModelToDomain(model)
	return &meta, nil
}

// ListAll implements MetadataReader.ListAll
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]domain.PlanMetadata, error) {
	var models []PlanMetadataModel

	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Order("modified_at DESC").Order("filename ASC").Find(&models).Error
	}, 3)
	if err != nil {
		return nil, storeError("list metadata", err)
	}

	result := make([]domain.PlanMetadata, len(models))
	for i, m := range models {
		result[i] = metadataModelToDomain(m)
	}
	return result, nil
}

// Upsert implements MetadataWriter.Upsert
func (r *SQLiteRepository) Upsert(ctx context.Context, meta domain.PlanMetadata) error {
	model := r.newMetadataModel(meta)

	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			set := clause.AssignmentColumns(metadataColumns)
			set = append(set, clause.Assignment{
				Column: clause.Column{Name: "modified_at"},
				Value:  r.now(),
			})
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "filename"}},
				DoUpdates: set,
			}).Create(&model).Error
		})
	}, 3)
	if err != nil {
		return storeError("upsert metadata", err)
	}
	return nil
}

// InsertIfAbsent implements MetadataWriter.InsertIfAbsent
func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, meta domain.PlanMetadata) (bool, error) {
	model := r.newMetadataModel(meta)
	var created bool

	err := withRetry(ctx, func() error {
		result := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model)
		if result.Error != nil {
			return result.Error
		}
		created = result.RowsAffected > 0
		return nil
	}, 3)
	if err != nil {
		return false, storeError("insert metadata", err)
	}
	return created, nil
}

// UpdateField implements MetadataWriter.UpdateField
func (r *SQLiteRepository) UpdateField(ctx context.Context, filename string, field domain.MetadataField, value any) error {
	normalized, err := domain.FieldValue(field, value)
	if err != nil {
		return err
	}

	column := fieldColumns[field]
	var columnValue any
	switch v := normalized.(type) {
	case []string:
		columnValue = encodeTags(v)
	case *time.Time:
		columnValue = utcPtr(v)
	default:
		columnValue = v
	}

	err = withRetry(ctx, func() error {
		result := r.db.WithContext(ctx).Model(&PlanMetadataModel{}).
			Where("filename = ?", filename).
			Updates(map[string]any{
				column:        columnValue,
				"modified_at": r.now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.NotFoundError(filename)
		}
		return nil
	}, 3)
	if err != nil {
		return storeError("update metadata field", err)
	}
	return nil
}

// Delete implements MetadataWriter.Delete
func (r *SQLiteRepository) Delete(ctx context.Context, filename string) error {
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Where("filename = ?", filename).Delete(&PlanMetadataModel{}).Error
	}, 3)
	if err != nil {
		return storeError("delete metadata", err)
	}
	return nil
}

// UpsertSubtask implements SubtaskStore.UpsertSubtask
func (r *SQLiteRepository) UpsertSubtask(ctx context.Context, filename string, input domain.SubtaskInput) (*domain.Subtask, error) {
	status, err := domain.ParseSubtaskStatus(string(input.Status))
	if err != nil {
		return nil, err
	}

	var saved SubtaskModel

	err = withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := requireRows(tx, filename); err != nil {
				return err
			}

			var existing SubtaskModel
			err := tx.Where("plan_filename = ? AND id = ?", filename, input.ID).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				order := 0
				if input.SortOrder != nil {
					order = *input.SortOrder
				} else if err := tx.Model(&SubtaskModel{}).
					Where("plan_filename = ?", filename).
					Select("COALESCE(MAX(sort_order), 0) + 1").
					Scan(&order).Error; err != nil {
					return err
				}

				saved = SubtaskModel{
					Assignee:     input.Assignee,
					DueDate:      input.DueDate,
					ID:           input.ID,
					PlanFilename: filename,
					SortOrder:    order,
					Status:       string(status),
					Title:        input.Title,
				}
				return tx.Create(&saved).Error
			case err != nil:
				return err
			}

			saved = existing
			saved.Assignee = input.Assignee
			saved.DueDate = input.DueDate
			saved.Status = string(status)
			saved.Title = input.Title
			if input.SortOrder != nil {
				saved.SortOrder = *input.SortOrder
			}
			return tx.Model(&SubtaskModel{}).
				Where("plan_filename = ? AND id = ?", filename, input.ID).
				Updates(map[string]any{
					"assignee":   saved.Assignee,
					"due_date":   saved.DueDate,
					"sort_order": saved.SortOrder,
					"status":     saved.Status,
					"title":      saved.Title,
				}).Error
		})
	}, 3)
	if err != nil {
		return nil, storeError("upsert subtask", err)
	}

	subtask := subtaskModelToDomain(saved)
	return &subtask, nil
}

// ListSubtasks implements SubtaskStore.ListSubtasks
func (r *SQLiteRepository) ListSubtasks(ctx context.Context, filename string) ([]domain.Subtask, error) {
	var models []SubtaskModel

	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("plan_filename = ?", filename).
			Order("sort_order ASC").Order("id ASC").
			Find(&models).Error
	}, 3)
	if err != nil {
		return nil, storeError("list subtasks", err)
	}

	result := make([]domain.Subtask, len(models))
	for i, m := range models {
		result[i] = subtaskModelToDomain(m)
	}
	return result, nil
}

// DeleteSubtask implements SubtaskStore.DeleteSubtask. Missing subtasks are not an error.
func (r *SQLiteRepository) DeleteSubtask(ctx context.Context, filename, subtaskID string) error {
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("plan_filename = ? AND id = ?", filename, subtaskID).
			Delete(&SubtaskModel{}).Error
	}, 3)
	if err != nil {
		return storeError("delete subtask", err)
	}
	return nil
}

// AddDependency implements DependencyStore.AddDependency.
// Both endpoints must already have metadata rows.
func (r *SQLiteRepository) AddDependency(ctx context.Context, filename, blockedBy string) error {
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := requireRows(tx, filename, blockedBy); err != nil {
				return err
			}
			return tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&DependencyModel{PlanFilename: filename, BlockedByFilename: blockedBy}).Error
		})
	}, 3)
	if err != nil {
		return storeError("add dependency", err)
	}
	return nil
}

// RemoveDependency implements DependencyStore.RemoveDependency. Missing edges are not an error.
func (r *SQLiteRepository) RemoveDependency(ctx context.Context, filename, blockedBy string) error {
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Where("plan_filename = ? AND blocked_by_filename = ?", filename, blockedBy).
			Delete(&DependencyModel{}).Error
	}, 3)
	if err != nil {
		return storeError("remove dependency", err)
	}
	return nil
}

// GetDependencies implements DependencyStore.GetDependencies
func (r *SQLiteRepository) GetDependencies(ctx context.Context, filename string) (domain.Dependencies, error) {
	deps := domain.Dependencies{BlockedBy: []string{}, Blocks: []string{}}

	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&DependencyModel{}).
				Where("plan_filename = ?", filename).
				Order("blocked_by_filename ASC").
				Pluck("blocked_by_filename", &deps.BlockedBy).Error; err != nil {
				return err
			}
			return tx.Model(&DependencyModel{}).
				Where("blocked_by_filename = ?", filename).
				Order("plan_filename ASC").
				Pluck("plan_filename", &deps.Blocks).Error
		})
	}, 3)
	if err != nil {
		return domain.Dependencies{}, storeError("get dependencies", err)
	}
	return deps, nil
}

// ListDependencies implements DependencyStore.ListDependencies
func (r *SQLiteRepository) ListDependencies(ctx context.Context) ([]domain.DependencyEdge, error) {
	var models []DependencyModel

	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Order("plan_filename ASC").Order("blocked_by_filename ASC").
			Find(&models).Error
	}, 3)
	if err != nil {
		return nil, storeError("list dependencies", err)
	}

	edges := make([]domain.DependencyEdge, len(models))
	for i, m := range models {
		edges[i] = domain.DependencyEdge{Plan: m.PlanFilename, BlockedBy: m.BlockedByFilename}
	}
	return edges, nil
}

// GarbageCollect implements MetadataCollector.GarbageCollect
func (r *SQLiteRepository) GarbageCollect(ctx context.Context, active map[string]struct{}) ([]string, error) {
	var removed []string

	err := withRetry(ctx, func() error {
		removed = nil
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var filenames []string
			if err := tx.Model(&PlanMetadataModel{}).Pluck("filename", &filenames).Error; err != nil {
				return err
			}

			for _, f := range filenames {
				if _, ok := active[f]; !ok {
					removed = append(removed, f)
				}
			}

			for chunk := range slices.Chunk(removed, gcChunkSize) {
				if err := tx.Where("filename IN ?", chunk).Delete(&PlanMetadataModel{}).Error; err != nil {
					return err
				}
			}
			return nil
		})
	}, 3)
	if err != nil {
		return nil, storeError("garbage collect", err)
	}

	slices.Sort(removed)
	if len(removed) > 0 {
		logging.Logger.Info("Garbage collected plan metadata", "removed", len(removed))
	}
	if removed == nil {
		removed = []string{}
	}
	return removed, nil
}

// newMetadataModel fills in missing insert timestamps
func (r *SQLiteRepository) newMetadataModel(meta domain.PlanMetadata) PlanMetadataModel {
	model := domainToMetadataModel(meta)
	if model.CreatedAt.IsZero() {
		model.CreatedAt = r.now()
	}
	if model.ModifiedAt.IsZero() {
		model.ModifiedAt = model.CreatedAt
	}
	return model
}

// requireRows fails with domain.ErrNotFound naming the first filename
// without a metadata row
func requireRows(tx *gorm.DB, filenames ...string) error {
	for _, f := range filenames {
		var count int64
		if err := tx.Model(&PlanMetadataModel{}).Where("filename = ?", f).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.NotFoundError(f)
		}
	}
	return nil
}

// storeError passes domain errors through and marks everything else as a
// store failure
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrFieldNotMutable) {
		return err
	}
	return fmt.Errorf("%w: failed to %s: %w", domain.ErrStoreUnavailable, op, err)
}

// withRetry retries operations on SQLITE_BUSY with linear backoff
func withRetry(ctx context.Context, fn func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			logging.Logger.Debug("Database busy, retrying", "attempt", i+1, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Millisecond * time.Duration(50*(i+1))):
			}
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries: %w", maxRetries, err)
}
