package storage

import "time"

// PlanMetadataModel is the GORM model for the plan_metadata table
type PlanMetadataModel struct {
	ArchivedAt  *time.Time `gorm:"column:archived_at"`
	Assignee    *string    `gorm:"column:assignee"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null;autoCreateTime:false"`
	DueDate     *string    `gorm:"column:due_date"`
	Estimate    *string    `gorm:"column:estimate"`
	Filename    string     `gorm:"column:filename;primaryKey"`
	ModifiedAt  time.Time  `gorm:"column:modified_at;not null"`
	Priority    *string    `gorm:"column:priority"`
	ProjectPath *string    `gorm:"column:project_path"`
	SessionID   *string    `gorm:"column:session_id"`
	Source      string     `gorm:"column:source;not null"`
	Status      string     `gorm:"column:status"`
	Tags        *string    `gorm:"column:tags"` // JSON array
}

// TableName specifies the table name for GORM
func (PlanMetadataModel) TableName() string { return "plan_metadata" }

// SubtaskModel is the GORM model for the subtasks table
type SubtaskModel struct {
	Assignee     *string `gorm:"column:assignee"`
	DueDate      *string `gorm:"column:due_date"`
	ID           string  `gorm:"column:id;primaryKey"`
	PlanFilename string  `gorm:"column:plan_filename;primaryKey"`
	SortOrder    int     `gorm:"column:sort_order;not null"`
	Status       string  `gorm:"column:status;not null"`
	Title        string  `gorm:"column:title;not null"`
}

// TableName specifies the table name for GORM
func (SubtaskModel) TableName() string { return "subtasks" }

// DependencyModel is the GORM model for the plan_dependencies table
type DependencyModel struct {
	BlockedByFilename string `gorm:"column:blocked_by_filename;primaryKey"`
	PlanFilename      string `gorm:"column:plan_filename;primaryKey"`
}

// TableName specifies the table name for GORM
func (DependencyModel) TableName() string { return "plan_dependencies" }

// SchemaMigrationModel records an applied schema migration
type SchemaMigrationModel struct {
	AppliedAt time.Time `gorm:"column:applied_at;not null"`
	Version   int       `gorm:"column:version;primaryKey;autoIncrement:false"`
}

// TableName specifies the table name for GORM
func (SchemaMigrationModel) TableName() string { return "schema_migrations" }
