package domain

import "time"

// PlanSource identifies where a plan's content lives
type PlanSource string

const (
	SourceMarkdown PlanSource = "markdown"
	SourceCodex    PlanSource = "codex"
)

// Built-in plan statuses. Custom statuses are stored verbatim.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusCompleted  = "completed"
)

// Plan is the reconciled view of a single plan identity.
// It is rebuilt on every read and never cached.
type Plan struct {
	Content        string
	CreatedAt      time.Time
	Dependencies   Dependencies
	Directory      string
	Filename       string
	Metadata       PlanOverlay
	ModifiedAt     time.Time
	Preview        string
	ReadOnly       bool
	RelatedProject string
	Sections       []string
	Size           int64
	Source         PlanSource
	SourcePath     string
	Subtasks       []Subtask
	Title          string
}

// PlanOverlay holds the metadata values shown for a plan after merging
// frontmatter defaults with the stored row
type PlanOverlay struct {
	ArchivedAt  *time.Time
	Assignee    string
	DueDate     string
	Estimate    string
	Priority    string
	Progress    Progress
	ProjectPath string
	SessionID   string
	Status      string
	Tags        []string
}

// PlanMetadata is the persisted metadata row for a plan identity
type PlanMetadata struct {
	ArchivedAt  *time.Time
	Assignee    *string
	CreatedAt   time.Time
	DueDate     *string
	Estimate    *string
	Filename    string
	ModifiedAt  time.Time
	Priority    *string
	ProjectPath *string
	SessionID   *string
	Source      PlanSource
	Status      string
	Tags        []string
}

// NewPlanMetadata returns a default row for filename stamped with now
func NewPlanMetadata(filename string, source PlanSource, now time.Time) PlanMetadata {
	if source == "" {
		source = SourceMarkdown
	}
	return PlanMetadata{
		CreatedAt:  now,
		Filename:   filename,
		ModifiedAt: now,
		Source:     source,
		Status:     StatusTodo,
	}
}

// Dependencies lists both directions of the dependency graph for one plan
type Dependencies struct {
	BlockedBy []string
	Blocks    []string
}

// DependencyEdge says Plan cannot proceed until BlockedBy is done
type DependencyEdge struct {
	BlockedBy string `json:"blockedBy"`
	Plan      string `json:"plan"`
}

// VirtualPlan is a read-only plan synthesized from an agent session log
type VirtualPlan struct {
	Content        string
	Filename       string
	ModifiedAt     time.Time
	RelatedProject string
	SessionPath    string
	Title          string
}

// PlanFile is a markdown plan file as read from disk
type PlanFile struct {
	Content    string
	CreatedAt  time.Time
	Directory  string
	Filename   string
	ModifiedAt time.Time
	Path       string
	Size       int64
}

// ToPlan derives the filesystem attributes of a plan from its file
func (f PlanFile) ToPlan(previewLength int) Plan {
	body := StripFrontmatter(f.Content)
	return Plan{
		CreatedAt:      f.CreatedAt,
		Directory:      f.Directory,
		Filename:       f.Filename,
		ModifiedAt:     f.ModifiedAt,
		Preview:        ExtractPreview(body, previewLength),
		RelatedProject: ExtractRelatedProject(body),
		Sections:       ExtractSections(body),
		Size:           f.Size,
		Source:         SourceMarkdown,
		SourcePath:     f.Path,
		Title:          ExtractTitle(body, DefaultTitle),
	}
}

// ToPlan derives the plan attributes of a virtual plan
func (v VirtualPlan) ToPlan(previewLength int) Plan {
	return Plan{
		CreatedAt:      v.ModifiedAt,
		Filename:       v.Filename,
		ModifiedAt:     v.ModifiedAt,
		Preview:        ExtractPreview(v.Content, previewLength),
		ReadOnly:       true,
		RelatedProject: v.RelatedProject,
		Sections:       ExtractSections(v.Content),
		Size:           int64(len(v.Content)),
		Source:         SourceCodex,
		SourcePath:     v.SessionPath,
		Title:          v.Title,
	}
}

// ArchiveEntry describes a plan file moved to the archive directory
type ArchiveEntry struct {
	ArchivePath  string    `json:"archivePath"`
	ArchivedAt   time.Time `json:"archivedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Filename     string    `json:"filename"`
	OriginalPath string    `json:"originalPath"`
	Preview      string    `json:"preview,omitempty"`
	Title        string    `json:"title,omitempty"`
}

// ChangeKind classifies a filesystem event on a plan file
type ChangeKind string

const (
	ChangeWritten ChangeKind = "written"
	ChangeRemoved ChangeKind = "removed"
)

// PlanChange is a debounced notification that a plan file changed on disk
type PlanChange struct {
	Directory string
	Filename  string
	Kind      ChangeKind
}

// AuditAction names a recorded plan mutation
type AuditAction string

const (
	AuditCreate         AuditAction = "create"
	AuditDelete         AuditAction = "delete"
	AuditMetadataChange AuditAction = "metadata_change"
	AuditRename         AuditAction = "rename"
	AuditStatusChange   AuditAction = "status_change"
	AuditUpdate         AuditAction = "update"
)

// AuditEntry is one line of the audit trail
type AuditEntry struct {
	Action    AuditAction    `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	Filename  string         `json:"filename"`
	Timestamp time.Time      `json:"timestamp"`
}
