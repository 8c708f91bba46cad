package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/ports"
)

const (
	readWorkers       = 8
	maxNameGeneration = 10
)

// PlanService reconciles plan files, stored metadata and virtual plans into
// one view and routes every plan mutation
type PlanService struct {
	archive       ports.ArchiveRecorder
	archiveDir    string
	audit         ports.AuditLogger
	conflicts     ports.ConflictChecker
	files         ports.PlanFiles
	now           func() time.Time
	previewLength int
	settings      ports.SettingsProvider
	store         ports.MetadataStore
	virtual       ports.VirtualPlanSource
}

// PlanServiceOption configures optional collaborators
type PlanServiceOption func(*PlanService)

// WithArchive enables archiving deletes into dir
func WithArchive(recorder ports.ArchiveRecorder, dir string) PlanServiceOption {
	return func(s *PlanService) {
		s.archive = recorder
		s.archiveDir = dir
	}
}

// WithAuditLogger records mutations in the plan directory audit trail
func WithAuditLogger(audit ports.AuditLogger) PlanServiceOption {
	return func(s *PlanService) { s.audit = audit }
}

// WithConflictChecker enables external edit detection on update
func WithConflictChecker(conflicts ports.ConflictChecker) PlanServiceOption {
	return func(s *PlanService) { s.conflicts = conflicts }
}

// WithPreviewLength sets the preview length in characters
func WithPreviewLength(length int) PlanServiceOption {
	return func(s *PlanService) { s.previewLength = length }
}

// NewPlanService creates a new PlanService
func NewPlanService(
	store ports.MetadataStore,
	files ports.PlanFiles,
	virtual ports.VirtualPlanSource,
	settings ports.SettingsProvider,
	opts ...PlanServiceOption,
) *PlanService {
	s := &PlanService{
		files:         files,
		now:           time.Now,
		previewLength: domain.DefaultPreviewLength,
		settings:      settings,
		store:         store,
		virtual:       virtual,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// planTarget is a plan identity resolved to its backing source
type planTarget struct {
	content   string
	directory string
	file      *domain.PlanFile
	identity  string
	path      string
	source    domain.PlanSource
	virtual   *domain.VirtualPlan
}

// ListPlans returns every plan from the plan directories and, when enabled,
// the session logs. Metadata rows of identities not produced are removed.
func (s *PlanService) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	dirs := s.settings.PlanDirectories()
	logging.Logger.Debug("Listing plans", "directories", len(dirs))

	paths, listErr := s.files.ListAll(dirs)
	skipGC := listErr != nil
	if listErr != nil {
		logging.Logger.Warn("Some plan directories could not be read", "error", listErr)
	}

	files, err := s.readFiles(ctx, paths)
	if err != nil {
		return nil, err
	}

	var virtualPlans []domain.VirtualPlan
	if roots := s.sessionDirectories(); len(roots) > 0 {
		virtualPlans, err = s.virtual.List(ctx, roots)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logging.Logger.Warn("Failed to list virtual plans", "error", err)
			skipGC = true
		}
	}

	rows, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	rowsByName := make(map[string]*domain.PlanMetadata, len(rows))
	for i := range rows {
		rowsByName[rows[i].Filename] = &rows[i]
	}

	edges, err := s.store.ListDependencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependencies: %w", err)
	}
	deps := dependencyIndex(edges)

	// Listed identities stay active even when their file could not be read
	active := make(map[string]struct{}, len(paths)+len(virtualPlans))
	for name := range paths {
		active[name] = struct{}{}
	}

	plans := make([]domain.Plan, 0, len(files)+len(virtualPlans))
	for _, f := range files {
		plan, err := s.resolvedFromFile(ctx, f, rowsByName[f.Filename], deps[f.Filename])
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	for _, v := range virtualPlans {
		// Filesystem plans win a shared identity
		if _, taken := active[v.Filename]; taken {
			continue
		}
		active[v.Filename] = struct{}{}

		plan, err := s.resolvedFromVirtual(ctx, v, rowsByName[v.Filename], deps[v.Filename])
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	if skipGC {
		logging.Logger.Warn("Skipping metadata garbage collection after read errors")
	} else if removed, err := s.store.GarbageCollect(ctx, active); err != nil {
		logging.Logger.Warn("Metadata garbage collection failed", "error", err)
	} else if len(removed) > 0 {
		logging.Logger.Info("Removed orphaned metadata", "plans", removed)
	}

	slices.SortFunc(plans, func(a, b domain.Plan) int {
		if c := b.ModifiedAt.Compare(a.ModifiedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Filename, b.Filename)
	})
	return plans, nil
}

// readFiles reads the listed plan files concurrently. Files that fail to
// read are logged and left out.
func (s *PlanService) readFiles(ctx context.Context, paths map[string]string) ([]*domain.PlanFile, error) {
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	slices.Sort(names)

	results := make([]*domain.PlanFile, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(readWorkers)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := s.files.Read(paths[name])
			if err != nil {
				logging.Logger.Warn("Failed to read plan file", "plan", name, "error", err)
				return nil
			}
			results[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return slices.DeleteFunc(results, func(f *domain.PlanFile) bool { return f == nil }), nil
}

// GetPlan returns one plan with its content
func (s *PlanService) GetPlan(ctx context.Context, identity string) (*domain.Plan, error) {
	target, err := s.resolveTarget(ctx, identity)
	if err != nil {
		return nil, err
	}
	return s.planFromTarget(ctx, target)
}

func (s *PlanService) planFromTarget(ctx context.Context, target *planTarget) (*domain.Plan, error) {
	row, err := s.store.Get(ctx, target.identity)
	if errors.Is(err, domain.ErrNotFound) {
		row, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	deps, err := s.store.GetDependencies(ctx, target.identity)
	if err != nil {
		return nil, fmt.Errorf("failed to get dependencies: %w", err)
	}

	var plan domain.Plan
	if target.virtual != nil {
		plan, err = s.resolvedFromVirtual(ctx, *target.virtual, row, deps)
	} else {
		plan, err = s.resolvedFromFile(ctx, target.file, row, deps)
		s.recordFileState(ctx, target)
	}
	if err != nil {
		return nil, err
	}
	plan.Content = target.content
	return &plan, nil
}

// CreatePlan writes a new plan file to the first plan directory and creates
// its metadata row
func (s *PlanService) CreatePlan(ctx context.Context, params CreatePlanParams) (*domain.Plan, error) {
	dirs := s.settings.PlanDirectories()
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no plan directories configured")
	}
	dir := dirs[0]

	identity, err := s.createFile(dir, dirs, params)
	if err != nil {
		return nil, err
	}
	logging.Logger.Info("Plan created", "plan", identity, "directory", dir)

	target, err := s.resolveTarget(ctx, identity)
	if err != nil {
		return nil, err
	}

	// A row left behind by an earlier plan of the same name is stale
	if err := s.store.Delete(ctx, identity); err != nil {
		return nil, fmt.Errorf("failed to clear stale metadata: %w", err)
	}
	if _, err := s.ensureRow(ctx, target, nil); err != nil {
		return nil, err
	}

	s.auditLog(ctx, domain.AuditCreate, identity, dir, map[string]any{"contentLength": len(params.Content)})
	return s.planFromTarget(ctx, target)
}

func (s *PlanService) createFile(dir string, dirs []string, params CreatePlanParams) (string, error) {
	if params.Filename != "" {
		identity := params.Filename
		if err := domain.ValidateNewIdentity(identity); err != nil {
			return "", err
		}
		if _, err := s.files.Resolve(identity, dirs); err == nil {
			return "", &domain.IdentityError{Err: domain.ErrPlanExists, Identity: identity}
		}
		if err := s.files.Create(filepath.Join(dir, identity), params.Content); err != nil {
			return "", fmt.Errorf("failed to create plan file: %w", err)
		}
		return identity, nil
	}

	for range maxNameGeneration {
		identity := domain.GeneratePlanName()
		if _, err := s.files.Resolve(identity, dirs); err == nil {
			continue
		}
		err := s.files.Create(filepath.Join(dir, identity), params.Content)
		if errors.Is(err, domain.ErrPlanExists) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create plan file: %w", err)
		}
		return identity, nil
	}
	return "", fmt.Errorf("failed to generate a unique plan name after %d attempts", maxNameGeneration)
}

// UpdatePlan replaces the content of a plan file. It fails with a
// domain.ConflictError when the file changed since it was last read.
func (s *PlanService) UpdatePlan(ctx context.Context, identity, content string) (*domain.Plan, error) {
	if err := s.ensureMutable(identity); err != nil {
		return nil, err
	}
	logging.Logger.Info("Updating plan", "plan", identity)

	path, err := s.files.Resolve(identity, s.settings.PlanDirectories())
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)

	if s.conflicts != nil {
		result, err := s.conflicts.CheckConflict(ctx, identity, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to check for conflicts: %w", err)
		}
		if result.HasConflict {
			logging.Logger.Warn("Refusing to overwrite externally modified plan", "plan", identity)
			return nil, &domain.ConflictError{
				CurrentMtime:   result.CurrentMtime,
				Identity:       identity,
				LastKnownMtime: result.LastKnownMtime,
			}
		}
	}

	if err := s.files.Write(path, content); err != nil {
		return nil, fmt.Errorf("failed to write plan file: %w", err)
	}

	s.auditLog(ctx, domain.AuditUpdate, identity, dir, map[string]any{"contentLength": len(content)})
	return s.GetPlan(ctx, identity)
}

// DeletePlan removes a plan file, or moves it to the archive, and drops its
// metadata row together with its subtasks and edges
func (s *PlanService) DeletePlan(ctx context.Context, identity string, archive bool) error {
	if err := s.ensureMutable(identity); err != nil {
		return err
	}
	logging.Logger.Info("Deleting plan", "plan", identity, "archive", archive)

	path, err := s.files.Resolve(identity, s.settings.PlanDirectories())
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)

	if archive {
		if err := s.archivePlan(ctx, identity, path); err != nil {
			return err
		}
	} else if err := s.files.Remove(path); err != nil {
		return fmt.Errorf("failed to remove plan file: %w", err)
	}

	if err := s.store.Delete(ctx, identity); err != nil {
		return fmt.Errorf("failed to delete metadata: %w", err)
	}
	s.forgetFileState(identity, dir)

	s.auditLog(ctx, domain.AuditDelete, identity, dir, map[string]any{"archived": archive, "permanent": !archive})
	return nil
}

func (s *PlanService) archivePlan(ctx context.Context, identity, path string) error {
	if s.archive == nil || s.archiveDir == "" {
		return fmt.Errorf("archiving is not configured")
	}

	file, err := s.files.Read(path)
	if err != nil {
		return err
	}
	plan := file.ToPlan(s.previewLength)

	archivePath, err := s.files.Move(path, s.archiveDir)
	if err != nil {
		return fmt.Errorf("failed to move plan to archive: %w", err)
	}

	err = s.archive.RecordArchiveMeta(ctx, domain.ArchiveEntry{
		ArchivePath:  archivePath,
		ArchivedAt:   s.now(),
		Filename:     identity,
		OriginalPath: path,
		Preview:      plan.Preview,
		Title:        plan.Title,
	})
	if err != nil {
		return fmt.Errorf("failed to record archived plan: %w", err)
	}
	return nil
}

// BulkDelete deletes every plan and reports all failures together
func (s *PlanService) BulkDelete(ctx context.Context, identities []string, archive bool) error {
	var errs []error
	for _, identity := range identities {
		if err := s.DeletePlan(ctx, identity, archive); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BulkUpdateStatus sets the status of every plan. A failing plan does not
// stop the rest; failures are listed in the result and joined in the error.
func (s *PlanService) BulkUpdateStatus(ctx context.Context, identities []string, status string) (*BulkResult, error) {
	return s.bulkUpdate(ctx, identities, domain.FieldStatus, status, domain.AuditStatusChange)
}

// BulkUpdateTags replaces the tags of every plan
func (s *PlanService) BulkUpdateTags(ctx context.Context, identities []string, tags []string) (*BulkResult, error) {
	return s.bulkUpdate(ctx, identities, domain.FieldTags, tags, domain.AuditMetadataChange)
}

// BulkAssign sets the assignee of every plan. An empty assignee clears it.
func (s *PlanService) BulkAssign(ctx context.Context, identities []string, assignee string) (*BulkResult, error) {
	return s.bulkUpdate(ctx, identities, domain.FieldAssignee, assignee, domain.AuditMetadataChange)
}

func (s *PlanService) bulkUpdate(
	ctx context.Context,
	identities []string,
	field domain.MetadataField,
	value any,
	action domain.AuditAction,
) (*BulkResult, error) {
	result := &BulkResult{Failed: []BulkFailure{}, Succeeded: []string{}}
	var errs []error
	for _, identity := range identities {
		if _, err := s.updateField(ctx, identity, field, value, action); err != nil {
			result.Failed = append(result.Failed, BulkFailure{Error: err.Error(), Filename: identity})
			errs = append(errs, err)
			continue
		}
		result.Succeeded = append(result.Succeeded, identity)
	}
	logging.Logger.Info("Bulk update finished", "field", field,
		"succeeded", len(result.Succeeded), "failed", len(result.Failed))
	return result, errors.Join(errs...)
}

// RenamePlan renames a plan file and moves its metadata row, subtasks and
// edges to the new identity. Retrying after a partial failure completes the move.
func (s *PlanService) RenamePlan(ctx context.Context, oldIdentity, newIdentity string) (*domain.Plan, error) {
	if err := s.ensureMutable(oldIdentity); err != nil {
		return nil, err
	}
	if err := domain.ValidateNewIdentity(newIdentity); err != nil {
		return nil, err
	}
	if oldIdentity == newIdentity {
		return s.GetPlan(ctx, newIdentity)
	}
	logging.Logger.Info("Renaming plan", "from", oldIdentity, "to", newIdentity)

	dirs := s.settings.PlanDirectories()
	oldPath, err := s.files.Resolve(oldIdentity, dirs)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// The file may already have been renamed by an interrupted attempt
		if !s.resumableRename(ctx, oldIdentity, newIdentity) {
			return nil, err
		}
		newPath, resolveErr := s.files.Resolve(newIdentity, dirs)
		if resolveErr != nil {
			return nil, err
		}
		logging.Logger.Info("Resuming interrupted rename", "from", oldIdentity, "to", newIdentity)
		oldPath = filepath.Join(filepath.Dir(newPath), oldIdentity)
	case err != nil:
		return nil, err
	default:
		if _, err := s.files.Resolve(newIdentity, dirs); err == nil {
			return nil, &domain.IdentityError{Err: domain.ErrPlanExists, Identity: newIdentity}
		}
		// Drop rows left behind by a plan file that no longer exists
		if err := s.store.Delete(ctx, newIdentity); err != nil {
			return nil, fmt.Errorf("failed to clear stale metadata: %w", err)
		}
		if err := s.files.Rename(oldPath, filepath.Join(filepath.Dir(oldPath), newIdentity)); err != nil {
			return nil, fmt.Errorf("failed to rename plan file: %w", err)
		}
	}

	if err := s.moveMetadata(ctx, oldIdentity, newIdentity); err != nil {
		return nil, err
	}
	s.forgetFileState(oldIdentity, filepath.Dir(oldPath))

	s.auditLog(ctx, domain.AuditRename, newIdentity, filepath.Dir(oldPath),
		map[string]any{"from": oldIdentity, "to": newIdentity})
	return s.GetPlan(ctx, newIdentity)
}

// resumableRename reports whether oldIdentity still has metadata and
// newIdentity holds either nothing or a partial copy of it. A row of its
// own means newIdentity is an unrelated plan.
func (s *PlanService) resumableRename(ctx context.Context, oldIdentity, newIdentity string) bool {
	oldRow, err := s.store.Get(ctx, oldIdentity)
	if err != nil {
		return false
	}
	newRow, err := s.store.Get(ctx, newIdentity)
	if errors.Is(err, domain.ErrNotFound) {
		return true
	}
	return err == nil && newRow.CreatedAt.Equal(oldRow.CreatedAt)
}

// moveMetadata copies the row, subtasks and both edge directions of
// oldIdentity before deleting it, since the delete cascades to its children
func (s *PlanService) moveMetadata(ctx context.Context, oldIdentity, newIdentity string) error {
	row, err := s.store.Get(ctx, oldIdentity)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get metadata: %w", err)
	}

	subtasks, err := s.store.ListSubtasks(ctx, oldIdentity)
	if err != nil {
		return fmt.Errorf("failed to list subtasks: %w", err)
	}
	deps, err := s.store.GetDependencies(ctx, oldIdentity)
	if err != nil {
		return fmt.Errorf("failed to get dependencies: %w", err)
	}

	row.Filename = newIdentity
	if err := s.store.Upsert(ctx, *row); err != nil {
		return fmt.Errorf("failed to copy metadata: %w", err)
	}
	for _, st := range subtasks {
		if _, err := s.store.UpsertSubtask(ctx, newIdentity, st.Input()); err != nil {
			return fmt.Errorf("failed to copy subtask %s: %w", st.ID, err)
		}
	}
	for _, blocker := range deps.BlockedBy {
		if err := s.store.AddDependency(ctx, newIdentity, blocker); err != nil {
			return fmt.Errorf("failed to copy dependency on %s: %w", blocker, err)
		}
	}
	for _, blocked := range deps.Blocks {
		if err := s.store.AddDependency(ctx, blocked, newIdentity); err != nil {
			return fmt.Errorf("failed to copy dependency of %s: %w", blocked, err)
		}
	}

	if err := s.store.Delete(ctx, oldIdentity); err != nil {
		return fmt.Errorf("failed to delete old metadata: %w", err)
	}
	logging.Logger.Debug("Metadata moved", "from", oldIdentity, "to", newIdentity,
		"subtasks", len(subtasks), "blockedBy", len(deps.BlockedBy), "blocks", len(deps.Blocks))
	return nil
}

// UpdateStatus sets the plan status. Virtual plans accept status changes
// since only their content is read-only.
func (s *PlanService) UpdateStatus(ctx context.Context, identity, status string) (*domain.Plan, error) {
	return s.updateField(ctx, identity, domain.FieldStatus, status, domain.AuditStatusChange)
}

// UpdateMetadataField sets one allow-listed metadata field, creating the
// metadata row when the plan has none yet
func (s *PlanService) UpdateMetadataField(ctx context.Context, identity string, field domain.MetadataField, value any) (*domain.Plan, error) {
	return s.updateField(ctx, identity, field, value, domain.AuditMetadataChange)
}

func (s *PlanService) updateField(
	ctx context.Context,
	identity string,
	field domain.MetadataField,
	value any,
	action domain.AuditAction,
) (*domain.Plan, error) {
	normalized, err := domain.FieldValue(field, value)
	if err != nil {
		return nil, err
	}
	logging.Logger.Info("Updating plan metadata", "plan", identity, "field", field)

	target, err := s.resolveTarget(ctx, identity)
	if err != nil {
		return nil, err
	}

	previous := domain.StatusTodo
	if row, err := s.store.Get(ctx, identity); err == nil {
		previous = row.Status
	}

	created, err := s.ensureRow(ctx, target, func(m *domain.PlanMetadata) {
		m.ApplyField(field, normalized)
	})
	if err != nil {
		return nil, err
	}
	if !created {
		if err := s.store.UpdateField(ctx, identity, field, value); err != nil {
			return nil, fmt.Errorf("failed to update %s: %w", field, err)
		}
	}

	details := map[string]any{"field": string(field), "value": value}
	if field == domain.FieldStatus {
		details = map[string]any{"from": previous, "to": *normalized.(*string)}
	}
	s.auditLog(ctx, action, identity, target.directory, details)

	return s.planFromTarget(ctx, target)
}

// FilePath returns the path of a plan file for opening in an editor
func (s *PlanService) FilePath(ctx context.Context, identity string) (string, error) {
	if err := s.ensureMutable(identity); err != nil {
		return "", err
	}
	return s.files.Resolve(identity, s.settings.PlanDirectories())
}

// ensureRow creates the metadata row for target when missing, seeded from
// frontmatter and adjusted by mutate. It reports whether the row was created.
func (s *PlanService) ensureRow(ctx context.Context, target *planTarget, mutate func(*domain.PlanMetadata)) (bool, error) {
	row := domain.NewPlanMetadata(target.identity, target.source, s.now())
	if target.file != nil {
		fm, _ := domain.SplitFrontmatter(target.file.Content)
		seedFromFrontmatter(&row, fm)
	}
	if mutate != nil {
		mutate(&row)
	}

	created, err := s.store.InsertIfAbsent(ctx, row)
	if err != nil {
		return false, fmt.Errorf("failed to create metadata: %w", err)
	}
	if created {
		logging.Logger.Debug("Metadata row created", "plan", target.identity, "source", target.source)
	}
	return created, nil
}

// resolveTarget validates identity and locates its backing file or virtual
// plan. A plan file shadows a virtual plan of the same identity, as in ListPlans.
func (s *PlanService) resolveTarget(ctx context.Context, identity string) (*planTarget, error) {
	if err := domain.ValidateIdentity(identity); err != nil {
		return nil, err
	}

	if domain.IsVirtualIdentity(identity) && !s.shadowedByFile(identity) {
		roots := s.sessionDirectories()
		if len(roots) == 0 {
			return nil, domain.NotFoundError(identity)
		}
		v, err := s.virtual.Get(ctx, roots, identity)
		if err != nil {
			return nil, err
		}
		return &planTarget{
			content:  v.Content,
			identity: identity,
			path:     v.SessionPath,
			source:   domain.SourceCodex,
			virtual:  v,
		}, nil
	}

	path, err := s.files.Resolve(identity, s.settings.PlanDirectories())
	if err != nil {
		return nil, err
	}
	file, err := s.files.Read(path)
	if err != nil {
		return nil, err
	}
	return &planTarget{
		content:   domain.StripFrontmatter(file.Content),
		directory: file.Directory,
		file:      file,
		identity:  identity,
		path:      path,
		source:    domain.SourceMarkdown,
	}, nil
}

// ensureMutable rejects content mutations of virtual plans before any
// write. Only a plan file shadowing the identity is mutable.
func (s *PlanService) ensureMutable(identity string) error {
	if err := domain.ValidateIdentity(identity); err != nil {
		return err
	}
	if domain.IsVirtualIdentity(identity) && !s.shadowedByFile(identity) {
		return domain.ReadOnlyError(identity)
	}
	return nil
}

// shadowedByFile reports whether a plan file carries a virtual identity
func (s *PlanService) shadowedByFile(identity string) bool {
	_, err := s.files.Resolve(identity, s.settings.PlanDirectories())
	return err == nil
}

func (s *PlanService) sessionDirectories() []string {
	if s.virtual == nil || !s.settings.CodexIntegrationEnabled() {
		return nil
	}
	return s.settings.SessionLogDirectories()
}

func (s *PlanService) resolvedFromFile(
	ctx context.Context,
	file *domain.PlanFile,
	row *domain.PlanMetadata,
	deps domain.Dependencies,
) (domain.Plan, error) {
	plan := file.ToPlan(s.previewLength)
	fm, _ := domain.SplitFrontmatter(file.Content)
	plan.Metadata = overlayFromFrontmatter(fm)
	return s.enrich(ctx, plan, row, deps)
}

func (s *PlanService) resolvedFromVirtual(
	ctx context.Context,
	v domain.VirtualPlan,
	row *domain.PlanMetadata,
	deps domain.Dependencies,
) (domain.Plan, error) {
	plan := v.ToPlan(s.previewLength)
	plan.Metadata.Status = domain.StatusTodo
	return s.enrich(ctx, plan, row, deps)
}

// enrich overlays the stored row onto plan; non-empty stored values win
func (s *PlanService) enrich(
	ctx context.Context,
	plan domain.Plan,
	row *domain.PlanMetadata,
	deps domain.Dependencies,
) (domain.Plan, error) {
	plan.Dependencies = deps

	if row != nil {
		overlayRow(&plan.Metadata, row)

		subtasks, err := s.store.ListSubtasks(ctx, plan.Filename)
		if err != nil {
			return plan, fmt.Errorf("failed to list subtasks: %w", err)
		}
		plan.Subtasks = subtasks
	}
	plan.Metadata.Progress = domain.SubtaskProgress(plan.Subtasks)

	if plan.Metadata.ProjectPath != "" {
		plan.RelatedProject = plan.Metadata.ProjectPath
	}
	return plan, nil
}

func (s *PlanService) recordFileState(ctx context.Context, target *planTarget) {
	if s.conflicts == nil || target.directory == "" {
		return
	}
	if err := s.conflicts.RecordFileState(ctx, target.identity, target.directory); err != nil {
		logging.Logger.Debug("Failed to record plan file state", "plan", target.identity, "error", err)
	}
}

func (s *PlanService) forgetFileState(identity, dir string) {
	if s.conflicts != nil {
		s.conflicts.Forget(identity, dir)
	}
}

// auditLog records a mutation. Failures are logged and ignored.
func (s *PlanService) auditLog(ctx context.Context, action domain.AuditAction, identity, dir string, details map[string]any) {
	if s.audit == nil || dir == "" {
		return
	}
	entry := domain.AuditEntry{
		Action:    action,
		Details:   details,
		Filename:  identity,
		Timestamp: s.now(),
	}
	if err := s.audit.Log(ctx, entry, dir); err != nil {
		logging.Logger.Warn("Failed to write audit log", "plan", identity, "action", action, "error", err)
	}
}

func seedFromFrontmatter(row *domain.PlanMetadata, fm domain.Frontmatter) {
	if strings.TrimSpace(fm.Status) != "" {
		row.Status = domain.RawStatus(fm.Status)
	}
	row.Assignee = nonEmpty(fm.Assignee)
	row.DueDate = nonEmpty(fm.DueDate)
	row.Estimate = nonEmpty(fm.Estimate)
	row.Priority = nonEmpty(fm.Priority)
	row.ProjectPath = nonEmpty(fm.ProjectPath)
	row.SessionID = nonEmpty(fm.SessionID)
	if len(fm.Tags) > 0 {
		row.Tags = []string(fm.Tags)
	}
}

func overlayFromFrontmatter(fm domain.Frontmatter) domain.PlanOverlay {
	return domain.PlanOverlay{
		Assignee:    fm.Assignee,
		DueDate:     fm.DueDate,
		Estimate:    fm.Estimate,
		Priority:    fm.Priority,
		ProjectPath: fm.ProjectPath,
		SessionID:   fm.SessionID,
		Status:      domain.RawStatus(fm.Status),
		Tags:        []string(fm.Tags),
	}
}

func overlayRow(o *domain.PlanOverlay, row *domain.PlanMetadata) {
	if row.Status != "" {
		o.Status = row.Status
	}
	overlayString(&o.Assignee, row.Assignee)
	overlayString(&o.DueDate, row.DueDate)
	overlayString(&o.Estimate, row.Estimate)
	overlayString(&o.Priority, row.Priority)
	overlayString(&o.ProjectPath, row.ProjectPath)
	overlayString(&o.SessionID, row.SessionID)
	if len(row.Tags) > 0 {
		o.Tags = row.Tags
	}
	if row.ArchivedAt != nil {
		o.ArchivedAt = row.ArchivedAt
	}
}

func overlayString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func nonEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// dependencyIndex groups edges by plan in both directions
func dependencyIndex(edges []domain.DependencyEdge) map[string]domain.Dependencies {
	index := make(map[string]domain.Dependencies)
	for _, e := range edges {
		d := index[e.Plan]
		d.BlockedBy = append(d.BlockedBy, e.BlockedBy)
		index[e.Plan] = d

		d = index[e.BlockedBy]
		d.Blocks = append(d.Blocks, e.Plan)
		index[e.BlockedBy] = d
	}
	for name, d := range index {
		slices.Sort(d.BlockedBy)
		slices.Sort(d.Blocks)
		index[name] = d
	}
	return index
}
