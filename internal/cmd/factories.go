package cmd

import (
	"context"
	"time"

	adapterarchive "github.com/renato0307/agentplans/internal/adapters/archive"
	adapteraudit "github.com/renato0307/agentplans/internal/adapters/audit"
	adaptercodex "github.com/renato0307/agentplans/internal/adapters/codex"
	adapterconflict "github.com/renato0307/agentplans/internal/adapters/conflict"
	adaptereditor "github.com/renato0307/agentplans/internal/adapters/editor"
	adapterplanfs "github.com/renato0307/agentplans/internal/adapters/planfs"
	adapterstorage "github.com/renato0307/agentplans/internal/adapters/storage"
	"github.com/renato0307/agentplans/internal/config"
	"github.com/renato0307/agentplans/internal/logging"
	"github.com/renato0307/agentplans/internal/ports"
	"github.com/renato0307/agentplans/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	// Services
	DependencyService *services.DependencyService
	PlanService       *services.PlanService
	SubtaskService    *services.SubtaskService

	// Adapters used directly by commands
	ArchiveIndex ports.ArchiveIndex
	Editor       ports.EditorOpener
	Settings     *config.Provider
	Watcher      ports.PlanWatcher

	// Internal - for cleanup only
	store ports.MetadataStore
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(ctx context.Context, provider *config.Provider) (*Container, error) {
	store, err := adapterstorage.NewSQLiteRepository(ctx, config.GetDBPath())
	if err != nil {
		return nil, err
	}

	resolver := adapterplanfs.NewResolver()
	synthesizer := adaptercodex.NewSynthesizer(provider.MaxSessionFiles())
	retention := time.Duration(provider.ArchiveRetentionDays()) * 24 * time.Hour
	recorder := adapterarchive.NewRecorder(provider.ArchiveDirectory(), retention)

	planService := services.NewPlanService(store, resolver, synthesizer, provider,
		services.WithArchive(recorder, recorder.Directory()),
		services.WithAuditLogger(adapteraudit.NewJSONLLogger()),
		services.WithConflictChecker(adapterconflict.NewTracker()),
		services.WithPreviewLength(provider.PreviewLength()),
	)

	logging.Logger.Debug("Container initialized",
		"planDirectories", provider.PlanDirectories(),
		"codexEnabled", provider.CodexIntegrationEnabled())

	return &Container{
		ArchiveIndex:      recorder,
		DependencyService: services.NewDependencyService(planService, store),
		Editor:            adaptereditor.NewOpener(),
		PlanService:       planService,
		Settings:          provider,
		SubtaskService:    services.NewSubtaskService(planService, store),
		Watcher:           adapterplanfs.NewWatcher(adapterplanfs.DefaultDebounce),
		store:             store,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
