package config

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/ports"
)

// Provider resolves effective configuration from Settings and overrides
type Provider struct {
	settings *Settings

	planDirsOverride []string
}

// Verify interface compliance at compile time
var _ ports.SettingsProvider = (*Provider)(nil)

// NewProvider creates a Provider. Nil settings means all defaults.
func NewProvider(settings *Settings) *Provider {
	if settings == nil {
		settings = &Settings{}
	}
	return &Provider{settings: settings}
}

// WithPlanDirectories overrides the configured plan directories
func (p *Provider) WithPlanDirectories(dirs []string) *Provider {
	p.planDirsOverride = dirs
	return p
}

// PlanDirectories returns the ordered plan directories, first wins on collisions
func (p *Provider) PlanDirectories() []string {
	dirs := []string(p.settings.PlanDirectories)
	if len(p.planDirsOverride) > 0 {
		dirs = p.planDirsOverride
	}
	result := normalizeDirs(dirs)
	if len(result) == 0 {
		return []string{ExpandPath(DefaultPlanDirectory)}
	}
	return result
}

// CodexIntegrationEnabled reports whether session logs are scanned for plans
func (p *Provider) CodexIntegrationEnabled() bool {
	return p.settings.CodexIntegrationEnabled != nil && *p.settings.CodexIntegrationEnabled
}

// SessionLogDirectories returns the session log roots to scan
func (p *Provider) SessionLogDirectories() []string {
	result := normalizeDirs(p.settings.CodexSessionDirectories)
	if len(result) == 0 {
		return []string{ExpandPath(DefaultSessionDirectory)}
	}
	return result
}

// ArchiveDirectory returns where archived plans are moved
func (p *Provider) ArchiveDirectory() string {
	if dir := strings.TrimSpace(p.settings.ArchiveDirectory); dir != "" {
		return filepath.Clean(ExpandPath(dir))
	}
	return GetArchivePath()
}

// ArchiveRetentionDays returns how long archived plans are kept
func (p *Provider) ArchiveRetentionDays() int {
	if p.settings.ArchiveRetentionDays != nil && *p.settings.ArchiveRetentionDays > 0 {
		return *p.settings.ArchiveRetentionDays
	}
	return DefaultArchiveRetentionDays
}

// MaxSessionFiles returns how many recent session logs are scanned
func (p *Provider) MaxSessionFiles() int {
	if p.settings.MaxSessionFiles != nil && *p.settings.MaxSessionFiles > 0 {
		return *p.settings.MaxSessionFiles
	}
	return DefaultMaxSessionFiles
}

// PreviewLength returns the plan preview size in characters
func (p *Provider) PreviewLength() int {
	if p.settings.PreviewLength != nil && *p.settings.PreviewLength > 0 {
		return *p.settings.PreviewLength
	}
	return domain.DefaultPreviewLength
}

// StatusConfig returns the status palette used for display
func (p *Provider) StatusConfig() *StatusConfig {
	return NewStatusConfig(p.settings.Statuses, p.settings.StatusColors)
}

// normalizeDirs expands ~, cleans paths, drops blanks and duplicates keeping order
func normalizeDirs(dirs []string) []string {
	result := make([]string, 0, len(dirs))
	for _, d := range dirs {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		d = filepath.Clean(ExpandPath(d))
		if slices.Contains(result, d) {
			continue
		}
		result = append(result, d)
	}
	return result
}
