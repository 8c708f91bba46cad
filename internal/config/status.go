package config

import (
	"slices"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/theme"
)

// StatusConfig maps plan statuses to display colors
type StatusConfig struct {
	Colors   []string
	Statuses []string
}

// NewStatusConfig creates a StatusConfig, falling back to the built-in
// statuses and palette
func NewStatusConfig(statuses, colors []string) *StatusConfig {
	config := &StatusConfig{
		Colors:   colors,
		Statuses: statuses,
	}

	if len(config.Statuses) == 0 {
		config.Statuses = domain.BuiltinStatuses()
	}
	if len(config.Colors) == 0 {
		config.Colors = slices.Clone(theme.DefaultStatusColors)
	}

	return config
}

// GetColor returns a color for a given status based on its position.
// Unknown statuses get the last palette color.
func (c *StatusConfig) GetColor(status string) string {
	for i, s := range c.Statuses {
		if s == status {
			// Cycle when there are more statuses than colors
			return c.Colors[i%len(c.Colors)]
		}
	}
	return c.Colors[len(c.Colors)-1]
}

// GetNextStatus returns the status after current, wrapping to the first
func (c *StatusConfig) GetNextStatus(current string) string {
	for i, s := range c.Statuses {
		if s == current {
			return c.Statuses[(i+1)%len(c.Statuses)]
		}
	}
	return c.Statuses[0]
}
