package storage

import (
	"encoding/json"
	"time"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/logging"
)

// metadataModelToDomain converts a PlanMetadataModel (GORM) to domain.PlanMetadata
func metadataModelToDomain(m PlanMetadataModel) domain.PlanMetadata {
	return domain.PlanMetadata{
		ArchivedAt:  m.ArchivedAt,
		Assignee:    m.Assignee,
		CreatedAt:   m.CreatedAt,
		DueDate:     m.DueDate,
		Estimate:    m.Estimate,
		Filename:    m.Filename,
		ModifiedAt:  m.ModifiedAt,
		Priority:    m.Priority,
		ProjectPath: m.ProjectPath,
		SessionID:   m.SessionID,
		Source:      domain.PlanSource(m.Source),
		Status:      domain.RawStatus(m.Status),
		Tags:        decodeTags(m.Filename, m.Tags),
	}
}

// domainToMetadataModel converts a domain.PlanMetadata to PlanMetadataModel (GORM)
func domainToMetadataModel(meta domain.PlanMetadata) PlanMetadataModel {
	source := meta.Source
	if source == "" {
		source = domain.SourceMarkdown
	}
	return PlanMetadataModel{
		ArchivedAt:  utcPtr(meta.ArchivedAt),
		Assignee:    meta.Assignee,
		CreatedAt:   meta.CreatedAt.UTC(),
		DueDate:     meta.DueDate,
		Estimate:    meta.Estimate,
		Filename:    meta.Filename,
		ModifiedAt:  meta.ModifiedAt.UTC(),
		Priority:    meta.Priority,
		ProjectPath: meta.ProjectPath,
		SessionID:   meta.SessionID,
		Source:      string(source),
		Status:      domain.RawStatus(meta.Status),
		Tags:        encodeTags(meta.Tags),
	}
}

func subtaskModelToDomain(m SubtaskModel) domain.Subtask {
	return domain.Subtask{
		Assignee:     m.Assignee,
		DueDate:      m.DueDate,
		ID:           m.ID,
		PlanFilename: m.PlanFilename,
		SortOrder:    m.SortOrder,
		Status:       domain.SubtaskStatus(m.Status),
		Title:        m.Title,
	}
}

// encodeTags stores tags as a JSON array, NULL when empty
func encodeTags(tags []string) *string {
	if len(tags) == 0 {
		return nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}

func decodeTags(filename string, raw *string) []string {
	if raw == nil || *raw == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(*raw), &tags); err != nil {
		logging.Logger.Warn("Ignoring malformed tags column", "plan", filename, "error", err)
		return []string{}
	}
	return tags
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
