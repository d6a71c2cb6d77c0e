// Package presentation shapes engine results for CLI output.
package presentation

import (
	"time"

	"github.com/openauthor/embedview/internal/journal"
	"github.com/openauthor/embedview/internal/manifest"
	"github.com/openauthor/embedview/internal/views"
)

// TemplateDTO represents a registered template for presentation.
type TemplateDTO struct {
	Kind     string `json:"kind"`
	Filename string `json:"filename"`
}

// InstanceDTO represents a discovered instance for presentation.
type InstanceDTO struct {
	Container string `json:"container"`
	Kind      string `json:"kind"`
	Screen    string `json:"screen"`
}

// CascadeResultDTO represents the outcome of one cascading update.
type CascadeResultDTO struct {
	Kind    string   `json:"kind"`
	Screens []string `json:"screens"`
	Saved   bool     `json:"saved"`
}

// JournalEntryDTO represents a recorded cascade run.
type JournalEntryDTO struct {
	ID         string   `json:"id"`
	Kind       string   `json:"kind"`
	Screens    []string `json:"screens"`
	StartedAt  string   `json:"started_at"`
	DurationMS float64  `json:"duration_ms"`
	Error      string   `json:"error,omitempty"`
}

// FromManifestTemplates converts manifest entries to DTOs.
func FromManifestTemplates(entries []manifest.TemplateEntry) []TemplateDTO {
	dtos := make([]TemplateDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = TemplateDTO{Kind: entry.Kind, Filename: entry.Path}
	}
	return dtos
}

// FromFoundInstances converts discovery results on one screen to DTOs.
func FromFoundInstances(screen string, found []views.FoundInstance) []InstanceDTO {
	dtos := make([]InstanceDTO, len(found))
	for i, inst := range found {
		dtos[i] = InstanceDTO{
			Container: string(inst.Container),
			Kind:      inst.Kind,
			Screen:    screen,
		}
	}
	return dtos
}

// FromJournalEntries converts journal entries to DTOs.
func FromJournalEntries(entries []journal.Entry) []JournalEntryDTO {
	dtos := make([]JournalEntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = JournalEntryDTO{
			ID:         entry.ID,
			Kind:       entry.Kind,
			Screens:    entry.Screens,
			StartedAt:  entry.StartedAt.Format(time.RFC3339),
			DurationMS: float64(entry.Duration.Microseconds()) / 1000.0,
			Error:      entry.Err,
		}
	}
	return dtos
}
