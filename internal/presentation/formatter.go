package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatTemplates formats the template registry as JSON
func (f *Formatter) FormatTemplates(templates []TemplateDTO) error {
	return f.encode(templates)
}

// FormatInstances formats discovered instances as JSON
func (f *Formatter) FormatInstances(instances []InstanceDTO) error {
	return f.encode(instances)
}

// FormatCascadeResult formats a cascade outcome as JSON
func (f *Formatter) FormatCascadeResult(result CascadeResultDTO) error {
	return f.encode(result)
}

// FormatJournal formats journal entries as JSON
func (f *Formatter) FormatJournal(entries []JournalEntryDTO) error {
	return f.encode(entries)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
