package sqlite

import (
	"encoding/json"
	"time"

	"github.com/openauthor/embedview/internal/journal"
)

// JournalModel represents the database row for the cascade_journal table.
// Timestamps are Unix microseconds; screens are JSON encoded.
type JournalModel struct {
	ID         string
	Kind       string
	Screens    string
	StartedAt  int64
	DurationUS int64
	Error      *string // nullable
}

// toJournalModel converts a journal entry to its database row.
func toJournalModel(e journal.Entry) (*JournalModel, error) {
	screens, err := json.Marshal(e.Screens)
	if err != nil {
		return nil, err
	}
	m := &JournalModel{
		ID:         e.ID,
		Kind:       e.Kind,
		Screens:    string(screens),
		StartedAt:  e.StartedAt.UnixMicro(),
		DurationUS: e.Duration.Microseconds(),
	}
	if e.Err != "" {
		msg := e.Err
		m.Error = &msg
	}
	return m, nil
}

// toEntry converts a database row back to a journal entry.
func (m *JournalModel) toEntry() (journal.Entry, error) {
	e := journal.Entry{
		ID:        m.ID,
		Kind:      m.Kind,
		StartedAt: time.UnixMicro(m.StartedAt),
		Duration:  time.Duration(m.DurationUS) * time.Microsecond,
	}
	if m.Screens != "" {
		if err := json.Unmarshal([]byte(m.Screens), &e.Screens); err != nil {
			return journal.Entry{}, err
		}
	}
	if m.Error != nil {
		e.Err = *m.Error
	}
	return e, nil
}
