package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openauthor/embedview/internal/journal"
)

// journalColumns is the list of columns to select for journal queries.
const journalColumns = `id, kind, screens, started_at, duration_us, error`

// journalRepository implements journal.Repository using SQLite.
type journalRepository struct {
	db *sql.DB
}

// NewJournalRepository creates a journal repository over an open database.
func NewJournalRepository(db *sql.DB) journal.Repository {
	return &journalRepository{db: db}
}

var _ journal.Repository = (*journalRepository)(nil)

func scanJournal(scanner interface{ Scan(...any) error }) (*JournalModel, error) {
	var model JournalModel
	err := scanner.Scan(
		&model.ID, &model.Kind, &model.Screens,
		&model.StartedAt, &model.DurationUS, &model.Error,
	)
	return &model, err
}

// Record appends one cascade run to the journal.
func (r *journalRepository) Record(ctx context.Context, entry journal.Entry) error {
	model, err := toJournalModel(entry)
	if err != nil {
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO cascade_journal (id, kind, screens, started_at, duration_us, error)
		VALUES (?, ?, ?, ?, ?, ?)`,
		model.ID, model.Kind, model.Screens, model.StartedAt, model.DurationUS, model.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first. A limit of zero or
// less means no limit.
func (r *journalRepository) List(ctx context.Context, limit int) ([]journal.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+journalColumns+` FROM cascade_journal
		ORDER BY started_at DESC LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// ListByKind returns the most recent entries for one kind, newest first.
func (r *journalRepository) ListByKind(ctx context.Context, kind string, limit int) ([]journal.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+journalColumns+` FROM cascade_journal WHERE kind = ?
		ORDER BY started_at DESC LIMIT ?`, kind, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries by kind: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func collectEntries(rows *sql.Rows) ([]journal.Entry, error) {
	var entries []journal.Entry
	for rows.Next() {
		model, err := scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entry, err := model.toEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to decode journal entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal entries: %w", err)
	}
	return entries, nil
}

// normalizeLimit maps "no limit" to SQLite's unlimited sentinel.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
