// Package journal records cascade runs so authors can audit which screens
// a template change touched, and when.
package journal

import (
	"context"
	"time"
)

// Entry is one recorded cascade run.
type Entry struct {
	ID        string
	Kind      string
	Screens   []string
	StartedAt time.Time
	Duration  time.Duration
	Err       string
}

// Repository persists cascade entries.
type Repository interface {
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)
	ListByKind(ctx context.Context, kind string, limit int) ([]Entry, error)
}
