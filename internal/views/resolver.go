package views

import (
	"fmt"

	"github.com/openauthor/embedview/internal/manifest"
)

// Resolver answers whether a template of some kind exists and where its
// backing definition lives. Pure reads against the manifest; no side effects.
type Resolver struct {
	manifest manifest.Provider
}

// NewResolver creates a resolver over the given manifest.
func NewResolver(m manifest.Provider) *Resolver {
	return &Resolver{manifest: m}
}

// Resolves reports whether the application declares a template of this kind.
func (r *Resolver) Resolves(kind string) bool {
	_, ok := r.manifest.TemplateByKind(kind)
	return ok
}

// BackingPath returns the backing screen file for a kind.
func (r *Resolver) BackingPath(kind string) (string, error) {
	entry, ok := r.manifest.TemplateByKind(kind)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, kind)
	}
	return entry.Path, nil
}
