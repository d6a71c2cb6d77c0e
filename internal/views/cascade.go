package views

import (
	"context"
	"fmt"

	"github.com/openauthor/embedview/internal/host"
	"github.com/openauthor/embedview/internal/log"
	"github.com/openauthor/embedview/internal/manifest"
)

// Orchestrator propagates a template change to every affected instance:
// first across ordinary application screens, then across other templates
// that embed the changed kind, recursing through template-in-template
// containment. It accumulates the set of mutated screens for the caller to
// persist.
type Orchestrator struct {
	host      host.Host
	manifest  manifest.Provider
	resolver  *Resolver
	memory    *TemplateMemory
	discovery *Discovery
	sync      *Synchronizer
}

// NewOrchestrator creates an orchestrator over the given collaborators.
func NewOrchestrator(h host.Host, m manifest.Provider, r *Resolver, mem *TemplateMemory, d *Discovery, s *Synchronizer) *Orchestrator {
	return &Orchestrator{host: h, manifest: m, resolver: r, memory: mem, discovery: d, sync: s}
}

// CascadeUpdate refreshes every instance of the kind across the application.
// The returned set names the screens that were mutated; on error the set
// holds whatever was accumulated before the failing step (informational
// only, not guaranteed complete). The first failure aborts the cascade.
func (o *Orchestrator) CascadeUpdate(ctx context.Context, kind string) (*ContainerSet, error) {
	set := NewContainerSet()
	if !o.resolver.Resolves(kind) {
		return set, fmt.Errorf("%w: %s", ErrTemplateNotFound, kind)
	}
	err := o.cascade(ctx, kind, set, map[string]struct{}{})
	return set, err
}

// cascade runs one level of the update: refresh instances of kind in
// application screens (state A), then in other templates (state B),
// recursing into each template that contained one. The inflight set is
// threaded through the recursion so mutually embedding templates terminate:
// a kind already being cascaded is never cascaded again, though its canvas
// is still scanned and refreshed like any other container.
func (o *Orchestrator) cascade(ctx context.Context, kind string, set *ContainerSet, inflight map[string]struct{}) error {
	if _, busy := inflight[kind]; busy {
		return nil
	}
	inflight[kind] = struct{}{}

	// The template just changed; stale plans must not outlive this point.
	o.sync.Invalidate(ctx, kind)

	// Hold one lease for the whole level so the template loads once no
	// matter how many instances the sweep refreshes.
	lease, err := o.memory.Acquire(kind)
	if err != nil {
		return err
	}
	defer func() { _ = lease.Release() }()

	log.Info(log.CatCascade, "cascade started", "kind", kind)

	if err := o.scanScreens(ctx, kind, set); err != nil {
		return err
	}
	return o.scanTemplates(ctx, kind, set, inflight)
}

// scanScreens is state A: every registered application screen, in manifest
// order, excluding the reserved template-list entry.
func (o *Orchestrator) scanScreens(ctx context.Context, kind string, set *ContainerSet) error {
	for _, entry := range o.manifest.Screens() {
		if entry.Key == manifest.TemplatesKey {
			continue
		}
		screen, opened, err := o.residentScreen(entry.Name, entry.Path)
		if err != nil {
			return err
		}
		found, err := o.discovery.FindInScreen(screen, kind)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			// Nothing here; a screen loaded just for the scan goes away
			// again.
			if opened {
				if err := o.host.CloseScreen(screen); err != nil {
					return mutation("unload scanned screen", err)
				}
			}
			continue
		}
		for _, inst := range found {
			if err := o.sync.Sync(ctx, kind, inst.Container); err != nil {
				return err
			}
		}
		set.Add(screen)
		log.Info(log.CatCascade, "screen updated",
			"kind", kind, "screen", entry.Name, "instances", len(found))
	}
	return nil
}

// scanTemplates is state B: every other template, in registry order. A
// template containing the changed kind is refreshed, recorded, kept
// resident for the caller to persist, and then cascaded itself, because an
// instance of it may be embedded in yet more screens or templates.
func (o *Orchestrator) scanTemplates(ctx context.Context, kind string, set *ContainerSet, inflight map[string]struct{}) error {
	for _, entry := range o.manifest.Templates() {
		if entry.Kind == kind {
			// Self-exclusion: a template never refreshes its own canvas.
			continue
		}
		lease, err := o.memory.Acquire(entry.Kind)
		if err != nil {
			return err
		}
		found, err := o.discovery.FindInScreen(lease.Screen(), kind)
		if err != nil {
			_ = lease.Release()
			return err
		}
		if len(found) == 0 {
			if err := lease.Release(); err != nil {
				return err
			}
			continue
		}
		for _, inst := range found {
			if err := o.sync.Sync(ctx, kind, inst.Container); err != nil {
				_ = lease.Release()
				return err
			}
		}
		set.Add(lease.Screen())
		// The template was mutated; it must stay resident so the caller
		// can save it after the cascade returns.
		lease.Keep()
		if err := lease.Release(); err != nil {
			return err
		}
		log.Info(log.CatCascade, "template updated",
			"kind", kind, "template", entry.Kind, "instances", len(found))

		if err := o.cascade(ctx, entry.Kind, set, inflight); err != nil {
			return &CascadeError{Kind: entry.Kind, Err: err}
		}
	}
	return nil
}

// residentScreen resolves a screen by name, loading it from its backing
// file when absent. The opened flag tells the caller it owns the load.
func (o *Orchestrator) residentScreen(name, path string) (host.ScreenID, bool, error) {
	if o.host.IsResident(name) {
		id, err := o.host.ScreenByName(name)
		if err != nil {
			return "", false, mutation("resolve screen", err)
		}
		return id, false, nil
	}
	id, err := o.host.OpenScreen(path)
	if err != nil {
		return "", false, mutation("load screen", err)
	}
	return id, true, nil
}
