package views

import (
	"context"
	"fmt"

	"github.com/openauthor/embedview/internal/cachemanager"
	"github.com/openauthor/embedview/internal/host"
	"github.com/openauthor/embedview/internal/log"
)

// Lifecycle messages dispatched to an instance's behavior after a sync,
// in order: re-initialize transient state, then recalculate layout for the
// instance's current rect.
const (
	MsgViewInstantiated = "viewInstantiated"
	MsgResizeView       = "resizeView"
)

type planInput struct {
	kind   string
	canvas host.ContainerID
}

// Synchronizer implements the content-replacement protocol: tear down an
// instance's content, rebuild it from the template's copy plan, re-apply the
// identity properties the teardown may have disturbed, and notify the
// instance's behavior. The instance's kind tag and geometry are never
// replaced, only its content.
type Synchronizer struct {
	host     host.Host
	resolver *Resolver
	memory   *TemplateMemory
	plans    *cachemanager.ReadThroughCache[string, CopyPlan, planInput]
}

// NewSynchronizer creates a synchronizer over the given collaborators.
func NewSynchronizer(h host.Host, r *Resolver, m *TemplateMemory) *Synchronizer {
	s := &Synchronizer{host: h, resolver: r, memory: m}
	cache := cachemanager.NewInMemoryCacheManager[string, CopyPlan](
		"copy-plans", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	s.plans = cachemanager.NewReadThroughCache[string, CopyPlan, planInput](
		cache,
		func(ctx context.Context, in planInput) (CopyPlan, error) {
			return BuildPlan(s.host, in.kind, in.canvas)
		},
		false,
	)
	return s
}

// Invalidate drops cached copy plans so the next sync re-reads the template.
// Cascades call this for the changed kind before refreshing instances.
func (s *Synchronizer) Invalidate(ctx context.Context, kinds ...string) {
	_ = s.plans.Invalidate(ctx, kinds...)
}

// Sync replaces an instance's content with a fresh copy of its template's
// content. The instance's rect and kind tag survive; everything inside it is
// torn down and rebuilt. On failure, partial teardown may remain; the host
// has no rollback, so the error only reports what failed.
func (s *Synchronizer) Sync(ctx context.Context, kind string, instance host.ContainerID) error {
	if !s.resolver.Resolves(kind) {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, kind)
	}

	lease, err := s.memory.Acquire(kind)
	if err != nil {
		return err
	}
	defer func() { _ = lease.Release() }()

	canvas, err := lease.Canvas()
	if err != nil {
		return err
	}
	plan, err := s.plans.Get(ctx, kind, planInput{kind: kind, canvas: canvas}, cachemanager.DefaultExpiration)
	if err != nil {
		return err
	}

	restore := s.host.Suspend()
	defer restore()

	// Read geometry before teardown; copied controls position relative to it.
	rect, err := s.host.Rect(instance)
	if err != nil {
		return mutation("read instance rect", err)
	}

	if err := s.ClearInstance(instance); err != nil {
		return err
	}

	// Teardown can implicitly disturb the tag and identity toggles on some
	// hosts; re-apply them before rebuilding content.
	if err := mutation("set kind tag", s.host.SetKindTag(instance, kind)); err != nil {
		return err
	}
	if err := mutation("disable child selection", s.host.SetSelectGroupedControls(instance, false)); err != nil {
		return err
	}
	if err := mutation("enable clipping", s.host.SetClipping(instance, true)); err != nil {
		return err
	}

	if err := mutation("assign behavior", s.host.SetBehavior(instance, plan.Behavior)); err != nil {
		return err
	}
	if err := mutation("apply cosmetics", s.host.SetCosmetics(instance, plan.Cosmetics)); err != nil {
		return err
	}

	for _, spec := range plan.Controls {
		placed := spec.Clone()
		placed.Rect = spec.Rect.Translate(rect.Left, rect.Top)
		if _, err := s.host.PlaceControl(instance, placed); err != nil {
			return mutation(fmt.Sprintf("copy control %q", spec.Name), err)
		}
	}

	if err := mutation("notify instantiation", s.host.Dispatch(instance, MsgViewInstantiated)); err != nil {
		return err
	}
	if err := mutation("notify resize", s.host.Dispatch(instance, MsgResizeView)); err != nil {
		return err
	}

	log.Debug(log.CatSync, "instance synchronized",
		"kind", kind, "instance", instance, "controls", len(plan.Controls))
	return nil
}

// ClearInstance tears down an instance's current content entirely. Exposed
// on its own so the host's cleanup paths can empty an instance before
// deleting it.
func (s *Synchronizer) ClearInstance(instance host.ContainerID) error {
	restore := s.host.Suspend()
	defer restore()
	return mutation("clear instance content", s.host.DeleteChildren(instance))
}
