package views

import (
	"context"
	"fmt"

	"github.com/openauthor/embedview/internal/host"
	"github.com/openauthor/embedview/internal/log"
)

// DefaultInstanceSize is the edge length of the square a new instance gets
// when the caller supplies no rect.
const DefaultInstanceSize = 300

// CreateOptions configures instance creation.
type CreateOptions struct {
	// Rect places the instance explicitly. When nil, the instance is a
	// DefaultInstanceSize square centered on the parent's logical location,
	// so it lands sensibly regardless of where the screen's window sits.
	Rect *host.Rect

	// Name is the instance's user-settable name; unset when empty.
	Name string
}

// Factory creates new, empty, tagged instance containers and delegates their
// population to the Synchronizer.
type Factory struct {
	host     host.Host
	resolver *Resolver
	sync     *Synchronizer
}

// NewFactory creates a factory over the given collaborators.
func NewFactory(h host.Host, r *Resolver, s *Synchronizer) *Factory {
	return &Factory{host: h, resolver: r, sync: s}
}

// CreateInstance adds one new instance of the kind's template inside the
// parent container (a canvas or an existing group).
//
// If the synchronizer fails after the container exists, the tagged-but-empty
// container is NOT rolled back: the returned id is valid and the error
// reports the partial failure. Callers treat that as an incomplete instance,
// not a fatal abort.
func (f *Factory) CreateInstance(ctx context.Context, kind string, parent host.ContainerID, opts CreateOptions) (host.ContainerID, error) {
	if !f.resolver.Resolves(kind) {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, kind)
	}

	restore := f.host.Suspend()
	defer restore()

	instance, err := f.host.CreateGroup(parent, opts.Name)
	if err != nil {
		return "", mutation("create instance container", err)
	}
	if err := mutation("set kind tag", f.host.SetKindTag(instance, kind)); err != nil {
		return instance, err
	}

	// Baseline group styling for a fresh instance.
	if err := f.applyBaseline(instance); err != nil {
		return instance, err
	}

	rect, err := f.instanceRect(parent, opts.Rect)
	if err != nil {
		return instance, err
	}
	if err := mutation("set instance rect", f.host.SetRect(instance, rect)); err != nil {
		return instance, err
	}

	if err := f.sync.Sync(ctx, kind, instance); err != nil {
		log.Warn(log.CatSync, "created instance left unsynced", "kind", kind, "instance", instance)
		return instance, err
	}

	log.Info(log.CatSync, "instance created", "kind", kind, "instance", instance, "rect", rect)
	return instance, nil
}

func (f *Factory) applyBaseline(instance host.ContainerID) error {
	if err := mutation("clear border", f.host.SetShowBorder(instance, false)); err != nil {
		return err
	}
	if err := mutation("zero margins", f.host.SetMargins(instance, 0)); err != nil {
		return err
	}
	if err := mutation("clear opacity", f.host.SetOpaque(instance, false)); err != nil {
		return err
	}
	if err := mutation("enable clipping", f.host.SetClipping(instance, true)); err != nil {
		return err
	}
	return mutation("disable child selection", f.host.SetSelectGroupedControls(instance, false))
}

func (f *Factory) instanceRect(parent host.ContainerID, explicit *host.Rect) (host.Rect, error) {
	if explicit != nil {
		return *explicit, nil
	}
	parentRect, err := f.host.Rect(parent)
	if err != nil {
		return host.Rect{}, mutation("read parent rect", err)
	}
	return host.CenteredAt(parentRect.Center(), DefaultInstanceSize, DefaultInstanceSize), nil
}
