package views

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/openauthor/embedview/internal/host"
	"github.com/openauthor/embedview/internal/journal"
	"github.com/openauthor/embedview/internal/log"
	"github.com/openauthor/embedview/internal/manifest"
	"github.com/openauthor/embedview/internal/pubsub"
)

// Mutation describes one completed engine operation, published to
// subscribers so outer layers (auto-save, watch mode) can react without
// the engine knowing about them.
type Mutation struct {
	Op      string
	Kind    string
	Screens []host.ScreenID
}

// Engine is the facade over the whole machinery: template memory,
// instance discovery, synchronization, creation, and cascading updates.
type Engine struct {
	host         host.Host
	manifest     manifest.Provider
	resolver     *Resolver
	memory       *TemplateMemory
	discovery    *Discovery
	sync         *Synchronizer
	factory      *Factory
	orchestrator *Orchestrator

	tracer  trace.Tracer
	journal journal.Repository
	broker  *pubsub.Broker[Mutation]
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithTracer attaches a tracer; spans wrap each public operation.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// WithJournal records each cascade run in the given repository.
func WithJournal(r journal.Repository) Option {
	return func(e *Engine) { e.journal = r }
}

// NewEngine wires the engine over a host and a manifest.
func NewEngine(h host.Host, m manifest.Provider, opts ...Option) *Engine {
	resolver := NewResolver(m)
	memory := NewTemplateMemory(h, resolver)
	discovery := NewDiscovery(h)
	sync := NewSynchronizer(h, resolver, memory)
	e := &Engine{
		host:         h,
		manifest:     m,
		resolver:     resolver,
		memory:       memory,
		discovery:    discovery,
		sync:         sync,
		factory:      NewFactory(h, resolver, sync),
		orchestrator: NewOrchestrator(h, m, resolver, memory, discovery, sync),
		tracer:       noop.NewTracerProvider().Tracer("embedview"),
		broker:       pubsub.NewBroker[Mutation](),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Subscribe delivers a Mutation for every completed engine operation until
// the context is cancelled.
func (e *Engine) Subscribe(ctx context.Context) <-chan pubsub.Event[Mutation] {
	return e.broker.Subscribe(ctx)
}

// Close releases the engine's event broker.
func (e *Engine) Close() {
	e.broker.Close()
}

// Kinds lists every registered template kind in manifest order.
func (e *Engine) Kinds() []string {
	entries := e.manifest.Templates()
	kinds := make([]string, 0, len(entries))
	for _, entry := range entries {
		kinds = append(kinds, entry.Kind)
	}
	return kinds
}

// KindForPath maps a template backing file to its kind, for callers that
// watch the filesystem. The second result is false when the path is not a
// registered template.
func (e *Engine) KindForPath(path string) (string, bool) {
	return e.manifest.KindForPath(path)
}

// Sync refreshes one instance from its template.
func (e *Engine) Sync(ctx context.Context, kind string, instance host.ContainerID) error {
	ctx, span := e.tracer.Start(ctx, "engine.sync",
		trace.WithAttributes(attribute.String("kind", kind)))
	defer span.End()

	if err := e.sync.Sync(ctx, kind, instance); err != nil {
		span.RecordError(err)
		return err
	}
	e.publish("sync", kind, e.screensOf(instance))
	return nil
}

// CreateInstance creates and populates a new instance under parent.
func (e *Engine) CreateInstance(ctx context.Context, kind string, parent host.ContainerID, opts CreateOptions) (host.ContainerID, error) {
	ctx, span := e.tracer.Start(ctx, "engine.create_instance",
		trace.WithAttributes(attribute.String("kind", kind)))
	defer span.End()

	id, err := e.factory.CreateInstance(ctx, kind, parent, opts)
	if err != nil {
		span.RecordError(err)
		return id, err
	}
	e.publish("create", kind, e.screensOf(parent))
	return id, nil
}

// FindInstances reports every topmost instance in a screen, optionally
// filtered to one kind (empty means all).
func (e *Engine) FindInstances(ctx context.Context, screen host.ScreenID, kind string) ([]FoundInstance, error) {
	_, span := e.tracer.Start(ctx, "engine.find_instances")
	defer span.End()
	return e.discovery.FindInScreen(screen, kind)
}

// CascadeUpdate propagates a template change across every screen and
// template that embeds the kind. The returned set names the screens that
// were mutated and need saving.
func (e *Engine) CascadeUpdate(ctx context.Context, kind string) (*ContainerSet, error) {
	ctx, span := e.tracer.Start(ctx, "engine.cascade_update",
		trace.WithAttributes(attribute.String("kind", kind)))
	defer span.End()

	started := time.Now()
	set, err := e.orchestrator.CascadeUpdate(ctx, kind)
	e.record(ctx, kind, set, started, err)
	if err != nil {
		span.RecordError(err)
		return set, err
	}
	span.SetAttributes(attribute.Int("screens", set.Len()))
	e.publish("cascade", kind, set.IDs())
	return set, nil
}

// Screens exposes the screen half of the host for callers that persist
// mutated screens after a cascade.
func (e *Engine) Screens() host.ScreenService {
	return e.host
}

func (e *Engine) publish(op, kind string, screens []host.ScreenID) {
	e.broker.Publish(pubsub.UpdatedEvent, Mutation{
		Op:      op,
		Kind:    kind,
		Screens: screens,
	})
}

func (e *Engine) record(ctx context.Context, kind string, set *ContainerSet, started time.Time, cascadeErr error) {
	if e.journal == nil {
		return
	}
	entry := journal.Entry{
		ID:        uuid.NewString(),
		Kind:      kind,
		StartedAt: started,
		Duration:  time.Since(started),
	}
	for _, id := range set.IDs() {
		entry.Screens = append(entry.Screens, string(id))
	}
	if cascadeErr != nil {
		entry.Err = cascadeErr.Error()
	}
	// Journalling never fails the operation it describes.
	if err := e.journal.Record(ctx, entry); err != nil {
		log.Warn(log.CatJournal, "failed to record cascade", "kind", kind, "error", err)
	}
}

func (e *Engine) screensOf(container host.ContainerID) []host.ScreenID {
	screen, err := e.host.ScreenOf(container)
	if err != nil {
		return nil
	}
	return []host.ScreenID{screen}
}
