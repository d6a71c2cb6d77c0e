package views

import (
	"fmt"
	"sync"

	"github.com/openauthor/embedview/internal/host"
	"github.com/openauthor/embedview/internal/log"
)

// TemplateMemory ensures a template's definition is resident in the host
// tree while it is being read, and unloads it afterward if no other caller
// still needs it. Residency is tracked with explicit per-kind lease counts
// rather than a "was it already loaded" boolean, so re-entrant cascades that
// acquire the same template twice cannot unload it out from under each other.
//
// A template's screen is named after its kind.
type TemplateMemory struct {
	host     host.ScreenService
	resolver *Resolver

	mu     sync.Mutex
	leases map[string]*leaseState
}

type leaseState struct {
	count      int
	openedHere bool // the first Acquire loaded the screen, so the last Release unloads it
	screen     host.ScreenID
}

// NewTemplateMemory creates a memory manager over the given host.
func NewTemplateMemory(h host.ScreenService, r *Resolver) *TemplateMemory {
	return &TemplateMemory{
		host:     h,
		resolver: r,
		leases:   make(map[string]*leaseState),
	}
}

// IsResident reports whether the kind's template screen is loaded.
func (m *TemplateMemory) IsResident(kind string) bool {
	return m.host.IsResident(kind)
}

// ActiveLeases returns the number of live leases for a kind.
func (m *TemplateMemory) ActiveLeases(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.leases[kind]; ok {
		return st.count
	}
	return 0
}

// Acquire makes the kind's template resident and returns a lease on it.
// Every lease must be released; the template unloads when the last lease on
// a screen this manager loaded is released.
func (m *TemplateMemory) Acquire(kind string) (*Lease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.leases[kind]; ok {
		st.count++
		return &Lease{memory: m, kind: kind, screen: st.screen}, nil
	}

	st := &leaseState{count: 1}
	if m.host.IsResident(kind) {
		screen, err := m.host.ScreenByName(kind)
		if err != nil {
			return nil, mutation("resolve resident template", err)
		}
		st.screen = screen
	} else {
		path, err := m.resolver.BackingPath(kind)
		if err != nil {
			return nil, err
		}
		screen, err := m.host.OpenScreen(path)
		if err != nil {
			return nil, mutation("load template", err)
		}
		st.screen = screen
		st.openedHere = true
		log.Debug(log.CatMemory, "template loaded", "kind", kind, "path", path)
	}

	m.leases[kind] = st
	return &Lease{memory: m, kind: kind, screen: st.screen}, nil
}

// Lease is a scoped claim on a resident template.
type Lease struct {
	memory   *TemplateMemory
	kind     string
	screen   host.ScreenID
	released bool
}

// Kind returns the leased template's kind.
func (l *Lease) Kind() string {
	return l.kind
}

// Screen returns the leased template's screen.
func (l *Lease) Screen() host.ScreenID {
	return l.screen
}

// Canvas returns the template's sole canvas.
func (l *Lease) Canvas() (host.ContainerID, error) {
	canvases, err := l.memory.host.Canvases(l.screen)
	if err != nil {
		return "", mutation("enumerate template canvases", err)
	}
	if len(canvases) == 0 {
		return "", fmt.Errorf("%w: %s", ErrTemplateNoCanvas, l.kind)
	}
	return canvases[0], nil
}

// Keep transfers ownership of a load to the caller: the screen stays
// resident after the last release. The cascade uses this when a transiently
// loaded template was mutated and must survive for the caller to persist.
func (l *Lease) Keep() {
	l.memory.mu.Lock()
	defer l.memory.mu.Unlock()
	if st, ok := l.memory.leases[l.kind]; ok {
		st.openedHere = false
	}
}

// Release gives up the lease. Releasing the last lease on a template this
// manager loaded unloads it. Release is idempotent.
func (l *Lease) Release() error {
	if l.released {
		return nil
	}
	l.released = true

	l.memory.mu.Lock()
	defer l.memory.mu.Unlock()

	st, ok := l.memory.leases[l.kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrLeaseReleased, l.kind)
	}
	st.count--
	if st.count > 0 {
		return nil
	}
	delete(l.memory.leases, l.kind)
	if !st.openedHere {
		return nil
	}
	if err := l.memory.host.CloseScreen(st.screen); err != nil {
		return mutation("unload template", err)
	}
	log.Debug(log.CatMemory, "template unloaded", "kind", l.kind)
	return nil
}
