// Package memtree is a complete in-memory implementation of the host
// contracts in internal/host. It backs the CLI (screens load from and save
// to YAML files) and gives the engine tests a real object tree to mutate.
package memtree

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/openauthor/embedview/internal/host"
	"github.com/openauthor/embedview/internal/log"
)

// Message records a lifecycle notification delivered to a container's
// behavior, in dispatch order. Tests assert against this log.
type Message struct {
	Container host.ContainerID
	Behavior  string
	Name      string
}

// Tree is an in-memory host object tree.
type Tree struct {
	screens    map[host.ScreenID]*screen
	byName     map[string]host.ScreenID
	containers map[host.ContainerID]*container
	controls   map[host.ControlID]*control

	suspendDepth int
	messages     []Message
}

type screen struct {
	id          host.ScreenID
	name        string
	path        string
	canvases    []host.ContainerID
	backgrounds []host.ContainerID
}

type container struct {
	id       host.ContainerID
	screen   host.ScreenID
	name     string
	kind     string
	rect     host.Rect
	cosmetic host.Cosmetics
	behavior string

	clipping      bool
	selectGrouped bool
	showBorder    bool
	margins       int
	opaque        bool

	canvas   bool
	children []childRef
}

// childRef points at exactly one of a container or a control.
type childRef struct {
	container host.ContainerID
	control   host.ControlID
}

type control struct {
	id     host.ControlID
	screen host.ScreenID
	spec   host.ControlSpec
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{
		screens:    make(map[host.ScreenID]*screen),
		byName:     make(map[string]host.ScreenID),
		containers: make(map[host.ContainerID]*container),
		controls:   make(map[host.ControlID]*control),
	}
}

var _ host.Host = (*Tree)(nil)

// ---------------------------------------------------------------------------
// Construction API. The YAML codec and test fixtures build trees through
// these; they are not part of the host contracts.
// ---------------------------------------------------------------------------

// NewScreen registers an empty screen. The path is where SaveScreen writes
// the screen back; it may be empty for throwaway screens.
func (t *Tree) NewScreen(name, path string) (host.ScreenID, error) {
	if _, ok := t.byName[name]; ok {
		return "", fmt.Errorf("screen %q already resident", name)
	}
	id := host.ScreenID(uuid.NewString())
	t.screens[id] = &screen{id: id, name: name, path: path}
	t.byName[name] = id
	return id, nil
}

// AddCanvas appends a canvas to a screen.
func (t *Tree) AddCanvas(s host.ScreenID, name string) (host.ContainerID, error) {
	sc, ok := t.screens[s]
	if !ok {
		return "", host.ErrScreenNotFound
	}
	c := t.newContainer(s, name)
	c.canvas = true
	sc.canvases = append(sc.canvases, c.id)
	return c.id, nil
}

// AddBackgroundGroup appends a background-layer group to a screen.
func (t *Tree) AddBackgroundGroup(s host.ScreenID, name string) (host.ContainerID, error) {
	sc, ok := t.screens[s]
	if !ok {
		return "", host.ErrScreenNotFound
	}
	c := t.newContainer(s, name)
	sc.backgrounds = append(sc.backgrounds, c.id)
	return c.id, nil
}

// PlaceOnCanvas references an existing background group as a child of a
// canvas. The same container then shows up both in BackgroundGroups and in
// the canvas's children, which is how discovery can reach one container via
// two scan paths.
func (t *Tree) PlaceOnCanvas(canvas, group host.ContainerID) error {
	cv, ok := t.containers[canvas]
	if !ok || !cv.canvas {
		return host.ErrContainerNotFound
	}
	if _, ok := t.containers[group]; !ok {
		return host.ErrContainerNotFound
	}
	cv.children = append(cv.children, childRef{container: group})
	return nil
}

func (t *Tree) newContainer(s host.ScreenID, name string) *container {
	c := &container{
		id:     host.ContainerID(uuid.NewString()),
		screen: s,
		name:   name,
	}
	t.containers[c.id] = c
	return c
}

// ---------------------------------------------------------------------------
// ScreenService
// ---------------------------------------------------------------------------

// IsResident reports whether a screen with the given name is loaded.
func (t *Tree) IsResident(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// OpenScreen loads a screen definition from a YAML backing file.
func (t *Tree) OpenScreen(path string) (host.ScreenID, error) {
	file, err := readScreenFile(path)
	if err != nil {
		return "", err
	}
	if t.IsResident(file.Name) {
		return "", fmt.Errorf("screen %q already resident", file.Name)
	}
	id, err := t.buildScreen(file, path)
	if err != nil {
		return "", err
	}
	log.Debug(log.CatHost, "opened screen", "name", file.Name, "path", path)
	return id, nil
}

// CloseScreen unloads a screen and everything it contains.
func (t *Tree) CloseScreen(id host.ScreenID) error {
	sc, ok := t.screens[id]
	if !ok {
		return host.ErrScreenNotFound
	}
	for cid, c := range t.containers {
		if c.screen == id {
			delete(t.containers, cid)
		}
	}
	for cid, c := range t.controls {
		if c.screen == id {
			delete(t.controls, cid)
		}
	}
	delete(t.byName, sc.name)
	delete(t.screens, id)
	log.Debug(log.CatHost, "closed screen", "name", sc.name)
	return nil
}

// ScreenByName resolves a resident screen by name.
func (t *Tree) ScreenByName(name string) (host.ScreenID, error) {
	id, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", host.ErrScreenNotResident, name)
	}
	return id, nil
}

// ScreenName returns the declared name of a resident screen.
func (t *Tree) ScreenName(id host.ScreenID) (string, error) {
	sc, ok := t.screens[id]
	if !ok {
		return "", host.ErrScreenNotFound
	}
	return sc.name, nil
}

// ScreenPath returns the backing file of a resident screen.
func (t *Tree) ScreenPath(id host.ScreenID) (string, error) {
	sc, ok := t.screens[id]
	if !ok {
		return "", host.ErrScreenNotFound
	}
	return sc.path, nil
}

// ScreenOf resolves a container to its owning screen.
func (t *Tree) ScreenOf(c host.ContainerID) (host.ScreenID, error) {
	cc, ok := t.containers[c]
	if !ok {
		return "", host.ErrContainerNotFound
	}
	return cc.screen, nil
}

// Canvases returns a screen's canvases in authoring order.
func (t *Tree) Canvases(id host.ScreenID) ([]host.ContainerID, error) {
	sc, ok := t.screens[id]
	if !ok {
		return nil, host.ErrScreenNotFound
	}
	return append([]host.ContainerID(nil), sc.canvases...), nil
}

// BackgroundGroups returns a screen's background-layer groups.
func (t *Tree) BackgroundGroups(id host.ScreenID) ([]host.ContainerID, error) {
	sc, ok := t.screens[id]
	if !ok {
		return nil, host.ErrScreenNotFound
	}
	return append([]host.ContainerID(nil), sc.backgrounds...), nil
}

// ---------------------------------------------------------------------------
// TreeService
// ---------------------------------------------------------------------------

// Children enumerates a container's direct children as resolved nodes.
func (t *Tree) Children(c host.ContainerID) ([]host.Node, error) {
	cc, ok := t.containers[c]
	if !ok {
		return nil, host.ErrContainerNotFound
	}
	nodes := make([]host.Node, 0, len(cc.children))
	for _, ref := range cc.children {
		if ref.control != "" {
			ctl, ok := t.controls[ref.control]
			if !ok {
				continue
			}
			nodes = append(nodes, host.Node{
				Type:    host.NodeControl,
				Control: ctl.id,
				Name:    ctl.spec.Name,
			})
			continue
		}
		child, ok := t.containers[ref.container]
		if !ok {
			continue
		}
		node := host.Node{
			Type:      host.NodeGroup,
			Container: child.id,
			Name:      child.name,
		}
		if child.kind != "" {
			node.Type = host.NodeInstance
			node.Kind = child.kind
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// CreateGroup adds a new empty group to a parent container.
func (t *Tree) CreateGroup(parent host.ContainerID, name string) (host.ContainerID, error) {
	pc, ok := t.containers[parent]
	if !ok {
		return "", host.ErrContainerNotFound
	}
	c := t.newContainer(pc.screen, name)
	pc.children = append(pc.children, childRef{container: c.id})
	return c.id, nil
}

// DeleteChildren removes every child group and control of a container.
func (t *Tree) DeleteChildren(c host.ContainerID) error {
	cc, ok := t.containers[c]
	if !ok {
		return host.ErrContainerNotFound
	}
	for _, ref := range cc.children {
		t.deleteRef(ref)
	}
	cc.children = nil
	return nil
}

func (t *Tree) deleteRef(ref childRef) {
	if ref.control != "" {
		delete(t.controls, ref.control)
		return
	}
	child, ok := t.containers[ref.container]
	if !ok {
		return
	}
	for _, sub := range child.children {
		t.deleteRef(sub)
	}
	delete(t.containers, ref.container)
}

// DescribeControl captures a control as a host-independent spec.
func (t *Tree) DescribeControl(id host.ControlID) (host.ControlSpec, error) {
	ctl, ok := t.controls[id]
	if !ok {
		return host.ControlSpec{}, host.ErrControlNotFound
	}
	return ctl.spec.Clone(), nil
}

// PlaceControl recreates a control from a spec inside a container.
func (t *Tree) PlaceControl(dst host.ContainerID, spec host.ControlSpec) (host.ControlID, error) {
	cc, ok := t.containers[dst]
	if !ok {
		return "", host.ErrContainerNotFound
	}
	ctl := &control{
		id:     host.ControlID(uuid.NewString()),
		screen: cc.screen,
		spec:   spec.Clone(),
	}
	t.controls[ctl.id] = ctl
	cc.children = append(cc.children, childRef{control: ctl.id})
	return ctl.id, nil
}

// KindTag reads a container's kind tag.
func (t *Tree) KindTag(c host.ContainerID) (string, error) {
	cc, ok := t.containers[c]
	if !ok {
		return "", host.ErrContainerNotFound
	}
	return cc.kind, nil
}

// SetKindTag writes a container's kind tag.
func (t *Tree) SetKindTag(c host.ContainerID, kind string) error {
	cc, ok := t.containers[c]
	if !ok {
		return host.ErrContainerNotFound
	}
	cc.kind = kind
	return nil
}

// Rect reads a container's rect.
func (t *Tree) Rect(c host.ContainerID) (host.Rect, error) {
	cc, ok := t.containers[c]
	if !ok {
		return host.Rect{}, host.ErrContainerNotFound
	}
	return cc.rect, nil
}

// SetRect writes a container's rect.
func (t *Tree) SetRect(c host.ContainerID, r host.Rect) error {
	cc, ok := t.containers[c]
	if !ok {
		return host.ErrContainerNotFound
	}
	cc.rect = r
	return nil
}

// Cosmetics reads a container's cosmetic properties.
func (t *Tree) Cosmetics(c host.ContainerID) (host.Cosmetics, error) {
	cc, ok := t.containers[c]
	if !ok {
		return host.Cosmetics{}, host.ErrContainerNotFound
	}
	return cc.cosmetic, nil
}

// SetCosmetics applies all cosmetic properties; nil fields clear.
func (t *Tree) SetCosmetics(c host.ContainerID, cos host.Cosmetics) error {
	cc, ok := t.containers[c]
	if !ok {
		return host.ErrContainerNotFound
	}
	cc.cosmetic = cos
	return nil
}

// Behavior reads a container's behavior reference.
func (t *Tree) Behavior(c host.ContainerID) (string, error) {
	cc, ok := t.containers[c]
	if !ok {
		return "", host.ErrContainerNotFound
	}
	return cc.behavior, nil
}

// SetBehavior writes a container's behavior reference.
func (t *Tree) SetBehavior(c host.ContainerID, behavior string) error {
	cc, ok := t.containers[c]
	if !ok {
		return host.ErrContainerNotFound
	}
	cc.behavior = behavior
	return nil
}

// Name reads a container's user-settable name.
func (t *Tree) Name(c host.ContainerID) (string, error) {
	cc, ok := t.containers[c]
	if !ok {
		return "", host.ErrContainerNotFound
	}
	return cc.name, nil
}

// SetName writes a container's name.
func (t *Tree) SetName(c host.ContainerID, name string) error {
	cc, ok := t.containers[c]
	if !ok {
		return host.ErrContainerNotFound
	}
	cc.name = name
	return nil
}

// SetSelectGroupedControls toggles child selection on a container.
func (t *Tree) SetSelectGroupedControls(c host.ContainerID, on bool) error {
	return t.setFlag(c, func(cc *container) { cc.selectGrouped = on })
}

// SetClipping toggles content clipping on a container.
func (t *Tree) SetClipping(c host.ContainerID, on bool) error {
	return t.setFlag(c, func(cc *container) { cc.clipping = on })
}

// SetShowBorder toggles the border on a container.
func (t *Tree) SetShowBorder(c host.ContainerID, on bool) error {
	return t.setFlag(c, func(cc *container) { cc.showBorder = on })
}

// SetMargins sets a container's margins.
func (t *Tree) SetMargins(c host.ContainerID, px int) error {
	return t.setFlag(c, func(cc *container) { cc.margins = px })
}

// SetOpaque toggles opacity on a container.
func (t *Tree) SetOpaque(c host.ContainerID, on bool) error {
	return t.setFlag(c, func(cc *container) { cc.opaque = on })
}

func (t *Tree) setFlag(c host.ContainerID, apply func(*container)) error {
	cc, ok := t.containers[c]
	if !ok {
		return host.ErrContainerNotFound
	}
	apply(cc)
	return nil
}

// Suspend suppresses redraw and change notifications. The returned restore
// reinstates the prior suppression depth rather than forcing zero, so nested
// scopes unwind correctly.
func (t *Tree) Suspend() (restore func()) {
	prev := t.suspendDepth
	t.suspendDepth++
	return func() { t.suspendDepth = prev }
}

// Suspended reports whether notifications are currently suppressed.
func (t *Tree) Suspended() bool {
	return t.suspendDepth > 0
}

// SuspendDepth returns the current nesting depth, for tests.
func (t *Tree) SuspendDepth() int {
	return t.suspendDepth
}

// Dispatch delivers a lifecycle message to a container's behavior.
// Containers without a behavior swallow the message silently.
func (t *Tree) Dispatch(c host.ContainerID, message string) error {
	cc, ok := t.containers[c]
	if !ok {
		return host.ErrContainerNotFound
	}
	if cc.behavior == "" {
		return nil
	}
	t.messages = append(t.messages, Message{
		Container: c,
		Behavior:  cc.behavior,
		Name:      message,
	})
	return nil
}

// Messages returns the lifecycle notifications delivered so far.
func (t *Tree) Messages() []Message {
	return append([]Message(nil), t.messages...)
}

// ResetMessages clears the notification log.
func (t *Tree) ResetMessages() {
	t.messages = nil
}

// MessagesFor filters the notification log to one container.
func (t *Tree) MessagesFor(c host.ContainerID) []Message {
	var out []Message
	for _, m := range t.messages {
		if m.Container == c {
			out = append(out, m)
		}
	}
	return out
}
