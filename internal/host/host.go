// Package host defines the contracts the view engine uses to talk to the
// authoring environment's live object tree. The engine never owns screens,
// canvases, groups, or controls; it only traverses and mutates them through
// these interfaces. A complete in-memory implementation lives in
// internal/host/memtree and backs both the CLI and the engine tests.
package host

import "errors"

// Opaque identities assigned by the host. A ContainerID names a canvas or a
// group; canvases and groups share the container property surface.
type (
	ScreenID    string
	ContainerID string
	ControlID   string
)

// Host errors
var (
	ErrScreenNotFound    = errors.New("screen not found")
	ErrContainerNotFound = errors.New("container not found")
	ErrControlNotFound   = errors.New("control not found")
	ErrScreenNotResident = errors.New("screen not resident")
)

// NodeType discriminates the children of a container. A group carrying a
// non-empty kind tag is an embedded-view instance; the tag is the sole
// discriminator between an instance and ordinary grouping.
type NodeType int

const (
	NodeControl NodeType = iota
	NodeGroup
	NodeInstance
)

func (t NodeType) String() string {
	switch t {
	case NodeControl:
		return "control"
	case NodeGroup:
		return "group"
	case NodeInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// Node is the resolved variant of a container child. The kind tag is probed
// once at enumeration time so traversal code never re-queries properties to
// tell an instance from scaffolding.
type Node struct {
	Type      NodeType
	Container ContainerID // set for groups and instances
	Control   ControlID   // set for controls
	Kind      string      // set for instances
	Name      string
}

// Cosmetics holds the optional appearance properties carried from a template's
// effective content root onto its instances. Each field is independent: a nil
// field means "not set", and applying a nil field clears the property rather
// than leaving a stale value behind.
type Cosmetics struct {
	FillColor *string `yaml:"fill_color,omitempty"`
	TextColor *string `yaml:"text_color,omitempty"`
	TextFont  *string `yaml:"text_font,omitempty"`
	TextSize  *int    `yaml:"text_size,omitempty"`
	TextStyle *string `yaml:"text_style,omitempty"`
}

// IsZero reports whether no cosmetic property is set.
func (c Cosmetics) IsZero() bool {
	return c.FillColor == nil && c.TextColor == nil && c.TextFont == nil &&
		c.TextSize == nil && c.TextStyle == nil
}

// ControlSpec is a host-independent description of a control, sufficient to
// recreate it inside any container. Rects in a spec are interpreted by the
// caller; the synchronizer stores them relative to the template's effective
// content root and translates on placement.
type ControlSpec struct {
	Type      string
	Name      string
	Rect      Rect
	Behavior  string
	Cosmetics Cosmetics
	Props     map[string]string
}

// Clone returns a deep copy of the spec.
func (s ControlSpec) Clone() ControlSpec {
	out := s
	if s.Props != nil {
		out.Props = make(map[string]string, len(s.Props))
		for k, v := range s.Props {
			out.Props[k] = v
		}
	}
	return out
}

// ScreenService covers screen residency and screen-level structure.
type ScreenService interface {
	// IsResident reports whether a screen with the given name is loaded.
	IsResident(name string) bool

	// OpenScreen loads a screen definition from its backing file into the
	// live tree. Opening an already-resident screen is an error; callers
	// check IsResident first (the template memory manager does this).
	OpenScreen(path string) (ScreenID, error)

	// CloseScreen unloads a screen and everything it contains.
	CloseScreen(id ScreenID) error

	// ScreenByName resolves a resident screen by name.
	ScreenByName(name string) (ScreenID, error)

	// ScreenName returns the declared name of a resident screen.
	ScreenName(id ScreenID) (string, error)

	// ScreenOf resolves a container to its owning screen.
	ScreenOf(c ContainerID) (ScreenID, error)

	// Canvases returns a screen's canvases in authoring order.
	Canvases(id ScreenID) ([]ContainerID, error)

	// BackgroundGroups returns a screen's background-layer groups in
	// authoring order. Background groups may also appear as canvas
	// children; discovery deduplicates by container identity.
	BackgroundGroups(id ScreenID) ([]ContainerID, error)
}

// TreeService covers container structure, properties, and notifications.
// Mutations are imperative and order-sensitive; multi-step sequences run
// under a Suspend scope so intermediate states never reach the screen.
type TreeService interface {
	// Children enumerates a container's direct children as resolved nodes.
	Children(c ContainerID) ([]Node, error)

	// CreateGroup adds a new empty group to a parent container.
	CreateGroup(parent ContainerID, name string) (ContainerID, error)

	// DeleteChildren removes every child group and control of a container.
	DeleteChildren(c ContainerID) error

	// DescribeControl captures a control as a host-independent spec.
	DescribeControl(id ControlID) (ControlSpec, error)

	// PlaceControl recreates a control from a spec inside a container.
	PlaceControl(dst ContainerID, spec ControlSpec) (ControlID, error)

	// KindTag reads a container's kind tag; empty for plain groups.
	KindTag(c ContainerID) (string, error)
	SetKindTag(c ContainerID, kind string) error

	Rect(c ContainerID) (Rect, error)
	SetRect(c ContainerID, r Rect) error

	Cosmetics(c ContainerID) (Cosmetics, error)
	// SetCosmetics applies all cosmetic properties at once; nil fields
	// clear the corresponding property.
	SetCosmetics(c ContainerID, cos Cosmetics) error

	// Behavior reads a container's behavior reference; empty means none.
	Behavior(c ContainerID) (string, error)
	SetBehavior(c ContainerID, behavior string) error

	Name(c ContainerID) (string, error)
	SetName(c ContainerID, name string) error

	// Identity toggles and baseline group styling.
	SetSelectGroupedControls(c ContainerID, on bool) error
	SetClipping(c ContainerID, on bool) error
	SetShowBorder(c ContainerID, on bool) error
	SetMargins(c ContainerID, px int) error
	SetOpaque(c ContainerID, on bool) error

	// Suspend suppresses screen redraw and intermediate change
	// notifications. The returned restore function reinstates the prior
	// suppression state, so scopes nest correctly.
	Suspend() (restore func())

	// Dispatch delivers a named lifecycle message to a container's
	// behavior. Containers without a behavior swallow the message.
	Dispatch(c ContainerID, message string) error
}

// Host is the full collaborator surface the engine consumes.
type Host interface {
	ScreenService
	TreeService
}
