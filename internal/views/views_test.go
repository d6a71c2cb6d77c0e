package views

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openauthor/embedview/internal/host"
	"github.com/openauthor/embedview/internal/host/memtree"
	"github.com/openauthor/embedview/internal/manifest"
)

// testManifest declares templates by kind and screens by name. Template
// backing paths default to templates/<kind>.yml unless overridden.
func testManifest(kinds []string, screens []manifest.ScreenEntry, paths map[string]string) manifest.Provider {
	templates := make([]manifest.TemplateEntry, 0, len(kinds))
	for _, kind := range kinds {
		path := "templates/" + kind + ".yml"
		if p, ok := paths[kind]; ok {
			path = p
		}
		templates = append(templates, manifest.TemplateEntry{Kind: kind, Path: path})
	}
	return manifest.New("test-app", templates, screens)
}

// newTemplate makes a resident template screen with one canvas.
func newTemplate(t *testing.T, tree *memtree.Tree, kind string) (host.ScreenID, host.ContainerID) {
	t.Helper()
	sid, err := tree.NewScreen(kind, "")
	require.NoError(t, err)
	canvas, err := tree.AddCanvas(sid, "card")
	require.NoError(t, err)
	return sid, canvas
}

// newAppScreen makes a resident application screen with one canvas.
func newAppScreen(t *testing.T, tree *memtree.Tree, name string) (host.ScreenID, host.ContainerID) {
	t.Helper()
	sid, err := tree.NewScreen(name, "")
	require.NoError(t, err)
	canvas, err := tree.AddCanvas(sid, "card")
	require.NoError(t, err)
	return sid, canvas
}

// newInstance makes an empty tagged group under parent.
func newInstance(t *testing.T, tree *memtree.Tree, parent host.ContainerID, kind string, r host.Rect) host.ContainerID {
	t.Helper()
	inst, err := tree.CreateGroup(parent, kind+"-instance")
	require.NoError(t, err)
	require.NoError(t, tree.SetKindTag(inst, kind))
	require.NoError(t, tree.SetRect(inst, r))
	return inst
}

// placeControl adds a control with a minimal spec.
func placeControl(t *testing.T, tree *memtree.Tree, parent host.ContainerID, name string, r host.Rect) host.ControlID {
	t.Helper()
	id, err := tree.PlaceControl(parent, host.ControlSpec{Type: "field", Name: name, Rect: r})
	require.NoError(t, err)
	return id
}

// controlSpecs resolves a container's control children to their specs, in
// authoring order.
func controlSpecs(t *testing.T, tree *memtree.Tree, c host.ContainerID) []host.ControlSpec {
	t.Helper()
	children, err := tree.Children(c)
	require.NoError(t, err)
	var specs []host.ControlSpec
	for _, node := range children {
		if node.Type != host.NodeControl {
			continue
		}
		spec, err := tree.DescribeControl(node.Control)
		require.NoError(t, err)
		specs = append(specs, spec)
	}
	return specs
}

func strPtr(s string) *string { return &s }
