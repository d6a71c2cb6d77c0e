package views

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openauthor/embedview/internal/host"
	"github.com/openauthor/embedview/internal/host/memtree"
)

// savedTemplate builds a template screen in a scratch tree, writes it to a
// YAML backing file, and returns the path. The live tree never sees it until
// OpenScreen loads the file.
func savedTemplate(t *testing.T, kind string) string {
	t.Helper()
	scratch := memtree.New()
	sid, canvas := newTemplate(t, scratch, kind)
	placeControl(t, scratch, canvas, "title", host.NewRect(10, 10, 110, 40))
	path := filepath.Join(t.TempDir(), kind+".yml")
	require.NoError(t, scratch.SaveScreenTo(sid, path))
	return path
}

func TestAcquireResidentTemplate(t *testing.T) {
	tree := memtree.New()
	sid, _ := newTemplate(t, tree, "navbar")
	m := NewTemplateMemory(tree, NewResolver(testManifest([]string{"navbar"}, nil, nil)))

	lease, err := m.Acquire("navbar")
	require.NoError(t, err)
	require.Equal(t, sid, lease.Screen())
	require.Equal(t, "navbar", lease.Kind())
	require.Equal(t, 1, m.ActiveLeases("navbar"))

	// The screen was already resident, so releasing must not unload it.
	require.NoError(t, lease.Release())
	require.Equal(t, 0, m.ActiveLeases("navbar"))
	require.True(t, tree.IsResident("navbar"))
}

func TestAcquireLoadsFromBackingFile(t *testing.T) {
	path := savedTemplate(t, "navbar")
	tree := memtree.New()
	m := NewTemplateMemory(tree, NewResolver(testManifest([]string{"navbar"}, nil,
		map[string]string{"navbar": path})))

	lease, err := m.Acquire("navbar")
	require.NoError(t, err)
	require.True(t, tree.IsResident("navbar"))

	canvas, err := lease.Canvas()
	require.NoError(t, err)
	require.Len(t, controlSpecs(t, tree, canvas), 1)

	require.NoError(t, lease.Release())
	require.False(t, tree.IsResident("navbar"))
}

func TestAcquireNestedLeases(t *testing.T) {
	path := savedTemplate(t, "navbar")
	tree := memtree.New()
	m := NewTemplateMemory(tree, NewResolver(testManifest([]string{"navbar"}, nil,
		map[string]string{"navbar": path})))

	outer, err := m.Acquire("navbar")
	require.NoError(t, err)
	inner, err := m.Acquire("navbar")
	require.NoError(t, err)
	require.Equal(t, outer.Screen(), inner.Screen())
	require.Equal(t, 2, m.ActiveLeases("navbar"))

	require.NoError(t, inner.Release())
	require.True(t, tree.IsResident("navbar"))

	require.NoError(t, outer.Release())
	require.False(t, tree.IsResident("navbar"))
}

func TestLeaseKeepTransfersOwnership(t *testing.T) {
	path := savedTemplate(t, "navbar")
	tree := memtree.New()
	m := NewTemplateMemory(tree, NewResolver(testManifest([]string{"navbar"}, nil,
		map[string]string{"navbar": path})))

	lease, err := m.Acquire("navbar")
	require.NoError(t, err)
	lease.Keep()
	require.NoError(t, lease.Release())

	// Ownership moved to the caller: the screen survives the last release.
	require.True(t, tree.IsResident("navbar"))
}

func TestLeaseReleaseIdempotent(t *testing.T) {
	tree := memtree.New()
	newTemplate(t, tree, "navbar")
	m := NewTemplateMemory(tree, NewResolver(testManifest([]string{"navbar"}, nil, nil)))

	lease, err := m.Acquire("navbar")
	require.NoError(t, err)
	require.NoError(t, lease.Release())
	require.NoError(t, lease.Release())
	require.Equal(t, 0, m.ActiveLeases("navbar"))
}

func TestLeaseCanvasMissing(t *testing.T) {
	tree := memtree.New()
	_, err := tree.NewScreen("navbar", "")
	require.NoError(t, err)
	m := NewTemplateMemory(tree, NewResolver(testManifest([]string{"navbar"}, nil, nil)))

	lease, err := m.Acquire("navbar")
	require.NoError(t, err)
	defer func() { _ = lease.Release() }()

	_, err = lease.Canvas()
	require.ErrorIs(t, err, ErrTemplateNoCanvas)
}

func TestAcquireUnknownKind(t *testing.T) {
	tree := memtree.New()
	m := NewTemplateMemory(tree, NewResolver(testManifest(nil, nil, nil)))

	_, err := m.Acquire("sidebar")
	require.ErrorIs(t, err, ErrTemplateNotFound)
}
