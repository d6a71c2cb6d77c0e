package views

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openauthor/embedview/internal/host"
	"github.com/openauthor/embedview/internal/host/memtree"
)

func TestFindInScreenStopsAtInstanceBoundary(t *testing.T) {
	tree := memtree.New()
	screen, canvas := newAppScreen(t, tree, "Main")

	// Scaffolding group wrapping a navbar instance.
	wrap, err := tree.CreateGroup(canvas, "layout")
	require.NoError(t, err)
	navbar := newInstance(t, tree, wrap, "navbar", host.NewRect(0, 0, 400, 80))

	// A footer instance containing a nested navbar instance. The nested one
	// belongs to the footer template's own refresh, never to this scan.
	footer := newInstance(t, tree, canvas, "footer", host.NewRect(0, 500, 400, 600))
	newInstance(t, tree, footer, "navbar", host.NewRect(0, 510, 100, 540))

	found, err := NewDiscovery(tree).FindInScreen(screen, "")
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Equal(t, FoundInstance{Container: navbar, Kind: "navbar"}, found[0])
	require.Equal(t, FoundInstance{Container: footer, Kind: "footer"}, found[1])
}

func TestFindInScreenKindFilter(t *testing.T) {
	tree := memtree.New()
	screen, canvas := newAppScreen(t, tree, "Main")
	navbar := newInstance(t, tree, canvas, "navbar", host.NewRect(0, 0, 400, 80))
	footer := newInstance(t, tree, canvas, "footer", host.NewRect(0, 500, 400, 600))
	// Even when the filter skips the footer, its interior stays sealed.
	nested := newInstance(t, tree, footer, "navbar", host.NewRect(0, 510, 100, 540))
	_ = nested

	found, err := NewDiscovery(tree).FindInScreen(screen, "navbar")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, navbar, found[0].Container)
}

func TestFindInScreenDeduplicatesSharedBackground(t *testing.T) {
	tree := memtree.New()
	screen, canvas := newAppScreen(t, tree, "Main")

	bg, err := tree.AddBackgroundGroup(screen, "shared-navbar")
	require.NoError(t, err)
	require.NoError(t, tree.SetKindTag(bg, "navbar"))
	require.NoError(t, tree.PlaceOnCanvas(canvas, bg))

	found, err := NewDiscovery(tree).FindInScreen(screen, "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, bg, found[0].Container)
}

func TestFindInGroupTreatsGroupAsRoot(t *testing.T) {
	tree := memtree.New()
	_, canvas := newAppScreen(t, tree, "Main")

	footer := newInstance(t, tree, canvas, "footer", host.NewRect(0, 0, 400, 100))
	nested := newInstance(t, tree, footer, "navbar", host.NewRect(10, 10, 110, 40))

	// The footer itself is the search root here, so its interior is open.
	found, err := NewDiscovery(tree).FindInGroup(footer, "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, nested, found[0].Container)
}

func TestFindInScreenEmpty(t *testing.T) {
	tree := memtree.New()
	screen, canvas := newAppScreen(t, tree, "Main")
	placeControl(t, tree, canvas, "plain", host.NewRect(0, 0, 50, 50))

	found, err := NewDiscovery(tree).FindInScreen(screen, "")
	require.NoError(t, err)
	require.Empty(t, found)
}
