package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/openauthor/embedview/internal/host"
	"github.com/openauthor/embedview/internal/host/memtree"
	"github.com/openauthor/embedview/internal/manifest"
)

type syncFixture struct {
	tree     *memtree.Tree
	manifest manifest.Provider
	sync     *Synchronizer
	screen   host.ScreenID
	canvas   host.ContainerID
}

// newSyncFixture builds a resident "navbar" template with two controls and
// a behavior, plus an empty "Main" application screen.
func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	tree := memtree.New()

	_, tplCanvas := newTemplate(t, tree, "navbar")
	require.NoError(t, tree.SetRect(tplCanvas, host.NewRect(0, 0, 400, 80)))
	require.NoError(t, tree.SetBehavior(tplCanvas, "navbar_behavior"))
	require.NoError(t, tree.SetCosmetics(tplCanvas, host.Cosmetics{FillColor: strPtr("white")}))
	placeControl(t, tree, tplCanvas, "title", host.NewRect(10, 10, 110, 40))
	placeControl(t, tree, tplCanvas, "menu", host.NewRect(120, 10, 390, 70))

	screen, canvas := newAppScreen(t, tree, "Main")

	m := testManifest([]string{"navbar"}, nil, nil)
	resolver := NewResolver(m)
	return &syncFixture{
		tree:     tree,
		manifest: m,
		sync:     NewSynchronizer(tree, resolver, NewTemplateMemory(tree, resolver)),
		screen:   screen,
		canvas:   canvas,
	}
}

func TestSyncPopulatesInstance(t *testing.T) {
	f := newSyncFixture(t)
	inst := newInstance(t, f.tree, f.canvas, "navbar", host.NewRect(50, 500, 450, 580))

	require.NoError(t, f.sync.Sync(context.Background(), "navbar", inst))

	specs := controlSpecs(t, f.tree, inst)
	require.Len(t, specs, 2)
	require.Equal(t, "title", specs[0].Name)
	require.Equal(t, host.NewRect(60, 510, 160, 540), specs[0].Rect)
	require.Equal(t, "menu", specs[1].Name)
	require.Equal(t, host.NewRect(170, 510, 440, 570), specs[1].Rect)

	// Identity survives content replacement.
	kind, err := f.tree.KindTag(inst)
	require.NoError(t, err)
	require.Equal(t, "navbar", kind)
	rect, err := f.tree.Rect(inst)
	require.NoError(t, err)
	require.Equal(t, host.NewRect(50, 500, 450, 580), rect)

	behavior, err := f.tree.Behavior(inst)
	require.NoError(t, err)
	require.Equal(t, "navbar_behavior", behavior)
	cos, err := f.tree.Cosmetics(inst)
	require.NoError(t, err)
	require.Equal(t, strPtr("white"), cos.FillColor)
}

func TestSyncLifecycleMessages(t *testing.T) {
	f := newSyncFixture(t)
	inst := newInstance(t, f.tree, f.canvas, "navbar", host.NewRect(0, 0, 400, 80))

	require.NoError(t, f.sync.Sync(context.Background(), "navbar", inst))

	msgs := f.tree.MessagesFor(inst)
	require.Len(t, msgs, 2)
	require.Equal(t, MsgViewInstantiated, msgs[0].Name)
	require.Equal(t, MsgResizeView, msgs[1].Name)
	require.Equal(t, "navbar_behavior", msgs[0].Behavior)
}

func TestSyncReplacesExistingContent(t *testing.T) {
	f := newSyncFixture(t)
	inst := newInstance(t, f.tree, f.canvas, "navbar", host.NewRect(0, 0, 400, 80))

	// Stale content from a previous template revision.
	placeControl(t, f.tree, inst, "stale", host.NewRect(0, 0, 10, 10))
	_, err := f.tree.CreateGroup(inst, "stale-group")
	require.NoError(t, err)

	require.NoError(t, f.sync.Sync(context.Background(), "navbar", inst))

	children, err := f.tree.Children(inst)
	require.NoError(t, err)
	require.Len(t, children, 2)
	for _, node := range children {
		require.Equal(t, host.NodeControl, node.Type)
		require.NotEqual(t, "stale", node.Name)
	}
}

func TestSyncIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newSyncFixture(t)
		left := rapid.IntRange(-500, 500).Draw(rt, "left")
		top := rapid.IntRange(-500, 500).Draw(rt, "top")
		inst := newInstance(t, f.tree, f.canvas, "navbar",
			host.NewRect(left, top, left+400, top+80))

		require.NoError(rt, f.sync.Sync(context.Background(), "navbar", inst))
		first := controlSpecs(t, f.tree, inst)
		require.NoError(rt, f.sync.Sync(context.Background(), "navbar", inst))
		second := controlSpecs(t, f.tree, inst)

		require.Equal(rt, first, second)
	})
}

func TestSyncUnknownKind(t *testing.T) {
	f := newSyncFixture(t)
	inst := newInstance(t, f.tree, f.canvas, "sidebar", host.NewRect(0, 0, 100, 100))

	err := f.sync.Sync(context.Background(), "sidebar", inst)
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestSyncBalancesSuspension(t *testing.T) {
	f := newSyncFixture(t)
	inst := newInstance(t, f.tree, f.canvas, "navbar", host.NewRect(0, 0, 400, 80))

	require.NoError(t, f.sync.Sync(context.Background(), "navbar", inst))
	require.False(t, f.tree.Suspended())
	require.Zero(t, f.tree.SuspendDepth())
}

func TestSyncUnloadsTransientTemplate(t *testing.T) {
	path := savedTemplate(t, "navbar")
	tree := memtree.New()
	m := testManifest([]string{"navbar"}, nil, map[string]string{"navbar": path})
	resolver := NewResolver(m)
	sync := NewSynchronizer(tree, resolver, NewTemplateMemory(tree, resolver))

	_, canvas := newAppScreen(t, tree, "Main")
	inst := newInstance(t, tree, canvas, "navbar", host.NewRect(0, 0, 200, 50))

	require.NoError(t, sync.Sync(context.Background(), "navbar", inst))
	require.False(t, tree.IsResident("navbar"))
	require.Len(t, controlSpecs(t, tree, inst), 1)
}

func TestClearInstance(t *testing.T) {
	f := newSyncFixture(t)
	inst := newInstance(t, f.tree, f.canvas, "navbar", host.NewRect(0, 0, 400, 80))
	require.NoError(t, f.sync.Sync(context.Background(), "navbar", inst))

	require.NoError(t, f.sync.ClearInstance(inst))

	children, err := f.tree.Children(inst)
	require.NoError(t, err)
	require.Empty(t, children)
}
