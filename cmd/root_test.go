package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openauthor/embedview/internal/host"
	"github.com/openauthor/embedview/internal/host/memtree"
)

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"templates:list",
		"instances:list",
		"instance:create <kind>",
		"instance:sync <kind>",
		"update <kind>",
		"watch",
		"journal:list",
	}
	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Use] = true
	}
	for _, use := range want {
		require.True(t, registered[use], "command %q should be registered", use)
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3")
	require.Equal(t, "1.2.3", rootCmd.Version)
}

func TestResolveParent(t *testing.T) {
	tree := memtree.New()
	screen, err := tree.NewScreen("Main", "")
	require.NoError(t, err)
	canvas, err := tree.AddCanvas(screen, "Body")
	require.NoError(t, err)
	bg, err := tree.AddBackgroundGroup(screen, "Header BG")
	require.NoError(t, err)
	outer, err := tree.CreateGroup(canvas, "content")
	require.NoError(t, err)
	inner, err := tree.CreateGroup(outer, "header area")
	require.NoError(t, err)

	t.Run("empty name selects first canvas", func(t *testing.T) {
		got, err := resolveParent(tree, screen, "")
		require.NoError(t, err)
		require.Equal(t, canvas, got)
	})

	t.Run("canvas by name", func(t *testing.T) {
		got, err := resolveParent(tree, screen, "Body")
		require.NoError(t, err)
		require.Equal(t, canvas, got)
	})

	t.Run("background group by name", func(t *testing.T) {
		got, err := resolveParent(tree, screen, "Header BG")
		require.NoError(t, err)
		require.Equal(t, bg, got)
	})

	t.Run("nested group by name", func(t *testing.T) {
		got, err := resolveParent(tree, screen, "header area")
		require.NoError(t, err)
		require.Equal(t, inner, got)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := resolveParent(tree, screen, "sidebar")
		require.ErrorContains(t, err, "sidebar")
	})

	t.Run("no canvas to default to", func(t *testing.T) {
		empty, err := tree.NewScreen("Empty", "")
		require.NoError(t, err)
		_, err = resolveParent(tree, empty, "")
		require.Error(t, err)
	})
}

func TestParseRect(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    host.Rect
		wantErr bool
	}{
		{name: "valid", input: "0,0,800,80", want: host.NewRect(0, 0, 800, 80)},
		{name: "spaces", input: " 10, 20, 30, 40 ", want: host.NewRect(10, 20, 30, 40)},
		{name: "negative", input: "-5,-5,5,5", want: host.NewRect(-5, -5, 5, 5)},
		{name: "too few", input: "1,2,3", wantErr: true},
		{name: "not a number", input: "a,b,c,d", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRect(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
