package views

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolverResolves(t *testing.T) {
	r := NewResolver(testManifest([]string{"navbar", "footer"}, nil, nil))

	require.True(t, r.Resolves("navbar"))
	require.True(t, r.Resolves("footer"))
	require.False(t, r.Resolves("sidebar"))
	require.False(t, r.Resolves(""))
}

func TestResolverBackingPath(t *testing.T) {
	r := NewResolver(testManifest([]string{"navbar"}, nil, map[string]string{
		"navbar": "/app/templates/navbar.yml",
	}))

	path, err := r.BackingPath("navbar")
	require.NoError(t, err)
	require.Equal(t, "/app/templates/navbar.yml", path)

	_, err = r.BackingPath("sidebar")
	require.ErrorIs(t, err, ErrTemplateNotFound)
}
