package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveManifest(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty input defaults to cwd", in: "", want: "app.yml"},
		{name: "project directory", in: "/apps/demo", want: "/apps/demo/app.yml"},
		{name: "explicit manifest path", in: "/apps/demo/app.yml", want: "/apps/demo/app.yml"},
		{name: "trailing slash", in: "/apps/demo/", want: "/apps/demo/app.yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ResolveManifest(tt.in))
		})
	}
}

func TestResolveManifest_RenamedFile(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "application.yaml")
	require.NoError(t, os.WriteFile(custom, []byte("name: demo\n"), 0o644))

	require.Equal(t, custom, ResolveManifest(custom))
}

func TestAppDir(t *testing.T) {
	require.Equal(t, "/apps/demo", AppDir("/apps/demo/app.yml"))
	require.Equal(t, ".", AppDir("app.yml"))
}
