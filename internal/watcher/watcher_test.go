package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openauthor/embedview/internal/manifest"
	"github.com/openauthor/embedview/internal/watcher"
)

func writeTemplates(t *testing.T, kinds ...string) manifest.Provider {
	t.Helper()
	dir := t.TempDir()
	entries := make([]manifest.TemplateEntry, 0, len(kinds))
	for _, kind := range kinds {
		path := filepath.Join(dir, kind+".yml")
		require.NoError(t, os.WriteFile(path, []byte("name: "+kind+"\n"), 0o644))
		entries = append(entries, manifest.TemplateEntry{Kind: kind, Path: path})
	}
	return manifest.New("test-app", entries, nil)
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	m := writeTemplates(t, "navbar")
	entry, _ := m.TemplateByKind("navbar")

	w, err := watcher.New(m, watcher.Config{DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	changed, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Rapid writes should coalesce into a single batch
	for i := 0; i < 10; i++ {
		err := os.WriteFile(entry.Path, []byte(fmt.Sprintf("name: navbar # rev%d\n", i)), 0o644)
		require.NoError(t, err, "failed to write file")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case batch := <-changed:
		require.Equal(t, []string{"navbar"}, batch)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected batch but got timeout")
	}

	// No second batch should come quickly
	select {
	case batch := <-changed:
		t.Fatalf("unexpected second batch: %v", batch)
	case <-time.After(100 * time.Millisecond):
		// Expected
	}
}

func TestWatcher_BatchesDistinctKinds(t *testing.T) {
	m := writeTemplates(t, "navbar", "footer")
	navbar, _ := m.TemplateByKind("navbar")
	footer, _ := m.TemplateByKind("footer")

	w, err := watcher.New(m, watcher.Config{DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	changed, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	require.NoError(t, os.WriteFile(navbar.Path, []byte("name: navbar # v2\n"), 0o644))
	require.NoError(t, os.WriteFile(footer.Path, []byte("name: footer # v2\n"), 0o644))

	select {
	case batch := <-changed:
		require.ElementsMatch(t, []string{"navbar", "footer"}, batch)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected batch but got timeout")
	}
}

func TestWatcher_IgnoresUnregisteredFiles(t *testing.T) {
	m := writeTemplates(t, "navbar")
	entry, _ := m.TemplateByKind("navbar")
	otherPath := filepath.Join(filepath.Dir(entry.Path), "notes.txt")
	require.NoError(t, os.WriteFile(otherPath, []byte("initial"), 0o644))

	w, err := watcher.New(m, watcher.Config{DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	changed, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	require.NoError(t, os.WriteFile(otherPath, []byte("scratch"), 0o644))

	select {
	case batch := <-changed:
		t.Fatalf("unexpected batch for unregistered file: %v", batch)
	case <-time.After(150 * time.Millisecond):
		// Expected
	}
}

func TestWatcher_StopIsClean(t *testing.T) {
	m := writeTemplates(t, "navbar")

	w, err := watcher.New(m, watcher.Config{DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err, "failed to create watcher")

	_, err = w.Start()
	require.NoError(t, err, "failed to start watcher")
	require.NoError(t, w.Stop())
}
