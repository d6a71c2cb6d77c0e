package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/openauthor/embedview/internal/log"
)

// Loader errors
var (
	ErrDuplicateKind      = errors.New("duplicate template kind")
	ErrDuplicateScreenKey = errors.New("duplicate screen key")
)

// manifestFile is the raw YAML shape of app.yml.
type manifestFile struct {
	Name      string          `yaml:"name"`
	Templates []TemplateEntry `yaml:"templates"`
	Screens   []ScreenEntry   `yaml:"screens"`
}

// LoadFile reads and validates an application descriptor. Relative template
// and screen paths resolve against the manifest's directory.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	dir := filepath.Dir(filepath.Clean(path))
	m := &Manifest{name: file.Name}

	seenKinds := make(map[string]struct{}, len(file.Templates))
	for _, entry := range file.Templates {
		if entry.Kind == "" {
			return nil, fmt.Errorf("manifest %s: template entry missing kind", path)
		}
		if _, dup := seenKinds[entry.Kind]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKind, entry.Kind)
		}
		seenKinds[entry.Kind] = struct{}{}
		entry.Path = resolvePath(dir, entry.Path)
		m.templates = append(m.templates, entry)
	}

	seenKeys := make(map[string]struct{}, len(file.Screens))
	for _, entry := range file.Screens {
		if entry.Key == "" {
			return nil, fmt.Errorf("manifest %s: screen entry missing key", path)
		}
		if _, dup := seenKeys[entry.Key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateScreenKey, entry.Key)
		}
		seenKeys[entry.Key] = struct{}{}
		entry.Path = resolvePath(dir, entry.Path)
		m.screens = append(m.screens, entry)
	}

	log.Info(log.CatManifest, "loaded manifest",
		"path", path, "templates", len(m.templates), "screens", len(m.screens))
	return m, nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
