// Package manifest loads and serves the application descriptor (app.yml):
// the ordered list of embeddable-view templates and the ordered list of
// application screens. The view engine consumes it through the Provider
// interface so tests can substitute fakes.
package manifest

// TemplatesKey is the reserved screen key naming the template list itself.
// Scans over "non-template screens" must exclude this entry.
const TemplatesKey = "templates"

// TemplateEntry declares one embeddable-view template.
type TemplateEntry struct {
	// Kind is the template's unique identifier. The template screen's
	// declared name must equal its kind.
	Kind string `yaml:"kind"`

	// Path is the template's backing screen file, resolved against the
	// application directory at load time.
	Path string `yaml:"filename"`
}

// ScreenEntry declares one application screen.
type ScreenEntry struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
	Path string `yaml:"filename"`
}

// Provider defines read-only access to the application descriptor.
type Provider interface {
	// Templates returns all declared templates in manifest order.
	Templates() []TemplateEntry

	// TemplateByKind returns the entry for a kind, if declared.
	TemplateByKind(kind string) (TemplateEntry, bool)

	// Screens returns all declared screens in manifest order, including
	// the reserved TemplatesKey entry when present.
	Screens() []ScreenEntry

	// ScreenByKey returns the entry for a screen key, if declared.
	ScreenByKey(key string) (ScreenEntry, bool)

	// KindForPath maps a template backing file back to its kind.
	KindForPath(path string) (string, bool)
}

// Manifest is the parsed application descriptor.
type Manifest struct {
	name      string
	templates []TemplateEntry
	screens   []ScreenEntry
}

var _ Provider = (*Manifest)(nil)

// New builds a descriptor from already-resolved entries. LoadFile is the
// usual construction path; New exists for programmatic setups and tests.
func New(name string, templates []TemplateEntry, screens []ScreenEntry) *Manifest {
	return &Manifest{name: name, templates: templates, screens: screens}
}

// Name returns the application name.
func (m *Manifest) Name() string {
	return m.name
}

// Templates returns all declared templates in manifest order.
func (m *Manifest) Templates() []TemplateEntry {
	return append([]TemplateEntry(nil), m.templates...)
}

// TemplateByKind returns the entry for a kind, if declared.
func (m *Manifest) TemplateByKind(kind string) (TemplateEntry, bool) {
	for _, entry := range m.templates {
		if entry.Kind == kind {
			return entry, true
		}
	}
	return TemplateEntry{}, false
}

// Screens returns all declared screens in manifest order.
func (m *Manifest) Screens() []ScreenEntry {
	return append([]ScreenEntry(nil), m.screens...)
}

// ScreenByKey returns the entry for a screen key, if declared.
func (m *Manifest) ScreenByKey(key string) (ScreenEntry, bool) {
	for _, entry := range m.screens {
		if entry.Key == key {
			return entry, true
		}
	}
	return ScreenEntry{}, false
}

// KindForPath maps a template backing file back to its kind. The file
// watcher uses this to turn a saved file into exactly one cascade.
func (m *Manifest) KindForPath(path string) (string, bool) {
	for _, entry := range m.templates {
		if entry.Path == path {
			return entry.Kind, true
		}
	}
	return "", false
}
