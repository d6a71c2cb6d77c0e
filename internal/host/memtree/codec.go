package memtree

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/openauthor/embedview/internal/host"
)

// Screen files are host-native YAML documents. A screen holds canvases and
// optional background-layer groups; canvases may reference a background
// group by name so the same container is reachable both ways.
type screenFile struct {
	Name        string      `yaml:"name"`
	Canvases    []canvasDef `yaml:"canvases"`
	Backgrounds []groupDef  `yaml:"backgrounds,omitempty"`
}

type canvasDef struct {
	Name      string         `yaml:"name"`
	Rect      host.Rect      `yaml:"rect,omitempty"`
	Behavior  string         `yaml:"behavior,omitempty"`
	Cosmetics host.Cosmetics `yaml:"cosmetics,omitempty"`
	Children  []childDef     `yaml:"children,omitempty"`
}

// childDef carries exactly one of group, control, or a background reference.
type childDef struct {
	Group      *groupDef   `yaml:"group,omitempty"`
	Control    *controlDef `yaml:"control,omitempty"`
	Background string      `yaml:"background,omitempty"`
}

type groupDef struct {
	Name          string         `yaml:"name"`
	Kind          string         `yaml:"kind,omitempty"`
	Rect          host.Rect      `yaml:"rect,omitempty"`
	Behavior      string         `yaml:"behavior,omitempty"`
	Cosmetics     host.Cosmetics `yaml:"cosmetics,omitempty"`
	Clipping      bool           `yaml:"clipping,omitempty"`
	SelectGrouped bool           `yaml:"select_grouped,omitempty"`
	ShowBorder    bool           `yaml:"show_border,omitempty"`
	Margins       int            `yaml:"margins,omitempty"`
	Opaque        bool           `yaml:"opaque,omitempty"`
	Children      []childDef     `yaml:"children,omitempty"`
}

type controlDef struct {
	Type      string            `yaml:"type"`
	Name      string            `yaml:"name,omitempty"`
	Rect      host.Rect         `yaml:"rect,omitempty"`
	Behavior  string            `yaml:"behavior,omitempty"`
	Cosmetics host.Cosmetics    `yaml:"cosmetics,omitempty"`
	Props     map[string]string `yaml:"props,omitempty"`
}

func readScreenFile(path string) (*screenFile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read screen file: %w", err)
	}
	var file screenFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse screen file %s: %w", path, err)
	}
	if file.Name == "" {
		return nil, fmt.Errorf("screen file %s: missing name", path)
	}
	return &file, nil
}

// buildScreen materializes a parsed screen file into the live tree. A
// screen that fails partway through construction is unloaded again so its
// name is not left claimed by a half-built tree.
func (t *Tree) buildScreen(file *screenFile, path string) (host.ScreenID, error) {
	id, err := t.NewScreen(file.Name, path)
	if err != nil {
		return "", err
	}
	if err := t.populateScreen(id, file); err != nil {
		_ = t.CloseScreen(id)
		return "", err
	}
	return id, nil
}

func (t *Tree) populateScreen(id host.ScreenID, file *screenFile) error {
	// Backgrounds first so canvases can reference them by name.
	bgByName := make(map[string]host.ContainerID, len(file.Backgrounds))
	for i := range file.Backgrounds {
		def := &file.Backgrounds[i]
		gid, err := t.AddBackgroundGroup(id, def.Name)
		if err != nil {
			return err
		}
		if err := t.applyGroupDef(gid, def); err != nil {
			return err
		}
		bgByName[def.Name] = gid
	}

	for i := range file.Canvases {
		def := &file.Canvases[i]
		cid, err := t.AddCanvas(id, def.Name)
		if err != nil {
			return err
		}
		cc := t.containers[cid]
		cc.rect = def.Rect
		cc.behavior = def.Behavior
		cc.cosmetic = def.Cosmetics
		if err := t.buildChildren(cid, def.Children, bgByName); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) buildChildren(parent host.ContainerID, defs []childDef, bgByName map[string]host.ContainerID) error {
	for i := range defs {
		def := &defs[i]
		switch {
		case def.Background != "":
			gid, ok := bgByName[def.Background]
			if !ok {
				return fmt.Errorf("unknown background group %q", def.Background)
			}
			cc := t.containers[parent]
			cc.children = append(cc.children, childRef{container: gid})
		case def.Group != nil:
			gid, err := t.CreateGroup(parent, def.Group.Name)
			if err != nil {
				return err
			}
			if err := t.applyGroupDef(gid, def.Group); err != nil {
				return err
			}
		case def.Control != nil:
			spec := host.ControlSpec{
				Type:      def.Control.Type,
				Name:      def.Control.Name,
				Rect:      def.Control.Rect,
				Behavior:  def.Control.Behavior,
				Cosmetics: def.Control.Cosmetics,
				Props:     def.Control.Props,
			}
			if _, err := t.PlaceControl(parent, spec); err != nil {
				return err
			}
		default:
			return fmt.Errorf("child entry must be a group, control, or background reference")
		}
	}
	return nil
}

func (t *Tree) applyGroupDef(id host.ContainerID, def *groupDef) error {
	cc := t.containers[id]
	cc.kind = def.Kind
	cc.rect = def.Rect
	cc.behavior = def.Behavior
	cc.cosmetic = def.Cosmetics
	cc.clipping = def.Clipping
	cc.selectGrouped = def.SelectGrouped
	cc.showBorder = def.ShowBorder
	cc.margins = def.Margins
	cc.opaque = def.Opaque
	return t.buildChildren(id, def.Children, nil)
}

// SaveScreen writes a resident screen back to its backing file.
func (t *Tree) SaveScreen(id host.ScreenID) error {
	sc, ok := t.screens[id]
	if !ok {
		return host.ErrScreenNotFound
	}
	if sc.path == "" {
		return fmt.Errorf("screen %q has no backing path", sc.name)
	}
	return t.SaveScreenTo(id, sc.path)
}

// SaveScreenTo writes a resident screen to an explicit path.
func (t *Tree) SaveScreenTo(id host.ScreenID, path string) error {
	sc, ok := t.screens[id]
	if !ok {
		return host.ErrScreenNotFound
	}

	file := screenFile{Name: sc.name}
	bgNames := make(map[host.ContainerID]string, len(sc.backgrounds))
	for _, bid := range sc.backgrounds {
		bg := t.containers[bid]
		file.Backgrounds = append(file.Backgrounds, *t.groupToDef(bg, bgNames))
		bgNames[bid] = bg.name
	}
	for _, cid := range sc.canvases {
		cv := t.containers[cid]
		file.Canvases = append(file.Canvases, canvasDef{
			Name:      cv.name,
			Rect:      cv.rect,
			Behavior:  cv.behavior,
			Cosmetics: cv.cosmetic,
			Children:  t.childrenToDefs(cv, bgNames),
		})
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("encode screen %s: %w", sc.name, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create screen directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // screen files are project data
		return fmt.Errorf("write screen file %s: %w", path, err)
	}
	return nil
}

func (t *Tree) childrenToDefs(c *container, bgNames map[host.ContainerID]string) []childDef {
	var defs []childDef
	for _, ref := range c.children {
		if ref.control != "" {
			ctl, ok := t.controls[ref.control]
			if !ok {
				continue
			}
			defs = append(defs, childDef{Control: &controlDef{
				Type:      ctl.spec.Type,
				Name:      ctl.spec.Name,
				Rect:      ctl.spec.Rect,
				Behavior:  ctl.spec.Behavior,
				Cosmetics: ctl.spec.Cosmetics,
				Props:     ctl.spec.Props,
			}})
			continue
		}
		if name, ok := bgNames[ref.container]; ok {
			defs = append(defs, childDef{Background: name})
			continue
		}
		child, ok := t.containers[ref.container]
		if !ok {
			continue
		}
		defs = append(defs, childDef{Group: t.groupToDef(child, bgNames)})
	}
	return defs
}

func (t *Tree) groupToDef(c *container, bgNames map[host.ContainerID]string) *groupDef {
	return &groupDef{
		Name:          c.name,
		Kind:          c.kind,
		Rect:          c.rect,
		Behavior:      c.behavior,
		Cosmetics:     c.cosmetic,
		Clipping:      c.clipping,
		SelectGrouped: c.selectGrouped,
		ShowBorder:    c.showBorder,
		Margins:       c.margins,
		Opaque:        c.opaque,
		Children:      t.childrenToDefs(c, bgNames),
	}
}
