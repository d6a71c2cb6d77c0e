package views

import (
	"github.com/openauthor/embedview/internal/host"
	"github.com/openauthor/embedview/internal/log"
)

// FoundInstance is one topmost instance located by a discovery scan.
type FoundInstance struct {
	Container host.ContainerID
	Kind      string
}

// Discovery finds the topmost embeddable-view instances inside a container.
// A tagged group is an instance boundary: it is recorded (when the kind
// filter allows) and never descended into, so nested instances are serviced
// by their own template's refresh and never double-processed through an
// ancestor. Untagged groups are transparent scaffolding and are searched.
type Discovery struct {
	host host.Host
}

// NewDiscovery creates a discovery over the given host.
func NewDiscovery(h host.Host) *Discovery {
	return &Discovery{host: h}
}

// FindInScreen scans a whole screen: its background-layer groups, then every
// canvas's groups, in authoring order. A container reachable through more
// than one scan path (a background group also placed on a canvas) is
// reported once; results deduplicate by container identity.
func (d *Discovery) FindInScreen(screen host.ScreenID, kindFilter string) ([]FoundInstance, error) {
	var queue []host.Node

	backgrounds, err := d.host.BackgroundGroups(screen)
	if err != nil {
		return nil, mutation("enumerate background groups", err)
	}
	for _, bg := range backgrounds {
		node, err := d.resolve(bg)
		if err != nil {
			return nil, err
		}
		queue = append(queue, node)
	}

	canvases, err := d.host.Canvases(screen)
	if err != nil {
		return nil, mutation("enumerate canvases", err)
	}
	for _, canvas := range canvases {
		children, err := d.host.Children(canvas)
		if err != nil {
			return nil, mutation("enumerate canvas children", err)
		}
		queue = append(queue, groupsOf(children)...)
	}

	found, err := d.scan(queue, kindFilter)
	if err != nil {
		return nil, err
	}
	log.Debug(log.CatDiscover, "screen scan complete",
		"screen", screen, "filter", kindFilter, "found", len(found))
	return found, nil
}

// FindInGroup scans an arbitrary group subtree. The group itself is treated
// as the search root, not as a candidate instance.
func (d *Discovery) FindInGroup(group host.ContainerID, kindFilter string) ([]FoundInstance, error) {
	children, err := d.host.Children(group)
	if err != nil {
		return nil, mutation("enumerate group children", err)
	}
	return d.scan(groupsOf(children), kindFilter)
}

// scan walks the queue breadth-first, stopping descent at every tagged group.
func (d *Discovery) scan(queue []host.Node, kindFilter string) ([]FoundInstance, error) {
	var found []FoundInstance
	seen := make(map[host.ContainerID]struct{})

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if _, dup := seen[node.Container]; dup {
			continue
		}
		seen[node.Container] = struct{}{}

		if node.Type == host.NodeInstance {
			if kindFilter == "" || node.Kind == kindFilter {
				found = append(found, FoundInstance{Container: node.Container, Kind: node.Kind})
			}
			// Instance boundary: nested instances belong to their own
			// template's refresh.
			continue
		}

		children, err := d.host.Children(node.Container)
		if err != nil {
			return nil, mutation("enumerate group children", err)
		}
		queue = append(queue, groupsOf(children)...)
	}
	return found, nil
}

// resolve probes a bare container reference into a tagged-variant node.
func (d *Discovery) resolve(c host.ContainerID) (host.Node, error) {
	kind, err := d.host.KindTag(c)
	if err != nil {
		return host.Node{}, mutation("read kind tag", err)
	}
	node := host.Node{Type: host.NodeGroup, Container: c}
	if kind != "" {
		node.Type = host.NodeInstance
		node.Kind = kind
	}
	return node, nil
}

// groupsOf filters child nodes down to groups and instances.
func groupsOf(nodes []host.Node) []host.Node {
	var out []host.Node
	for _, n := range nodes {
		if n.Type == host.NodeGroup || n.Type == host.NodeInstance {
			out = append(out, n)
		}
	}
	return out
}
