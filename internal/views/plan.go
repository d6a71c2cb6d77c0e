package views

import (
	"github.com/openauthor/embedview/internal/host"
)

// CopyPlan is the host-independent description of what syncing an instance
// of a template produces: the behavior and cosmetics carried onto the
// instance, and the control descriptors to recreate inside it. Control rects
// are relative to the effective content root's origin; Sync translates them
// by the instance's own top-left so relative layout survives wherever the
// instance lives.
//
// Computing the plan is separate from applying it so "what to copy" is
// testable without mutating anything, and so one plan serves every instance
// of a template in a cascade.
type CopyPlan struct {
	Kind      string
	Behavior  string
	Cosmetics host.Cosmetics
	Controls  []host.ControlSpec
}

// BuildPlan reads a resident template's canvas and computes its copy plan.
//
// The effective content root is the canvas itself unless the canvas's only
// child is a single untagged group and the canvas carries no behavior or
// cosmetic override. Some templates wrap their content in one outer group
// purely for authoring convenience, and instances must mirror the inner
// content, not the wrapper. A sole tagged child is a nested instance, never
// a wrapper.
//
// Only the effective root's top-level controls enter the plan. Groups are
// excluded: they denote nested instances or internal structure, discovered
// and synchronized separately rather than duplicated as static copies.
func BuildPlan(h host.Host, kind string, canvas host.ContainerID) (CopyPlan, error) {
	canvasBehavior, err := h.Behavior(canvas)
	if err != nil {
		return CopyPlan{}, mutation("read canvas behavior", err)
	}
	canvasCos, err := h.Cosmetics(canvas)
	if err != nil {
		return CopyPlan{}, mutation("read canvas cosmetics", err)
	}
	children, err := h.Children(canvas)
	if err != nil {
		return CopyPlan{}, mutation("enumerate canvas children", err)
	}

	root := canvas
	rootBehavior := canvasBehavior
	rootCos := canvasCos
	rootNodes := children

	if canvasBehavior == "" && canvasCos.IsZero() &&
		len(children) == 1 && children[0].Type == host.NodeGroup {
		root = children[0].Container
		if rootBehavior, err = h.Behavior(root); err != nil {
			return CopyPlan{}, mutation("read wrapper behavior", err)
		}
		if rootCos, err = h.Cosmetics(root); err != nil {
			return CopyPlan{}, mutation("read wrapper cosmetics", err)
		}
		if rootNodes, err = h.Children(root); err != nil {
			return CopyPlan{}, mutation("enumerate wrapper children", err)
		}
	}

	rootRect, err := h.Rect(root)
	if err != nil {
		return CopyPlan{}, mutation("read content root rect", err)
	}
	origin := rootRect.TopLeft()

	plan := CopyPlan{
		Kind:      kind,
		Behavior:  rootBehavior,
		Cosmetics: rootCos,
	}
	for _, node := range rootNodes {
		if node.Type != host.NodeControl {
			continue
		}
		spec, err := h.DescribeControl(node.Control)
		if err != nil {
			return CopyPlan{}, mutation("describe control", err)
		}
		spec.Rect = spec.Rect.RelativeTo(origin)
		plan.Controls = append(plan.Controls, spec)
	}
	return plan, nil
}
