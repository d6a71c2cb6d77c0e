package host

import "fmt"

// Point is a location in screen coordinates.
type Point struct {
	X int
	Y int
}

// Rect is a container or control rectangle in screen coordinates,
// expressed as left, top, right, bottom edges.
type Rect struct {
	Left   int `yaml:"left"`
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
}

// NewRect builds a rect from its four edges.
func NewRect(left, top, right, bottom int) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Width returns the rect's width.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the rect's height.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// TopLeft returns the rect's top-left corner.
func (r Rect) TopLeft() Point {
	return Point{X: r.Left, Y: r.Top}
}

// Center returns the rect's center point. Odd dimensions round toward
// the top-left, matching host coordinate behavior.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width()/2, Y: r.Top + r.Height()/2}
}

// Translate returns the rect shifted by dx, dy.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{
		Left:   r.Left + dx,
		Top:    r.Top + dy,
		Right:  r.Right + dx,
		Bottom: r.Bottom + dy,
	}
}

// RelativeTo returns the rect re-expressed with origin at p.
func (r Rect) RelativeTo(p Point) Rect {
	return r.Translate(-p.X, -p.Y)
}

// CenteredAt returns a w×h rect centered on p.
func CenteredAt(p Point, w, h int) Rect {
	left := p.X - w/2
	top := p.Y - h/2
	return Rect{Left: left, Top: top, Right: left + w, Bottom: top + h}
}

func (r Rect) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.Left, r.Top, r.Right, r.Bottom)
}
