package views

import "github.com/openauthor/embedview/internal/host"

// ContainerSet is the deduplicated set of screens mutated by one cascade,
// in first-discovery order. It exists only for the duration of a cascade
// and is handed to the caller for persistence decisions; the engine never
// saves anything itself.
type ContainerSet struct {
	order []host.ScreenID
	seen  map[host.ScreenID]struct{}
}

// NewContainerSet creates an empty set.
func NewContainerSet() *ContainerSet {
	return &ContainerSet{seen: make(map[host.ScreenID]struct{})}
}

// Add records a screen, returning true if it was not already present.
func (s *ContainerSet) Add(id host.ScreenID) bool {
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Contains reports whether a screen is in the set.
func (s *ContainerSet) Contains(id host.ScreenID) bool {
	_, ok := s.seen[id]
	return ok
}

// IDs returns the screens in first-discovery order.
func (s *ContainerSet) IDs() []host.ScreenID {
	return append([]host.ScreenID(nil), s.order...)
}

// Len returns the number of distinct screens in the set.
func (s *ContainerSet) Len() int {
	return len(s.order)
}
