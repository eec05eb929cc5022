package selection

import "slices"

type State int

const (
	Inactive State = iota
	ActiveEmpty
	ActiveNonEmpty
)

func (s State) String() string {
	switch s {
	case ActiveEmpty:
		return "active-empty"
	case ActiveNonEmpty:
		return "active"
	default:
		return "inactive"
	}
}

// Set tracks selection mode and the ids selected while in it. The zero value
// is an inactive, empty set.
type Set struct {
	active bool
	ids    []string
}

func (s *Set) State() State {
	switch {
	case !s.active:
		return Inactive
	case len(s.ids) == 0:
		return ActiveEmpty
	default:
		return ActiveNonEmpty
	}
}

func (s *Set) Active() bool { return s.active }

// Enter switches selection mode on. Entering twice keeps the current ids.
func (s *Set) Enter() {
	s.active = true
}

// Toggle adds or removes id. It is ignored outside selection mode.
func (s *Set) Toggle(id string, selected bool) {
	if !s.active {
		return
	}
	i := slices.Index(s.ids, id)
	switch {
	case selected && i < 0:
		s.ids = append(s.ids, id)
	case !selected && i >= 0:
		s.ids = slices.Delete(s.ids, i, i+1)
	}
}

// Flip toggles id against its current membership.
func (s *Set) Flip(id string) {
	s.Toggle(id, !s.Has(id))
}

// Cancel leaves selection mode and clears the ids in one step.
func (s *Set) Cancel() {
	s.active = false
	s.ids = nil
}

func (s *Set) Has(id string) bool {
	return slices.Contains(s.ids, id)
}

// IDs returns the selected ids in the order they were selected.
func (s *Set) IDs() []string {
	return slices.Clone(s.ids)
}

func (s *Set) Len() int { return len(s.ids) }

// Retain drops every id for which keep returns false and reports whether
// anything was removed.
func (s *Set) Retain(keep func(id string) bool) bool {
	before := len(s.ids)
	s.ids = slices.DeleteFunc(s.ids, func(id string) bool { return !keep(id) })
	return len(s.ids) != before
}
