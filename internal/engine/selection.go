package engine

import "github.com/timeglimpse/timeglimpse/internal/document"

// Selection identifies a hovered sample. It holds the fragment id, not the
// fragment: readers resolve it against the model every time.
type Selection struct {
	FragmentID string  `json:"fragmentId"`
	Index      int     `json:"index"`
	Time       float64 `json:"time"`
	Value      float64 `json:"value"`
}

// SelectionState is the hover state of one row. The zero value holds no
// selection.
type SelectionState struct {
	current Selection
	active  bool
}

// Set writes a selection, or clears it when ok is false. It reports whether
// anything changed; rewriting the same value is a no-op.
func (s *SelectionState) Set(sel Selection, ok bool) bool {
	if !ok {
		sel = Selection{}
	}
	if s.active == ok && s.current == sel {
		return false
	}
	s.current = sel
	s.active = ok
	return true
}

func (s *SelectionState) Clear() bool {
	return s.Set(Selection{}, false)
}

func (s *SelectionState) Current() (Selection, bool) {
	return s.current, s.active
}

// Resolve returns the selected fragment. A selection whose fragment has left
// the model, or whose index no longer fits it, is cleared.
func (s *SelectionState) Resolve(res Resolver) (*document.Fragment, Selection, bool) {
	if !s.active {
		return nil, Selection{}, false
	}
	f, ok := res.Fragment(s.current.FragmentID)
	if !ok || s.current.Index >= f.Len() {
		s.Clear()
		return nil, Selection{}, false
	}
	return f, s.current, true
}
