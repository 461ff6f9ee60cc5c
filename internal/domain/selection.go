package domain

// ViewMode is the UI-side state of a bookmark list view. It is never
// persisted.
type ViewMode int

const (
	ModeBrowsing ViewMode = iota
	ModeSelecting
)

// Selection is the browsing ⇄ selecting state machine backing bulk
// actions. Entering selecting starts an empty set; leaving it, by any
// path, clears the set.
type Selection struct {
	mode ViewMode
	ids  map[string]bool
}

// NewSelection starts in browsing mode.
func NewSelection() *Selection {
	return &Selection{mode: ModeBrowsing}
}

func (s *Selection) Mode() ViewMode { return s.mode }

// Selected returns the currently selected ids. Empty outside selecting
// mode.
func (s *Selection) Selected() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	return ids
}

func (s *Selection) Count() int { return len(s.ids) }

// StartSelecting enters selecting mode with an empty set. No-op when
// already selecting.
func (s *Selection) StartSelecting() {
	if s.mode == ModeSelecting {
		return
	}
	s.mode = ModeSelecting
	s.ids = make(map[string]bool)
}

// Toggle flips one id in or out of the set. Ignored while browsing.
func (s *Selection) Toggle(id string) {
	if s.mode != ModeSelecting {
		return
	}
	if s.ids[id] {
		delete(s.ids, id)
	} else {
		s.ids[id] = true
	}
}

// Cancel leaves selecting mode and discards the set.
func (s *Selection) Cancel() {
	s.mode = ModeBrowsing
	s.ids = nil
}

// Commit returns the selected ids for a bulk action and returns the view
// to browsing. The set is cleared either way.
func (s *Selection) Commit() []string {
	ids := s.Selected()
	s.Cancel()
	return ids
}
