// Package snapshot captures the state of a document collection at one point
// in the patching pipeline and classifies later states against it.
package snapshot

import "overlay-diff/internal/docset"

// Store maps document identifiers to canonical text. It is populated once
// per capture, read-only while diffing, and replaced wholesale by the next
// capture. Iteration replays insertion order.
type Store struct {
	texts map[string]string
	ids   map[string]docset.DocumentID
	order []string
}

func NewStore() *Store {
	return &Store{
		texts: make(map[string]string),
		ids:   make(map[string]docset.DocumentID),
	}
}

// Put stores canonical text for id, replacing any earlier entry without
// disturbing its position.
func (s *Store) Put(id docset.DocumentID, text string) {
	key := id.Key()
	if _, ok := s.texts[key]; !ok {
		s.order = append(s.order, key)
		s.ids[key] = id
	}
	s.texts[key] = text
}

// Get returns the stored text for id.
func (s *Store) Get(id docset.DocumentID) (string, bool) {
	text, ok := s.texts[id.Key()]
	return text, ok
}

// Has reports whether id was captured.
func (s *Store) Has(id docset.DocumentID) bool {
	_, ok := s.texts[id.Key()]
	return ok
}

// Len returns the number of captured documents.
func (s *Store) Len() int { return len(s.order) }

// Each visits every entry in insertion order.
func (s *Store) Each(fn func(id docset.DocumentID, text string)) {
	for _, key := range s.order {
		fn(s.ids[key], s.texts[key])
	}
}
