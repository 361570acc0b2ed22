package snapshot

import (
	"overlay-diff/internal/canon"
	"overlay-diff/internal/docset"
)

// Class is the outcome of comparing one post-patch document against the
// pre-patch store. Every document present on either side falls into exactly
// one class.
type Class int

const (
	Unchanged Class = iota
	Modified
	Added
	Deleted
)

func (c Class) String() string {
	switch c {
	case Unchanged:
		return "unchanged"
	case Modified:
		return "modified"
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	}
	return "unknown"
}

// Classify compares a post-patch document's canonical text against the
// pre-patch store. Equality is structural (parsed-tree deep equals), so
// texts differing only in insignificant formatting classify Unchanged.
// Deleted is decided by the caller walking the store for documents missing
// from the post-patch collection.
func Classify(pre *Store, id docset.DocumentID, postText string) Class {
	preText, ok := pre.Get(id)
	if !ok {
		return Added
	}
	if canon.Equal(preText, postText) {
		return Unchanged
	}
	return Modified
}
