// Package docset defines the document-collection abstractions the snapshot
// and diff machinery operates on. The host (CLI walker, embedding
// application, test harness) supplies a Collection; everything downstream
// only needs to enumerate documents and read their text.
package docset

import "strings"

// UnknownDomain is used when a document carries no domain of its own.
const UnknownDomain = "unknown"

// DocumentID identifies a document within a collection. Two documents with
// the same domain+path are the same logical document across the pre-patch
// and post-patch states.
type DocumentID struct {
	Domain string
	Path   string
}

// NewID builds a DocumentID, substituting UnknownDomain for an empty domain.
func NewID(domain, path string) DocumentID {
	if domain == "" {
		domain = UnknownDomain
	}
	return DocumentID{Domain: domain, Path: path}
}

// Key returns the slash-joined form used for map storage and output paths,
// e.g. "mod/block/stone.json".
func (id DocumentID) Key() string {
	d := id.Domain
	if d == "" {
		d = UnknownDomain
	}
	return d + "/" + id.Path
}

// String renders the conventional "domain:path" form used in logs.
func (id DocumentID) String() string {
	d := id.Domain
	if d == "" {
		d = UnknownDomain
	}
	return d + ":" + id.Path
}

// ParseID splits a "domain:path" string. A string without ':' maps to the
// unknown domain.
func ParseID(s string) DocumentID {
	if i := strings.Index(s, ":"); i >= 0 {
		return NewID(s[:i], s[i+1:])
	}
	return NewID("", s)
}

// Document is a single identified text resource. ReadText may fail;
// callers log and skip, they never abort the batch.
type Document interface {
	ID() DocumentID
	ReadText() (string, error)
}

// Collection is read access to the full document set at call time. The
// enumeration order is whatever the host provides; it is not required to be
// stable across runs.
type Collection interface {
	Enumerate(fn func(Document) error) error
}
