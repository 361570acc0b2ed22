package snapshot

import (
	"strings"

	"github.com/rs/zerolog"

	"overlay-diff/internal/canon"
	"overlay-diff/internal/docset"
)

// DocExt is the extension of recognized structured documents. Anything else
// in the collection is assumed binary and skipped.
const DocExt = ".json"

// Recognized reports whether the document's path carries the structured
// extension (case-insensitive).
func Recognized(id docset.DocumentID) bool {
	return strings.HasSuffix(strings.ToLower(id.Path), DocExt)
}

// Stats counts what happened during one capture pass.
type Stats struct {
	Captured   int // documents normalized and stored
	Skipped    int // unrecognized extensions
	Unreadable int // read failures, logged and skipped
	Fallback   int // stored as raw text because parsing failed
}

// Capture enumerates the collection and stores canonical text for every
// recognized document. Unreadable documents are logged and skipped; capture
// always completes.
func Capture(col docset.Collection, log zerolog.Logger) (*Store, Stats) {
	store := NewStore()
	var st Stats
	_ = col.Enumerate(func(doc docset.Document) error {
		id := doc.ID()
		if !Recognized(id) {
			st.Skipped++
			return nil
		}
		raw, err := doc.ReadText()
		if err != nil {
			log.Debug().Str("doc", id.String()).Err(err).Msg("skipping unreadable document")
			st.Unreadable++
			return nil
		}
		text, structured := canon.Normalize(raw)
		if !structured {
			st.Fallback++
		}
		store.Put(id, text)
		st.Captured++
		return nil
	})
	return store, st
}
