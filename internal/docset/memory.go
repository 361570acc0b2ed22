package docset

import "overlay-diff/internal/sortutil"

// MemDoc is an in-memory Document.
type MemDoc struct {
	DocID DocumentID
	Text  string
	Err   error // returned by ReadText when set
}

func (d MemDoc) ID() DocumentID { return d.DocID }

func (d MemDoc) ReadText() (string, error) {
	if d.Err != nil {
		return "", d.Err
	}
	return d.Text, nil
}

// MemCollection is a map-backed Collection keyed by "domain:path" strings.
// Enumeration is sorted by key so tests and embedding hosts get stable order.
type MemCollection struct {
	docs map[string]MemDoc
}

// NewMemCollection builds a collection from "domain:path" key → text pairs.
func NewMemCollection(docs map[string]string) *MemCollection {
	c := &MemCollection{docs: make(map[string]MemDoc, len(docs))}
	for key, text := range docs {
		c.Put(key, text)
	}
	return c
}

// Put adds or replaces a document by its "domain:path" key.
func (c *MemCollection) Put(key, text string) {
	if c.docs == nil {
		c.docs = make(map[string]MemDoc)
	}
	c.docs[key] = MemDoc{DocID: ParseID(key), Text: text}
}

// PutErr adds a document whose ReadText fails with err.
func (c *MemCollection) PutErr(key string, err error) {
	if c.docs == nil {
		c.docs = make(map[string]MemDoc)
	}
	c.docs[key] = MemDoc{DocID: ParseID(key), Err: err}
}

// Delete removes a document by key. Missing keys are a no-op.
func (c *MemCollection) Delete(key string) { delete(c.docs, key) }

func (c *MemCollection) Enumerate(fn func(Document) error) error {
	keys := make([]string, 0, len(c.docs))
	for k := range c.docs {
		keys = append(keys, k)
	}
	for _, k := range sortutil.SortedCopy(keys) {
		if err := fn(c.docs[k]); err != nil {
			return err
		}
	}
	return nil
}
