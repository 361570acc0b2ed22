package snapshot

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overlay-diff/internal/docset"
)

func TestCaptureNormalizesRecognizedDocuments(t *testing.T) {
	col := docset.NewMemCollection(map[string]string{
		"mod:block/stone.json": `{"a":1}`,
		"mod:textures/x.png":   "\x89PNG",
		"mod:BLOCK/loud.JSON":  `{"b":2}`,
	})
	store, st := Capture(col, zerolog.Nop())

	assert.Equal(t, 2, st.Captured)
	assert.Equal(t, 1, st.Skipped, "non-json documents are skipped, never an error")
	assert.Equal(t, 2, store.Len())

	text, ok := store.Get(docset.NewID("mod", "block/stone.json"))
	require.True(t, ok)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", text)
}

func TestCaptureKeepsUnparseableTextAsIs(t *testing.T) {
	col := docset.NewMemCollection(map[string]string{
		"mod:broken.json": `{"oops":`,
	})
	store, st := Capture(col, zerolog.Nop())
	assert.Equal(t, 1, st.Captured)
	assert.Equal(t, 1, st.Fallback)

	text, ok := store.Get(docset.NewID("mod", "broken.json"))
	require.True(t, ok)
	assert.Equal(t, `{"oops":`, text)
}

func TestCaptureSurvivesUnreadableDocuments(t *testing.T) {
	col := docset.NewMemCollection(map[string]string{
		"mod:good.json": `{"a":1}`,
	})
	col.PutErr("mod:bad.json", errors.New("corrupt pack entry"))

	store, st := Capture(col, zerolog.Nop())
	assert.Equal(t, 1, st.Captured)
	assert.Equal(t, 1, st.Unreadable)
	assert.True(t, store.Has(docset.NewID("mod", "good.json")))
	assert.False(t, store.Has(docset.NewID("mod", "bad.json")))
}

func TestStoreReplaysInsertionOrder(t *testing.T) {
	store := NewStore()
	ids := []docset.DocumentID{
		docset.NewID("b", "2.json"),
		docset.NewID("a", "1.json"),
		docset.NewID("c", "3.json"),
	}
	for _, id := range ids {
		store.Put(id, "{}")
	}
	var got []docset.DocumentID
	store.Each(func(id docset.DocumentID, _ string) { got = append(got, id) })
	assert.Equal(t, ids, got)
}

func TestStorePutReplacesWithoutReordering(t *testing.T) {
	store := NewStore()
	store.Put(docset.NewID("a", "1.json"), "old")
	store.Put(docset.NewID("b", "2.json"), "x")
	store.Put(docset.NewID("a", "1.json"), "new")

	assert.Equal(t, 2, store.Len())
	text, _ := store.Get(docset.NewID("a", "1.json"))
	assert.Equal(t, "new", text)
}

func TestClassifyCoversEveryOutcome(t *testing.T) {
	pre := NewStore()
	pre.Put(docset.NewID("mod", "same.json"), "{\n  \"a\": 1\n}\n")
	pre.Put(docset.NewID("mod", "changed.json"), "{\n  \"a\": 1\n}\n")

	assert.Equal(t, Unchanged, Classify(pre, docset.NewID("mod", "same.json"), "{\n  \"a\": 1\n}\n"))
	assert.Equal(t, Modified, Classify(pre, docset.NewID("mod", "changed.json"), "{\n  \"a\": 2\n}\n"))
	assert.Equal(t, Added, Classify(pre, docset.NewID("mod", "new.json"), "{}\n"))
}

func TestClassifyUsesStructuralEquality(t *testing.T) {
	pre := NewStore()
	pre.Put(docset.NewID("mod", "doc.json"), `{"a":1,"b":2}`)
	// Same structure, different member order and formatting.
	assert.Equal(t, Unchanged, Classify(pre, docset.NewID("mod", "doc.json"), "{\n  \"b\": 2,\n  \"a\": 1\n}\n"))
}

func TestClassTotalityOverUnionOfSnapshots(t *testing.T) {
	pre, _ := Capture(docset.NewMemCollection(map[string]string{
		"mod:kept.json":    `{"a":1}`,
		"mod:changed.json": `{"a":1}`,
		"mod:removed.json": `{"a":1}`,
	}), zerolog.Nop())
	post, _ := Capture(docset.NewMemCollection(map[string]string{
		"mod:kept.json":    `{"a":1}`,
		"mod:changed.json": `{"a":2}`,
		"mod:added.json":   `{"a":1}`,
	}), zerolog.Nop())

	counts := map[Class]int{}
	post.Each(func(id docset.DocumentID, text string) {
		counts[Classify(pre, id, text)]++
	})
	pre.Each(func(id docset.DocumentID, _ string) {
		if !post.Has(id) {
			counts[Deleted]++
		}
	})

	total := counts[Unchanged] + counts[Modified] + counts[Added] + counts[Deleted]
	assert.Equal(t, 4, total, "classes must sum to |pre ∪ post|")
	assert.Equal(t, 1, counts[Unchanged])
	assert.Equal(t, 1, counts[Modified])
	assert.Equal(t, 1, counts[Added])
	assert.Equal(t, 1, counts[Deleted])
}
