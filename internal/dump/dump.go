// Package dump orchestrates one snapshot-diff run: capture the collection
// before patching, capture it again afterwards, dump both states and emit
// one unified-diff report per changed, added, or deleted document.
package dump

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"overlay-diff/internal/diff"
	"overlay-diff/internal/docset"
	"overlay-diff/internal/safepath"
	"overlay-diff/internal/snapshot"
	"overlay-diff/internal/textutil"
)

// Output layout under the dump root. These paths are a contract; consumers
// locate diffs by them.
const (
	PreDir     = "pre-patch"
	PostDir    = "post-patch"
	DiffDir    = "diffs"
	NewDir     = "diffs/new"
	DeletedDir = "diffs/deleted"
	DiffSuffix = ".diff"
)

// Counts summarizes one post-patch pass. Diffed+Unchanged+Added+Deleted
// covers every document present in either snapshot.
type Counts struct {
	Diffed    int
	Unchanged int
	Added     int
	Deleted   int
	Errors    int // per-document failures, logged and skipped
}

// Dumper owns the snapshot store for the duration of one run. It is not
// safe for concurrent use; the whole pipeline is single-threaded by design.
type Dumper struct {
	Root       string
	Context    int  // hunk context window
	MergeHunks bool // render through the difflib compat path instead

	log zerolog.Logger
	pre *snapshot.Store
}

func New(root string, log zerolog.Logger) *Dumper {
	return &Dumper{Root: root, Context: diff.DefaultContext, log: log}
}

// PreStore exposes the captured pre-patch store, mainly for tests and
// embedding hosts that drive the two phases themselves.
func (d *Dumper) PreStore() *snapshot.Store { return d.pre }

// CapturePrePatch builds the pre-patch snapshot store from the collection's
// current state. Calling it again discards the previous store.
func (d *Dumper) CapturePrePatch(col docset.Collection) {
	start := time.Now()
	store, st := snapshot.Capture(col, d.log)
	d.pre = store
	d.log.Info().
		Int("captured", st.Captured).
		Int("skipped", st.Skipped).
		Int("unreadable", st.Unreadable).
		Int("fallback", st.Fallback).
		Dur("elapsed", time.Since(start)).
		Msg("pre-patch snapshot captured")
}

// CapturePostPatchAndDiff re-reads the now-patched collection, wipes and
// rebuilds the output root, dumps both states, and writes one report per
// changed document. Only failure to create the root aborts; every
// per-document failure is logged and skipped.
func (d *Dumper) CapturePostPatchAndDiff(col docset.Collection) (Counts, error) {
	start := time.Now()
	var counts Counts

	if d.pre == nil {
		// No pre-patch capture happened; everything will classify Added.
		d.pre = snapshot.NewStore()
	}

	// Discard stale output from a previous run. RemoveAll tolerates a
	// missing directory.
	if err := os.RemoveAll(d.Root); err != nil {
		return counts, err
	}
	if err := os.MkdirAll(d.Root, 0o755); err != nil {
		return counts, err
	}

	post, st := snapshot.Capture(col, d.log)
	d.log.Info().
		Int("captured", st.Captured).
		Int("skipped", st.Skipped).
		Int("unreadable", st.Unreadable).
		Dur("elapsed", time.Since(start)).
		Msg("post-patch snapshot captured")

	d.pre.Each(func(id docset.DocumentID, text string) {
		if !d.writeDump(PreDir, id, text) {
			counts.Errors++
		}
	})
	post.Each(func(id docset.DocumentID, text string) {
		if !d.writeDump(PostDir, id, text) {
			counts.Errors++
		}
	})

	post.Each(func(id docset.DocumentID, postText string) {
		switch snapshot.Classify(d.pre, id, postText) {
		case snapshot.Unchanged:
			counts.Unchanged++
		case snapshot.Added:
			if d.writeReport(NewDir, id, addedReport(id, postText)) {
				counts.Added++
			} else {
				counts.Errors++
			}
		case snapshot.Modified:
			preText, _ := d.pre.Get(id)
			body, err := d.renderDiff(id, preText, postText)
			if err != nil {
				d.log.Error().Str("doc", id.String()).Err(err).Msg("diff rendering failed")
				counts.Errors++
				break
			}
			if d.writeReport(DiffDir, id, body) {
				counts.Diffed++
			} else {
				counts.Errors++
			}
		}
	})

	// Replay the pre-patch store in insertion order for documents the
	// patching step removed.
	d.pre.Each(func(id docset.DocumentID, preText string) {
		if post.Has(id) {
			return
		}
		if d.writeReport(DeletedDir, id, deletedReport(id, preText)) {
			counts.Deleted++
		} else {
			counts.Errors++
		}
	})

	d.log.Info().
		Int("diffed", counts.Diffed).
		Int("unchanged", counts.Unchanged).
		Int("new", counts.Added).
		Int("deleted", counts.Deleted).
		Int("errors", counts.Errors).
		Dur("elapsed", time.Since(start)).
		Msg("patch diff dump complete")
	return counts, nil
}

func (d *Dumper) renderDiff(id docset.DocumentID, preText, postText string) (string, error) {
	preName, postName := dumpNames(id)
	if d.MergeHunks {
		return diff.FormatMerged(preName, postName, preText, postText, d.Context)
	}
	src := diff.SplitLines(preText)
	dst := diff.SplitLines(postText)
	script := diff.Script(src, dst)
	hunks := diff.Hunks(src, dst, script, d.Context)
	return diff.Format(preName, postName, hunks), nil
}

// dumpNames returns the conventional pre/post dump locations used in diff
// headers, always with forward slashes.
func dumpNames(id docset.DocumentID) (string, string) {
	key := strings.ReplaceAll(id.Key(), ":", "-")
	return PreDir + "/" + key, PostDir + "/" + key
}

func addedReport(id docset.DocumentID, text string) string {
	_, postName := dumpNames(id)
	return "new file: " + postName + "\n" + textutil.EnsureTrailingLF(text)
}

func deletedReport(id docset.DocumentID, text string) string {
	preName, _ := dumpNames(id)
	return "deleted file: " + preName + "\n" + textutil.EnsureTrailingLF(text)
}

// writeDump writes a normalized document under <root>/<sub>/. Failures are
// logged and reported false; the batch continues.
func (d *Dumper) writeDump(sub string, id docset.DocumentID, text string) bool {
	path, err := safepath.Map(filepath.Join(d.Root, sub), id)
	if err != nil {
		d.log.Warn().Str("doc", id.String()).Err(err).Msg("skipping document with unsafe path")
		return false
	}
	if err := os.WriteFile(path, []byte(textutil.EnsureTrailingLF(text)), 0o644); err != nil {
		d.log.Error().Str("doc", id.String()).Err(err).Msg("writing dump failed")
		return false
	}
	return true
}

// writeReport writes a diff report under <root>/<sub>/ with the .diff suffix.
func (d *Dumper) writeReport(sub string, id docset.DocumentID, body string) bool {
	path, err := safepath.MapSuffix(filepath.Join(d.Root, sub), id, DiffSuffix)
	if err != nil {
		d.log.Warn().Str("doc", id.String()).Err(err).Msg("skipping document with unsafe path")
		return false
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		d.log.Error().Str("doc", id.String()).Err(err).Msg("writing diff report failed")
		return false
	}
	return true
}
