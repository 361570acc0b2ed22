// Package fsdocs exposes a directory tree as a document collection. The
// first path segment under the root is the document's domain; the rest is
// its path, so <root>/mod/block/stone.json enumerates as mod:block/stone.json.
// Files directly under the root fall into the unknown domain.
package fsdocs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"overlay-diff/internal/docset"
	"overlay-diff/internal/textutil"
)

// DefaultExcludes are base-name prefixes skipped during the walk.
var DefaultExcludes = []string{".git", ".idea", ".vscode", ".DS_Store"}

// Options tunes the walk.
type Options struct {
	Exclude        []string // base-name prefixes to skip (dirs and files)
	MaxFileBytes   int64    // skip larger files; 0 = no limit
	FollowSymlinks bool
}

// DirCollection is a filesystem-backed docset.Collection rooted at one
// directory. Enumeration order is the lexical order of filepath.WalkDir.
type DirCollection struct {
	root string
	opt  Options
}

func New(root string, opt Options) *DirCollection {
	if opt.Exclude == nil {
		opt.Exclude = DefaultExcludes
	}
	return &DirCollection{root: root, opt: opt}
}

func (c *DirCollection) Enumerate(fn func(docset.Document) error) error {
	rootAbs, err := filepath.Abs(c.root)
	if err != nil {
		return err
	}
	return filepath.WalkDir(rootAbs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are not fatal to enumeration
		}
		base := filepath.Base(path)
		if path != rootAbs && excluded(base, c.opt.Exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !c.opt.FollowSymlinks && d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		if c.opt.MaxFileBytes > 0 && info.Size() > c.opt.MaxFileBytes {
			return nil
		}
		rel, err := filepath.Rel(rootAbs, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, "../") || rel == ".." {
			return nil
		}
		return fn(fileDoc{id: idFromRel(rel), abs: path})
	})
}

// idFromRel splits a root-relative path into domain and document path.
func idFromRel(rel string) docset.DocumentID {
	if i := strings.Index(rel, "/"); i >= 0 {
		return docset.NewID(rel[:i], rel[i+1:])
	}
	return docset.NewID("", rel)
}

func excluded(base string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(base, p) {
			return true
		}
	}
	return false
}

type fileDoc struct {
	id  docset.DocumentID
	abs string
}

func (d fileDoc) ID() docset.DocumentID { return d.id }

func (d fileDoc) ReadText() (string, error) {
	b, err := os.ReadFile(d.abs)
	if err != nil {
		return "", err
	}
	return textutil.Normalize(b), nil
}
