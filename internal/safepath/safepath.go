// Package safepath maps document identifiers onto output file paths that
// are guaranteed to stay inside a chosen root directory. Identifiers come
// from untrusted pack content, so the mapping defends against directory
// traversal via crafted domain or path strings.
package safepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"overlay-diff/internal/docset"
)

// UnsafePathError reports a document identifier that would map outside the
// intended root directory. It is fatal for that document only, never for
// the batch.
type UnsafePathError struct {
	Root string
	Key  string
}

func (e *UnsafePathError) Error() string {
	return fmt.Sprintf("unsafe output path for %q (escapes %s)", e.Key, e.Root)
}

// Map resolves id to an absolute file path under root, creating missing
// parent directories. Hostile characters (':') are replaced with '-', the
// candidate is forced relative, and containment is verified by walking the
// resolved path's ancestors back to root.
func Map(root string, id docset.DocumentID) (string, error) {
	return MapSuffix(root, id, "")
}

// MapSuffix is Map with a fixed suffix (e.g. ".diff") appended to the
// mapped filename before the containment check.
func MapSuffix(root string, id docset.DocumentID, suffix string) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	key := id.Key()
	rel := strings.ReplaceAll(key, ":", "-") + suffix
	// Prefix with a relative marker so an absolute-looking key cannot take
	// over the whole path during Join.
	rel = "." + string(filepath.Separator) + filepath.FromSlash(rel)
	if filepath.IsAbs(rel) {
		return "", &UnsafePathError{Root: rootAbs, Key: key}
	}

	candidate, err := filepath.Abs(filepath.Join(rootAbs, rel))
	if err != nil {
		return "", err
	}
	if !contained(rootAbs, candidate) {
		return "", &UnsafePathError{Root: rootAbs, Key: key}
	}

	if err := os.MkdirAll(filepath.Dir(candidate), 0o755); err != nil {
		return "", err
	}
	return candidate, nil
}

// contained walks candidate's ancestor chain until one matches root
// (case-insensitive). Running out of parents means the sanitized path still
// escaped the root.
func contained(root, candidate string) bool {
	dir := filepath.Dir(candidate)
	for {
		if strings.EqualFold(dir, root) {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}
