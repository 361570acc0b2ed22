// Package sortutil provides deterministic ordering helpers for output
// paths and archive entries.
package sortutil

import "sort"

// SortedCopy returns the input paths sorted lexicographically. The
// original slice is not modified.
func SortedCopy(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	sort.Strings(out)
	return out
}
