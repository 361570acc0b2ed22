// Package diff computes minimal line-level edit scripts between two
// document versions and renders them as unified-diff hunks.
//
// The engine is the classical Myers shortest-edit-script algorithm over
// line tokens compared by exact string equality. The implementation follows
// the greedy forward formulation described in
// https://blog.jcoglan.com/2017/02/12/the-myers-diff-algorithm-part-1/
// with a recorded trace for backtracking. Time and space are O((N+M)*D).
package diff

import "strings"

// Edit is one contiguous change region of an edit script: starting at
// SrcStart/DstStart (zero-based line indices), Deleted source lines are
// replaced by Inserted destination lines. Edits are ordered by increasing
// SrcStart/DstStart and never overlap.
type Edit struct {
	SrcStart int
	DstStart int
	Deleted  int
	Inserted int
}

// SplitLines splits document text into diff tokens. The final element
// produced by splitting on '\n' after a trailing newline is an empty line;
// Script trims those away before comparing.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// Script returns the minimal edit script transforming src into dst.
// Trailing empty lines are trimmed from both sides first, normalizing away
// the trailing-newline artifact of SplitLines. Ties between equally short
// scripts resolve the conventional way: deletions are preferred over
// insertions at equal cost.
func Script(src, dst []string) []Edit {
	src = trimTrailingBlank(src)
	dst = trimTrailingBlank(dst)
	n, m := len(src), len(dst)

	switch {
	case n == 0 && m == 0:
		return nil
	case n == 0:
		return []Edit{{Inserted: m}}
	case m == 0:
		return []Edit{{Deleted: n}}
	}

	steps := backtrack(src, dst, forward(src, dst))
	return foldSteps(steps)
}

type stepOp byte

const (
	stepMatch stepOp = iota
	stepDelete
	stepInsert
)

type trace struct {
	rounds [][]int
	offset int
	depth  int
}

func (t *trace) at(d int) []int { return t.rounds[d] }

// forward runs the greedy search, recording the furthest-reaching x per
// diagonal k before each round so the path can be recovered afterwards.
func forward(src, dst []string) *trace {
	n, m := len(src), len(dst)
	max := n + m
	offset := max
	v := make([]int, 2*max+2)
	tr := &trace{offset: offset}

	for d := 0; d <= max; d++ {
		tr.rounds = append(tr.rounds, append([]int(nil), v...))
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && src[x] == dst[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				tr.depth = d
				return tr
			}
		}
	}
	// Unreachable: d = n+m always suffices.
	tr.depth = max
	return tr
}

// backtrack walks the trace from (n, m) back to (0, 0) and returns the
// edit steps in forward order.
func backtrack(src, dst []string, tr *trace) []stepOp {
	x, y := len(src), len(dst)
	var rev []stepOp

	for d := tr.depth; d >= 0; d-- {
		v := tr.at(d)
		off := tr.offset
		k := x - y

		var prevK int
		if k == -d || (k != d && v[off+k-1] < v[off+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[off+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			rev = append(rev, stepMatch)
			x--
			y--
		}
		if d > 0 {
			if x == prevX {
				rev = append(rev, stepInsert)
			} else {
				rev = append(rev, stepDelete)
			}
		}
		x, y = prevX, prevY
	}

	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// foldSteps collapses runs of non-match steps into Edit regions.
func foldSteps(steps []stepOp) []Edit {
	var script []Edit
	x, y := 0, 0
	i := 0
	for i < len(steps) {
		if steps[i] == stepMatch {
			x++
			y++
			i++
			continue
		}
		e := Edit{SrcStart: x, DstStart: y}
		for i < len(steps) && steps[i] != stepMatch {
			if steps[i] == stepDelete {
				e.Deleted++
				x++
			} else {
				e.Inserted++
				y++
			}
			i++
		}
		script = append(script, e)
	}
	return script
}

func trimTrailingBlank(lines []string) []string {
	n := len(lines)
	for n > 0 && lines[n-1] == "" {
		n--
	}
	return lines[:n]
}
