package diff

import (
	"fmt"
	"strings"
)

// DefaultContext is the context window used when a caller passes ctx <= 0.
const DefaultContext = 3

// Hunk is one rendered change region with surrounding context. Start lines
// are 1-based per diff-format convention; Lines carry their ' ', '-' or '+'
// prefix.
type Hunk struct {
	PreStart  int
	PreCount  int
	PostStart int
	PostCount int
	Lines     []string
}

// Header renders the conventional "@@ -l,c +l,c @@" range line.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.PreStart, h.PreCount, h.PostStart, h.PostCount)
}

// Hunks renders an edit script into per-edit hunks. Every edit yields its
// own hunk even when adjacent context windows would overlap; downstream
// consumers depend on this output staying stable. The window extends
// ctx-1 lines before the first changed line and after the last one, clamped
// symmetrically so the source and destination ranges carry the same amount
// of context.
func Hunks(src, dst []string, script []Edit, ctx int) []Hunk {
	if ctx <= 0 {
		ctx = DefaultContext
	}
	src = trimTrailingBlank(src)
	dst = trimTrailingBlank(dst)

	var hunks []Hunk
	for _, e := range script {
		if e.Deleted == 0 && e.Inserted == 0 {
			continue
		}
		hunks = append(hunks, renderHunk(src, dst, e, ctx))
	}
	return hunks
}

func renderHunk(src, dst []string, e Edit, ctx int) Hunk {
	lead := min3(ctx-1, e.SrcStart, e.DstStart)
	trail := min3(ctx-1, len(src)-(e.SrcStart+e.Deleted), len(dst)-(e.DstStart+e.Inserted))

	srcLo := e.SrcStart - lead
	srcHi := e.SrcStart + e.Deleted + trail
	dstLo := e.DstStart - lead
	dstHi := e.DstStart + e.Inserted + trail

	h := Hunk{
		PreStart:  srcLo + 1,
		PreCount:  srcHi - srcLo,
		PostStart: dstLo + 1,
		PostCount: dstHi - dstLo,
	}
	for _, ln := range src[srcLo:e.SrcStart] {
		h.Lines = append(h.Lines, " "+ln)
	}
	for _, ln := range src[e.SrcStart : e.SrcStart+e.Deleted] {
		h.Lines = append(h.Lines, "-"+ln)
	}
	for _, ln := range dst[e.DstStart : e.DstStart+e.Inserted] {
		h.Lines = append(h.Lines, "+"+ln)
	}
	for _, ln := range src[e.SrcStart+e.Deleted : srcHi] {
		h.Lines = append(h.Lines, " "+ln)
	}
	return h
}

// Format assembles a complete unified diff: two-file header plus every
// rendered hunk. preName and postName always use forward slashes regardless
// of host platform.
func Format(preName, postName string, hunks []Hunk) string {
	var sb strings.Builder
	sb.WriteString("--- ")
	sb.WriteString(preName)
	sb.WriteByte('\n')
	sb.WriteString("+++ ")
	sb.WriteString(postName)
	sb.WriteByte('\n')
	for _, h := range hunks {
		sb.WriteString(h.Header())
		sb.WriteByte('\n')
		for _, ln := range h.Lines {
			sb.WriteString(ln)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	if a < 0 {
		return 0
	}
	return a
}
