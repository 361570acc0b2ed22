package diff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// applyScript replays an edit script against src, pulling inserted content
// from dst. The result must reproduce dst exactly.
func applyScript(src, dst []string, script []Edit) []string {
	out := []string{}
	si := 0
	for _, e := range script {
		out = append(out, src[si:e.SrcStart]...)
		si = e.SrcStart + e.Deleted
		out = append(out, dst[e.DstStart:e.DstStart+e.Inserted]...)
	}
	return append(out, src[si:]...)
}

func scriptCost(script []Edit) int {
	cost := 0
	for _, e := range script {
		cost += e.Deleted + e.Inserted
	}
	return cost
}

func TestScriptExactFixtures(t *testing.T) {
	tests := []struct {
		name     string
		src, dst []string
		want     []Edit
	}{
		{
			name: "identical",
			src:  []string{"a", "b", "c"},
			dst:  []string{"a", "b", "c"},
			want: nil,
		},
		{
			name: "both-empty",
		},
		{
			name: "src-empty",
			dst:  []string{"x", "y"},
			want: []Edit{{Inserted: 2}},
		},
		{
			name: "dst-empty",
			src:  []string{"x", "y"},
			want: []Edit{{Deleted: 2}},
		},
		{
			name: "single-replace",
			src:  []string{"a", "b", "c"},
			dst:  []string{"a", "x", "c"},
			want: []Edit{{SrcStart: 1, DstStart: 1, Deleted: 1, Inserted: 1}},
		},
		{
			name: "pure-insert",
			src:  []string{"a", "c"},
			dst:  []string{"a", "b", "c"},
			want: []Edit{{SrcStart: 1, DstStart: 1, Inserted: 1}},
		},
		{
			name: "pure-delete",
			src:  []string{"a", "b", "c"},
			dst:  []string{"a", "c"},
			want: []Edit{{SrcStart: 1, DstStart: 1, Deleted: 1}},
		},
		{
			name: "fully-disjoint",
			src:  []string{"a", "b"},
			dst:  []string{"x", "y"},
			want: []Edit{{Deleted: 2, Inserted: 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Script(tt.src, tt.dst)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("script mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScriptReproducesDestination(t *testing.T) {
	tests := []struct {
		name     string
		src, dst []string
	}{
		{"classic-myers", strings.Split("ABCABBA", ""), strings.Split("CBABAC", "")},
		{"shift", []string{"1", "2", "3", "4"}, []string{"2", "3", "4", "5"}},
		{"interleaved", []string{"a", "b", "c", "d", "e"}, []string{"b", "x", "d", "y", "e"}},
		{"repeated-lines", []string{"x", "x", "x"}, []string{"x", "x"}},
		{"swap", []string{"a", "b"}, []string{"b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := Script(tt.src, tt.dst)
			got := applyScript(tt.src, tt.dst, script)
			if diff := cmp.Diff(tt.dst, got); diff != "" {
				t.Errorf("apply mismatch (-dst +got):\n%s", diff)
			}
		})
	}
}

func TestScriptMinimality(t *testing.T) {
	tests := []struct {
		name     string
		src, dst []string
		cost     int
	}{
		{"single-replace", []string{"a", "b", "c"}, []string{"a", "x", "c"}, 2},
		{"classic-myers", strings.Split("ABCABBA", ""), strings.Split("CBABAC", ""), 5},
		{"shift", []string{"1", "2", "3", "4"}, []string{"2", "3", "4", "5"}, 2},
		{"disjoint", []string{"a"}, []string{"b"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scriptCost(Script(tt.src, tt.dst)); got != tt.cost {
				t.Errorf("edit cost = %d, want %d", got, tt.cost)
			}
		})
	}
}

func TestScriptTrimsTrailingEmptyLines(t *testing.T) {
	src := SplitLines("a\nb\n") // ["a" "b" ""]
	dst := SplitLines("a\nb")   // ["a" "b"]
	if script := Script(src, dst); script != nil {
		t.Errorf("trailing newline artifact produced edits: %+v", script)
	}
}

func TestScriptOrderedAndNonOverlapping(t *testing.T) {
	src := strings.Split("ABCABBA", "")
	dst := strings.Split("CBABAC", "")
	script := Script(src, dst)
	prevSrc, prevDst := 0, 0
	for i, e := range script {
		if e.Deleted == 0 && e.Inserted == 0 {
			t.Errorf("edit %d carries no information", i)
		}
		if e.SrcStart < prevSrc || e.DstStart < prevDst {
			t.Errorf("edit %d out of order: %+v", i, e)
		}
		prevSrc = e.SrcStart + e.Deleted
		prevDst = e.DstStart + e.Inserted
	}
}
