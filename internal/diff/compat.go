package diff

import (
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// FormatMerged renders a unified diff through go-difflib, which merges
// hunks whose context windows overlap the way standard diff tools do. It is
// the opt-in alternative to Format for consumers that feed the output to
// conventional patch tooling; Format stays the default because its
// one-hunk-per-edit output is a stability contract.
func FormatMerged(preName, postName, preText, postText string, ctx int) (string, error) {
	if ctx <= 0 {
		ctx = DefaultContext
	}
	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(preText),
		B:        splitLinesKeepNL(postText),
		FromFile: preName,
		ToFile:   postName,
		Context:  ctx,
	}
	return difflib.GetUnifiedDiffString(u)
}

// splitLinesKeepNL splits into lines keeping newline characters, which is
// the token shape difflib expects.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}
