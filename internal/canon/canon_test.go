package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRendersStableIndentation(t *testing.T) {
	got, ok := Normalize(`{"a":1,"b":[1,2],"c":{"d":"x"}}`)
	require.True(t, ok)
	want := `{
  "a": 1,
  "b": [
    1,
    2
  ],
  "c": {
    "d": "x"
  }
}
`
	assert.Equal(t, want, got)
}

func TestNormalizeKeepsKeyOrderAsEncountered(t *testing.T) {
	got, ok := Normalize(`{"zebra":1,"apple":2}`)
	require.True(t, ok)
	want := `{
  "zebra": 1,
  "apple": 2
}
`
	assert.Equal(t, want, got, "keys must not be alphabetized")
}

func TestNormalizeDeduplicatesFieldNamesCaseInsensitively(t *testing.T) {
	got, ok := Normalize(`{"Name":"first","other":true,"name":"last"}`)
	require.True(t, ok)
	want := `{
  "Name": "last",
  "other": true
}
`
	assert.Equal(t, want, got, "first position kept, last value wins")
}

func TestNormalizeFallsBackOnParseFailure(t *testing.T) {
	for _, raw := range []string{"not json at all", `{"unterminated":`, `{"a":1} trailing`} {
		got, ok := Normalize(raw)
		assert.False(t, ok, "input %q", raw)
		assert.Equal(t, raw, got, "raw text must pass through unchanged")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		`{"a":1,"b":[true,null,"s"],"c":1.5}`,
		`[1,2,{"x":"y"}]`,
		`"scalar"`,
		`42`,
		`{"nested":{"deep":{"deeper":[{}]}}}`,
	}
	for _, raw := range inputs {
		once, ok := Normalize(raw)
		require.True(t, ok, "input %q", raw)
		twice, ok := Normalize(once)
		require.True(t, ok)
		assert.Equal(t, once, twice, "input %q", raw)
	}
}

func TestNormalizePreservesNumberLiterals(t *testing.T) {
	got, ok := Normalize(`{"a":1.50,"b":1e3}`)
	require.True(t, ok)
	assert.Contains(t, got, `"a": 1.50`)
	assert.Contains(t, got, `"b": 1e3`)
}

func TestNormalizeDoesNotEscapeHTML(t *testing.T) {
	got, ok := Normalize(`{"cmd":"a < b && c > d"}`)
	require.True(t, ok)
	assert.Contains(t, got, `"a < b && c > d"`)
}

func TestEqualIgnoresFormattingAndMemberOrder(t *testing.T) {
	assert.True(t, Equal(`{"a":1,"b":2}`, "{\n  \"b\": 2,\n  \"a\": 1\n}"))
	assert.True(t, Equal(`{"A":1}`, `{"a":1}`), "member names compare case-insensitively")
	assert.True(t, Equal(`{"n":1.0}`, `{"n":1}`), "numbers compare by value")
}

func TestEqualDistinguishesContent(t *testing.T) {
	assert.False(t, Equal(`{"a":1}`, `{"a":2}`))
	assert.False(t, Equal(`[1,2]`, `[2,1]`), "arrays are ordered")
	assert.False(t, Equal(`{"a":1}`, `{"a":1,"b":2}`))
	assert.False(t, Equal(`{"a":"1"}`, `{"a":1}`), "string vs number")
}

func TestEqualFallsBackToRawComparison(t *testing.T) {
	assert.True(t, Equal("plain text", "plain text"))
	assert.False(t, Equal("plain text", "other text"))
	assert.False(t, Equal(`{"a":1}`, "not json"))
}
