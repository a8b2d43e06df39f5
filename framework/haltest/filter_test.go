package haltest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParsePattern(t *testing.T, s string) TestIDPattern {
	p, err := ParseTestIDPattern(s)
	require.NoError(t, err)
	return p
}

func TestParseTestIDPattern(t *testing.T) {
	p := mustParsePattern(t, "alloc.*/basic")
	assert.Len(t, p, 2)

	_, err := ParseTestIDPattern("bad[regex")
	assert.Error(t, err)
}

func TestTestIDPatternMatch(t *testing.T) {
	p := mustParsePattern(t, "allocate/array")

	assert.True(t, p.Match(TestID{"allocate", "array"}, false))
	assert.True(t, p.Match(TestID{"allocate", "array", "duplicates"}, false))
	assert.False(t, p.Match(TestID{"allocate", "basic"}, false))

	// a shorter ID matches only when parents are included
	assert.False(t, p.Match(TestID{"allocate"}, false))
	assert.True(t, p.Match(TestID{"allocate"}, true))
}

func TestRegexFilters(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustMatch.Set("allocate"))
	require.NoError(t, f.MustNotMatch.Set("allocate/array"))

	assert.True(t, f.Match(TestID{"allocate", "basic"}))
	assert.False(t, f.Match(TestID{"allocate", "array"}))
	assert.False(t, f.Match(TestID{"descriptor", "basic"}))

	// parent scopes of a must-match pattern are runnable
	assert.True(t, f.Match(TestID{"allocate"}))
}

func TestRegexFiltersEmptyMatchesEverything(t *testing.T) {
	var f RegexFilters
	assert.True(t, f.Match(TestID{"anything", "at", "all"}))
}
