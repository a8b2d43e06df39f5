package haltest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTree(config TestConfiguration, action func(*T)) Results {
	return Run(config, action)
}

func TestRunRecordsPassesAndFailures(t *testing.T) {
	results := runTree(TestConfiguration{}, func(t1 *T) {
		t1.Run("passes", func(t2 *T) {})
		t1.Run("fails", func(t2 *T) {
			t2.Errorf("deliberate failure")
		})
	})

	assert.False(t, results.OK())
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "fails", results.Failures[0].TestID.String())
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "deliberate failure")
}

func TestFailNowTerminatesScope(t *testing.T) {
	reachedAfterFailNow := false
	results := runTree(TestConfiguration{}, func(t1 *T) {
		t1.Run("aborts", func(t2 *T) {
			t2.Errorf("problem")
			t2.FailNow()
			reachedAfterFailNow = true
		})
	})

	assert.False(t, reachedAfterFailNow)
	assert.Len(t, results.Failures, 1)
}

func TestUnexpectedPanicIsAFailure(t *testing.T) {
	results := runTree(TestConfiguration{}, func(t1 *T) {
		t1.Run("panics", func(t2 *T) {
			panic(errors.New("boom"))
		})
	})

	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "boom")
}

func TestSkipIsNotAFailure(t *testing.T) {
	results := runTree(TestConfiguration{}, func(t1 *T) {
		t1.Run("skips", func(t2 *T) {
			t2.SkipWithReason("nope")
			t2.Errorf("should not get here")
		})
	})

	assert.True(t, results.OK())
}

func TestRequireCapabilitySkipsWhenUnsupported(t *testing.T) {
	ran := false
	results := runTree(TestConfiguration{Capabilities: []string{"test-allocate"}}, func(t1 *T) {
		t1.Run("supported", func(t2 *T) {
			t2.RequireCapability("test-allocate")
			ran = true
		})
		t1.Run("unsupported", func(t2 *T) {
			t2.RequireCapability("layered-buffers")
			t2.Errorf("should have been skipped")
		})
	})

	assert.True(t, ran)
	assert.True(t, results.OK())
}

func TestDeferRunsOnEveryExitPath(t *testing.T) {
	var cleanedUp []string
	_ = runTree(TestConfiguration{}, func(t1 *T) {
		t1.Run("pass", func(t2 *T) {
			t2.Defer(func() { cleanedUp = append(cleanedUp, "pass") })
		})
		t1.Run("fail", func(t2 *T) {
			t2.Defer(func() { cleanedUp = append(cleanedUp, "fail") })
			t2.Errorf("x")
			t2.FailNow()
		})
		t1.Run("skip", func(t2 *T) {
			t2.Defer(func() { cleanedUp = append(cleanedUp, "skip") })
			t2.Skip()
		})
	})

	assert.Equal(t, []string{"pass", "fail", "skip"}, cleanedUp)
}

func TestDeferOrderIsLastInFirstOut(t *testing.T) {
	var order []int
	_ = runTree(TestConfiguration{}, func(t1 *T) {
		t1.Run("x", func(t2 *T) {
			t2.Defer(func() { order = append(order, 1) })
			t2.Defer(func() { order = append(order, 2) })
		})
	})
	assert.Equal(t, []int{2, 1}, order)
}

func TestFilterExcludesTests(t *testing.T) {
	var ran []string
	var f RegexFilters
	require.NoError(t, f.MustNotMatch.Set("excluded"))

	_ = runTree(TestConfiguration{Filter: f.Match}, func(t1 *T) {
		t1.Run("included", func(t2 *T) { ran = append(ran, "included") })
		t1.Run("excluded", func(t2 *T) { ran = append(ran, "excluded") })
	})

	assert.Equal(t, []string{"included"}, ran)
}

func TestContextIsAvailableToTests(t *testing.T) {
	type testContext struct{ value string }
	var got interface{}
	_ = runTree(TestConfiguration{Context: testContext{value: "hi"}}, func(t1 *T) {
		t1.Run("x", func(t2 *T) { got = t2.Context() })
	})
	assert.Equal(t, testContext{value: "hi"}, got)
}
