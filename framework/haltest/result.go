package haltest

import (
	"strings"
)

// Results is the accumulated outcome of a test run.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

// TestResult is the outcome of a single test scope.
type TestResult struct {
	TestID TestID
	Errors []error
}

// OK returns true if there were no failures.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// TestID identifies a test scope as a path of scope names.
type TestID []string

func (t TestID) String() string {
	return strings.Join(t, "/")
}

// Plus returns a TestID with one more path component appended.
func (t TestID) Plus(name string) TestID {
	return append(append(TestID(nil), t...), name)
}
