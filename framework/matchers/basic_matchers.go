package matchers

import (
	"fmt"
	"reflect"
	"strings"
)

// Equal is a matcher that tests whether the input value matches the expected value
// according to reflect.DeepEqual.
func Equal(expectedValue interface{}) Matcher {
	return New(
		func(value interface{}) bool {
			return reflect.DeepEqual(value, expectedValue)
		},
		func(value interface{}, desc DescribeValueFunc) string {
			return fmt.Sprintf("equal to %s", desc(expectedValue))
		},
	)
}

// StringNonEmpty is a matcher for a string value that tests that it is not "".
func StringNonEmpty() Matcher {
	return New(
		func(value interface{}) bool {
			return value.(string) != ""
		},
		func(value interface{}, desc DescribeValueFunc) string {
			return "a non-empty string"
		},
	).EnsureType("")
}

// StringContains is a matcher for a string value that tests for a substring.
func StringContains(substring string) Matcher {
	return New(
		func(value interface{}) bool {
			return strings.Contains(value.(string), substring)
		},
		func(value interface{}, desc DescribeValueFunc) string {
			return fmt.Sprintf("containing %q", substring)
		},
	).EnsureType("")
}
