package matchers

import (
	"fmt"
	"reflect"
)

// Length is a matcher for a slice, array, map, or string value that tests its length.
func Length(expectedLength int) Matcher {
	return New(
		func(value interface{}) bool {
			v := reflect.ValueOf(value)
			switch v.Kind() {
			case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
				return v.Len() == expectedLength
			default:
				return false
			}
		},
		func(value interface{}, desc DescribeValueFunc) string {
			return fmt.Sprintf("length of %d", expectedLength)
		},
	)
}

// Items is a matcher for a slice value. It tests that the slice has the same number of
// elements as the number of parameters, and that each element matches the corresponding
// matcher in order.
func Items(matchers ...Matcher) Matcher {
	return New(
		func(value interface{}) bool {
			v := reflect.ValueOf(value)
			if v.Kind() != reflect.Slice || v.Len() != len(matchers) {
				return false
			}
			for i, m := range matchers {
				if !m.test(v.Index(i).Interface()) {
					return false
				}
			}
			return true
		},
		func(value interface{}, desc DescribeValueFunc) string {
			v := reflect.ValueOf(value)
			if v.Kind() != reflect.Slice {
				return "a slice"
			}
			if v.Len() != len(matchers) {
				return fmt.Sprintf("should have %d item(s) (had %d)", len(matchers), v.Len())
			}
			return "items in order: " + describeMatchersList(matchers, value, ", ")
		},
	)
}

// ItemsInAnyOrder is a matcher for a slice value. It tests that the slice contains the
// same number of elements as the number of parameters, and that each parameter is a
// matcher that matches one item in the slice.
func ItemsInAnyOrder(matchers ...Matcher) Matcher {
	return New(
		func(value interface{}) bool {
			v := reflect.ValueOf(value)
			if v.Kind() != reflect.Slice || v.Len() != len(matchers) {
				return false
			}
			foundCount := 0
			for _, m := range matchers {
				for j := 0; j < v.Len(); j++ {
					if m.test(v.Index(j).Interface()) {
						foundCount++
						break
					}
				}
			}
			return foundCount == len(matchers)
		},
		func(value interface{}, desc DescribeValueFunc) string {
			v := reflect.ValueOf(value)
			if v.Kind() != reflect.Slice {
				return "a slice"
			}
			if v.Len() != len(matchers) {
				return fmt.Sprintf("should have %d item(s) (had %d)", len(matchers), v.Len())
			}
			return "contains in any order: " + describeMatchersList(matchers, value, ", ")
		},
	)
}

// ItemsAreUnique is a matcher for a slice value that tests that no two elements are
// equal to each other.
func ItemsAreUnique() Matcher {
	return New(
		func(value interface{}) bool {
			v := reflect.ValueOf(value)
			if v.Kind() != reflect.Slice {
				return false
			}
			for i := 0; i < v.Len(); i++ {
				for j := i + 1; j < v.Len(); j++ {
					if reflect.DeepEqual(v.Index(i).Interface(), v.Index(j).Interface()) {
						return false
					}
				}
			}
			return true
		},
		func(value interface{}, desc DescribeValueFunc) string {
			return "all items unique"
		},
	)
}

// EachItem is a matcher for a slice value that tests that every element matches the
// given matcher.
func EachItem(matcher Matcher) Matcher {
	return New(
		func(value interface{}) bool {
			v := reflect.ValueOf(value)
			if v.Kind() != reflect.Slice {
				return false
			}
			for i := 0; i < v.Len(); i++ {
				if !matcher.test(v.Index(i).Interface()) {
					return false
				}
			}
			return true
		},
		func(value interface{}, desc DescribeValueFunc) string {
			return "each item: " + matcher.describeFailure(value, matcher.describeValue)
		},
	)
}
