package matchers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertPasses(t *testing.T, m Matcher, value interface{}) {
	pass, _ := m.Test(value)
	assert.True(t, pass, "matcher should have passed for %+v", value)
}

func assertFails(t *testing.T, m Matcher, value interface{}) string {
	pass, desc := m.Test(value)
	assert.False(t, pass, "matcher should have failed for %+v", value)
	return desc
}

func TestEqual(t *testing.T) {
	assertPasses(t, Equal(3), 3)
	assertFails(t, Equal(3), 4)
	assertPasses(t, Equal([]string{"a", "b"}), []string{"a", "b"})
}

func TestEnsureType(t *testing.T) {
	m := Equal("x").EnsureType("")
	assertPasses(t, m, "x")
	assertFails(t, m, 3)
}

func TestStringMatchers(t *testing.T) {
	assertPasses(t, StringNonEmpty(), "x")
	assertFails(t, StringNonEmpty(), "")
	assertPasses(t, StringContains("bc"), "abcd")
	assertFails(t, StringContains("bc"), "abd")
}

func TestNot(t *testing.T) {
	assertPasses(t, Not(Equal(3)), 4)
	desc := assertFails(t, Not(Equal(3)), 3)
	assert.Contains(t, desc, "not (equal to 3)")
}

func TestAllOf(t *testing.T) {
	m := AllOf(Not(Equal(1)), Not(Equal(2)))
	assertPasses(t, m, 3)
	assertFails(t, m, 2)
}

func TestAnyOf(t *testing.T) {
	m := AnyOf(Equal("NONE"), Equal("NOT_SHARED"))
	assertPasses(t, m, "NONE")
	assertPasses(t, m, "NOT_SHARED")
	desc := assertFails(t, m, "NO_RESOURCES")
	assert.Contains(t, desc, " or ")
}

func TestLength(t *testing.T) {
	assertPasses(t, Length(2), []int{1, 2})
	assertFails(t, Length(2), []int{1})
	assertPasses(t, Length(0), []int(nil))
	assertFails(t, Length(1), 3)
}

func TestItems(t *testing.T) {
	assertPasses(t, Items(Equal(1), Equal(2)), []int{1, 2})
	assertFails(t, Items(Equal(1), Equal(2)), []int{2, 1})
	assertFails(t, Items(Equal(1)), []int{1, 2})
}

func TestItemsInAnyOrder(t *testing.T) {
	assertPasses(t, ItemsInAnyOrder(Equal(1), Equal(2)), []int{2, 1})
	assertFails(t, ItemsInAnyOrder(Equal(1), Equal(2)), []int{2, 3})
}

func TestEachItem(t *testing.T) {
	assertPasses(t, EachItem(Not(Equal(""))), []string{"a", "b"})
	assertFails(t, EachItem(Not(Equal(""))), []string{"a", ""})
}
