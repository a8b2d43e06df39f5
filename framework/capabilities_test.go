package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilitiesHas(t *testing.T) {
	cs := Capabilities{"a", "b"}
	assert.True(t, cs.Has("a"))
	assert.True(t, cs.Has("b"))
	assert.False(t, cs.Has("c"))
	assert.False(t, Capabilities(nil).Has("a"))
}

func TestCapabilitiesHasAll(t *testing.T) {
	cs := Capabilities{"a", "b", "c"}
	assert.True(t, cs.HasAll())
	assert.True(t, cs.HasAll("a"))
	assert.True(t, cs.HasAll("c", "a"))
	assert.False(t, cs.HasAll("a", "d"))
	assert.False(t, Capabilities(nil).HasAll("a"))
	assert.True(t, Capabilities(nil).HasAll())
}
