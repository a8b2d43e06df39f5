package framework

import "golang.org/x/exp/slices"

// Capabilities is a list of strings representing optional features of a test service. The
// meanings of these strings are defined by the allocator test service protocol.
type Capabilities []string

// Has returns true if the specified string appears in the list.
func (cs Capabilities) Has(name string) bool {
	return slices.Contains(cs, name)
}

// HasAll returns true if all of the specified strings appear in the list.
func (cs Capabilities) HasAll(names ...string) bool {
	for _, name := range names {
		if !cs.Has(name) {
			return false
		}
	}
	return true
}
