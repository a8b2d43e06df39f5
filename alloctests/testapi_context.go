package alloctests

import (
	"github.com/hal-conformance/gralloc-test-harness/framework/haltest"
	"github.com/hal-conformance/gralloc-test-harness/framework/harness"
)

type AllocatorTestContext struct {
	harness *harness.TestHarness
}

func requireContext(t *haltest.T) AllocatorTestContext {
	if c, ok := t.Context().(AllocatorTestContext); ok {
		return c
	}
	panic("AllocatorTestContext was not included in the global test configuration!" +
		" This is a basic mistake in the initialization logic.")
}
