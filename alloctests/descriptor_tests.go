package alloctests

import (
	"github.com/stretchr/testify/assert"

	"github.com/hal-conformance/gralloc-test-harness/data"
	"github.com/hal-conformance/gralloc-test-harness/framework/haltest"
	"github.com/hal-conformance/gralloc-test-harness/servicedef"
)

func doDescriptorTests(t *haltest.T) {
	t.Run("create and destroy", func(t *haltest.T) {
		runForEachFixture(t, allDescriptorFixtures(t), func(t *haltest.T, fixture data.DescriptorFixture) {
			allocator := NewAllocatorSession(t)

			descriptor, halErr := allocator.CreateDescriptor(t, fixture.Info)
			assert.Equal(t, servicedef.ErrorNone, halErr)
			assert.NotEmpty(t, descriptor, "allocator returned NONE but no descriptor ID")

			halErr = allocator.DestroyDescriptor(t, descriptor)
			assert.Equal(t, servicedef.ErrorNone, halErr)
		})
	})

	t.Run("scoped descriptors are destroyed on scope exit", func(t *haltest.T) {
		allocator := NewAllocatorSession(t)

		var descriptor string
		t.Run("inner scope", func(t *haltest.T) {
			descriptor = allocator.MustCreateDescriptor(t, DefaultDescriptorInfo()).ID
		})

		// The inner scope's cleanup already destroyed it
		halErr := allocator.DestroyDescriptor(t, descriptor)
		assert.Equal(t, servicedef.ErrorBadDescriptor, halErr,
			"descriptor %s should already have been destroyed by scope cleanup", descriptor)
	})
}
