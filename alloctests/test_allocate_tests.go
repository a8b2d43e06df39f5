package alloctests

import (
	"github.com/hal-conformance/gralloc-test-harness/data"
	"github.com/hal-conformance/gralloc-test-harness/framework/haltest"
	"github.com/hal-conformance/gralloc-test-harness/servicedef"
)

func doTestAllocateTests(t *haltest.T) {
	t.RequireCapability(servicedef.CapabilityTestAllocate)

	t.Run("basic", func(t *haltest.T) {
		runForEachFixture(t, allDescriptorFixtures(t), func(t *haltest.T, fixture data.DescriptorFixture) {
			allocator := NewAllocatorSession(t)
			descriptor := allocator.MustCreateDescriptor(t, fixture.Info)

			halErr := allocator.TestAllocate(t, []string{descriptor.ID})
			isSuccess().Assert(t, halErr)
		})
	})

	t.Run("array", func(t *haltest.T) {
		allocator := NewAllocatorSession(t)
		descriptor := allocator.MustCreateDescriptor(t, DefaultDescriptorInfo())

		halErr := allocator.TestAllocate(t, []string{descriptor.ID, descriptor.ID})
		isSuccess().Assert(t, halErr)
	})
}
