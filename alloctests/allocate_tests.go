package alloctests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal-conformance/gralloc-test-harness/data"
	"github.com/hal-conformance/gralloc-test-harness/framework/haltest"
	m "github.com/hal-conformance/gralloc-test-harness/framework/matchers"
	"github.com/hal-conformance/gralloc-test-harness/servicedef"
)

func doAllocateTests(t *haltest.T) {
	t.Run("basic", func(t *haltest.T) {
		runForEachFixture(t, allDescriptorFixtures(t), func(t *haltest.T, fixture data.DescriptorFixture) {
			allocator := NewAllocatorSession(t)
			descriptor := allocator.MustCreateDescriptor(t, fixture.Info)

			buffers, halErr := allocator.Allocate(t, []string{descriptor.ID})
			isSuccess().Require(t, halErr)
			require.Len(t, buffers, 1)
			assert.NotEmpty(t, buffers[0])

			assert.Equal(t, servicedef.ErrorNone, allocator.Free(t, buffers[0]))
		})
	})

	t.Run("array with duplicate descriptors", func(t *haltest.T) {
		allocator := NewAllocatorSession(t)
		first := allocator.MustCreateDescriptor(t, DefaultDescriptorInfo())
		second := allocator.MustCreateDescriptor(t, DefaultDescriptorInfo())

		// Three entries, two of them the same descriptor: still exactly three buffers
		request := []string{first.ID, second.ID, first.ID}
		buffers, halErr := allocator.Allocate(t, request)
		isSuccess().Require(t, halErr)
		require.Len(t, buffers, len(request))
		m.ItemsAreUnique().Assert(t, buffers)

		for _, buffer := range buffers {
			assert.Equal(t, servicedef.ErrorNone, allocator.Free(t, buffer),
				"free failed for buffer %s", buffer)
		}
	})

	t.Run("buffers remain valid after descriptor is destroyed", func(t *haltest.T) {
		allocator := NewAllocatorSession(t)
		descriptor, halErr := allocator.CreateDescriptor(t, DefaultDescriptorInfo())
		require.Equal(t, servicedef.ErrorNone, halErr)

		buffers, halErr := allocator.Allocate(t, []string{descriptor})
		isSuccess().Require(t, halErr)
		require.Len(t, buffers, 1)

		require.Equal(t, servicedef.ErrorNone, allocator.DestroyDescriptor(t, descriptor))
		assert.Equal(t, servicedef.ErrorNone, allocator.Free(t, buffers[0]))
	})
}
