package alloctests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal-conformance/gralloc-test-harness/framework/haltest"
	"github.com/hal-conformance/gralloc-test-harness/servicedef"
)

func doExportHandleTests(t *haltest.T) {
	t.Run("exported handle is usable", func(t *haltest.T) {
		allocator := NewAllocatorSession(t)
		descriptor := allocator.MustCreateDescriptor(t, DefaultDescriptorInfo())

		buffers, halErr := allocator.Allocate(t, []string{descriptor.ID})
		isSuccess().Require(t, halErr)
		require.Len(t, buffers, 1)

		handle, halErr := allocator.ExportHandle(t, descriptor.ID, buffers[0])
		assert.Equal(t, servicedef.ErrorNone, halErr)
		assert.NotEmpty(t, handle.ID, "allocator returned NONE but no handle ID")
		assert.Greater(t, handle.NumFds, 0, "an exported buffer handle should carry at least one fd")

		assert.Equal(t, servicedef.ErrorNone, allocator.Free(t, buffers[0]))
	})

	t.Run("every buffer from an array allocation can be exported", func(t *haltest.T) {
		allocator := NewAllocatorSession(t)
		descriptor := allocator.MustCreateDescriptor(t, DefaultDescriptorInfo())

		buffers, halErr := allocator.Allocate(t, []string{descriptor.ID, descriptor.ID})
		isSuccess().Require(t, halErr)
		require.Len(t, buffers, 2)

		handleIDs := make(map[string]bool)
		for _, buffer := range buffers {
			handle, halErr := allocator.ExportHandle(t, descriptor.ID, buffer)
			assert.Equal(t, servicedef.ErrorNone, halErr, "export failed for buffer %s", buffer)
			assert.False(t, handleIDs[handle.ID], "handle ID %s was returned twice", handle.ID)
			handleIDs[handle.ID] = true
			assert.Equal(t, servicedef.ErrorNone, allocator.Free(t, buffer))
		}
	})
}
