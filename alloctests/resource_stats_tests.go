package alloctests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal-conformance/gralloc-test-harness/framework/haltest"
	"github.com/hal-conformance/gralloc-test-harness/servicedef"
)

const resourceChurnIterations = 5

func doResourceStatsTests(t *haltest.T) {
	t.RequireCapability(servicedef.CapabilityResourceAccounting)

	t.Run("stats reflect live descriptors and buffers", func(t *haltest.T) {
		allocator := NewAllocatorSession(t)
		baseline := requireStats(t, allocator)

		descriptor := allocator.MustCreateDescriptor(t, DefaultDescriptorInfo())
		stats := requireStats(t, allocator)
		assert.Equal(t, baseline.Descriptors+1, stats.Descriptors)

		buffers, halErr := allocator.Allocate(t, []string{descriptor.ID})
		isSuccess().Require(t, halErr)
		stats = requireStats(t, allocator)
		assert.Equal(t, baseline.Buffers+1, stats.Buffers)
		assert.Greater(t, stats.AllocatedBytes, baseline.AllocatedBytes)

		require.Equal(t, servicedef.ErrorNone, allocator.Free(t, buffers[0]))
		stats = requireStats(t, allocator)
		assert.Equal(t, baseline.Buffers, stats.Buffers)
	})

	t.Run("descriptor churn returns to baseline", func(t *haltest.T) {
		allocator := NewAllocatorSession(t)
		baseline := requireStats(t, allocator)

		for i := 0; i < resourceChurnIterations; i++ {
			descriptor, halErr := allocator.CreateDescriptor(t, DefaultDescriptorInfo())
			require.Equal(t, servicedef.ErrorNone, halErr)
			require.Equal(t, servicedef.ErrorNone, allocator.DestroyDescriptor(t, descriptor))
		}

		assert.Equal(t, baseline, requireStats(t, allocator),
			"resource stats did not return to baseline after descriptor churn")
	})

	t.Run("allocation churn returns to baseline", func(t *haltest.T) {
		allocator := NewAllocatorSession(t)
		descriptor := allocator.MustCreateDescriptor(t, DefaultDescriptorInfo())
		baseline := requireStats(t, allocator)

		for i := 0; i < resourceChurnIterations; i++ {
			buffers, halErr := allocator.Allocate(t, []string{descriptor.ID})
			isSuccess().Require(t, halErr)
			require.Len(t, buffers, 1)
			require.Equal(t, servicedef.ErrorNone, allocator.Free(t, buffers[0]))
		}

		assert.Equal(t, baseline, requireStats(t, allocator),
			"resource stats did not return to baseline after allocation churn")
	})
}

func requireStats(t *haltest.T, allocator *Allocator) servicedef.ResourceStats {
	t.Helper()
	resp := allocator.ResourceStats(t)
	require.Equal(t, servicedef.ErrorNone, resp.Error)
	return resp.Stats
}
