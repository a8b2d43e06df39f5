package alloctests

import (
	"github.com/stretchr/testify/assert"

	"github.com/hal-conformance/gralloc-test-harness/framework/haltest"
	"github.com/hal-conformance/gralloc-test-harness/servicedef"
)

func doServiceStatusTests(t *haltest.T) {
	info := requireContext(t).harness.TestServiceInfo()

	t.Run("reports implementation name and HAL version", func(t *haltest.T) {
		assert.NotEmpty(t, info.Name, "status resource did not report an implementation name")
		assert.NotEmpty(t, info.HALVersion, "status resource did not report a HAL version")
	})

	t.Run("capability list contains no invalid entries", func(t *haltest.T) {
		seen := make(map[string]bool)
		for _, capability := range info.Capabilities {
			assert.NotEmpty(t, capability, "capability list contains an empty string")
			assert.False(t, seen[capability], "capability %q is listed more than once", capability)
			seen[capability] = true
		}
	})

	t.Run("layered-buffers implies layered descriptors are accepted", func(t *haltest.T) {
		t.RequireCapability(servicedef.CapabilityLayeredBuffers)

		allocator := NewAllocatorSession(t)
		layeredInfo := DefaultDescriptorInfo()
		layeredInfo.LayerCount = 2
		descriptor, halErr := allocator.CreateDescriptor(t, layeredInfo)
		assert.Equal(t, servicedef.ErrorNone, halErr,
			"service reports layered-buffers but rejected a 2-layer descriptor")
		if halErr == servicedef.ErrorNone {
			assert.Equal(t, servicedef.ErrorNone, allocator.DestroyDescriptor(t, descriptor))
		}
	})
}
