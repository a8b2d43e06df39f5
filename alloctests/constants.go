package alloctests

import "github.com/hal-conformance/gralloc-test-harness/servicedef"

// defaultServiceName is the registered HAL instance name that sessions bind to unless a
// test says otherwise.
const defaultServiceName = "gralloc"

// DefaultDescriptorInfo returns the baseline buffer description used by tests that do
// not care about specific dimensions: a small RGBA buffer with CPU access on both sides,
// which every conforming allocator must support.
func DefaultDescriptorInfo() servicedef.BufferDescriptorInfo {
	return servicedef.BufferDescriptorInfo{
		Width:         64,
		Height:        64,
		LayerCount:    1,
		Format:        servicedef.PixelFormatRGBA8888,
		ProducerUsage: servicedef.ProducerUsageCPUWrite,
		ConsumerUsage: servicedef.ConsumerUsageCPURead,
	}
}
