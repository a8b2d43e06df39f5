package mockhal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal-conformance/gralloc-test-harness/servicedef"
)

func basicInfo() servicedef.BufferDescriptorInfo {
	return servicedef.BufferDescriptorInfo{
		Width:         64,
		Height:        64,
		LayerCount:    1,
		Format:        servicedef.PixelFormatRGBA8888,
		ProducerUsage: servicedef.ProducerUsageCPUWrite,
		ConsumerUsage: servicedef.ConsumerUsageCPURead,
	}
}

func TestCreateAndDestroyDescriptor(t *testing.T) {
	a := NewAllocator(false, nil)

	id, halErr := a.CreateDescriptor(basicInfo())
	require.Equal(t, servicedef.ErrorNone, halErr)
	require.NotEmpty(t, id)
	assert.Equal(t, 1, a.Stats().Descriptors)

	assert.Equal(t, servicedef.ErrorNone, a.DestroyDescriptor(id))
	assert.Equal(t, 0, a.Stats().Descriptors)

	assert.Equal(t, servicedef.ErrorBadDescriptor, a.DestroyDescriptor(id))
	assert.Equal(t, servicedef.ErrorBadDescriptor, a.DestroyDescriptor("no-such-descriptor"))
}

func TestCreateDescriptorValidation(t *testing.T) {
	a := NewAllocator(false, nil)

	zeroWidth := basicInfo()
	zeroWidth.Width = 0
	_, halErr := a.CreateDescriptor(zeroWidth)
	assert.Equal(t, servicedef.ErrorBadValue, halErr)

	zeroLayers := basicInfo()
	zeroLayers.LayerCount = 0
	_, halErr = a.CreateDescriptor(zeroLayers)
	assert.Equal(t, servicedef.ErrorBadValue, halErr)

	badFormat := basicInfo()
	badFormat.Format = "NO_SUCH_FORMAT"
	_, halErr = a.CreateDescriptor(badFormat)
	assert.Equal(t, servicedef.ErrorUnsupported, halErr)

	layered := basicInfo()
	layered.LayerCount = 2
	_, halErr = a.CreateDescriptor(layered)
	assert.Equal(t, servicedef.ErrorUnsupported, halErr)

	layeredCapable := NewAllocator(true, nil)
	_, halErr = layeredCapable.CreateDescriptor(layered)
	assert.Equal(t, servicedef.ErrorNone, halErr)
}

func TestAllocateSingle(t *testing.T) {
	a := NewAllocator(false, nil)
	id, _ := a.CreateDescriptor(basicInfo())

	buffers, halErr := a.Allocate([]string{id})
	require.Equal(t, servicedef.ErrorNone, halErr)
	require.Len(t, buffers, 1)

	stats := a.Stats()
	assert.Equal(t, 1, stats.Buffers)
	// 64x64 RGBA is 16384 bytes, already 64-byte aligned
	assert.Equal(t, int64(16384), stats.AllocatedBytes)

	assert.Equal(t, servicedef.ErrorNone, a.Free(buffers[0]))
	assert.Equal(t, 0, a.Stats().Buffers)
	assert.Equal(t, servicedef.ErrorBadBuffer, a.Free(buffers[0]))
}

func TestAllocateDuplicateDescriptorsYieldsDistinctBuffers(t *testing.T) {
	a := NewAllocator(false, nil)
	id, _ := a.CreateDescriptor(basicInfo())

	buffers, halErr := a.Allocate([]string{id, id, id})
	require.Equal(t, servicedef.ErrorNone, halErr)
	require.Len(t, buffers, 3)
	assert.NotEqual(t, buffers[0], buffers[1])
	assert.NotEqual(t, buffers[1], buffers[2])
	assert.Equal(t, 3, a.Stats().Buffers)
}

func TestAllocateMixedDescriptorsReportsNotShared(t *testing.T) {
	a := NewAllocator(false, nil)
	id1, _ := a.CreateDescriptor(basicInfo())
	otherInfo := basicInfo()
	otherInfo.Format = servicedef.PixelFormatRGB565
	id2, _ := a.CreateDescriptor(otherInfo)

	buffers, halErr := a.Allocate([]string{id1, id2})
	assert.Equal(t, servicedef.ErrorNotShared, halErr)
	assert.Len(t, buffers, 2)
	assert.Equal(t, 2, a.Stats().Buffers)
}

func TestAllocateUnknownDescriptor(t *testing.T) {
	a := NewAllocator(false, nil)
	id, _ := a.CreateDescriptor(basicInfo())

	buffers, halErr := a.Allocate([]string{id, "no-such-descriptor"})
	assert.Equal(t, servicedef.ErrorBadDescriptor, halErr)
	assert.Empty(t, buffers)
	assert.Equal(t, 0, a.Stats().Buffers)
}

func TestTestAllocateCommitsNothing(t *testing.T) {
	a := NewAllocator(false, nil)
	id, _ := a.CreateDescriptor(basicInfo())
	otherInfo := basicInfo()
	otherInfo.Width = 128
	id2, _ := a.CreateDescriptor(otherInfo)

	assert.Equal(t, servicedef.ErrorNone, a.TestAllocate([]string{id}))
	assert.Equal(t, servicedef.ErrorNone, a.TestAllocate([]string{id, id}))
	assert.Equal(t, servicedef.ErrorNotShared, a.TestAllocate([]string{id, id2}))
	assert.Equal(t, servicedef.ErrorBadDescriptor, a.TestAllocate([]string{"no-such-descriptor"}))

	assert.Equal(t, 0, a.Stats().Buffers)
	assert.Equal(t, int64(0), a.Stats().AllocatedBytes)
}

func TestExportHandle(t *testing.T) {
	a := NewAllocator(false, nil)
	id, _ := a.CreateDescriptor(basicInfo())
	buffers, _ := a.Allocate([]string{id})

	handle, halErr := a.ExportHandle(id, buffers[0])
	require.Equal(t, servicedef.ErrorNone, halErr)
	assert.NotEmpty(t, handle.ID)
	assert.Greater(t, handle.NumFds, 0)

	_, halErr = a.ExportHandle("no-such-descriptor", buffers[0])
	assert.Equal(t, servicedef.ErrorBadDescriptor, halErr)

	_, halErr = a.ExportHandle(id, "no-such-buffer")
	assert.Equal(t, servicedef.ErrorBadBuffer, halErr)

	otherInfo := basicInfo()
	otherInfo.Width = 128
	id2, _ := a.CreateDescriptor(otherInfo)
	_, halErr = a.ExportHandle(id2, buffers[0])
	assert.Equal(t, servicedef.ErrorBadValue, halErr)
}

func TestDestroyedDescriptorDoesNotInvalidateBuffers(t *testing.T) {
	a := NewAllocator(false, nil)
	id, _ := a.CreateDescriptor(basicInfo())
	buffers, _ := a.Allocate([]string{id})

	require.Equal(t, servicedef.ErrorNone, a.DestroyDescriptor(id))
	assert.Equal(t, 1, a.Stats().Buffers)
	assert.Equal(t, servicedef.ErrorNone, a.Free(buffers[0]))
}

func TestBufferSizeAlignment(t *testing.T) {
	a := NewAllocator(false, nil)
	info := basicInfo()
	info.Width = 3
	info.Height = 3
	info.Format = servicedef.PixelFormatRGB565 // 18 bytes unaligned
	id, _ := a.CreateDescriptor(info)
	_, halErr := a.Allocate([]string{id})
	require.Equal(t, servicedef.ErrorNone, halErr)
	assert.Equal(t, int64(64), a.Stats().AllocatedBytes)
}

func TestDebugDumpIsValidJSON(t *testing.T) {
	a := NewAllocator(false, nil)
	id, _ := a.CreateDescriptor(basicInfo())
	_, _ = a.Allocate([]string{id})

	dump := a.DebugDump()
	var parsed struct {
		Descriptors []map[string]interface{} `json:"descriptors"`
		Buffers     []map[string]interface{} `json:"buffers"`
		Bytes       int64                    `json:"allocatedBytes"`
	}
	require.NoError(t, json.Unmarshal([]byte(dump), &parsed))
	assert.Len(t, parsed.Descriptors, 1)
	assert.Len(t, parsed.Buffers, 1)
	assert.Equal(t, int64(16384), parsed.Bytes)
}
