package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal-conformance/gralloc-test-harness/servicedef"
)

func TestLoadBasicDescriptorFixtures(t *testing.T) {
	fixtures, err := LoadDescriptorFixtures("descriptors/basic.yaml")
	require.NoError(t, err)
	require.Len(t, fixtures, 4)

	var formats []servicedef.PixelFormat
	for _, f := range fixtures {
		assert.NotEmpty(t, f.Name)
		assert.Equal(t, uint32(64), f.Info.Width)
		assert.Equal(t, uint32(64), f.Info.Height)
		assert.Equal(t, uint32(1), f.Info.LayerCount)
		assert.Equal(t, servicedef.ProducerUsageCPUWrite, f.Info.ProducerUsage)
		assert.Equal(t, servicedef.ConsumerUsageCPURead, f.Info.ConsumerUsage)
		assert.Empty(t, f.RequiredCapabilities)
		formats = append(formats, f.Info.Format)
	}
	assert.Contains(t, formats, servicedef.PixelFormatRGBA8888)
	assert.Contains(t, formats, servicedef.PixelFormatRGB565)
}

func TestLoadLayeredDescriptorFixtures(t *testing.T) {
	fixtures, err := LoadDescriptorFixtures("descriptors/layered.yaml")
	require.NoError(t, err)
	require.Len(t, fixtures, 1)

	f := fixtures[0]
	assert.Equal(t, uint32(2), f.Info.LayerCount)
	assert.Equal(t, []string{servicedef.CapabilityLayeredBuffers}, f.RequiredCapabilities)
}

func TestLoadAllDataFilesInDirectory(t *testing.T) {
	sources, err := LoadAllDataFiles("descriptors")
	require.NoError(t, err)
	assert.Len(t, sources, 5) // 4 parameterized basics + 1 layered
}
