package servicedef

import (
	o "github.com/hal-conformance/gralloc-test-harness/framework/opt"
)

const (
	CommandCreateDescriptor  = "createDescriptor"
	CommandDestroyDescriptor = "destroyDescriptor"
	CommandTestAllocate      = "testAllocate"
	CommandAllocate          = "allocate"
	CommandFree              = "free"
	CommandExportHandle      = "exportHandle"
	CommandDumpDebugInfo     = "dumpDebugInfo"
	CommandGetResourceStats  = "getResourceStats"
)

// Error is the domain result code returned by every allocator operation. It is distinct
// from transport-level failure: a command can complete at the transport level and still
// report a non-NONE Error.
type Error string

const (
	ErrorNone          Error = "NONE"
	ErrorBadDescriptor Error = "BAD_DESCRIPTOR"
	ErrorBadBuffer     Error = "BAD_BUFFER"
	ErrorBadValue      Error = "BAD_VALUE"
	ErrorNotShared     Error = "NOT_SHARED"
	ErrorNoResources   Error = "NO_RESOURCES"
	ErrorUndefined     Error = "UNDEFINED"
	ErrorUnsupported   Error = "UNSUPPORTED"
)

func (e Error) String() string { return string(e) }

// IsValid returns true if the value is one of the defined result codes.
func (e Error) IsValid() bool {
	switch e {
	case ErrorNone, ErrorBadDescriptor, ErrorBadBuffer, ErrorBadValue,
		ErrorNotShared, ErrorNoResources, ErrorUndefined, ErrorUnsupported:
		return true
	default:
		return false
	}
}

// PixelFormat is the pixel format of a requested buffer.
type PixelFormat string

const (
	PixelFormatRGBA8888 PixelFormat = "RGBA_8888"
	PixelFormatRGBX8888 PixelFormat = "RGBX_8888"
	PixelFormatRGB888   PixelFormat = "RGB_888"
	PixelFormatRGB565   PixelFormat = "RGB_565"
	PixelFormatBGRA8888 PixelFormat = "BGRA_8888"
	PixelFormatYV12     PixelFormat = "YV12"
)

// Producer usage flags, a bitmask describing how the producer will access the buffer.
const (
	ProducerUsageCPURead         uint64 = 1 << 1
	ProducerUsageCPUWrite        uint64 = 1 << 2
	ProducerUsageGPURenderTarget uint64 = 1 << 9
)

// Consumer usage flags, a bitmask describing how the consumer will access the buffer.
const (
	ConsumerUsageCPURead    uint64 = 1 << 1
	ConsumerUsageGPUTexture uint64 = 1 << 8
)

// BufferDescriptorInfo describes the properties of a buffer to be allocated. It is
// constructed by the test and consumed by the allocator to produce a descriptor.
type BufferDescriptorInfo struct {
	Width         uint32      `json:"width"`
	Height        uint32      `json:"height"`
	LayerCount    uint32      `json:"layerCount"`
	Format        PixelFormat `json:"format"`
	ProducerUsage uint64      `json:"producerUsage"`
	ConsumerUsage uint64      `json:"consumerUsage"`
}

// HandleRep is the JSON representation of an exported buffer handle.
type HandleRep struct {
	// ID is an opaque token identifying the handle within the test service.
	ID string `json:"id"`

	NumFds  int `json:"numFds"`
	NumInts int `json:"numInts"`
}

// ResourceStats is the allocator session's live resource accounting, available when the
// service has the resource-accounting capability.
type ResourceStats struct {
	Descriptors    int   `json:"descriptors"`
	Buffers        int   `json:"buffers"`
	AllocatedBytes int64 `json:"allocatedBytes"`
}

// CommandParams is the body of every command POST to an allocator session. Command
// selects the operation; exactly one of the parameter fields should be defined,
// matching the command.
type CommandParams struct {
	Command           string                           `json:"command"`
	CreateDescriptor  o.Maybe[CreateDescriptorParams]  `json:"createDescriptor,omitempty"`
	DestroyDescriptor o.Maybe[DestroyDescriptorParams] `json:"destroyDescriptor,omitempty"`
	TestAllocate      o.Maybe[TestAllocateParams]      `json:"testAllocate,omitempty"`
	Allocate          o.Maybe[AllocateParams]          `json:"allocate,omitempty"`
	Free              o.Maybe[FreeParams]              `json:"free,omitempty"`
	ExportHandle      o.Maybe[ExportHandleParams]      `json:"exportHandle,omitempty"`
	DumpDebugInfo     o.Maybe[DumpDebugInfoParams]     `json:"dumpDebugInfo,omitempty"`
}

type CreateDescriptorParams struct {
	Info BufferDescriptorInfo `json:"info"`
}

type CreateDescriptorResponse struct {
	Error      Error  `json:"error"`
	Descriptor string `json:"descriptor"`
}

type DestroyDescriptorParams struct {
	Descriptor string `json:"descriptor"`
}

type DestroyDescriptorResponse struct {
	Error Error `json:"error"`
}

type TestAllocateParams struct {
	Descriptors []string `json:"descriptors"`
}

type TestAllocateResponse struct {
	Error Error `json:"error"`
}

type AllocateParams struct {
	Descriptors []string `json:"descriptors"`
}

type AllocateResponse struct {
	Error   Error    `json:"error"`
	Buffers []string `json:"buffers"`
}

type FreeParams struct {
	Buffer string `json:"buffer"`
}

type FreeResponse struct {
	Error Error `json:"error"`
}

type ExportHandleParams struct {
	Descriptor string `json:"descriptor"`
	Buffer     string `json:"buffer"`
}

type ExportHandleResponse struct {
	Error  Error     `json:"error"`
	Handle HandleRep `json:"handle"`
}

type DumpDebugInfoParams struct {
	// SinkURL, if set, asks the service to POST the dump text to this URL as well as
	// returning it. Requires the dump-to-endpoint capability.
	SinkURL string `json:"sinkUrl,omitempty"`
}

type DumpDebugInfoResponse struct {
	Error Error  `json:"error"`
	Dump  string `json:"dump"`
}

type ResourceStatsResponse struct {
	Error Error         `json:"error"`
	Stats ResourceStats `json:"stats"`
}
