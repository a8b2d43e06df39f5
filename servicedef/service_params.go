package servicedef

import "github.com/hal-conformance/gralloc-test-harness/framework/harness"

const (
	// CapabilityTestAllocate means the allocator supports the testAllocate feasibility
	// pre-check without committing memory.
	CapabilityTestAllocate = "test-allocate"

	// CapabilityLayeredBuffers means the allocator supports descriptors with a layer
	// count greater than one.
	CapabilityLayeredBuffers = "layered-buffers"

	// CapabilityResourceAccounting means the allocator session reports live descriptor
	// and buffer counts via the getResourceStats command.
	CapabilityResourceAccounting = "resource-accounting"

	// CapabilityDumpToEndpoint means dumpDebugInfo can POST the dump text to a
	// harness-provided sink URL instead of only returning it inline.
	CapabilityDumpToEndpoint = "dump-to-endpoint"

	// CapabilityAllocationEvents means the session exposes an SSE stream of allocate and
	// free events at its /events subresource.
	CapabilityAllocationEvents = "allocation-events"
)

// AllCapabilities returns every capability name known to this version of the harness.
// Services may report additional vendor capabilities, which the harness ignores.
func AllCapabilities() []string {
	return []string{
		CapabilityTestAllocate,
		CapabilityLayeredBuffers,
		CapabilityResourceAccounting,
		CapabilityDumpToEndpoint,
		CapabilityAllocationEvents,
	}
}

// StatusRep is the JSON representation returned by the test service's status resource.
type StatusRep struct {
	harness.TestServiceInfoBase
	VendorVersion string `json:"vendorVersion,omitempty"`
}

// CreateSessionParams is the body of the POST request that creates an allocator session.
type CreateSessionParams struct {
	// ServiceName is the registered name of the HAL service instance to bind, normally
	// "gralloc".
	ServiceName string `json:"serviceName"`

	// Tag identifies the test that owns the session, for the service's own logging.
	Tag string `json:"tag"`
}
