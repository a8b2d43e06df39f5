package alloctests

import (
	"github.com/stretchr/testify/require"

	"github.com/hal-conformance/gralloc-test-harness/framework/haltest"
	"github.com/hal-conformance/gralloc-test-harness/framework/harness"
	o "github.com/hal-conformance/gralloc-test-harness/framework/opt"
	"github.com/hal-conformance/gralloc-test-harness/servicedef"
)

// Allocator is a test fixture representing one allocator session within the test
// service. All of its methods correspond to commands in the session protocol; a
// transport-level failure in any of them causes the test to terminate immediately,
// whereas the domain result code is returned to the test for inspection.
type Allocator struct {
	sessionEntity *harness.TestServiceEntity
}

// NewAllocatorSession asks the test service to open an allocator session, and schedules
// its teardown for when the test scope exits.
func NewAllocatorSession(t *haltest.T) *Allocator {
	params := servicedef.CreateSessionParams{
		ServiceName: defaultServiceName,
		Tag:         t.ID().String(),
	}

	session, err := requireContext(t).harness.NewTestServiceEntity(params, "allocator session", t.DebugLogger())
	require.NoError(t, err)

	t.Defer(func() {
		_ = session.Close()
	})

	return &Allocator{sessionEntity: session}
}

// CreateDescriptor tells the allocator to create a buffer descriptor. The returned
// descriptor ID is only meaningful if the result code is NONE.
func (a *Allocator) CreateDescriptor(
	t *haltest.T,
	info servicedef.BufferDescriptorInfo,
) (string, servicedef.Error) {
	var resp servicedef.CreateDescriptorResponse
	require.NoError(t, a.sessionEntity.SendCommandWithParams(
		servicedef.CommandParams{
			Command:          servicedef.CommandCreateDescriptor,
			CreateDescriptor: o.Some(servicedef.CreateDescriptorParams{Info: info}),
		},
		t.DebugLogger(),
		&resp,
	))
	return resp.Descriptor, resp.Error
}

// DestroyDescriptor tells the allocator to destroy a descriptor.
func (a *Allocator) DestroyDescriptor(t *haltest.T, descriptor string) servicedef.Error {
	var resp servicedef.DestroyDescriptorResponse
	require.NoError(t, a.sessionEntity.SendCommandWithParams(
		servicedef.CommandParams{
			Command:           servicedef.CommandDestroyDescriptor,
			DestroyDescriptor: o.Some(servicedef.DestroyDescriptorParams{Descriptor: descriptor}),
		},
		t.DebugLogger(),
		&resp,
	))
	return resp.Error
}

// TestAllocate asks the allocator whether the descriptor set could be allocated, without
// committing any memory. Requires the test-allocate capability.
func (a *Allocator) TestAllocate(t *haltest.T, descriptors []string) servicedef.Error {
	var resp servicedef.TestAllocateResponse
	require.NoError(t, a.sessionEntity.SendCommandWithParams(
		servicedef.CommandParams{
			Command:      servicedef.CommandTestAllocate,
			TestAllocate: o.Some(servicedef.TestAllocateParams{Descriptors: descriptors}),
		},
		t.DebugLogger(),
		&resp,
	))
	return resp.Error
}

// Allocate tells the allocator to allocate buffers for the descriptor set.
func (a *Allocator) Allocate(t *haltest.T, descriptors []string) ([]string, servicedef.Error) {
	var resp servicedef.AllocateResponse
	require.NoError(t, a.sessionEntity.SendCommandWithParams(
		servicedef.CommandParams{
			Command:  servicedef.CommandAllocate,
			Allocate: o.Some(servicedef.AllocateParams{Descriptors: descriptors}),
		},
		t.DebugLogger(),
		&resp,
	))
	return resp.Buffers, resp.Error
}

// Free tells the allocator to release a buffer.
func (a *Allocator) Free(t *haltest.T, buffer string) servicedef.Error {
	var resp servicedef.FreeResponse
	require.NoError(t, a.sessionEntity.SendCommandWithParams(
		servicedef.CommandParams{
			Command: servicedef.CommandFree,
			Free:    o.Some(servicedef.FreeParams{Buffer: buffer}),
		},
		t.DebugLogger(),
		&resp,
	))
	return resp.Error
}

// ExportHandle asks the allocator for a client-usable handle to a buffer.
func (a *Allocator) ExportHandle(
	t *haltest.T,
	descriptor, buffer string,
) (servicedef.HandleRep, servicedef.Error) {
	var resp servicedef.ExportHandleResponse
	require.NoError(t, a.sessionEntity.SendCommandWithParams(
		servicedef.CommandParams{
			Command:      servicedef.CommandExportHandle,
			ExportHandle: o.Some(servicedef.ExportHandleParams{Descriptor: descriptor, Buffer: buffer}),
		},
		t.DebugLogger(),
		&resp,
	))
	return resp.Handle, resp.Error
}

// DumpDebugInfo asks the allocator for its diagnostic dump.
func (a *Allocator) DumpDebugInfo(t *haltest.T, params servicedef.DumpDebugInfoParams) servicedef.DumpDebugInfoResponse {
	var resp servicedef.DumpDebugInfoResponse
	require.NoError(t, a.sessionEntity.SendCommandWithParams(
		servicedef.CommandParams{
			Command:       servicedef.CommandDumpDebugInfo,
			DumpDebugInfo: o.Some(params),
		},
		t.DebugLogger(),
		&resp,
	))
	return resp
}

// ResourceStats asks the allocator for its live resource counts. Requires the
// resource-accounting capability.
func (a *Allocator) ResourceStats(t *haltest.T) servicedef.ResourceStatsResponse {
	var resp servicedef.ResourceStatsResponse
	require.NoError(t, a.sessionEntity.SendCommand(
		servicedef.CommandGetResourceStats,
		t.DebugLogger(),
		&resp,
	))
	return resp
}

// SessionURL returns the session's resource URL within the test service.
func (a *Allocator) SessionURL() string {
	return a.sessionEntity.ResourceURL()
}

// ScopedDescriptor is a descriptor that is automatically destroyed when the test scope
// that created it exits.
type ScopedDescriptor struct {
	ID string
}

// MustCreateDescriptor creates a descriptor that will be destroyed when the test scope
// exits, failing the test immediately if creation does not return NONE.
func (a *Allocator) MustCreateDescriptor(
	t *haltest.T,
	info servicedef.BufferDescriptorInfo,
) ScopedDescriptor {
	descriptor, halErr := a.CreateDescriptor(t, info)
	if halErr != servicedef.ErrorNone {
		require.FailNow(t, "could not create descriptor", "allocator returned %s for %+v", halErr, info)
	}
	t.Defer(func() {
		// best-effort cleanup; the test may have already destroyed it
		_ = a.sessionEntity.SendCommandWithParams(
			servicedef.CommandParams{
				Command:           servicedef.CommandDestroyDescriptor,
				DestroyDescriptor: o.Some(servicedef.DestroyDescriptorParams{Descriptor: descriptor}),
			},
			nil, nil,
		)
	})
	return ScopedDescriptor{ID: descriptor}
}
