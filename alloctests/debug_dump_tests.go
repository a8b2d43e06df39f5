package alloctests

import (
	"net/http"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"

	"github.com/hal-conformance/gralloc-test-harness/framework/haltest"
	"github.com/hal-conformance/gralloc-test-harness/framework/harness"
	"github.com/hal-conformance/gralloc-test-harness/servicedef"
)

func doDebugDumpTests(t *haltest.T) {
	t.Run("dumpDebugInfo succeeds", func(t *haltest.T) {
		allocator := NewAllocatorSession(t)

		// The dump contents are implementation-defined; only the result code matters
		resp := allocator.DumpDebugInfo(t, servicedef.DumpDebugInfoParams{})
		assert.Equal(t, servicedef.ErrorNone, resp.Error)
	})

	t.Run("dump is delivered to a sink endpoint", func(t *haltest.T) {
		t.RequireCapability(servicedef.CapabilityDumpToEndpoint)

		sink := requireContext(t).harness.NewMockEndpoint(
			httphelpers.HandlerWithStatus(http.StatusOK), t.DebugLogger(),
			harness.MockEndpointDescription("dump sink"))
		t.Defer(sink.Close)

		allocator := NewAllocatorSession(t)
		// create something so the dump has state to describe
		allocator.MustCreateDescriptor(t, DefaultDescriptorInfo())

		resp := allocator.DumpDebugInfo(t, servicedef.DumpDebugInfoParams{SinkURL: sink.BaseURL()})
		assert.Equal(t, servicedef.ErrorNone, resp.Error)

		request := sink.RequireRequest(t, time.Second*5)
		assert.Equal(t, "POST", request.Method)
		assert.Equal(t, resp.Dump, string(request.Body),
			"dump delivered to the sink did not match the dump returned inline")
	})
}
