package alloctests

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal-conformance/gralloc-test-harness/framework"
	"github.com/hal-conformance/gralloc-test-harness/framework/haltest"
	"github.com/hal-conformance/gralloc-test-harness/framework/harness"
	"github.com/hal-conformance/gralloc-test-harness/mockhal"
	"github.com/hal-conformance/gralloc-test-harness/servicedef"
)

func runSuiteAgainstMock(t *testing.T, capabilities []string) haltest.Results {
	service := mockhal.NewService(mockhal.ServiceOptions{
		VendorVersion: "mock-1.0",
		Capabilities:  framework.Capabilities(capabilities),
	}, framework.NullLogger())

	var results haltest.Results
	httphelpers.WithServer(service, func(server *httptest.Server) {
		// port 0: each run's callback listener binds its own ephemeral port
		h, err := harness.NewTestHarness(server.URL, "localhost", 0,
			time.Second*5, framework.NullLogger(), io.Discard)
		require.NoError(t, err)

		results = RunAllocatorTestSuite(h, nil, nil)
	})
	return results
}

func TestSuitePassesAgainstMockWithAllCapabilities(t *testing.T) {
	results := runSuiteAgainstMock(t, servicedef.AllCapabilities())
	for _, failure := range results.Failures {
		t.Errorf("unexpected failure in %q: %v", failure.TestID, failure.Errors)
	}
	assert.Greater(t, len(results.Tests), 10, "suite ran fewer tests than expected")
}

func TestSuitePassesAgainstMinimalMock(t *testing.T) {
	// With no optional capabilities, the gated tests must skip rather than fail
	results := runSuiteAgainstMock(t, nil)
	for _, failure := range results.Failures {
		t.Errorf("unexpected failure in %q: %v", failure.TestID, failure.Errors)
	}
}
