package alloctests

import (
	"github.com/hal-conformance/gralloc-test-harness/framework/haltest"
	"github.com/hal-conformance/gralloc-test-harness/framework/harness"
)

// RunAllocatorTestSuite runs the full conformance suite against the test service that
// the harness is connected to, returning the aggregated results.
func RunAllocatorTestSuite(
	testHarness *harness.TestHarness,
	filter haltest.Filter,
	testLogger haltest.TestLogger,
) haltest.Results {
	config := haltest.TestConfiguration{
		Filter:       filter,
		TestLogger:   testLogger,
		Capabilities: testHarness.TestServiceInfo().Capabilities,
		Context: AllocatorTestContext{
			harness: testHarness,
		},
	}

	return haltest.Run(config, func(t *haltest.T) {
		t.Run("service status", doServiceStatusTests)
		t.Run("descriptors", doDescriptorTests)
		t.Run("test allocation", doTestAllocateTests)
		t.Run("allocation", doAllocateTests)
		t.Run("buffer export", doExportHandleTests)
		t.Run("debug dump", doDebugDumpTests)
		t.Run("resource accounting", doResourceStatsTests)
		t.Run("allocation events", doAllocationEventTests)
	})
}
