package alloctests

import (
	"fmt"

	"github.com/stretchr/testify/require"

	"github.com/hal-conformance/gralloc-test-harness/data"
	"github.com/hal-conformance/gralloc-test-harness/framework/haltest"
	m "github.com/hal-conformance/gralloc-test-harness/framework/matchers"
	"github.com/hal-conformance/gralloc-test-harness/servicedef"
)

func mustLoadDescriptorFixtures(t *haltest.T, path string) []data.DescriptorFixture {
	fixtures, err := data.LoadDescriptorFixtures(path)
	require.NoError(t, err)
	require.NotEmpty(t, fixtures)
	return fixtures
}

// allDescriptorFixtures returns the standard fixtures plus the layered ones. Fixtures
// whose required capabilities the service lacks are skipped inside their own subtest, so
// the skip is visible in the results.
func allDescriptorFixtures(t *haltest.T) []data.DescriptorFixture {
	fixtures := mustLoadDescriptorFixtures(t, "descriptors/basic.yaml")
	return append(fixtures, mustLoadDescriptorFixtures(t, "descriptors/layered.yaml")...)
}

// runForEachFixture runs the action as a subtest per fixture, applying the fixture's
// capability requirements first.
func runForEachFixture(
	t *haltest.T,
	fixtures []data.DescriptorFixture,
	action func(*haltest.T, data.DescriptorFixture),
) {
	for _, fixture := range fixtures {
		fixture := fixture
		t.Run(fixture.Name, func(t *haltest.T) {
			if !t.Capabilities().HasAll(fixture.RequiredCapabilities...) {
				t.SkipWithReason(fmt.Sprintf("test service does not have capabilities %v",
					fixture.RequiredCapabilities))
			}
			action(t, fixture)
		})
	}
}

// isSuccess matches the result codes that count as a successful allocation: NONE, or
// NOT_SHARED when the allocator satisfied the request with non-shared buffers.
func isSuccess() m.Matcher {
	return m.AnyOf(
		m.Equal(servicedef.ErrorNone),
		m.Equal(servicedef.ErrorNotShared),
	)
}
