package data

import (
	"fmt"

	"github.com/hal-conformance/gralloc-test-harness/servicedef"
)

// DescriptorFixture is one buffer descriptor variant defined by a fixture file.
type DescriptorFixture struct {
	// Name identifies the fixture in test scope names.
	Name string `json:"name"`

	// RequiredCapabilities lists capabilities the service must report for this fixture
	// to be usable; tests using the fixture are skipped otherwise.
	RequiredCapabilities []string `json:"requiredCapabilities,omitempty"`

	// Info is the descriptor info to submit to createDescriptor.
	Info servicedef.BufferDescriptorInfo `json:"info"`
}

// LoadDescriptorFixtures reads every descriptor fixture defined in the named file under
// data-files, one fixture per expanded SourceInfo instance.
func LoadDescriptorFixtures(path string) ([]DescriptorFixture, error) {
	sources, err := LoadDataFile(path)
	if err != nil {
		return nil, err
	}
	ret := make([]DescriptorFixture, 0, len(sources))
	for _, source := range sources {
		var fixture DescriptorFixture
		if err := source.ParseInto(&fixture); err != nil {
			return nil, err
		}
		if fixture.Name == "" {
			return nil, fmt.Errorf("fixture in %q %s has no name", source.BaseName, source.ParamsString())
		}
		if fixture.Info.Width == 0 || fixture.Info.Height == 0 {
			return nil, fmt.Errorf("fixture %q has zero dimensions", fixture.Name)
		}
		ret = append(ret, fixture)
	}
	return ret, nil
}
