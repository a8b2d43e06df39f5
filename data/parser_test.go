package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parseTarget struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestParseJSON(t *testing.T) {
	var target parseTarget
	require.NoError(t, ParseJSONOrYAML([]byte(`{"name": "x", "count": 2}`), &target))
	assert.Equal(t, parseTarget{Name: "x", Count: 2}, target)
}

func TestParseYAML(t *testing.T) {
	var target parseTarget
	require.NoError(t, ParseJSONOrYAML([]byte("name: x\ncount: 2\n"), &target))
	assert.Equal(t, parseTarget{Name: "x", Count: 2}, target)
}

func TestParseMalformed(t *testing.T) {
	var target parseTarget
	assert.Error(t, ParseJSONOrYAML([]byte(": not valid: ["), &target))
}

func TestExpandConstants(t *testing.T) {
	input := []byte(`
constants:
  WIDTH: 64
name: fixed
count: <WIDTH>
`)
	sources, err := expandSubstitutions(input)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	var target parseTarget
	require.NoError(t, sources[0].ParseInto(&target))
	assert.Equal(t, 64, target.Count)
}

func TestExpandParameters(t *testing.T) {
	input := []byte(`
parameters:
  - NAME: "a"
  - NAME: "b"
name: "<NAME>"
count: 1
`)
	sources, err := expandSubstitutions(input)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	var names []string
	for _, s := range sources {
		var target parseTarget
		require.NoError(t, s.ParseInto(&target))
		names = append(names, target.Name)
	}
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestExpandParameterCrossProduct(t *testing.T) {
	input := []byte(`
parameters:
  - - NAME: "a"
    - NAME: "b"
  - - COUNT: 1
    - COUNT: 2
name: "<NAME>"
count: <COUNT>
`)
	sources, err := expandSubstitutions(input)
	require.NoError(t, err)
	assert.Len(t, sources, 4)
}

func TestStringInterpolationInsideLargerString(t *testing.T) {
	input := []byte(`
parameters:
  - FORMAT: "RGB_565"
name: "64x64 <FORMAT> cpu"
count: 1
`)
	sources, err := expandSubstitutions(input)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	var target parseTarget
	require.NoError(t, sources[0].ParseInto(&target))
	assert.Equal(t, "64x64 RGB_565 cpu", target.Name)
}
