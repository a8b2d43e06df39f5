package opt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaybeValue(t *testing.T) {
	assert.False(t, None[int]().IsDefined())
	assert.Equal(t, 0, None[int]().Value())
	assert.Equal(t, 3, None[int]().OrElse(3))

	assert.True(t, Some(2).IsDefined())
	assert.Equal(t, 2, Some(2).Value())
	assert.Equal(t, 2, Some(2).OrElse(3))
}

func TestMaybeString(t *testing.T) {
	assert.Equal(t, "[none]", None[string]().String())
	assert.Equal(t, "x", Some("x").String())
}

func TestMaybeJSON(t *testing.T) {
	data, err := json.Marshal(Some("hi"))
	require.NoError(t, err)
	assert.Equal(t, `"hi"`, string(data))

	data, err = json.Marshal(None[string]())
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))

	var m Maybe[string]
	require.NoError(t, json.Unmarshal([]byte(`"hi"`), &m))
	assert.Equal(t, Some("hi"), m)

	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.False(t, m.IsDefined())
}
