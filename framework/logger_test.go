package framework

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturingLogger(t *testing.T) {
	var l CapturingLogger
	l.Printf("message %d", 1)
	l.Println("message", 2)

	output := l.Output()
	require.Len(t, output, 2)
	assert.Equal(t, "message 1", output[0].Message)
	assert.Equal(t, "message 2", output[1].Message)

	for _, line := range strings.Split(output.ToString("> "), "\n") {
		assert.True(t, strings.HasPrefix(line, "> "), "line %q was not prefixed", line)
	}
}

func TestLoggerWithPrefix(t *testing.T) {
	var base CapturingLogger
	l := LoggerWithPrefix(&base, "[scope]")
	l.Printf(" did %s", "something")
	l.Println("done")

	output := base.Output()
	require.Len(t, output, 2)
	assert.Equal(t, "[scope] did something", output[0].Message)
	assert.Equal(t, "[scope] done", output[1].Message)
}
