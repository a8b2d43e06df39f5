package alloctests

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/launchdarkly/eventsource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal-conformance/gralloc-test-harness/framework/haltest"
	"github.com/hal-conformance/gralloc-test-harness/framework/helpers"
	"github.com/hal-conformance/gralloc-test-harness/servicedef"
)

const eventTimeout = time.Second * 5

// allocationEventRep is the JSON body of events on a session's event stream.
type allocationEventRep struct {
	Buffer string `json:"buffer"`
	Size   int64  `json:"size"`
}

func doAllocationEventTests(t *haltest.T) {
	t.RequireCapability(servicedef.CapabilityAllocationEvents)

	t.Run("one allocate event per buffer and one free event per free", func(t *haltest.T) {
		allocator := NewAllocatorSession(t)
		descriptor := allocator.MustCreateDescriptor(t, DefaultDescriptorInfo())

		stream := subscribeToSessionEvents(t, allocator)

		buffers, halErr := allocator.Allocate(t, []string{descriptor.ID, descriptor.ID})
		isSuccess().Require(t, halErr)
		require.Len(t, buffers, 2)

		allocated := make(map[string]bool)
		for range buffers {
			event := requireStreamEvent(t, stream)
			require.Equal(t, "allocate", event.Event())
			rep := parseAllocationEvent(t, event)
			assert.False(t, allocated[rep.Buffer], "duplicate allocate event for buffer %s", rep.Buffer)
			assert.Greater(t, rep.Size, int64(0), "allocate event did not report a buffer size")
			allocated[rep.Buffer] = true
		}
		for _, buffer := range buffers {
			assert.True(t, allocated[buffer], "no allocate event was seen for buffer %s", buffer)
		}

		require.Equal(t, servicedef.ErrorNone, allocator.Free(t, buffers[0]))
		event := requireStreamEvent(t, stream)
		require.Equal(t, "free", event.Event())
		assert.Equal(t, buffers[0], parseAllocationEvent(t, event).Buffer)

		require.Equal(t, servicedef.ErrorNone, allocator.Free(t, buffers[1]))
		event = requireStreamEvent(t, stream)
		require.Equal(t, "free", event.Event())
		assert.Equal(t, buffers[1], parseAllocationEvent(t, event).Buffer)
	})

	t.Run("no events for failed allocations", func(t *haltest.T) {
		allocator := NewAllocatorSession(t)
		stream := subscribeToSessionEvents(t, allocator)

		_, halErr := allocator.Allocate(t, []string{"no-such-descriptor"})
		require.NotEqual(t, servicedef.ErrorNone, halErr)

		helpers.RequireNoMoreValues(t, stream.Events, time.Millisecond*200)
	})
}

func subscribeToSessionEvents(t *haltest.T, allocator *Allocator) *eventsource.Stream {
	req, err := http.NewRequest("GET", allocator.SessionURL()+"/events", nil)
	require.NoError(t, err)
	stream, err := eventsource.SubscribeWithRequest("", req)
	require.NoError(t, err)
	t.Defer(stream.Close)
	return stream
}

func requireStreamEvent(t *haltest.T, stream *eventsource.Stream) eventsource.Event {
	t.Helper()
	return helpers.RequireValueWithMessage(t, stream.Events, eventTimeout,
		"timed out waiting for an event on the session's event stream")
}

func parseAllocationEvent(t *haltest.T, event eventsource.Event) allocationEventRep {
	t.Helper()
	var rep allocationEventRep
	require.NoError(t, json.Unmarshal([]byte(event.Data()), &rep))
	return rep
}
