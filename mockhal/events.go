package mockhal

import (
	"encoding/json"
	"fmt"

	"github.com/hal-conformance/gralloc-test-harness/framework"

	"github.com/launchdarkly/eventsource"
)

// Event types published on a session's event stream when the service has the
// allocation-events capability.
const (
	EventKindAllocate = "allocate"
	EventKindFree     = "free"
)

// AllocationEventData is the JSON body of an allocation event.
type AllocationEventData struct {
	Buffer string `json:"buffer"`
	Size   int64  `json:"size,omitempty"`
}

type allocationEvent struct {
	kind string
	data AllocationEventData
}

func (e allocationEvent) Event() string { return e.kind }
func (e allocationEvent) Id() string    { return "" } //nolint:stylecheck
func (e allocationEvent) Data() string {
	bytes, _ := json.Marshal(e.data)
	return string(bytes)
}

type eventSourceDebugLogger struct {
	logger framework.Logger
}

func (l eventSourceDebugLogger) Println(args ...interface{}) {
	l.logger.Printf("%s", fmt.Sprintln(args...))
}

func (l eventSourceDebugLogger) Printf(format string, args ...interface{}) {
	l.logger.Printf(format, args...)
}

func newEventServer(logger framework.Logger) *eventsource.Server {
	events := eventsource.NewServer()
	events.Logger = eventSourceDebugLogger{logger}
	return events
}

func sessionChannel(sessionID string) string {
	return "session-" + sessionID
}

func (s *Service) publishAllocations(sess *session, buffers []string) {
	if s.events == nil {
		return
	}
	for _, buffer := range buffers {
		event := allocationEvent{
			kind: EventKindAllocate,
			data: AllocationEventData{Buffer: buffer, Size: sess.allocator.bufferSizeOf(buffer)},
		}
		s.logger.Printf("[session %s] publishing %s event: %s", sess.id, event.Event(), event.Data())
		s.events.Publish([]string{sessionChannel(sess.id)}, event)
	}
}

func (s *Service) publishFree(sess *session, buffer string) {
	if s.events == nil {
		return
	}
	event := allocationEvent{kind: EventKindFree, data: AllocationEventData{Buffer: buffer}}
	s.logger.Printf("[session %s] publishing %s event: %s", sess.id, event.Event(), event.Data())
	s.events.Publish([]string{sessionChannel(sess.id)}, event)
}
