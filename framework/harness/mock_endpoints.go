package harness

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hal-conformance/gralloc-test-harness/framework"
	"github.com/hal-conformance/gralloc-test-harness/framework/helpers"
)

const endpointPathPrefix = "/endpoints/"

// Buffer size for the channel that we use as a queue for incoming request information.
// If the channel is full, the HTTP request handler will not block; it will just discard
// the information.
const incomingRequestChannelBufferSize = 10

type mockEndpointsManager struct {
	endpoints       map[string]*MockEndpoint
	lastEndpointID  int
	externalBaseURL string
	logger          framework.Logger
	lock            sync.Mutex
}

// MockEndpoint is a URL within the test harness's own HTTP listener that the test
// service can be told to send requests to, such as a debug dump sink.
type MockEndpoint struct {
	owner       *mockEndpointsManager
	id          string
	description string
	basePath    string
	handler     http.Handler
	requests    chan IncomingRequestInfo
	logger      framework.Logger
	lock        sync.Mutex
	closing     sync.Once
}

// MockEndpointOption is the interface for options to TestHarness.NewMockEndpoint.
type MockEndpointOption helpers.ConfigOption[MockEndpoint]

type mockEndpointOptionDescription struct {
	description string
}

func (o mockEndpointOptionDescription) Configure(m *MockEndpoint) error {
	m.description = o.description
	return nil
}

// MockEndpointDescription gives a mock endpoint a name to be used in debug output.
func MockEndpointDescription(description string) MockEndpointOption {
	return mockEndpointOptionDescription{description}
}

// IncomingRequestInfo contains information about an HTTP request sent by the test
// service to one of the mock endpoints.
type IncomingRequestInfo struct {
	Headers http.Header
	Method  string
	URL     url.URL
	Body    []byte
}

func newMockEndpointsManager(externalBaseURL string, logger framework.Logger) *mockEndpointsManager {
	return &mockEndpointsManager{
		endpoints:       make(map[string]*MockEndpoint),
		externalBaseURL: externalBaseURL,
		logger:          logger,
	}
}

func (m *mockEndpointsManager) newMockEndpoint(
	handler http.Handler,
	logger framework.Logger,
	options ...MockEndpointOption,
) *MockEndpoint {
	if logger == nil {
		logger = m.logger
	}
	e := &MockEndpoint{
		owner:    m,
		handler:  handler,
		requests: make(chan IncomingRequestInfo, incomingRequestChannelBufferSize),
		logger:   logger,
	}
	_ = helpers.ApplyOptions(e, options...)
	m.lock.Lock()
	m.lastEndpointID++
	e.id = strconv.Itoa(m.lastEndpointID)
	e.basePath = endpointPathPrefix + e.id
	m.endpoints[e.id] = e
	m.lock.Unlock()

	return e
}

func (m *mockEndpointsManager) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, endpointPathPrefix) {
		m.logger.Printf("Received request for unrecognized URL path %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, endpointPathPrefix)
	var endpointID string
	if slashPos := strings.Index(path, "/"); slashPos >= 0 {
		endpointID = path[0:slashPos]
		path = path[slashPos:]
	} else {
		endpointID = path
		path = "/"
	}

	m.lock.Lock()
	e := m.endpoints[endpointID]
	m.lock.Unlock()
	if e == nil {
		m.logger.Printf("Received request for unrecognized endpoint %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var body []byte
	if r.Body != nil {
		data, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err != nil {
			m.logger.Printf("Unexpected error trying to read request body: %s", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body = data
	}

	// The handler sees only the subpath below the endpoint's base URL.
	transformedReq := r.Clone(r.Context())
	subURL := *r.URL
	subURL.Path = path
	transformedReq.URL = &subURL
	if body != nil {
		transformedReq.Body = io.NopCloser(bytes.NewBuffer(body))
	}

	incoming := IncomingRequestInfo{
		Headers: r.Header,
		Method:  r.Method,
		URL:     subURL,
		Body:    body,
	}
	if !helpers.NonBlockingSend(e.requests, incoming) {
		e.logger.Printf("Incoming request channel was full for %s", r.URL)
	}

	e.handler.ServeHTTP(w, transformedReq)
}

func (m *mockEndpointsManager) removeEndpoint(e *MockEndpoint) {
	m.lock.Lock()
	delete(m.endpoints, e.id)
	m.lock.Unlock()
}

// BaseURL returns the external base URL of the endpoint.
func (e *MockEndpoint) BaseURL() string {
	return e.owner.externalBaseURL + e.basePath
}

// AwaitRequest waits for the test service to send a request to the endpoint. It returns
// an error if the timeout elapses first.
func (e *MockEndpoint) AwaitRequest(timeout time.Duration) (IncomingRequestInfo, error) {
	maybeReq := helpers.TryReceive(e.requests, timeout)
	if !maybeReq.IsDefined() {
		return IncomingRequestInfo{}, fmt.Errorf("timed out waiting for request to %q endpoint", e.description)
	}
	return maybeReq.Value(), nil
}

// RequireRequest is AwaitRequest for use inside a test scope: a timeout fails and
// terminates the test.
func (e *MockEndpoint) RequireRequest(t helpers.TestContext, timeout time.Duration) IncomingRequestInfo {
	t.Helper()
	return helpers.RequireValueWithMessage(t, e.requests, timeout,
		"timed out waiting for request to %q endpoint", e.description)
}

// Close unregisters the endpoint. Any further requests to it will return 404.
func (e *MockEndpoint) Close() {
	e.closing.Do(func() {
		e.owner.removeEndpoint(e)
	})
}
