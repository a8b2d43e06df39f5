package harness

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hal-conformance/gralloc-test-harness/framework"
)

const httpListenerTimeout = time.Second * 10

// TestHarness is the main component that manages communication with the allocator test
// service.
//
// It always communicates with a single test service, which it verifies is alive on
// startup. It can then create any number of allocator sessions within the test service
// (NewTestServiceEntity) and any number of callback endpoints for the test service to
// interact with (NewMockEndpoint).
//
// It contains no domain-specific test logic, but only provides a general mechanism for
// test suites to build on.
type TestHarness struct {
	testServiceBaseURL string
	testServiceInfo    TestServiceInfo
	mockEndpoints      *mockEndpointsManager
	port               int
	logger             framework.Logger
}

// NewTestHarness creates a TestHarness instance, and verifies that the test service is
// responding by querying its status resource. It also starts an HTTP listener on the
// specified port to receive callback requests; a port of 0 selects an arbitrary
// available port, which Port() then reports.
func NewTestHarness(
	testServiceBaseURL string,
	testHarnessExternalHostname string,
	testHarnessPort int,
	statusQueryTimeout time.Duration,
	debugLogger framework.Logger,
	startupOutput io.Writer,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}

	h := &TestHarness{
		testServiceBaseURL: testServiceBaseURL,
		logger:             debugLogger,
	}

	testServiceInfo, err := queryTestServiceInfo(testServiceBaseURL, statusQueryTimeout, startupOutput)
	if err != nil {
		return nil, err
	}
	h.testServiceInfo = testServiceInfo

	port, err := startServer(testHarnessPort, http.HandlerFunc(h.serveHTTP))
	if err != nil {
		return nil, err
	}
	h.port = port
	h.mockEndpoints = newMockEndpointsManager(
		fmt.Sprintf("http://%s:%d", testHarnessExternalHostname, port), debugLogger)

	return h, nil
}

// TestServiceInfo returns the initial status information received from the test service.
func (h *TestHarness) TestServiceInfo() TestServiceInfo {
	return h.testServiceInfo
}

// Port returns the port the harness's own HTTP listener is bound to.
func (h *TestHarness) Port() int {
	return h.port
}

// NewMockEndpoint adds a new endpoint that can receive requests.
//
// The specified handler will be called for all incoming requests to the endpoint's base
// URL or any subpath of it. For instance, if the generated base URL (as reported by
// MockEndpoint.BaseURL()) is http://localhost:8222/endpoints/3, then it can also receive
// requests to http://localhost:8222/endpoints/3/some/subpath.
//
// When the handler is called, the test harness rewrites the request URL first so that
// the handler sees only the subpath.
func (h *TestHarness) NewMockEndpoint(
	handler http.Handler,
	logger framework.Logger,
	options ...MockEndpointOption,
) *MockEndpoint {
	if logger == nil {
		logger = h.logger
	}
	return h.mockEndpoints.newMockEndpoint(handler, logger, options...)
}

func (h *TestHarness) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == "HEAD" {
		w.WriteHeader(200) // we use this to test whether our own listener is active yet
		return
	}
	// Only our own HEAD checks arrive before mockEndpoints is set during startup
	if h.mockEndpoints == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	h.mockEndpoints.serveHTTP(w, r)
}

func startServer(port int, handler http.Handler) (int, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return 0, err
	}
	boundPort := listener.Addr().(*net.TCPAddr).Port
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // arbitrary but non-infinite timeout to avoid Slowloris Attack
	}
	go func() {
		if err := server.Serve(listener); err != nil {
			panic(err)
		}
	}()

	// Wait till the server is definitely listening for requests before we run any tests
	deadline := time.NewTimer(httpListenerTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()
	for {
		select {
		case <-deadline.C:
			return 0, fmt.Errorf("could not detect own listener on port %d", boundPort)
		case <-ticker.C:
			_, _, err := doRequest("HEAD", fmt.Sprintf("http://localhost:%d", boundPort), nil)
			if err == nil {
				return boundPort, nil
			}
		}
	}
}
