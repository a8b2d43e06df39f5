package harness

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hal-conformance/gralloc-test-harness/framework"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestHarnessPicksEphemeralPort(t *testing.T) {
	statusJSON, err := json.Marshal(TestServiceInfoBase{Name: "fake-allocator", HALVersion: "2.0"})
	require.NoError(t, err)
	statusHandler := httphelpers.HandlerWithResponse(200, nil, statusJSON)

	httphelpers.WithServer(statusHandler, func(server *httptest.Server) {
		h, err := NewTestHarness(server.URL, "localhost", 0, time.Second*5,
			framework.NullLogger(), io.Discard)
		require.NoError(t, err)
		assert.NotZero(t, h.Port())
		assert.Equal(t, "fake-allocator", h.TestServiceInfo().Name)

		// the endpoint's external URL must use the port the listener actually got
		e := h.NewMockEndpoint(httphelpers.HandlerWithStatus(204), framework.NullLogger())
		resp, err := http.Get(e.BaseURL())
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, 204, resp.StatusCode)
	})
}
