package routers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"oceangpt-api/internal/backend"
	"oceangpt-api/internal/handlers/gateway"
	"oceangpt-api/internal/middleware"
	"oceangpt-api/internal/routers"
	"oceangpt-api/internal/shared"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubInferer struct {
	mu       sync.Mutex
	payloads []shared.BackendPayload
	respond  func(payload shared.BackendPayload) backend.Result
}

func (s *stubInferer) Infer(_ context.Context, _ string, payload shared.BackendPayload) backend.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
	if s.respond != nil {
		return s.respond(payload)
	}
	return backend.Success("ok")
}

func (s *stubInferer) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

// newGateway builds the same middleware and route stack main assembles.
func newGateway(stub *stubInferer) *echo.Echo {
	log := zap.NewNop().Sugar()
	e := echo.New()
	base := e.Group("")
	base.Use(middleware.NewRecoverMiddleware(log))
	base.Use(middleware.NewTrackMiddleware(log))
	routers.RegisterGatewayRoutes(base, gateway.NewHandler(stub, "", log), log)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoints(t *testing.T) {
	// The stub always fails so a health check that touched the backend
	// would be visible.
	stub := &stubInferer{respond: func(shared.BackendPayload) backend.Result {
		return backend.ConnectionFailure("backend is down")
	}}
	e := newGateway(stub)

	for _, path := range []string{"/", "/health"} {
		rec := doJSON(e, http.MethodGet, path, "")

		require.Equal(t, http.StatusOK, rec.Code, path)
		var body shared.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, shared.ServiceName, body.Service)
		assert.Equal(t, shared.ServiceVersion, body.Version)
	}
	assert.Equal(t, 0, stub.calls())
}

func TestValidationFailureMakesNoBackendCall(t *testing.T) {
	stub := &stubInferer{}
	e := newGateway(stub)

	cases := []string{
		`{"prompt":""}`,
		`{"prompt":"  \t  "}`,
		`{"prompt":"p","max_tokens":0}`,
		`{"prompt":"p","temperature":3}`,
		`not json`,
	}
	for _, body := range cases {
		for _, path := range []string{"/query", "/chat"} {
			rec := doJSON(e, http.MethodPost, path, body)

			assert.Equal(t, http.StatusBadRequest, rec.Code, "%s %s", path, body)
			assert.Equal(t, "error", decodeError(t, rec).Status)
		}
	}
	assert.Equal(t, 0, stub.calls())
}

func TestQuerySuccessMapping(t *testing.T) {
	stub := &stubInferer{respond: func(shared.BackendPayload) backend.Result {
		return backend.Success("X")
	}}
	e := newGateway(stub)

	// Identical requests against a fixed backend always map identically.
	for i := 0; i < 3; i++ {
		rec := doJSON(e, http.MethodPost, "/query", `{"prompt":"hello"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var body shared.QueryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "X", body.Response)
		assert.Equal(t, "success", body.Status)
	}
	assert.Equal(t, 3, stub.calls())
}

func TestTimeoutMapping(t *testing.T) {
	stub := &stubInferer{respond: func(shared.BackendPayload) backend.Result {
		return backend.Timeout()
	}}
	e := newGateway(stub)

	rec := doJSON(e, http.MethodPost, "/query", `{"prompt":"hello"}`)

	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Request timeout - the AI model is taking too long to respond", body.Error)
	assert.Equal(t, "error", body.Status)
}

func TestConnectionFailureMapping(t *testing.T) {
	stub := &stubInferer{respond: func(shared.BackendPayload) backend.Result {
		return backend.ConnectionFailure("dial tcp: connection refused")
	}}
	e := newGateway(stub)

	rec := doJSON(e, http.MethodPost, "/query", `{"prompt":"hello"}`)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeError(t, rec)
	assert.Contains(t, body.Error, "Failed to connect to AI model: ")
	assert.Contains(t, body.Error, "dial tcp: connection refused")
}

func TestRemoteErrorMapping(t *testing.T) {
	stub := &stubInferer{respond: func(shared.BackendPayload) backend.Result {
		return backend.RemoteError(http.StatusBadGateway, "model exploded")
	}}
	e := newGateway(stub)

	rec := doJSON(e, http.MethodPost, "/chat", `{"prompt":"hello"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Contains(t, body.Error, "Internal server error")
	assert.Contains(t, body.Error, "model exploded")
}

func TestQueryAndChatSendDifferentPayloads(t *testing.T) {
	stub := &stubInferer{}
	e := newGateway(stub)
	body := `{"prompt":"why is the sea salty?"}`

	require.Equal(t, http.StatusOK, doJSON(e, http.MethodPost, "/query", body).Code)
	require.Equal(t, http.StatusOK, doJSON(e, http.MethodPost, "/chat", body).Code)

	require.Equal(t, 2, stub.calls())
	assert.Equal(t, "why is the sea salty?", stub.payloads[0].Prompt)
	assert.NotEqual(t, stub.payloads[0].Prompt, stub.payloads[1].Prompt)
	assert.Contains(t, stub.payloads[1].Prompt, "why is the sea salty?")
}

func TestDefaultsReachTheBackend(t *testing.T) {
	stub := &stubInferer{}
	e := newGateway(stub)

	require.Equal(t, http.StatusOK, doJSON(e, http.MethodPost, "/query", `{"prompt":"p"}`).Code)

	require.Equal(t, 1, stub.calls())
	assert.Equal(t, shared.DefaultMaxTokens, stub.payloads[0].MaxTokens)
	assert.Equal(t, shared.DefaultTemperature, stub.payloads[0].Temperature)
}

func TestConcurrentRequestsDoNotLeakAcrossEachOther(t *testing.T) {
	stub := &stubInferer{respond: func(payload shared.BackendPayload) backend.Result {
		return backend.Success("answer for " + payload.Prompt)
	}}
	e := newGateway(stub)

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			prompt := fmt.Sprintf("prompt-%d", i)
			rec := doJSON(e, http.MethodPost, "/query", fmt.Sprintf(`{"prompt":"%s"}`, prompt))
			if rec.Code != http.StatusOK {
				errs <- fmt.Errorf("request %d: status %d", i, rec.Code)
				return
			}
			var body shared.QueryResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				errs <- fmt.Errorf("request %d: %w", i, err)
				return
			}
			if body.Response != "answer for "+prompt {
				errs <- fmt.Errorf("request %d: got response %q", i, body.Response)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, n, stub.calls())
}
