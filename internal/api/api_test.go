package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

// staticTokens is a fixed TokenSource for tests.
type staticTokens string

func (s staticTokens) AccessToken() string { return string(s) }

func newStubServer(t *testing.T, register func(e *echo.Echo)) *httptest.Server {
	t.Helper()
	e := echo.New()
	register(e)
	ts := httptest.NewServer(e)
	t.Cleanup(ts.Close)
	return ts
}

func okEnvelope(data any) map[string]any {
	return map[string]any{
		"success":    true,
		"httpStatus": http.StatusOK,
		"appCode":    "OK",
		"message":    "Operación exitosa",
		"data":       data,
		"errors":     []any{},
		"meta": map[string]any{
			"requestId":  "req-1",
			"timestamp":  "2024-01-01T00:00:00Z",
			"service":    "test-service",
			"version":    "1.0",
			"durationMs": 3,
		},
	}
}

func errEnvelope(status int, message string, details ...map[string]string) map[string]any {
	errs := make([]any, 0, len(details))
	for _, d := range details {
		errs = append(errs, d)
	}
	return map[string]any{
		"success":    false,
		"httpStatus": status,
		"appCode":    "ERR",
		"message":    message,
		"data":       nil,
		"errors":     errs,
		"meta":       map[string]any{"requestId": "req-2"},
	}
}
