package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oakworks/orderhub/internal/config"
)

func newGate(t *testing.T, token string) *APIKey {
	t.Helper()
	cfg := config.Config{}
	cfg.Auth.APIToken = token
	gate, err := NewAPIKey(cfg, zap.NewNop())
	require.NoError(t, err)
	return gate
}

func protectedServer(gate *APIKey) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, gate.Middleware())
	return e
}

func request(e *echo.Echo, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if key != "" {
		req.Header.Set(HeaderAPIKey, key)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestNewAPIKeyRequiresToken(t *testing.T) {
	_, err := NewAPIKey(config.Config{}, zap.NewNop())
	assert.Error(t, err)
}

func TestMiddlewareAcceptsValidKey(t *testing.T) {
	e := protectedServer(newGate(t, "secret-token"))

	rec := request(e, "secret-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMiddlewareRejectsWrongKey(t *testing.T) {
	e := protectedServer(newGate(t, "secret-token"))

	rec := request(e, "other-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}

func TestMiddlewareRejectsMissingKey(t *testing.T) {
	e := protectedServer(newGate(t, "secret-token"))

	rec := request(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}
