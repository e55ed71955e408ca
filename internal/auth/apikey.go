package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/oakworks/orderhub/internal/config"
	"github.com/oakworks/orderhub/internal/presentation/http/response"
	"github.com/oakworks/orderhub/pkg/errorbank"
)

// HeaderAPIKey is the request header carrying the shared secret.
const HeaderAPIKey = "X-API-Key"

// Module provides the API key gate to Fx.
var Module = fx.Provide(NewAPIKey)

// APIKey guards routes behind a single process-wide token. A missing key
// and a wrong key both surface as the same generic 401; the distinction
// lives only in the warn log.
type APIKey struct {
	secret []byte
	logger *zap.Logger
}

// NewAPIKey builds the gate from configuration. An empty token is a wiring
// error, not a request-time condition.
func NewAPIKey(cfg config.Config, logger *zap.Logger) (*APIKey, error) {
	if cfg.Auth.APIToken == "" {
		return nil, errors.New("API_TOKEN must be configured")
	}
	return &APIKey{secret: []byte(cfg.Auth.APIToken), logger: logger}, nil
}

// Middleware returns the echo middleware enforcing the key.
func (a *APIKey) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(HeaderAPIKey)
			if key == "" {
				a.logger.Warn("api key missing", zap.String("path", c.Path()), zap.String("remote", c.RealIP()))
				return unauthorized(c)
			}
			if subtle.ConstantTimeCompare([]byte(key), a.secret) != 1 {
				a.logger.Warn("api key rejected", zap.String("path", c.Path()), zap.String("remote", c.RealIP()))
				return unauthorized(c)
			}
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	return response.New(c).WithError(errorbank.Unauthorized("unauthorized")).Build()
}
