package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/taskhub/taskhub-api/internal/api/metrics"
	"github.com/taskhub/taskhub-api/internal/core/domain"
)

const principalKey = "principal"

// Authenticator resolves an Authorization header value to a principal.
type Authenticator interface {
	Authenticate(header string) (domain.Principal, bool)
}

// Auth rejects requests without a valid bearer token and stores the caller's
// principal on the context for handlers.
func Auth(authenticator Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := authenticator.Authenticate(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AuthenticationsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}
			metrics.AuthenticationsTotal.WithLabelValues("ok").Inc()

			SetPrincipal(c, p)
			return next(c)
		}
	}
}

func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal stored by Auth.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}
