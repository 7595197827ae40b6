package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/taskhub-api/internal/api/metrics"
	"github.com/taskhub/taskhub-api/internal/core/domain"
)

// UserPolicy is the ownership rule for account mutations.
type UserPolicy interface {
	CanModifyUser(p domain.Principal, targetUserID int64) bool
}

// SelfOnly lets a request through only when the authenticated principal is
// the user named by the path parameter. It must run after Auth.
func SelfOnly(policy UserPolicy, param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}

			id, err := strconv.ParseInt(c.Param(param), 10, 64)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
			}

			if !policy.CanModifyUser(p, id) {
				metrics.AuthorizationDenialsTotal.WithLabelValues("user").Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
