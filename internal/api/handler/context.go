package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/restauranthub/timetracker/internal/api/middleware"
	"github.com/restauranthub/timetracker/internal/core/domain"
	"github.com/restauranthub/timetracker/internal/core/session"
)

// ctxClaims extracts the session claims injected by the Auth middleware and
// performs a fast-fail check before any service call: tenant-scoped roles
// must carry a tenant id, otherwise the token is structurally valid but
// operationally unusable.
func ctxClaims(c echo.Context) (*session.Claims, error) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	if claims.Role != domain.RoleSuperAdmin && claims.TenantID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "session missing tenant identity")
	}
	return claims, nil
}
