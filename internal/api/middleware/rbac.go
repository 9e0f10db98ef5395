package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/restauranthub/timetracker/internal/core/domain"
)

// RequireAdmin admits tenant admins only. The super admin is deliberately
// rejected: it manages tenants, not the users inside one, and carries no
// tenant claim to scope those screens by.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}
		if claims.Role != domain.RoleTenantAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}

// RequireSuperAdmin admits the super admin only.
func RequireSuperAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}
		if claims.Role != domain.RoleSuperAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "super admin access required")
		}
		return next(c)
	}
}
