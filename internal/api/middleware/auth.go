package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/restauranthub/timetracker/internal/core/session"
)

// claimsKey is the echo context key the parsed session claims live under.
const claimsKey = "session_claims"

// Auth reads the session cookie, validates the token, and injects the typed
// claims into the request context. The token is decoded exactly once here;
// downstream guards and handlers work with session.Claims, never raw strings.
func Auth(issuer *session.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := session.ReadCookie(c.Request())
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			claims, err := issuer.Parse(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims injected by Auth, or nil when the middleware
// did not run.
func ClaimsFrom(c echo.Context) *session.Claims {
	claims, _ := c.Get(claimsKey).(*session.Claims)
	return claims
}

// SetClaims injects claims directly. Test helper.
func SetClaims(c echo.Context, claims *session.Claims) {
	c.Set(claimsKey, claims)
}
