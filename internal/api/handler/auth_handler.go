package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/restauranthub/timetracker/internal/core/ports"
	"github.com/restauranthub/timetracker/internal/core/session"
)

// AuthHandler handles login, logout, and password change. Success responses
// are redirects with the session cookie attached: the service fronts a
// browser, not an API client.
type AuthHandler struct {
	authService ports.AuthService
	sessionTTL  time.Duration
}

func NewAuthHandler(authService ports.AuthService, sessionTTL time.Duration) *AuthHandler {
	if sessionTTL <= 0 {
		sessionTTL = session.DefaultTTL
	}
	return &AuthHandler{authService: authService, sessionTTL: sessionTTL}
}

// loginRequest binds the login form. tenant_id stays optional at the binding
// layer; the service decides whether it is required for this email.
type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	TenantID string `json:"tenant_id" form:"tenant_id"`
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password" form:"old_password"`
	NewPassword     string `json:"new_password" form:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required,eqfield=NewPassword"`
	FirstLogin      bool   `json:"first_login" form:"first_login"`
}

// Login handles POST /login. On success it sets the session cookie and
// redirects to the landing page, or to the password-change flow when the
// account is in forced rotation. All credential failures yield the same
// generic 401.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		TenantID: req.TenantID,
		RemoteIP: c.RealIP(),
	})
	if err != nil {
		return err
	}

	session.SetCookie(c.Response(), result.Token, h.sessionTTL)

	if result.Route == ports.RouteChangePassword {
		return c.Redirect(http.StatusFound, "/password/change?first_login=1")
	}
	return c.Redirect(http.StatusFound, "/")
}

// Logout handles POST /logout: clears the cookie and sends the browser back
// to the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	session.ClearCookie(c.Response())
	return c.Redirect(http.StatusFound, "/login")
}

// ChangePassword handles POST /password/change for an authenticated session.
// On success the cookie is replaced with a token whose forced-rotation claim
// is cleared.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.authService.ChangePassword(c.Request().Context(), claims, ports.ChangePasswordInput{
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
		FirstLogin:      req.FirstLogin,
		RemoteIP:        c.RealIP(),
	})
	if err != nil {
		return err
	}

	session.SetCookie(c.Response(), token, h.sessionTTL)
	return c.Redirect(http.StatusFound, "/")
}
