package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/restauranthub/timetracker/internal/api"
	"github.com/restauranthub/timetracker/internal/api/handler"
	"github.com/restauranthub/timetracker/internal/api/middleware"
	"github.com/restauranthub/timetracker/internal/core/domain"
	"github.com/restauranthub/timetracker/internal/core/ports"
	"github.com/restauranthub/timetracker/internal/core/session"
)

type stubAuthService struct {
	loginResult *ports.LoginResult
	loginErr    error
	lastLogin   ports.LoginInput

	changeToken string
	changeErr   error
	lastChange  ports.ChangePasswordInput
}

func (s *stubAuthService) Login(_ context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	s.lastLogin = in
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginResult, nil
}

func (s *stubAuthService) ChangePassword(_ context.Context, _ *session.Claims, in ports.ChangePasswordInput) (string, error) {
	s.lastChange = in
	if s.changeErr != nil {
		return "", s.changeErr
	}
	return s.changeToken, nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())
	return e
}

func postForm(e *echo.Echo, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login_SetsCookieAndRedirects(t *testing.T) {
	svc := &stubAuthService{
		loginResult: &ports.LoginResult{
			Token: "signed-token",
			User:  &domain.User{ID: "u1", Role: domain.RoleTenantAdmin, TenantID: "t1"},
			Route: ports.RouteHome,
		},
	}
	e := newTestEcho()
	h := handler.NewAuthHandler(svc, time.Hour)
	e.POST("/login", h.Login)

	rec := postForm(e, "/login", url.Values{
		"email":     {"admin.bh@rh.dk"},
		"password":  {"AdminBH123"},
		"tenant_id": {"t1"},
	})

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("redirect = %q, want /", loc)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("no session cookie set")
	}
	if cookie.Value != "signed-token" {
		t.Fatalf("cookie value = %q", cookie.Value)
	}
	if !cookie.HttpOnly || !cookie.Secure || cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("cookie attributes too permissive: %+v", cookie)
	}

	if svc.lastLogin.Email != "admin.bh@rh.dk" || svc.lastLogin.TenantID != "t1" {
		t.Fatalf("login input = %+v", svc.lastLogin)
	}
}

func TestAuthHandler_Login_ForcedRotationRedirect(t *testing.T) {
	svc := &stubAuthService{
		loginResult: &ports.LoginResult{
			Token:      "signed-token",
			User:       &domain.User{ID: "u1", Role: domain.RoleEmployee, TenantID: "t1", MustChangePassword: true},
			Route:      ports.RouteChangePassword,
			FirstLogin: true,
		},
	}
	e := newTestEcho()
	e.POST("/login", handler.NewAuthHandler(svc, time.Hour).Login)

	rec := postForm(e, "/login", url.Values{"email": {"new@rh.dk"}, "password": {"Temp1234"}, "tenant_id": {"t1"}})
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/password/change?first_login=1" {
		t.Fatalf("redirect = %q", loc)
	}
	if sessionCookie(rec) == nil {
		t.Fatalf("forced rotation still needs an authenticated session cookie")
	}
}

func TestAuthHandler_Login_RejectionIsGeneric(t *testing.T) {
	svc := &stubAuthService{loginErr: domain.ErrInvalidCredentials}
	e := newTestEcho()
	e.POST("/login", handler.NewAuthHandler(svc, time.Hour).Login)

	rec := postForm(e, "/login", url.Values{"email": {"admin.bh@rh.dk"}, "password": {"AdminBH123"}, "tenant_id": {"t2"}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if sessionCookie(rec) != nil {
		t.Fatalf("cookie set on rejected login")
	}
	body := rec.Body.String()
	if !strings.Contains(body, "invalid login") {
		t.Fatalf("body = %q, want the generic message", body)
	}
	// No hint of which part of the credential was wrong.
	for _, leak := range []string{"tenant", "email", "password", "not found"} {
		if strings.Contains(body, leak) {
			t.Fatalf("error body leaks %q: %s", leak, body)
		}
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	e.POST("/logout", handler.NewAuthHandler(&stubAuthService{}, time.Hour).Logout)

	rec := postForm(e, "/logout", url.Values{})
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("redirect = %q, want /login", loc)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.MaxAge != -1 || cookie.Value != "" {
		t.Fatalf("session cookie not cleared: %+v", cookie)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	svc := &stubAuthService{changeToken: "fresh-token"}
	e := newTestEcho()
	h := handler.NewAuthHandler(svc, time.Hour)
	claims := &session.Claims{UserID: "u1", Role: domain.RoleEmployee, TenantID: "t1", MustChangePassword: true}
	e.POST("/password/change", func(c echo.Context) error {
		middleware.SetClaims(c, claims)
		return h.ChangePassword(c)
	})

	rec := postForm(e, "/password/change", url.Values{
		"new_password":     {"BrandNew1"},
		"confirm_password": {"BrandNew1"},
		"first_login":      {"true"},
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302: %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value != "fresh-token" {
		t.Fatalf("cookie not replaced: %+v", cookie)
	}
	if !svc.lastChange.FirstLogin {
		t.Fatalf("first_login flag not forwarded")
	}
}

func TestAuthHandler_ChangePassword_ValidationErrors(t *testing.T) {
	svc := &stubAuthService{changeToken: "fresh-token"}
	e := newTestEcho()
	h := handler.NewAuthHandler(svc, time.Hour)
	e.POST("/password/change", func(c echo.Context) error {
		middleware.SetClaims(c, &session.Claims{UserID: "u1", Role: domain.RoleEmployee, TenantID: "t1"})
		return h.ChangePassword(c)
	})

	cases := []url.Values{
		{"new_password": {"abc"}, "confirm_password": {"abc"}},       // too short
		{"new_password": {"abcdef"}, "confirm_password": {"abcdeg"}}, // mismatch
		{"confirm_password": {"abcdef"}},                             // missing new
	}
	for _, form := range cases {
		rec := postForm(e, "/password/change", form)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("form %v: status = %d, want 400", form, rec.Code)
		}
	}
}

func TestAuthHandler_ChangePassword_RequiresClaims(t *testing.T) {
	e := newTestEcho()
	e.POST("/password/change", handler.NewAuthHandler(&stubAuthService{}, time.Hour).ChangePassword)

	rec := postForm(e, "/password/change", url.Values{
		"new_password": {"BrandNew1"}, "confirm_password": {"BrandNew1"},
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
