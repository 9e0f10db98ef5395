package session

import (
	"net/http"
	"time"
)

// CookieName is the session cookie key.
const CookieName = "tt_session"

// SetCookie attaches the signed token to the response. HttpOnly and
// SameSite=Strict keep the token away from scripts and cross-site requests.
func SetCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(ttl),
	})
}

// ClearCookie revokes the client-held session (logout). The token itself
// remains cryptographically valid until expiry; there is no server-side
// session store to invalidate.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}

// ReadCookie extracts the raw token from the request, or "" when absent.
func ReadCookie(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
