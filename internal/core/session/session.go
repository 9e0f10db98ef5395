// Package session issues and parses the self-contained session tokens that
// carry identity between requests. Tokens are HS256-signed JWTs held in an
// HttpOnly cookie; no server-side session store exists, so concurrent logins
// by one user simply produce independent valid tokens.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/restauranthub/timetracker/internal/core/domain"
)

// DefaultTTL is the fixed session lifetime.
const DefaultTTL = 8 * time.Hour

// Claims is the typed claim set carried by every session token. The role is
// the closed domain.Role enum; handlers never look claims up by loose string
// keys.
type Claims struct {
	UserID             string      `json:"uid"`
	Name               string      `json:"name"`
	Role               domain.Role `json:"role"`
	TenantID           string      `json:"tenant_id,omitempty"`
	MustChangePassword bool        `json:"must_change_password"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns the configured session lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// IssueSuperAdmin creates a token for the super admin. It carries no tenant
// claim and never requires a password change.
func (i *Issuer) IssueSuperAdmin(user *domain.User) (string, error) {
	return i.sign(Claims{
		UserID:             user.ID,
		Name:               user.Name,
		Role:               domain.RoleSuperAdmin,
		MustChangePassword: false,
	})
}

// IssueUser creates a token for a tenant-scoped user (employee or tenant
// admin). The tenant id becomes part of the claim set so tenant scoping never
// needs a store round-trip.
func (i *Issuer) IssueUser(user *domain.User) (string, error) {
	return i.sign(Claims{
		UserID:             user.ID,
		Name:               user.Name,
		Role:               user.Role,
		TenantID:           user.TenantID,
		MustChangePassword: user.MustChangePassword,
	})
}

// Reissue produces a fresh token from existing claims with the forced-rotation
// flag cleared. Used after a successful password change so the user does not
// have to authenticate again.
func (i *Issuer) Reissue(claims *Claims) (string, error) {
	return i.sign(Claims{
		UserID:             claims.UserID,
		Name:               claims.Name,
		Role:               claims.Role,
		TenantID:           claims.TenantID,
		MustChangePassword: false,
	})
}

// Parse validates the signature and expiry and returns the typed claims.
func (i *Issuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || !claims.Role.Valid() {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (i *Issuer) sign(claims Claims) (string, error) {
	now := i.now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}
