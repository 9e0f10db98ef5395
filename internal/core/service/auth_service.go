package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/restauranthub/timetracker/internal/api/metrics"
	"github.com/restauranthub/timetracker/internal/core/domain"
	"github.com/restauranthub/timetracker/internal/core/ports"
	"github.com/restauranthub/timetracker/internal/core/session"
	"github.com/restauranthub/timetracker/internal/crypto"
)

const minPasswordLength = 6

// Throttle abstracts the failed-login counter (Redis). A nil Throttle
// disables throttling entirely.
type Throttle interface {
	// TooMany reports whether the (tenant, email) pair has exceeded the
	// failure budget inside the current window.
	TooMany(ctx context.Context, tenantID, email string) (bool, error)
	RecordFailure(ctx context.Context, tenantID, email string) error
	Reset(ctx context.Context, tenantID, email string) error
}

// AuthService implements the login and forced-password-rotation protocols.
type AuthService struct {
	users           ports.UserRepository
	hasher          crypto.Hasher
	issuer          *session.Issuer
	audit           *AuditService
	throttle        Throttle
	superAdminEmail string
	log             zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher crypto.Hasher,
	issuer *session.Issuer,
	audit *AuditService,
	throttle Throttle,
	superAdminEmail string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:           users,
		hasher:          hasher,
		issuer:          issuer,
		audit:           audit,
		throttle:        throttle,
		superAdminEmail: strings.ToLower(superAdminEmail),
		log:             log,
	}
}

// Login verifies credentials and issues a session token. Every failure mode
// past input validation collapses into domain.ErrInvalidCredentials so the
// response never reveals whether the email, the tenant, or the password was
// wrong.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		// Validation, not a failed verification: surfaced as a field error,
		// unlike the uniform rejection below.
		return nil, domain.ErrCredentialsRequired
	}

	// The reserved super-admin address ignores tenant selection; everyone
	// else must name a tenant because (email, tenant) is the identity.
	isSuper := email == s.superAdminEmail
	if !isSuper && in.TenantID == "" {
		return nil, domain.ErrTenantRequired
	}

	if s.tooManyFailures(ctx, in.TenantID, email) {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	var (
		user *domain.User
		err  error
	)
	if isSuper {
		user, err = s.users.FindSuperAdmin(ctx, email)
	} else {
		user, err = s.users.FindByEmailAndTenant(ctx, email, in.TenantID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, in.TenantID, email)
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if s.hasher.Verify(user.PasswordHash, in.Password) == crypto.Mismatch {
		s.recordFailure(ctx, in.TenantID, email)
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	var token string
	if isSuper {
		token, err = s.issuer.IssueSuperAdmin(user)
	} else {
		token, err = s.issuer.IssueUser(user)
	}
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	if s.throttle != nil {
		if terr := s.throttle.Reset(ctx, in.TenantID, email); terr != nil {
			s.log.Warn().Err(terr).Msg("throttle reset failed")
		}
	}

	result := &ports.LoginResult{Token: token, User: user, Route: ports.RouteHome}
	if !isSuper && user.MustChangePassword {
		result.Route = ports.RouteChangePassword
		result.FirstLogin = true
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().
		Str("user_id", user.ID).
		Str("tenant_id", user.TenantID).
		Str("role", string(user.Role)).
		Msg("login succeeded")

	return result, nil
}

// ChangePassword replaces the caller's credential and returns a fresh session
// token with the forced-rotation claim cleared. The hash update and the flag
// clear commit in a single repository write; the caller sees both or neither.
func (s *AuthService) ChangePassword(ctx context.Context, claims *session.Claims, in ports.ChangePasswordInput) (string, error) {
	if len(in.NewPassword) < minPasswordLength {
		return "", domain.ErrWeakPassword
	}
	if in.NewPassword != in.ConfirmPassword {
		return "", domain.ErrPasswordMismatch
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}

	// A first login runs on a one-time temp password the user does not yet
	// "know" as their own, so only then is the old-password check skipped.
	// The session claim gates the skip; the request flag alone is not
	// trusted.
	firstLogin := in.FirstLogin && claims.MustChangePassword
	if !firstLogin {
		if s.hasher.Verify(user.PasswordHash, in.OldPassword) == crypto.Mismatch {
			return "", domain.ErrInvalidCredentials
		}
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return "", fmt.Errorf("update password: %w", err)
	}

	s.audit.Record(ctx, domain.AuditPasswordChanged, user.TenantID, user.ID, claims.UserID, in.RemoteIP, map[string]string{
		"note": "password changed",
	})
	metrics.PasswordChangesTotal.Inc()

	token, err := s.issuer.Reissue(claims)
	if err != nil {
		return "", fmt.Errorf("reissue session: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Bool("first_login", firstLogin).Msg("password changed")
	return token, nil
}

// tooManyFailures consults the throttle; an unreachable throttle fails open
// so a cache outage does not take down logins.
func (s *AuthService) tooManyFailures(ctx context.Context, tenantID, email string) bool {
	if s.throttle == nil {
		return false
	}
	over, err := s.throttle.TooMany(ctx, tenantID, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("throttle check failed, allowing login attempt")
		return false
	}
	return over
}

func (s *AuthService) recordFailure(ctx context.Context, tenantID, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, tenantID, email); err != nil {
		s.log.Warn().Err(err).Msg("throttle record failed")
	}
}
