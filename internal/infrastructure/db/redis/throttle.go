package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	throttleWindow = 15 * time.Minute
	maxFailures    = 10
)

// LoginThrottle counts failed login attempts per (tenant, email) pair in
// Redis. Key format: loginfail:<tenant_id>:<email>. The counter expires with
// the window; a successful login resets it early.
type LoginThrottle struct {
	client *redis.Client
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
func NewLoginThrottle(client *redis.Client) *LoginThrottle {
	return &LoginThrottle{client: client}
}

// TooMany reports whether the pair has exhausted its failure budget inside
// the current window.
func (t *LoginThrottle) TooMany(ctx context.Context, tenantID, email string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(tenantID, email)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= maxFailures, nil
}

// RecordFailure increments the counter and refreshes the window.
func (t *LoginThrottle) RecordFailure(ctx context.Context, tenantID, email string) error {
	key := t.key(tenantID, email)
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, throttleWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, tenantID, email string) error {
	return t.client.Del(ctx, t.key(tenantID, email)).Err()
}

func (t *LoginThrottle) key(tenantID, email string) string {
	return fmt.Sprintf("loginfail:%s:%s", tenantID, strings.ToLower(email))
}
