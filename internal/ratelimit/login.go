package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const keyLoginAttempt = "login:attempt:%s:%s"

var ErrTooManyAttempts = errors.New("too_many_attempts")

// LoginLimiter throttles sign-in attempts per user id and client address.
type LoginLimiter struct {
	log    *zap.Logger
	bucket Bucket
	rate   float64
	burst  int
}

// Throttled is returned when a sign-in attempt is rejected.
type Throttled struct {
	RetryAfter time.Duration
}

func (t *Throttled) Error() string {
	return fmt.Sprintf("too many sign-in attempts, retry after %s", t.RetryAfter.Round(time.Second))
}

func (t *Throttled) Unwrap() error {
	return ErrTooManyAttempts
}

func NewLoginLimiter(log *zap.Logger, bucket Bucket, perMinute float64, burst int) *LoginLimiter {
	if bucket == nil || perMinute <= 0 || burst <= 0 {
		return nil
	}
	return &LoginLimiter{
		log:    log.Named("ratelimit.login"),
		bucket: bucket,
		rate:   perMinute / 60,
		burst:  burst,
	}
}

func (l *LoginLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow spends one attempt. Limiter faults are logged and let the attempt
// through.
func (l *LoginLimiter) Allow(ctx context.Context, userID, clientIP string) error {
	if !l.Enabled() {
		return nil
	}

	key := fmt.Sprintf(
		keyLoginAttempt,
		strings.ToUpper(strings.TrimSpace(userID)),
		strings.TrimSpace(clientIP),
	)
	res, err := l.bucket.Allow(ctx, key, l.rate, l.burst)
	if err != nil {
		l.log.Warn("login rate limit check failed", zap.Error(err))
		return nil
	}
	if !res.Allowed {
		l.log.Info("login throttled",
			zap.String("user_id", userID),
			zap.String("ip", clientIP),
			zap.Duration("retry_after", res.RetryAfter),
		)
		return &Throttled{RetryAfter: res.RetryAfter}
	}
	return nil
}
