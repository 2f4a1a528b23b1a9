package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Daily message quotas applied when no limits are configured.
const (
	DefaultAuthDailyLimit  = 1000
	DefaultGuestDailyLimit = 5
)

var ErrDailyLimitReached = errors.New("daily message limit reached")

// Counter increments a windowed counter and reports whether it stays within limit.
type Counter interface {
	IncAndCheck(ctx context.Context, subject, window string, windowStart time.Time, limit int) (bool, error)
}

type Limits struct {
	AuthDaily  int
	GuestDaily int
}

// Service enforces the per-user daily message quota.
type Service struct {
	cnt    Counter
	limits Limits
	now    func() time.Time
}

func New(cnt Counter, limits Limits) *Service {
	if limits.AuthDaily <= 0 {
		limits.AuthDaily = DefaultAuthDailyLimit
	}
	if limits.GuestDaily <= 0 {
		limits.GuestDaily = DefaultGuestDailyLimit
	}
	return &Service{cnt: cnt, limits: limits, now: time.Now}
}

// Allow counts one message for userID and fails with ErrDailyLimitReached once
// the quota for the current UTC day is exceeded.
func (s *Service) Allow(ctx context.Context, userID string, authenticated bool) error {
	limit := s.limits.GuestDaily
	if authenticated {
		limit = s.limits.AuthDaily
	}
	ok, err := s.cnt.IncAndCheck(ctx, userID, "day", truncDay(s.now().UTC()), limit)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDailyLimitReached
	}
	return nil
}

func truncDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
