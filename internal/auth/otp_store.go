package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPStore keeps one-time codes and resend cooldowns. Codes expire on their
// own; nothing is ever persisted beyond the TTL.
type OTPStore struct {
	redis *redis.Client
}

// NewOTPStore creates a Redis-backed OTP store.
func NewOTPStore(client *redis.Client) *OTPStore {
	if client == nil {
		panic("auth: redis client cannot be nil")
	}
	return &OTPStore{redis: client}
}

func otpKey(phone string) string {
	return fmt.Sprintf("otp:code:%s", phone)
}

func cooldownKey(phone string) string {
	return fmt.Sprintf("otp:cooldown:%s", phone)
}

func verifiedKey(phone string) string {
	return fmt.Sprintf("otp:verified:%s", phone)
}

// SaveCode stores the code for phone with the given TTL.
func (s *OTPStore) SaveCode(ctx context.Context, phone, code string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, otpKey(phone), code, ttl).Err(); err != nil {
		return fmt.Errorf("auth: save otp: %w", err)
	}
	return nil
}

// LoadCode returns the pending code for phone, or ErrCodeExpired when none.
func (s *OTPStore) LoadCode(ctx context.Context, phone string) (string, error) {
	code, err := s.redis.Get(ctx, otpKey(phone)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCodeExpired
		}
		return "", fmt.Errorf("auth: load otp: %w", err)
	}
	return code, nil
}

// DeleteCode removes the pending code for phone.
func (s *OTPStore) DeleteCode(ctx context.Context, phone string) error {
	if err := s.redis.Del(ctx, otpKey(phone)).Err(); err != nil {
		return fmt.Errorf("auth: delete otp: %w", err)
	}
	return nil
}

// StartCooldown begins the resend window for phone. Returns false with the
// remaining duration when a window is already active.
func (s *OTPStore) StartCooldown(ctx context.Context, phone string, window time.Duration) (bool, time.Duration, error) {
	ok, err := s.redis.SetNX(ctx, cooldownKey(phone), 1, window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("auth: start cooldown: %w", err)
	}
	if ok {
		return true, 0, nil
	}
	remaining, err := s.redis.TTL(ctx, cooldownKey(phone)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("auth: cooldown ttl: %w", err)
	}
	if remaining < 0 {
		remaining = 0
	}
	return false, remaining, nil
}

// ReleaseCooldown removes the resend window for phone so a failed delivery
// does not block an immediate retry.
func (s *OTPStore) ReleaseCooldown(ctx context.Context, phone string) error {
	if err := s.redis.Del(ctx, cooldownKey(phone)).Err(); err != nil {
		return fmt.Errorf("auth: release cooldown: %w", err)
	}
	return nil
}

// MarkVerified records a successful verification so a later wizard step can
// require it without re-running the OTP exchange.
func (s *OTPStore) MarkVerified(ctx context.Context, phone string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, verifiedKey(phone), 1, ttl).Err(); err != nil {
		return fmt.Errorf("auth: mark verified: %w", err)
	}
	return nil
}

// IsVerified reports whether phone passed OTP verification recently.
func (s *OTPStore) IsVerified(ctx context.Context, phone string) (bool, error) {
	_, err := s.redis.Get(ctx, verifiedKey(phone)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("auth: check verified: %w", err)
	}
	return true, nil
}
