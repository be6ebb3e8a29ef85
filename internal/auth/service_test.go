package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betterhealth/bh-platform/internal/users"
)

type capturedSMS struct {
	to   string
	body string
}

type captureSMSSender struct {
	sent []capturedSMS
	err  error
}

func (c *captureSMSSender) SendSMS(ctx context.Context, to, body string) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, capturedSMS{to: to, body: body})
	return nil
}

func setupService(t *testing.T) (*Service, *miniredis.Miniredis, *captureSMSSender) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	sms := &captureSMSSender{}
	svc := NewService(NewOTPStore(client), sms, users.NewInMemoryRepository(), nil, nil, ServiceConfig{
		CodeTTL:        5 * time.Minute,
		ResendCooldown: 60 * time.Second,
		JWTSecret:      "test-secret",
		SessionTTL:     time.Hour,
	})
	return svc, mr, sms
}

func TestSendOTP_RequiresTenDigits(t *testing.T) {
	svc, _, sms := setupService(t)
	ctx := context.Background()

	for _, phone := range []string{"", "12345", "98765432101", "98765abc10"} {
		_, err := svc.SendOTP(ctx, phone)
		assert.ErrorIs(t, err, ErrInvalidPhone, "phone %q", phone)
	}
	assert.Empty(t, sms.sent)
}

func TestSendOTP_DeliversAndStartsCooldown(t *testing.T) {
	svc, mr, sms := setupService(t)
	ctx := context.Background()

	cooldown, err := svc.SendOTP(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cooldown)
	require.Len(t, sms.sent, 1)
	assert.Equal(t, "9876543210", sms.sent[0].to)
	assert.Contains(t, sms.sent[0].body, "verification code")

	// Resend inside the window is rejected with the remaining time.
	remaining, err := svc.SendOTP(ctx, "9876543210")
	assert.ErrorIs(t, err, ErrResendCooldown)
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, 60*time.Second)
	assert.Len(t, sms.sent, 1)

	// After the window expires resend works again.
	mr.FastForward(61 * time.Second)
	_, err = svc.SendOTP(ctx, "9876543210")
	require.NoError(t, err)
	assert.Len(t, sms.sent, 2)
}

func TestSendOTP_FailedDeliveryDoesNotBurnCooldown(t *testing.T) {
	svc, _, sms := setupService(t)
	ctx := context.Background()

	sms.err = errors.New("gateway unreachable")
	_, err := svc.SendOTP(ctx, "9876543210")
	require.Error(t, err)
	assert.Empty(t, sms.sent)

	// The gateway recovers; the retry must not wait out a cooldown for a
	// code that never arrived.
	sms.err = nil
	cooldown, err := svc.SendOTP(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cooldown)
	require.Len(t, sms.sent, 1)
}

func TestVerifyOTP_RequiresSixDigits(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	for _, code := range []string{"", "12345", "1234567", "12a456"} {
		_, err := svc.VerifyOTP(ctx, "9876543210", code)
		assert.ErrorIs(t, err, ErrInvalidCode, "code %q", code)
	}
}

func TestVerifyOTP_Success(t *testing.T) {
	svc, _, sms := setupService(t)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, "9876543210")
	require.NoError(t, err)
	code := extractCode(t, sms.sent[0].body)

	result, err := svc.VerifyOTP(ctx, "9876543210", code)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "9876543210", result.User.Phone)
	assert.True(t, result.User.IsNewUser)

	verified, err := svc.IsPhoneVerified(ctx, "9876543210")
	require.NoError(t, err)
	assert.True(t, verified)

	// The code is single use.
	_, err = svc.VerifyOTP(ctx, "9876543210", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	svc, _, sms := setupService(t)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, "9876543210")
	require.NoError(t, err)
	code := extractCode(t, sms.sent[0].body)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err = svc.VerifyOTP(ctx, "9876543210", wrong)
	assert.ErrorIs(t, err, ErrCodeMismatch)

	// Retry with the right code still succeeds; no attempt lockout.
	_, err = svc.VerifyOTP(ctx, "9876543210", code)
	assert.NoError(t, err)
}

func TestVerifyOTP_ExpiredCode(t *testing.T) {
	svc, mr, sms := setupService(t)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, "9876543210")
	require.NoError(t, err)
	code := extractCode(t, sms.sent[0].body)

	mr.FastForward(6 * time.Minute)
	_, err = svc.VerifyOTP(ctx, "9876543210", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func extractCode(t *testing.T, body string) string {
	t.Helper()
	for i := 0; i+6 <= len(body); i++ {
		candidate := body[i : i+6]
		digits := true
		for _, c := range candidate {
			if c < '0' || c > '9' {
				digits = false
				break
			}
		}
		if digits {
			return candidate
		}
	}
	t.Fatalf("no 6-digit code found in %q", body)
	return ""
}
