package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/betterhealth/bh-platform/internal/authctx"
	"github.com/betterhealth/bh-platform/internal/notify"
	"github.com/betterhealth/bh-platform/internal/observability/metrics"
	"github.com/betterhealth/bh-platform/internal/users"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	codePattern  = regexp.MustCompile(`^\d{6}$`)
)

// How long a successful verification stays usable by the booking contact step.
const verifiedTTL = 30 * time.Minute

// ServiceConfig tunes the OTP exchange.
type ServiceConfig struct {
	CodeTTL        time.Duration
	ResendCooldown time.Duration
	JWTSecret      string
	SessionTTL     time.Duration
}

// Service implements the OTP login exchange.
type Service struct {
	store   *OTPStore
	sms     notify.SMSSender
	users   users.Repository
	metrics *metrics.PlatformMetrics
	logger  *logging.Logger
	cfg     ServiceConfig
}

// NewService creates the auth service.
func NewService(store *OTPStore, sms notify.SMSSender, usersRepo users.Repository, m *metrics.PlatformMetrics, logger *logging.Logger, cfg ServiceConfig) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = 5 * time.Minute
	}
	if cfg.ResendCooldown <= 0 {
		cfg.ResendCooldown = 60 * time.Second
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 720 * time.Hour
	}
	return &Service{
		store:   store,
		sms:     sms,
		users:   usersRepo,
		metrics: m,
		logger:  logger,
		cfg:     cfg,
	}
}

// SendOTP generates a code for phone and delivers it out-of-band. Returns
// ErrResendCooldown (with the remaining window) while resend is disabled.
func (s *Service) SendOTP(ctx context.Context, phone string) (time.Duration, error) {
	if !phonePattern.MatchString(phone) {
		s.metrics.ObserveOTPSent("invalid_phone")
		return 0, ErrInvalidPhone
	}

	started, remaining, err := s.store.StartCooldown(ctx, phone, s.cfg.ResendCooldown)
	if err != nil {
		s.metrics.ObserveOTPSent("error")
		return 0, err
	}
	if !started {
		s.metrics.ObserveOTPSent("cooldown")
		return remaining, ErrResendCooldown
	}

	code, err := generateCode()
	if err != nil {
		s.releaseCooldown(ctx, phone)
		s.metrics.ObserveOTPSent("error")
		return 0, fmt.Errorf("auth: generate code: %w", err)
	}
	if err := s.store.SaveCode(ctx, phone, code, s.cfg.CodeTTL); err != nil {
		s.releaseCooldown(ctx, phone)
		s.metrics.ObserveOTPSent("error")
		return 0, err
	}

	body := fmt.Sprintf("Your Better Health verification code is %s. It expires in %d minutes.", code, int(s.cfg.CodeTTL.Minutes()))
	if err := s.sms.SendSMS(ctx, phone, body); err != nil {
		// The user never got a code. Undo the cooldown so they can retry
		// right away instead of waiting out the window empty-handed.
		s.releaseCooldown(ctx, phone)
		s.metrics.ObserveOTPSent("send_failed")
		return 0, fmt.Errorf("auth: deliver otp: %w", err)
	}

	s.metrics.ObserveOTPSent("sent")
	s.logger.Info("otp sent", "phone", maskPhone(phone))
	return s.cfg.ResendCooldown, nil
}

// VerifyResult is returned on a successful code check.
type VerifyResult struct {
	Token string
	User  *users.User
}

// VerifyOTP checks the code for phone, creates the account on first login,
// and mints a session token.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (*VerifyResult, error) {
	if !phonePattern.MatchString(phone) {
		s.metrics.ObserveOTPVerified("invalid_phone")
		return nil, ErrInvalidPhone
	}
	if !codePattern.MatchString(code) {
		s.metrics.ObserveOTPVerified("invalid_code")
		return nil, ErrInvalidCode
	}

	stored, err := s.store.LoadCode(ctx, phone)
	if err != nil {
		s.metrics.ObserveOTPVerified("expired")
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		s.metrics.ObserveOTPVerified("mismatch")
		return nil, ErrCodeMismatch
	}

	// Single use: drop the code before anything else can race on it.
	if err := s.store.DeleteCode(ctx, phone); err != nil {
		s.logger.Error("otp delete failed", "error", err, "phone", maskPhone(phone))
	}
	if err := s.store.MarkVerified(ctx, phone, verifiedTTL); err != nil {
		s.logger.Error("otp verified marker failed", "error", err, "phone", maskPhone(phone))
	}

	user, err := s.users.GetOrCreateByPhone(ctx, phone)
	if err != nil {
		s.metrics.ObserveOTPVerified("error")
		return nil, err
	}

	token, err := authctx.NewSessionToken(s.cfg.JWTSecret, authctx.Identity{
		UserID: user.ID,
		Phone:  user.Phone,
		Role:   user.Role,
	}, s.cfg.SessionTTL)
	if err != nil {
		s.metrics.ObserveOTPVerified("error")
		return nil, fmt.Errorf("auth: mint session token: %w", err)
	}

	s.metrics.ObserveOTPVerified("verified")
	s.logger.Info("otp verified", "user_id", user.ID)
	return &VerifyResult{Token: token, User: user}, nil
}

// IsPhoneVerified reports whether phone passed OTP verification recently.
// The booking contact step gates on this.
func (s *Service) IsPhoneVerified(ctx context.Context, phone string) (bool, error) {
	return s.store.IsVerified(ctx, phone)
}

// CurrentUser loads the account behind an authenticated request.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*users.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) releaseCooldown(ctx context.Context, phone string) {
	if err := s.store.ReleaseCooldown(ctx, phone); err != nil {
		s.logger.Error("otp cooldown release failed", "error", err, "phone", maskPhone(phone))
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func maskPhone(phone string) string {
	if len(phone) < 4 {
		return "****"
	}
	return "******" + phone[len(phone)-4:]
}
