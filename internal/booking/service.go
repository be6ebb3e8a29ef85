package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/betterhealth/bh-platform/internal/observability/metrics"
	"github.com/betterhealth/bh-platform/internal/pricing"
	"github.com/betterhealth/bh-platform/internal/providers"
	"github.com/betterhealth/bh-platform/internal/questionnaire"
	"github.com/betterhealth/bh-platform/internal/users"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

// PhoneVerifier reports whether a phone number completed OTP verification
// recently enough to trust.
type PhoneVerifier interface {
	IsPhoneVerified(ctx context.Context, phone string) (bool, error)
}

// Service drives the booking wizard. Each step validates its own
// prerequisites so a stale or tampered session can never skip ahead.
type Service struct {
	sessions  *SessionStore
	pricing   *pricing.Service
	providers providers.Repository
	questions questionnaire.Repository
	verifier  PhoneVerifier
	users     users.Repository
	bookings  Repository
	metrics   *metrics.PlatformMetrics
	logger    *logging.Logger
	now       func() time.Time
}

// NewService wires the wizard service.
func NewService(
	sessions *SessionStore,
	pricingSvc *pricing.Service,
	providersRepo providers.Repository,
	questionsRepo questionnaire.Repository,
	verifier PhoneVerifier,
	usersRepo users.Repository,
	bookingsRepo Repository,
	m *metrics.PlatformMetrics,
	logger *logging.Logger,
) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sessions:  sessions,
		pricing:   pricingSvc,
		providers: providersRepo,
		questions: questionsRepo,
		verifier:  verifier,
		users:     usersRepo,
		bookings:  bookingsRepo,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// StartSession opens a new wizard session for a service type.
func (s *Service) StartSession(ctx context.Context, serviceType string) (*Session, error) {
	if !pricing.ValidServiceType(serviceType) {
		return nil, pricing.ErrInvalidServiceType
	}
	session := &Session{
		ID:          uuid.New().String(),
		ServiceType: serviceType,
		Step:        StepPricing,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession loads a wizard session.
func (s *Service) GetSession(ctx context.Context, id string) (*Session, error) {
	return s.sessions.Load(ctx, id)
}

// Back steps the wizard one screen backward. Selections made so far are
// kept so moving forward again does not re-enter data. A session with a
// confirmed booking cannot move.
func (s *Service) Back(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.BookingID != "" {
		return nil, ErrAlreadyConfirmed
	}
	if session.Step > StepPricing {
		session.Step--
		// The open order priced the old selection. Drop it so the user
		// can change plans and a payment against it can never verify.
		session.PaymentOrderID = ""
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// SelectPlan records the chosen plan and optional coupon. Re-submitting
// the same plan and coupon is a no-op so a page reload never re-runs
// coupon checks or loses wizard progress.
func (s *Service) SelectPlan(ctx context.Context, sessionID, planID, couponCode string) (*Session, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.PlanID == planID && session.CouponCode == couponCode && session.Step > StepPricing {
		return session, nil
	}
	if session.BookingID != "" {
		return nil, ErrAlreadyConfirmed
	}
	if session.PaymentOrderID != "" {
		return nil, ErrOrderOpen
	}

	plan, err := s.pricing.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.ServiceType != session.ServiceType {
		return nil, pricing.ErrPlanNotFound
	}

	final := plan.PriceRupees
	if couponCode != "" {
		coupon, err := s.pricing.ResolveCoupon(ctx, couponCode, session.UserID)
		if err != nil {
			return nil, err
		}
		final = pricing.FinalPrice(plan.PriceRupees, coupon)
	}

	session.PlanID = plan.ID
	session.CouponCode = couponCode
	session.FinalPriceRupees = final
	session.DiscountRupees = plan.PriceRupees - final
	if session.Step < StepProvider {
		session.Step = StepProvider
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectProvider records the chosen provider and slot. The slot must
// belong to the provider, be open, and start in the future.
func (s *Service) SelectProvider(ctx context.Context, sessionID, providerID, slotID string) (*Session, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.PlanID == "" {
		return nil, ErrStepNotReady
	}
	if session.BookingID != "" {
		return nil, ErrAlreadyConfirmed
	}
	if session.PaymentOrderID != "" {
		return nil, ErrOrderOpen
	}

	provider, err := s.providers.GetProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider.ServiceType != session.ServiceType {
		return nil, providers.ErrProviderNotFound
	}

	slot, err := s.providers.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.ProviderID != provider.ID {
		return nil, ErrSlotMismatch
	}
	if slot.Booked || slot.StartsAt.Before(s.now()) {
		return nil, ErrSlotUnavailable
	}

	session.ProviderID = provider.ID
	session.SlotID = slot.ID
	if session.Step < StepContact {
		session.Step = StepContact
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ContactDetails is the payload of the contact and questionnaire step.
type ContactDetails struct {
	Phone   string
	Name    string
	Email   string
	Answers []questionnaire.Answer
}

// SubmitContact attaches the verified patient and intake answers to the
// session. The phone must have passed OTP verification, and every
// required question must carry a valid answer.
func (s *Service) SubmitContact(ctx context.Context, sessionID string, details ContactDetails) (*Session, map[string]string, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.PlanID == "" || session.ProviderID == "" {
		return nil, nil, ErrStepNotReady
	}

	verified, err := s.verifier.IsPhoneVerified(ctx, details.Phone)
	if err != nil {
		return nil, nil, err
	}
	if !verified {
		return nil, nil, ErrPhoneNotVerified
	}

	questions, err := s.questions.ListQuestions(ctx, session.ServiceType)
	if err != nil {
		return nil, nil, err
	}
	if errs := questionnaire.ValidateAnswers(questions, details.Answers); len(errs) > 0 {
		return nil, errs, nil
	}

	user, err := s.users.GetOrCreateByPhone(ctx, details.Phone)
	if err != nil {
		return nil, nil, err
	}
	if details.Name != "" || details.Email != "" {
		if user, err = s.users.UpdateProfile(ctx, user.ID, details.Name, details.Email); err != nil {
			return nil, nil, err
		}
	}

	// Identity is now known. A new-users-only coupon picked while
	// anonymous must survive this check or be rejected here, before any
	// payment is taken.
	if session.CouponCode != "" {
		if _, err := s.pricing.ResolveCoupon(ctx, session.CouponCode, user.ID); err != nil {
			return nil, nil, err
		}
	}

	session.UserID = user.ID
	session.Phone = user.Phone
	session.Name = user.Name
	session.Email = user.Email
	session.Answers = details.Answers
	if session.Step < StepPayment {
		session.Step = StepPayment
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, nil, err
	}
	return session, nil, nil
}

// AttachPaymentOrder records the gateway order opened for this session.
func (s *Service) AttachPaymentOrder(ctx context.Context, sessionID, orderID string) (*Session, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step < StepPayment {
		return nil, ErrStepNotReady
	}
	session.PaymentOrderID = orderID
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Confirm persists the booking after a verified payment, books the slot,
// and retires the new-user discount eligibility. Confirming an already
// confirmed session returns the existing booking.
func (s *Service) Confirm(ctx context.Context, sessionID, paymentID string) (*Booking, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.BookingID != "" {
		return s.bookings.GetByID(ctx, session.BookingID)
	}
	if session.UserID == "" || session.SlotID == "" || session.PlanID == "" {
		return nil, ErrStepNotReady
	}

	if err := s.providers.MarkSlotBooked(ctx, session.SlotID); err != nil {
		return nil, err
	}

	answersRaw, err := json.Marshal(session.Answers)
	if err != nil {
		return nil, fmt.Errorf("booking: marshal answers: %w", err)
	}

	b := &Booking{
		ID:               uuid.New().String(),
		UserID:           session.UserID,
		ServiceType:      session.ServiceType,
		PlanID:           session.PlanID,
		ProviderID:       session.ProviderID,
		SlotID:           session.SlotID,
		CouponCode:       session.CouponCode,
		AmountRupees:     session.FinalPriceRupees,
		DiscountRupees:   session.DiscountRupees,
		Status:           StatusConfirmed,
		PaymentOrderID:   session.PaymentOrderID,
		PaymentID:        paymentID,
		QuestionnaireRaw: answersRaw,
		CreatedAt:        s.now().UTC(),
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	if err := s.users.ClearNewUser(ctx, session.UserID); err != nil {
		s.logger.Warn("failed to clear new-user flag", "error", err, "user_id", session.UserID)
	}

	session.BookingID = b.ID
	session.Step = StepConfirmation
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Warn("failed to save confirmed session", "error", err, "session_id", session.ID)
	}

	s.metrics.ObserveBookingConfirmed(session.ServiceType)
	return b, nil
}

// Summary is the read model shown on the confirmation screen.
type Summary struct {
	Session  *Session            `json:"session"`
	Plan     *pricing.Plan       `json:"plan,omitempty"`
	Provider *providers.Provider `json:"provider,omitempty"`
	Slot     *providers.Slot     `json:"slot,omitempty"`
	Booking  *Booking            `json:"booking,omitempty"`
}

// Summarize assembles the full state of a session for display.
func (s *Service) Summarize(ctx context.Context, sessionID string) (*Summary, error) {
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Session: session}
	if session.PlanID != "" {
		if plan, err := s.pricing.GetPlan(ctx, session.PlanID); err == nil {
			summary.Plan = plan
		}
	}
	if session.ProviderID != "" {
		if provider, err := s.providers.GetProvider(ctx, session.ProviderID); err == nil {
			summary.Provider = provider
		}
	}
	if session.SlotID != "" {
		if slot, err := s.providers.GetSlot(ctx, session.SlotID); err == nil {
			summary.Slot = slot
		}
	}
	if session.BookingID != "" {
		if b, err := s.bookings.GetByID(ctx, session.BookingID); err == nil {
			summary.Booking = b
		}
	}
	return summary, nil
}

// ListUserBookings returns the confirmed bookings of a user.
func (s *Service) ListUserBookings(ctx context.Context, userID string) ([]Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}
