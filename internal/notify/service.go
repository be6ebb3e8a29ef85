package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/betterhealth/bh-platform/pkg/logging"
)

// Service sends user-facing notifications for bookings, meetings and
// provider applications. All sends are best-effort: failures are logged and
// returned, but callers treat them as non-fatal so a notification outage
// never blocks a confirmed booking.
type Service struct {
	email  EmailSender
	sms    SMSSender
	logger *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, sms SMSSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, sms: sms, logger: logger}
}

// BookingConfirmation describes a confirmed booking for notification purposes.
type BookingConfirmation struct {
	PatientName  string
	PatientPhone string
	ServiceType  string
	ProviderName string
	Date         string
	Time         string
	AmountPaise  int64
	PaymentID    string
}

// NotifyBookingConfirmed sends the patient a booking confirmation SMS.
func (s *Service) NotifyBookingConfirmed(ctx context.Context, bc BookingConfirmation) error {
	if s.sms == nil {
		s.logger.Debug("notify: sms sender not configured, skipping booking confirmation")
		return nil
	}
	body := fmt.Sprintf("Hi %s, your %s consultation with %s on %s at %s is confirmed. Amount paid: ₹%.2f. Payment ref: %s - Better Health",
		bc.PatientName, bc.ServiceType, bc.ProviderName, bc.Date, bc.Time, float64(bc.AmountPaise)/100, bc.PaymentID)
	if err := s.sms.SendSMS(ctx, bc.PatientPhone, body); err != nil {
		s.logger.Error("notify: booking confirmation sms failed", "error", err, "phone", bc.PatientPhone)
		return fmt.Errorf("notify: booking confirmation: %w", err)
	}
	return nil
}

// MeetingInvite describes a scheduled meeting for notification purposes.
type MeetingInvite struct {
	ToEmail     string
	ToName      string
	Title       string
	ScheduledAt time.Time
	JoinURL     string
}

// NotifyMeetingScheduled emails a meeting invite to a participant.
func (s *Service) NotifyMeetingScheduled(ctx context.Context, inv MeetingInvite) error {
	if s.email == nil {
		s.logger.Debug("notify: email sender not configured, skipping meeting invite")
		return nil
	}
	msg := EmailMessage{
		To:      inv.ToEmail,
		ToName:  inv.ToName,
		Subject: fmt.Sprintf("Meeting scheduled: %s", inv.Title),
		Body: fmt.Sprintf("Hi %s,\n\nYour meeting %q is scheduled for %s.\nJoin link: %s\n\nBetter Health",
			inv.ToName, inv.Title, inv.ScheduledAt.Format("Monday, January 2 at 3:04 PM"), inv.JoinURL),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: meeting invite failed", "error", err, "to", inv.ToEmail)
		return fmt.Errorf("notify: meeting invite: %w", err)
	}
	return nil
}

// NotifyApplicationReceived emails an applicant that their submission landed.
func (s *Service) NotifyApplicationReceived(ctx context.Context, toEmail, toName string) error {
	if s.email == nil {
		return nil
	}
	msg := EmailMessage{
		To:      toEmail,
		ToName:  toName,
		Subject: "Application received",
		Body: fmt.Sprintf("Hi %s,\n\nWe received your application. Our team will review your documents and get back to you within 3-5 business days.\n\nBetter Health",
			toName),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: application receipt failed", "error", err, "to", toEmail)
		return fmt.Errorf("notify: application receipt: %w", err)
	}
	return nil
}

// NotifyApplicationVerified emails an applicant that they were approved.
func (s *Service) NotifyApplicationVerified(ctx context.Context, toEmail, toName string) error {
	if s.email == nil {
		return nil
	}
	msg := EmailMessage{
		To:      toEmail,
		ToName:  toName,
		Subject: "Welcome to Better Health",
		Body: fmt.Sprintf("Hi %s,\n\nYour application has been verified. You can now sign in and start accepting consultations.\n\nBetter Health",
			toName),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: application verified email failed", "error", err, "to", toEmail)
		return fmt.Errorf("notify: application verified: %w", err)
	}
	return nil
}
