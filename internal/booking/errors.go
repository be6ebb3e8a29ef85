package booking

import "errors"

var (
	// ErrStepNotReady is returned when a wizard step is submitted before
	// its prerequisites are complete.
	ErrStepNotReady = errors.New("booking step prerequisites not met")

	// ErrPhoneNotVerified is returned when contact details arrive for a
	// phone number without a recent OTP verification.
	ErrPhoneNotVerified = errors.New("phone number not verified")

	// ErrSlotMismatch is returned when the chosen slot does not belong to
	// the chosen provider.
	ErrSlotMismatch = errors.New("slot does not belong to provider")

	// ErrSlotUnavailable is returned when the chosen slot is booked or in
	// the past.
	ErrSlotUnavailable = errors.New("slot is no longer available")

	// ErrBookingNotFound is returned when no booking matches the lookup.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAlreadyConfirmed is returned when a confirmed session is
	// confirmed again.
	ErrAlreadyConfirmed = errors.New("booking already confirmed")

	// ErrOrderOpen is returned when a selection changes while a payment
	// order is attached to the session. The order amount was computed
	// from the old selection, so the session must go back first.
	ErrOrderOpen = errors.New("payment order already open for session")
)
