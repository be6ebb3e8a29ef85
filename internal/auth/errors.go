package auth

import "errors"

var (
	// ErrInvalidPhone is returned when the phone number is not 10 digits.
	ErrInvalidPhone = errors.New("phone number must be exactly 10 digits")

	// ErrInvalidCode is returned when the submitted code is not 6 digits.
	ErrInvalidCode = errors.New("verification code must be exactly 6 digits")

	// ErrCodeExpired is returned when no pending code exists for the phone.
	ErrCodeExpired = errors.New("verification code expired or never sent")

	// ErrCodeMismatch is returned when the submitted code is wrong.
	ErrCodeMismatch = errors.New("incorrect verification code")

	// ErrResendCooldown is returned while the resend window is active.
	ErrResendCooldown = errors.New("please wait before requesting another code")
)
