package users

import "time"

// User is a registered Better Health account. Accounts are created lazily on
// the first successful OTP verification for a phone number.
type User struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	IsNewUser bool      `json:"is_new_user"`
	CreatedAt time.Time `json:"created_at"`
}
