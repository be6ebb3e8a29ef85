package providers

import "time"

// Provider is a doctor or specialist patients can book.
type Provider struct {
	ID            string   `json:"id"`
	ServiceType   string   `json:"service_type"`
	Name          string   `json:"name"`
	Qualification string   `json:"qualification"`
	ExperienceYrs int      `json:"experience_years"`
	Rating        float64  `json:"rating"`
	Bio           string   `json:"bio,omitempty"`
	PhotoURL      string   `json:"photo_url,omitempty"`
	Languages     []string `json:"languages,omitempty"`
	Active        bool     `json:"active"`
}

// Slot is one bookable appointment window for a provider.
type Slot struct {
	ID           string    `json:"id"`
	ProviderID   string    `json:"provider_id"`
	StartsAt     time.Time `json:"starts_at"`
	DurationMins int       `json:"duration_mins"`
	Booked       bool      `json:"booked"`
}
