package meetings

import "time"

// Meeting is a scheduled video consultation between two accounts.
type Meeting struct {
	ID               string    `json:"id"`
	OrganizerID      string    `json:"organizer_id"`
	ParticipantID    string    `json:"participant_id"`
	ParticipantEmail string    `json:"participant_email"`
	Title            string    `json:"title"`
	Agenda           string    `json:"agenda,omitempty"`
	ScheduledAt      time.Time `json:"scheduled_at"`
	DurationMins     int       `json:"duration_mins"`
	JoinURL          string    `json:"join_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ValidateSchedule checks the fields a user controls when scheduling.
// Returns a field-keyed error map; empty means valid.
func ValidateSchedule(title string, scheduledAt time.Time, durationMins int, now time.Time) map[string]string {
	errs := make(map[string]string)
	if title == "" {
		errs["title"] = "Title is required"
	}
	if scheduledAt.IsZero() {
		errs["meetingTime"] = "Meeting time is required"
	} else if !scheduledAt.After(now) {
		errs["meetingTime"] = "Meeting time must be in the future"
	}
	if durationMins < 15 || durationMins > 180 {
		errs["duration"] = "Duration must be between 15 and 180 minutes"
	}
	return errs
}
