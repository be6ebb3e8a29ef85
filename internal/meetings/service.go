package meetings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/betterhealth/bh-platform/internal/notify"
	"github.com/betterhealth/bh-platform/internal/users"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

// ErrParticipantNotFound is returned when the invited email has no account.
var ErrParticipantNotFound = errors.New("participant not found")

// ErrNotOrganizer is returned when someone other than the organizer
// cancels a meeting.
var ErrNotOrganizer = errors.New("only the organizer can cancel a meeting")

// Service schedules and cancels meetings between accounts.
type Service struct {
	repo     Repository
	users    users.Repository
	notifier *notify.Service
	baseURL  string
	logger   *logging.Logger
	now      func() time.Time
}

// NewService creates the meetings service. baseURL is used to mint join
// links.
func NewService(repo Repository, usersRepo users.Repository, notifier *notify.Service, baseURL string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		users:    usersRepo,
		notifier: notifier,
		baseURL:  baseURL,
		logger:   logger,
		now:      time.Now,
	}
}

// LookupParticipant resolves an invitee by account email.
func (s *Service) LookupParticipant(ctx context.Context, email string) (*users.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return user, nil
}

// ScheduleRequest carries the fields of a new meeting.
type ScheduleRequest struct {
	OrganizerID      string
	ParticipantEmail string
	Title            string
	Agenda           string
	ScheduledAt      time.Time
	DurationMins     int
}

// Schedule validates and stores a meeting, then invites the participant
// by email. The time check runs against the clock at submission, so a
// slot picked for today that has since passed is rejected.
func (s *Service) Schedule(ctx context.Context, req ScheduleRequest) (*Meeting, map[string]string, error) {
	if errs := ValidateSchedule(req.Title, req.ScheduledAt, req.DurationMins, s.now()); len(errs) > 0 {
		return nil, errs, nil
	}

	participant, err := s.LookupParticipant(ctx, req.ParticipantEmail)
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			return nil, map[string]string{"participantEmail": "No account found for this email"}, nil
		}
		return nil, nil, err
	}

	m := &Meeting{
		ID:               uuid.New().String(),
		OrganizerID:      req.OrganizerID,
		ParticipantID:    participant.ID,
		ParticipantEmail: participant.Email,
		Title:            req.Title,
		Agenda:           req.Agenda,
		ScheduledAt:      req.ScheduledAt.UTC(),
		DurationMins:     req.DurationMins,
		CreatedAt:        s.now().UTC(),
	}
	m.JoinURL = fmt.Sprintf("%s/meet/%s", s.baseURL, m.ID)

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyMeetingScheduled(ctx, notify.MeetingInvite{
			ToEmail:     participant.Email,
			ToName:      participant.Name,
			Title:       m.Title,
			ScheduledAt: m.ScheduledAt,
			JoinURL:     m.JoinURL,
		}); err != nil {
			s.logger.Warn("meeting invite failed", "error", err, "meeting_id", m.ID)
		}
	}

	return m, nil, nil
}

// ListForUser returns the meetings a user organizes or attends.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Meeting, error) {
	return s.repo.ListForUser(ctx, userID)
}

// Cancel removes a meeting. Only the organizer may cancel.
func (s *Service) Cancel(ctx context.Context, meetingID, userID string) error {
	m, err := s.repo.GetByID(ctx, meetingID)
	if err != nil {
		return err
	}
	if m.OrganizerID != userID {
		return ErrNotOrganizer
	}
	return s.repo.Delete(ctx, meetingID)
}
