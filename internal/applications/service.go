package applications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/betterhealth/bh-platform/internal/notify"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

// Service accepts and verifies employee/doctor applications.
type Service struct {
	repo     Repository
	notifier *notify.Service
	logger   *logging.Logger
	now      func() time.Time
}

// NewService creates the applications service.
func NewService(repo Repository, notifier *notify.Service, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit validates and stores an application. When validation fails the
// keyed error map is returned and nothing is persisted.
func (s *Service) Submit(ctx context.Context, a *Application) (map[string]string, error) {
	if errs := ValidateApplication(a); len(errs) > 0 {
		return errs, nil
	}

	a.ID = uuid.New().String()
	a.Status = StatusPending
	a.VerifiedAt = nil
	a.CreatedAt = s.now().UTC()

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyApplicationReceived(ctx, a.Email, a.FullName); err != nil {
			s.logger.Warn("application receipt email failed", "error", err, "application_id", a.ID)
		}
	}
	return nil, nil
}

// Get returns an application by id.
func (s *Service) Get(ctx context.Context, id string) (*Application, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns applications with the given status, or applications
// awaiting review when status is empty.
func (s *Service) List(ctx context.Context, status string) ([]Application, error) {
	if status == "" {
		status = StatusPending
	}
	if status != StatusPending && status != StatusVerified && status != StatusRejected {
		return nil, ErrUnknownStatus
	}
	return s.repo.ListByStatus(ctx, status)
}

// Verify approves an application. Verifying an already verified
// application is a no-op.
func (s *Service) Verify(ctx context.Context, id string) (*Application, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusVerified {
		return a, nil
	}

	verifiedAt := s.now().UTC()
	if err := s.repo.SetStatus(ctx, id, StatusVerified, &verifiedAt); err != nil {
		return nil, err
	}
	a.Status = StatusVerified
	a.VerifiedAt = &verifiedAt

	if s.notifier != nil {
		if err := s.notifier.NotifyApplicationVerified(ctx, a.Email, a.FullName); err != nil {
			s.logger.Warn("application verified email failed", "error", err, "application_id", a.ID)
		}
	}
	return a, nil
}

// Reject declines an application.
func (s *Service) Reject(ctx context.Context, id string) (*Application, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetStatus(ctx, id, StatusRejected, nil); err != nil {
		return nil, err
	}
	a.Status = StatusRejected
	a.VerifiedAt = nil
	return a, nil
}
