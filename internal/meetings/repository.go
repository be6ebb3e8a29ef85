package meetings

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrMeetingNotFound is returned when no meeting matches the lookup.
var ErrMeetingNotFound = errors.New("meeting not found")

// Repository defines the interface for meeting storage.
type Repository interface {
	Create(ctx context.Context, m *Meeting) error
	GetByID(ctx context.Context, id string) (*Meeting, error)
	ListForUser(ctx context.Context, userID string) ([]Meeting, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository keeps meetings in memory. Used in development and tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	meetings map[string]Meeting
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{meetings: make(map[string]Meeting)}
}

// Create stores a meeting.
func (r *InMemoryRepository) Create(ctx context.Context, m *Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meetings[m.ID] = *m
	return nil
}

// GetByID returns the meeting with id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.meetings[id]
	if !ok {
		return nil, ErrMeetingNotFound
	}
	return &m, nil
}

// ListForUser returns the meetings a user organizes or attends, soonest
// first.
func (r *InMemoryRepository) ListForUser(ctx context.Context, userID string) ([]Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Meeting
	for _, m := range r.meetings {
		if m.OrganizerID == userID || m.ParticipantID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

// Delete removes a meeting.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.meetings[id]; !ok {
		return ErrMeetingNotFound
	}
	delete(r.meetings, id)
	return nil
}
