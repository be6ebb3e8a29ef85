package applications

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrApplicationNotFound is returned when no application matches the lookup.
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrUnknownStatus       = errors.New("unknown application status")
)

// Repository defines the interface for application storage.
type Repository interface {
	Create(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	ListByStatus(ctx context.Context, status string) ([]Application, error)
	SetStatus(ctx context.Context, id, status string, verifiedAt *time.Time) error
}

// InMemoryRepository keeps applications in memory. Used in development
// and tests.
type InMemoryRepository struct {
	mu   sync.RWMutex
	apps map[string]Application
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{apps: make(map[string]Application)}
}

// Create stores an application.
func (r *InMemoryRepository) Create(ctx context.Context, a *Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[a.ID] = *a
	return nil
}

// GetByID returns the application with id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	return &a, nil
}

// ListByStatus returns applications with status, newest first. An empty
// status returns everything.
func (r *InMemoryRepository) ListByStatus(ctx context.Context, status string) ([]Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Application
	for _, a := range r.apps {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// SetStatus updates the status of an application.
func (r *InMemoryRepository) SetStatus(ctx context.Context, id, status string, verifiedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return ErrApplicationNotFound
	}
	a.Status = status
	a.VerifiedAt = verifiedAt
	r.apps[id] = a
	return nil
}
