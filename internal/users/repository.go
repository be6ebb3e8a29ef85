package users

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/betterhealth/bh-platform/internal/authctx"
)

// ErrUserNotFound is returned when no account matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// Repository defines the interface for user storage
type Repository interface {
	GetOrCreateByPhone(ctx context.Context, phone string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id, name, email string) (*User, error)
	ClearNewUser(ctx context.Context, id string) error
}

// InMemoryRepository is an in-memory Repository used in development and tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byPhone map[string]string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[string]*User),
		byPhone: make(map[string]string),
	}
}

// GetOrCreateByPhone returns the account for phone, creating it on first use.
func (r *InMemoryRepository) GetOrCreateByPhone(ctx context.Context, phone string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byPhone[phone]; ok {
		u := *r.byID[id]
		return &u, nil
	}

	user := &User{
		ID:        uuid.New().String(),
		Phone:     phone,
		Role:      authctx.RolePatient,
		IsNewUser: true,
		CreatedAt: time.Now().UTC(),
	}
	r.byID[user.ID] = user
	r.byPhone[phone] = user.ID
	u := *user
	return &u, nil
}

// GetByID retrieves a user by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// GetByEmail retrieves a user by email
func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.byID {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// UpdateProfile sets the display name and email on an account.
func (r *InMemoryRepository) UpdateProfile(ctx context.Context, id, name, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if name != "" {
		user.Name = name
	}
	if email != "" {
		user.Email = email
	}
	u := *user
	return &u, nil
}

// ClearNewUser marks the account as no longer eligible for new-user coupons.
func (r *InMemoryRepository) ClearNewUser(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	user.IsNewUser = false
	return nil
}
