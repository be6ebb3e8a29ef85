package booking

import (
	"context"
	"sort"
	"sync"
)

// Repository defines the interface for confirmed booking storage.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	UpdateStatus(ctx context.Context, id, status, paymentID string) error
}

// InMemoryRepository keeps bookings in memory. Used in development and tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]Booking
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{bookings: make(map[string]Booking)}
}

// Create stores a booking.
func (r *InMemoryRepository) Create(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = *b
	return nil
}

// GetByID returns the booking with id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

// ListByUser returns the bookings of a user, newest first.
func (r *InMemoryRepository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// UpdateStatus sets the status and payment id on a booking.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id, status, paymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = status
	if paymentID != "" {
		b.PaymentID = paymentID
	}
	r.bookings[id] = b
	return nil
}
