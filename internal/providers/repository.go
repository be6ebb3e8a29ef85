package providers

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	// ErrProviderNotFound is returned when no provider matches the lookup.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrSlotNotFound is returned when no slot matches the lookup.
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotTaken is returned when a booking races for an already booked slot.
	ErrSlotTaken = errors.New("slot already booked")
)

// Repository defines the interface for provider and slot storage.
type Repository interface {
	ListProviders(ctx context.Context, serviceType string) ([]Provider, error)
	GetProvider(ctx context.Context, id string) (*Provider, error)
	ListSlots(ctx context.Context, providerID string, from time.Time) ([]Slot, error)
	GetSlot(ctx context.Context, id string) (*Slot, error)
	MarkSlotBooked(ctx context.Context, id string) error
}

// InMemoryRepository keeps providers and slots in memory. Used in
// development and tests.
type InMemoryRepository struct {
	mu        sync.RWMutex
	providers map[string]Provider
	slots     map[string]Slot
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		providers: make(map[string]Provider),
		slots:     make(map[string]Slot),
	}
}

// AddProvider registers a provider.
func (r *InMemoryRepository) AddProvider(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.ID] = p
}

// AddSlot registers a slot.
func (r *InMemoryRepository) AddSlot(s Slot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[s.ID] = s
}

// ListProviders returns the active providers for a service type.
func (r *InMemoryRepository) ListProviders(ctx context.Context, serviceType string) ([]Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Provider
	for _, p := range r.providers {
		if p.ServiceType == serviceType && p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetProvider returns the provider with id.
func (r *InMemoryRepository) GetProvider(ctx context.Context, id string) (*Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, ErrProviderNotFound
	}
	return &p, nil
}

// ListSlots returns the open slots for a provider starting at or after from.
func (r *InMemoryRepository) ListSlots(ctx context.Context, providerID string, from time.Time) ([]Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Slot
	for _, s := range r.slots {
		if s.ProviderID == providerID && !s.Booked && !s.StartsAt.Before(from) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

// GetSlot returns the slot with id.
func (r *InMemoryRepository) GetSlot(ctx context.Context, id string) (*Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.slots[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return &s, nil
}

// MarkSlotBooked flags a slot as taken. Returns ErrSlotTaken if another
// booking got there first.
func (r *InMemoryRepository) MarkSlotBooked(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return ErrSlotNotFound
	}
	if s.Booked {
		return ErrSlotTaken
	}
	s.Booked = true
	r.slots[id] = s
	return nil
}
