package questionnaire

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrQuestionNotFound is returned when no question matches the lookup.
var ErrQuestionNotFound = errors.New("question not found")

// Repository defines the interface for question storage.
type Repository interface {
	ListQuestions(ctx context.Context, serviceType string) ([]Question, error)
}

// InMemoryRepository serves questions from memory. Used in development
// and tests.
type InMemoryRepository struct {
	mu        sync.RWMutex
	questions map[string]Question
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{questions: make(map[string]Question)}
}

// AddQuestion registers a question.
func (r *InMemoryRepository) AddQuestion(q Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions[q.ID] = q
}

// ListQuestions returns the questions for a service type in display order.
func (r *InMemoryRepository) ListQuestions(ctx context.Context, serviceType string) ([]Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Question
	for _, q := range r.questions {
		if q.ServiceType == serviceType {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}
