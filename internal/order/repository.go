package order

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("order not found")

// Repository persists order headers and details. Status mutations are
// single-row atomic updates; concurrent lifecycle calls against the same
// order must never observe a half-applied transition.
type Repository interface {
	CreateHeader(h Header) (Header, error)
	CreateDetails(details []Detail) ([]Detail, error)
	GetByID(id uuid.UUID) (Header, error)
	// GetByIDWithDetails loads the header together with its detail lines
	// and their product name/image snapshot.
	GetByIDWithDetails(id uuid.UUID) (Header, error)
	ListAll() ([]Header, error)
	ListByUser(userID uuid.UUID) ([]Header, error)
	UpdateStatus(id uuid.UUID, status Status) error
	SetSessionID(id uuid.UUID, sessionID string) error
	// RecordPaymentOutcome persists the validated status and, when
	// intentID is non-empty, the payment intent id in one atomic write.
	// An already recorded intent id is never cleared.
	RecordPaymentOutcome(id uuid.UUID, status Status, intentID string) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu      sync.RWMutex
	headers map[uuid.UUID]Header
	details map[uuid.UUID][]Detail
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		headers: make(map[uuid.UUID]Header),
		details: make(map[uuid.UUID][]Detail),
	}
}

func (r *InMemoryRepository) CreateHeader(h Header) (Header, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.Details = nil
	r.headers[h.ID] = h
	return h, nil
}

func (r *InMemoryRepository) CreateDetails(details []Detail) ([]Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Detail, 0, len(details))
	for _, d := range details {
		if _, ok := r.headers[d.OrderID]; !ok {
			return nil, ErrNotFound
		}
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		r.details[d.OrderID] = append(r.details[d.OrderID], d)
		out = append(out, d)
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id uuid.UUID) (Header, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.headers[id]
	if !ok {
		return Header{}, ErrNotFound
	}
	return h, nil
}

func (r *InMemoryRepository) GetByIDWithDetails(id uuid.UUID) (Header, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.headers[id]
	if !ok {
		return Header{}, ErrNotFound
	}
	h.Details = append([]Detail(nil), r.details[id]...)
	return h, nil
}

func (r *InMemoryRepository) ListAll() ([]Header, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Header, 0, len(r.headers))
	for _, h := range r.headers {
		out = append(out, h)
	}
	return out, nil
}

func (r *InMemoryRepository) ListByUser(userID uuid.UUID) ([]Header, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Header, 0)
	for _, h := range r.headers {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(id uuid.UUID, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.headers[id]
	if !ok {
		return ErrNotFound
	}
	h.Status = status
	r.headers[id] = h
	return nil
}

func (r *InMemoryRepository) SetSessionID(id uuid.UUID, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.headers[id]
	if !ok {
		return ErrNotFound
	}
	h.SessionID = sessionID
	r.headers[id] = h
	return nil
}

func (r *InMemoryRepository) RecordPaymentOutcome(id uuid.UUID, status Status, intentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.headers[id]
	if !ok {
		return ErrNotFound
	}
	h.Status = status
	if intentID != "" {
		h.PaymentIntentID = intentID
	}
	r.headers[id] = h
	return nil
}
