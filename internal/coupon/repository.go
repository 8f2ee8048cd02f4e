package coupon

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("coupon not found")

type Repository interface {
	Create(cp Coupon) (Coupon, error)
	GetByID(id uuid.UUID) (Coupon, error)
	GetByCode(code string) (Coupon, error)
	List() ([]Coupon, error)
	Update(cp Coupon) error
	Delete(id uuid.UUID) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu      sync.RWMutex
	coupons []Coupon
}

func NewInMemoryRepository(seed []Coupon) *InMemoryRepository {
	r := &InMemoryRepository{coupons: make([]Coupon, 0, len(seed))}
	r.coupons = append(r.coupons, seed...)
	return r
}

func (r *InMemoryRepository) Create(cp Coupon) (Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	r.coupons = append(r.coupons, cp)
	return cp, nil
}

func (r *InMemoryRepository) GetByID(id uuid.UUID) (Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cp := range r.coupons {
		if cp.ID == id {
			return cp, nil
		}
	}
	return Coupon{}, ErrNotFound
}

func (r *InMemoryRepository) GetByCode(code string) (Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cp := range r.coupons {
		if cp.Code == code {
			return cp, nil
		}
	}
	return Coupon{}, ErrNotFound
}

func (r *InMemoryRepository) List() ([]Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Coupon, len(r.coupons))
	copy(out, r.coupons)
	return out, nil
}

func (r *InMemoryRepository) Update(cp Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.coupons {
		if r.coupons[i].ID == cp.ID {
			r.coupons[i] = cp
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.coupons {
		if r.coupons[i].ID == id {
			r.coupons = append(r.coupons[:i], r.coupons[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
