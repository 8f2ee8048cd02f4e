package cart

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("cart not found")
	ErrLineNotFound = errors.New("cart line not found")
)

type Repository interface {
	HeaderByUser(userID uuid.UUID) (Header, error)
	CreateHeader(h Header) (Header, error)
	SetCoupon(headerID uuid.UUID, code string) error
	// Lines returns the cart lines priced with the current catalog data.
	Lines(headerID uuid.UUID) ([]Line, error)
	LineByProduct(headerID, productID uuid.UUID) (Line, error)
	InsertLine(l Line) (Line, error)
	UpdateLineCount(lineID uuid.UUID, count int) error
	DeleteLine(lineID uuid.UUID) error
	// Clear removes the user's header and all its lines.
	Clear(userID uuid.UUID) error
}

type inMemoryProduct struct {
	Name  string
	Image string
	Price decimal.Decimal
}

// InMemoryRepository is used for tests and local scenarios. It is seeded
// with the product data the Postgres implementation would join in.
type InMemoryRepository struct {
	mu       sync.RWMutex
	headers  map[uuid.UUID]Header
	lines    map[uuid.UUID][]Line
	products map[uuid.UUID]inMemoryProduct
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		headers:  make(map[uuid.UUID]Header),
		lines:    make(map[uuid.UUID][]Line),
		products: make(map[uuid.UUID]inMemoryProduct),
	}
}

// SeedProduct registers catalog data used to price lines.
func (r *InMemoryRepository) SeedProduct(id uuid.UUID, name string, price decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[id] = inMemoryProduct{Name: name, Price: price}
}

func (r *InMemoryRepository) HeaderByUser(userID uuid.UUID) (Header, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.headers {
		if h.UserID == userID {
			return h, nil
		}
	}
	return Header{}, ErrNotFound
}

func (r *InMemoryRepository) CreateHeader(h Header) (Header, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	r.headers[h.ID] = h
	return h, nil
}

func (r *InMemoryRepository) SetCoupon(headerID uuid.UUID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.headers[headerID]
	if !ok {
		return ErrNotFound
	}
	h.CouponCode = code
	r.headers[headerID] = h
	return nil
}

func (r *InMemoryRepository) Lines(headerID uuid.UUID) ([]Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Line, 0, len(r.lines[headerID]))
	for _, l := range r.lines[headerID] {
		out = append(out, r.priced(l))
	}
	return out, nil
}

func (r *InMemoryRepository) LineByProduct(headerID, productID uuid.UUID) (Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.lines[headerID] {
		if l.ProductID == productID {
			return r.priced(l), nil
		}
	}
	return Line{}, ErrLineNotFound
}

func (r *InMemoryRepository) InsertLine(l Line) (Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.headers[l.HeaderID]; !ok {
		return Line{}, ErrNotFound
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.lines[l.HeaderID] = append(r.lines[l.HeaderID], l)
	return r.priced(l), nil
}

func (r *InMemoryRepository) UpdateLineCount(lineID uuid.UUID, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for headerID, lines := range r.lines {
		for i := range lines {
			if lines[i].ID == lineID {
				lines[i].Count = count
				r.lines[headerID] = lines
				return nil
			}
		}
	}
	return ErrLineNotFound
}

func (r *InMemoryRepository) DeleteLine(lineID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for headerID, lines := range r.lines {
		for i := range lines {
			if lines[i].ID == lineID {
				r.lines[headerID] = append(lines[:i], lines[i+1:]...)
				return nil
			}
		}
	}
	return ErrLineNotFound
}

func (r *InMemoryRepository) Clear(userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, h := range r.headers {
		if h.UserID == userID {
			delete(r.headers, id)
			delete(r.lines, id)
			return nil
		}
	}
	return nil
}

func (r *InMemoryRepository) priced(l Line) Line {
	if p, ok := r.products[l.ProductID]; ok {
		l.ProductName = p.Name
		l.ProductImage = p.Image
		l.Price = p.Price
	}
	return l
}
