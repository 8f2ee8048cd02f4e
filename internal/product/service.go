package product

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Oussama-souissi024/formation-ecommerce/internal/cache"
)

const cacheTTL = 5 * time.Minute

// Service orchestrates catalog reads and writes. When a cache is
// configured, single-product and full-list reads go through it; writes
// invalidate the affected keys.
type Service struct {
	repo  Repository
	cache cache.Cache
}

func NewService(repo Repository, c cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

func (s *Service) List() ([]Product, error) {
	ctx := context.Background()
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, s.cache.GenerateKey("list", "all")); err == nil && raw != "" {
			var out []Product
			if err := json.Unmarshal([]byte(raw), &out); err == nil {
				return out, nil
			}
		}
	}

	out, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	s.cachePut("list", "all", out)
	return out, nil
}

func (s *Service) ListByIDs(ids []uuid.UUID) ([]Product, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) GetByID(id uuid.UUID) (Product, error) {
	ctx := context.Background()
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, s.cache.GenerateKey("get", id.String())); err == nil && raw != "" {
			var p Product
			if err := json.Unmarshal([]byte(raw), &p); err == nil {
				return p, nil
			}
		}
	}

	p, err := s.repo.GetByID(id)
	if err != nil {
		return Product{}, err
	}
	s.cachePut("get", id.String(), p)
	return p, nil
}

func (s *Service) Create(p Product) (Product, error) {
	created, err := s.repo.Create(p)
	if err != nil {
		return Product{}, err
	}
	s.invalidate(created.ID)
	return created, nil
}

func (s *Service) Update(p Product) (Product, error) {
	updated, err := s.repo.Update(p)
	if err != nil {
		return Product{}, err
	}
	s.invalidate(updated.ID)
	return updated, nil
}

func (s *Service) Delete(id uuid.UUID) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

func (s *Service) cachePut(operation, key string, v interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	// cache errors are not worth failing a read over
	_ = s.cache.Set(context.Background(), s.cache.GenerateKey(operation, key), string(raw), cacheTTL)
}

func (s *Service) invalidate(id uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(context.Background(),
		s.cache.GenerateKey("get", id.String()),
		s.cache.GenerateKey("list", "all"))
}
