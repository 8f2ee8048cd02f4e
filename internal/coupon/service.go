package coupon

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Oussama-souissi024/formation-ecommerce/internal/payment"
)

// Service keeps local coupon rows and the remote payment system in sync.
// Every mutation goes to the remote system first; the local row only
// changes once the remote side has acknowledged. A coupon therefore never
// exists locally without its remote counterpart.
type Service struct {
	repo    Repository
	gateway payment.Gateway
}

func NewService(repo Repository, gateway payment.Gateway) *Service {
	return &Service{repo: repo, gateway: gateway}
}

// Add creates the coupon remotely, then persists it locally. A remote
// failure aborts the whole operation with nothing persisted.
func (s *Service) Add(cp Coupon) (Coupon, error) {
	if _, err := s.gateway.CreateCoupon(cp.Code, cp.DiscountAmount); err != nil {
		return Coupon{}, fmt.Errorf("create coupon in payment system: %w", err)
	}
	return s.repo.Create(cp)
}

// Update replaces the remote coupon (the remote system has no in-place
// edit: delete then recreate) and only then updates the local row.
//
// If the remote delete fails, nothing changes on either side. If the
// remote recreate fails, the coupon is gone remotely while the local row
// keeps its old values; the caller gets the remote error and must re-add.
func (s *Service) Update(cp Coupon) error {
	existing, err := s.repo.GetByID(cp.ID)
	if err != nil {
		return err
	}

	if err := s.gateway.DeleteCoupon(existing.Code); err != nil {
		return fmt.Errorf("delete coupon in payment system: %w", err)
	}
	if _, err := s.gateway.CreateCoupon(cp.Code, cp.DiscountAmount); err != nil {
		return fmt.Errorf("recreate coupon in payment system: %w", err)
	}

	return s.repo.Update(cp)
}

// Delete removes the coupon remotely first; the local row is only removed
// once the remote delete has succeeded.
func (s *Service) Delete(id uuid.UUID) error {
	cp, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.gateway.DeleteCoupon(cp.Code); err != nil {
		return fmt.Errorf("delete coupon in payment system: %w", err)
	}

	return s.repo.Delete(id)
}

// GetByCode is a pure local lookup; no remote call is made.
func (s *Service) GetByCode(code string) (Coupon, error) {
	return s.repo.GetByCode(code)
}

func (s *Service) GetByID(id uuid.UUID) (Coupon, error) {
	return s.repo.GetByID(id)
}

func (s *Service) List() ([]Coupon, error) {
	return s.repo.List()
}
