package cart

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Oussama-souissi024/formation-ecommerce/internal/coupon"
	"github.com/Oussama-souissi024/formation-ecommerce/internal/product"
)

var ErrUnknownCoupon = errors.New("coupon code not found")

// CouponSource resolves coupon codes; satisfied by *coupon.Service.
type CouponSource interface {
	GetByCode(code string) (coupon.Coupon, error)
}

// ProductSource resolves catalog products; satisfied by *product.Service.
type ProductSource interface {
	GetByID(id uuid.UUID) (product.Product, error)
}

type Service struct {
	repo     Repository
	coupons  CouponSource
	products ProductSource
}

func NewService(repo Repository, coupons CouponSource, products ProductSource) *Service {
	return &Service{repo: repo, coupons: coupons, products: products}
}

// Get returns the user's priced cart. A user without a cart gets an
// empty snapshot, not an error.
func (s *Service) Get(userID uuid.UUID) (Snapshot, error) {
	h, err := s.repo.HeaderByUser(userID)
	if errors.Is(err, ErrNotFound) {
		return Snapshot{UserID: userID, Lines: []Line{}}, nil
	}
	if err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(h)
}

// UpsertItem merges count into the user's cart line for the product.
// Counts add up across calls; a merge result of zero or less removes the
// line. The header is created on first use.
func (s *Service) UpsertItem(userID, productID uuid.UUID, count int) (Snapshot, error) {
	if count == 0 {
		return s.Get(userID)
	}

	h, err := s.repo.HeaderByUser(userID)
	if errors.Is(err, ErrNotFound) {
		h, err = s.repo.CreateHeader(Header{UserID: userID})
	}
	if err != nil {
		return Snapshot{}, err
	}

	line, err := s.repo.LineByProduct(h.ID, productID)
	switch {
	case err == nil:
		merged := line.Count + count
		if merged <= 0 {
			if err := s.repo.DeleteLine(line.ID); err != nil {
				return Snapshot{}, err
			}
		} else if err := s.repo.UpdateLineCount(line.ID, merged); err != nil {
			return Snapshot{}, err
		}
	case errors.Is(err, ErrLineNotFound):
		if count < 1 {
			break
		}
		if _, err := s.products.GetByID(productID); err != nil {
			return Snapshot{}, fmt.Errorf("product %s: %w", productID, err)
		}
		if _, err := s.repo.InsertLine(Line{HeaderID: h.ID, ProductID: productID, Count: count}); err != nil {
			return Snapshot{}, err
		}
	default:
		return Snapshot{}, err
	}

	return s.snapshot(h)
}

// RemoveItem drops the product's line from the cart entirely.
func (s *Service) RemoveItem(userID, productID uuid.UUID) (Snapshot, error) {
	h, err := s.repo.HeaderByUser(userID)
	if errors.Is(err, ErrNotFound) {
		return Snapshot{UserID: userID, Lines: []Line{}}, nil
	}
	if err != nil {
		return Snapshot{}, err
	}

	line, err := s.repo.LineByProduct(h.ID, productID)
	if err == nil {
		if err := s.repo.DeleteLine(line.ID); err != nil {
			return Snapshot{}, err
		}
	} else if !errors.Is(err, ErrLineNotFound) {
		return Snapshot{}, err
	}

	return s.snapshot(h)
}

// ApplyCoupon attaches a coupon code to the cart after checking it
// exists locally. A blank code detaches the current coupon.
func (s *Service) ApplyCoupon(userID uuid.UUID, code string) (Snapshot, error) {
	h, err := s.repo.HeaderByUser(userID)
	if err != nil {
		return Snapshot{}, err
	}

	if code != "" {
		if _, err := s.coupons.GetByCode(code); err != nil {
			if errors.Is(err, coupon.ErrNotFound) {
				return Snapshot{}, ErrUnknownCoupon
			}
			return Snapshot{}, err
		}
	}

	if err := s.repo.SetCoupon(h.ID, code); err != nil {
		return Snapshot{}, err
	}
	h.CouponCode = code
	return s.snapshot(h)
}

// Clear removes the user's cart header and all its lines.
func (s *Service) Clear(userID uuid.UUID) error {
	return s.repo.Clear(userID)
}

// snapshot prices the cart: subtotal from the lines, discount from the
// attached coupon, total clamped at zero. A coupon that disappeared
// since it was attached contributes no discount.
func (s *Service) snapshot(h Header) (Snapshot, error) {
	lines, err := s.repo.Lines(h.ID)
	if err != nil {
		return Snapshot{}, err
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Count))))
	}

	discount := decimal.Zero
	if h.CouponCode != "" {
		cp, err := s.coupons.GetByCode(h.CouponCode)
		if err == nil {
			discount = cp.DiscountAmount
		} else if !errors.Is(err, coupon.ErrNotFound) {
			return Snapshot{}, err
		}
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Snapshot{
		HeaderID:   h.ID,
		UserID:     h.UserID,
		CouponCode: h.CouponCode,
		Discount:   discount,
		Lines:      lines,
		Subtotal:   subtotal,
		Total:      total,
	}, nil
}
