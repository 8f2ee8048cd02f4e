package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Header is a user's cart; one per user, optionally carrying a coupon
// code. It only exists while the user has items in the cart.
type Header struct {
	ID         uuid.UUID `json:"cartHeaderId"`
	UserID     uuid.UUID `json:"userId"`
	CouponCode string    `json:"couponCode,omitempty"`
}

// Line is a per-product quantity line. Price and product fields are read
// live from the catalog; they are only frozen when the cart becomes an
// order.
type Line struct {
	ID           uuid.UUID       `json:"cartDetailsId"`
	HeaderID     uuid.UUID       `json:"cartHeaderId"`
	ProductID    uuid.UUID       `json:"productId"`
	ProductName  string          `json:"productName,omitempty"`
	ProductImage string          `json:"productImage,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Count        int             `json:"count"`
}

// Snapshot is the priced view of a cart. Total is always derived from
// the lines and the attached coupon, never stored.
type Snapshot struct {
	HeaderID   uuid.UUID       `json:"cartHeaderId"`
	UserID     uuid.UUID       `json:"userId"`
	CouponCode string          `json:"couponCode,omitempty"`
	Discount   decimal.Decimal `json:"discount"`
	Lines      []Line          `json:"cartDetails"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Total      decimal.Decimal `json:"cartTotal"`
}

// Empty reports whether the snapshot has no lines.
func (s Snapshot) Empty() bool {
	return len(s.Lines) == 0
}
