package coupon

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon is a locally owned discount definition mirrored in the remote
// payment system under its code.
type Coupon struct {
	ID             uuid.UUID       `json:"couponId"`
	Code           string          `json:"couponCode"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}
