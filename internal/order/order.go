package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the closed set of order lifecycle states. The main path is
// Pending → Approved → ReadyForPickup → Completed; payment validation can
// branch to PaymentRequired, PaymentPending or PaymentFailed, and
// Cancelled/Refunded are terminal states reachable from Approved.
type Status string

const (
	StatusPending         Status = "Pending"
	StatusApproved        Status = "Approved"
	StatusReadyForPickup  Status = "ReadyForPickup"
	StatusCompleted       Status = "Completed"
	StatusPaymentRequired Status = "PaymentRequired"
	StatusPaymentPending  Status = "PaymentPending"
	StatusPaymentFailed   Status = "PaymentFailed"
	StatusCancelled       Status = "Cancelled"
	StatusRefunded        Status = "Refunded"
)

// Valid reports whether s is a member of the status enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusReadyForPickup, StatusCompleted,
		StatusPaymentRequired, StatusPaymentPending, StatusPaymentFailed,
		StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Header is one checkout attempt. Contact fields are a snapshot taken at
// order time, not a live reference to the user row.
type Header struct {
	ID              uuid.UUID       `json:"orderId"`
	UserID          uuid.UUID       `json:"userId,omitempty"`
	CouponCode      string          `json:"couponCode,omitempty"`
	Discount        decimal.Decimal `json:"discount"`
	OrderTotal      decimal.Decimal `json:"orderTotal"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	OrderTime       string          `json:"orderTime"`
	Status          Status          `json:"status"`
	PaymentIntentID string          `json:"paymentIntentId,omitempty"`
	SessionID       string          `json:"sessionId,omitempty"`
	Details         []Detail        `json:"orderDetails,omitempty"`
}

// Detail is one product line of an order. Price is the unit price frozen
// at order time; it must never track later catalog changes.
type Detail struct {
	ID           uuid.UUID       `json:"orderDetailsId"`
	OrderID      uuid.UUID       `json:"orderId"`
	ProductID    uuid.UUID       `json:"productId"`
	ProductName  string          `json:"productName,omitempty"`
	ProductImage string          `json:"productImage,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Count        int             `json:"count"`
}
