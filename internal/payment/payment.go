package payment

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Session payment statuses reported by the remote system.
const (
	SessionPaid   = "paid"
	SessionUnpaid = "unpaid"
)

// Payment-intent statuses the order lifecycle cares about. Anything else
// is treated as a failed payment.
const (
	IntentSucceeded             = "succeeded"
	IntentRequiresPaymentMethod = "requires_payment_method"
	IntentRequiresAction        = "requires_action"
)

// SessionLine is one priced line of a checkout session.
type SessionLine struct {
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// SessionRequest describes the checkout session to create. SuccessURL and
// CancelURL are supplied fully formed by the caller.
type SessionRequest struct {
	Reference  string
	SuccessURL string
	CancelURL  string
	CouponCode string
	Lines      []SessionLine
}

// Session is the created remote checkout session.
type Session struct {
	ID  string
	URL string
}

// SessionStatus is the remote view of an existing session.
type SessionStatus struct {
	PaymentStatus   string
	PaymentIntentID string
}

// Gateway wraps the remote payment processor. Implementations must report
// remote-side failures as *RemoteError so callers can tell a sync failure
// from a local one.
type Gateway interface {
	CreateSession(req SessionRequest) (Session, error)
	GetSession(sessionID string) (SessionStatus, error)
	GetPaymentIntent(intentID string) (string, error)
	// CreateRefund reports true only when the remote refund reached the
	// succeeded state.
	CreateRefund(intentID string) (bool, error)
	// CreateCoupon registers a one-off amount-off coupon keyed by code and
	// returns the remote identifier.
	CreateCoupon(code string, amountOff decimal.Decimal) (string, error)
	DeleteCoupon(code string) error
	// PromotionCodeID resolves a customer-facing promotion code to its
	// remote id; empty string when no match exists.
	PromotionCodeID(code string) (string, error)
}

// RemoteError carries the remote system's failure message for one
// operation. Local state must be left unchanged when it is returned.
type RemoteError struct {
	Op      string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("payment: %s: %s", e.Op, e.Message)
}

// minorUnits converts a decimal amount to the integer minor-unit
// representation (cents) the remote system expects.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
