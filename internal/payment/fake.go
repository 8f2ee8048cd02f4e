package payment

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

type fakeSession struct {
	paymentStatus string
	intentID      string
	intentStatus  string
}

// FakeGateway is an in-memory Gateway used by tests and by local runs
// without a Stripe key. Failure modes are scriptable per operation.
type FakeGateway struct {
	mu       sync.Mutex
	baseURL  string
	seq      int
	sessions map[string]*fakeSession
	coupons  map[string]decimal.Decimal
	refunds  map[string]bool

	FailSessions bool
	FailCoupons  bool
	FailDeletes  bool
	FailRefunds  bool
	// RefundOutcome is what a non-failing refund reports.
	RefundOutcome bool
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		baseURL:       "https://pay.example.test",
		sessions:      make(map[string]*fakeSession),
		coupons:       make(map[string]decimal.Decimal),
		refunds:       make(map[string]bool),
		RefundOutcome: true,
	}
}

func (g *FakeGateway) CreateSession(req SessionRequest) (Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailSessions {
		return Session{}, &RemoteError{Op: "create session", Message: "session creation refused"}
	}

	g.seq++
	id := fmt.Sprintf("cs_test_%d", g.seq)
	g.sessions[id] = &fakeSession{
		paymentStatus: SessionUnpaid,
		intentID:      fmt.Sprintf("pi_test_%d", g.seq),
		intentStatus:  IntentRequiresPaymentMethod,
	}
	return Session{ID: id, URL: g.baseURL + "/checkout/" + id}, nil
}

// CompletePayment marks a session's payment with the given intent status,
// simulating what the customer did on the hosted payment page.
func (g *FakeGateway) CompletePayment(sessionID, intentStatus string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sess, ok := g.sessions[sessionID]
	if !ok {
		return
	}
	sess.paymentStatus = SessionPaid
	sess.intentStatus = intentStatus
}

func (g *FakeGateway) GetSession(sessionID string) (SessionStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sess, ok := g.sessions[sessionID]
	if !ok {
		return SessionStatus{}, &RemoteError{Op: "get session", Message: "no such session: " + sessionID}
	}
	return SessionStatus{PaymentStatus: sess.paymentStatus, PaymentIntentID: sess.intentID}, nil
}

func (g *FakeGateway) GetPaymentIntent(intentID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, sess := range g.sessions {
		if sess.intentID == intentID {
			return sess.intentStatus, nil
		}
	}
	return "", &RemoteError{Op: "get payment intent", Message: "no such intent: " + intentID}
}

func (g *FakeGateway) CreateRefund(intentID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailRefunds {
		return false, &RemoteError{Op: "create refund", Message: "refund refused"}
	}
	g.refunds[intentID] = g.RefundOutcome
	return g.RefundOutcome, nil
}

// Refunded reports whether a refund was issued for the given intent.
func (g *FakeGateway) Refunded(intentID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refunds[intentID]
}

func (g *FakeGateway) CreateCoupon(code string, amountOff decimal.Decimal) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailCoupons {
		return "", &RemoteError{Op: "create coupon", Message: "coupon creation refused"}
	}
	g.coupons[code] = amountOff
	return code, nil
}

func (g *FakeGateway) DeleteCoupon(code string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailDeletes {
		return &RemoteError{Op: "delete coupon", Message: "coupon deletion refused"}
	}
	delete(g.coupons, code)
	return nil
}

// HasCoupon reports whether the remote side currently holds the coupon.
func (g *FakeGateway) HasCoupon(code string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.coupons[code]
	return ok
}

func (g *FakeGateway) PromotionCodeID(code string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.coupons[code]; ok {
		return "promo_" + code, nil
	}
	return "", nil
}
