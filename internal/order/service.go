package order

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/Oussama-souissi024/formation-ecommerce/internal/payment"
)

var (
	// ErrValidationInconclusive means payment validation could not
	// complete; the order was not mutated and its status is not to be
	// read as a payment verdict.
	ErrValidationInconclusive = errors.New("payment validation could not complete")
	// ErrNoPaymentIntent means a refund was requested for an order that
	// never recorded a successful payment.
	ErrNoPaymentIntent = errors.New("order has no payment intent")
	// ErrRefundDeclined means the remote refund did not reach the
	// succeeded state; the order status is unchanged.
	ErrRefundDeclined = errors.New("refund was not accepted by the payment system")
	// ErrInvalidTransition means the order's current status does not
	// permit the requested operation.
	ErrInvalidTransition = errors.New("order status does not permit this operation")
	// ErrUnknownStatus means the requested status is not part of the
	// lifecycle enumeration.
	ErrUnknownStatus = errors.New("unknown order status")
)

// OrderIDPlaceholder is replaced with the persisted order id in the
// redirect URLs passed to Create, so callers can point the payment
// success page at an order that does not exist yet.
const OrderIDPlaceholder = "{orderId}"

// RedirectURLs are the fully formed payment redirect targets supplied by
// the caller; the lifecycle never derives them from ambient request state.
type RedirectURLs struct {
	Success string
	Cancel  string
}

// CreateResult reports the outcome of order creation. AwaitingPaymentInit
// is the degraded-but-created outcome: the order exists and is returned,
// but no payment session could be established.
type CreateResult struct {
	Order               Header
	SessionURL          string
	AwaitingPaymentInit bool
}

// Service is the order lifecycle manager: it owns every status
// transition and coordinates the persistence layer with the payment
// gateway.
type Service struct {
	repo    Repository
	gateway payment.Gateway
}

func NewService(repo Repository, gateway payment.Gateway) *Service {
	return &Service{repo: repo, gateway: gateway}
}

// Create persists the header and its details, then asks the gateway for
// a checkout session. The caller sets the initial status (Pending) and
// orderTime; Create never defaults them. A gateway failure does not roll
// the order back: a payment-provider outage must not block order capture,
// so the created order is returned with AwaitingPaymentInit set.
func (s *Service) Create(h Header, details []Detail, redirect RedirectURLs) (CreateResult, error) {
	if !h.Status.Valid() {
		return CreateResult{}, fmt.Errorf("%w: %q", ErrUnknownStatus, h.Status)
	}
	for _, d := range details {
		if d.Count < 1 {
			return CreateResult{}, fmt.Errorf("order line for product %s has count %d", d.ProductID, d.Count)
		}
	}

	created, err := s.repo.CreateHeader(h)
	if err != nil {
		return CreateResult{}, err
	}
	for i := range details {
		details[i].OrderID = created.ID
	}
	if _, err := s.repo.CreateDetails(details); err != nil {
		return CreateResult{}, err
	}

	full, err := s.repo.GetByIDWithDetails(created.ID)
	if err != nil {
		return CreateResult{}, err
	}

	req := payment.SessionRequest{
		Reference:  full.ID.String(),
		SuccessURL: strings.ReplaceAll(redirect.Success, OrderIDPlaceholder, full.ID.String()),
		CancelURL:  strings.ReplaceAll(redirect.Cancel, OrderIDPlaceholder, full.ID.String()),
		CouponCode: full.CouponCode,
	}
	for _, d := range full.Details {
		req.Lines = append(req.Lines, payment.SessionLine{
			Name:        d.ProductName,
			Description: fmt.Sprintf("Quantity: %d", d.Count),
			UnitPrice:   d.Price,
			Quantity:    d.Count,
		})
	}

	sess, err := s.gateway.CreateSession(req)
	if err != nil {
		log.Printf("order %s: payment session creation failed: %v", full.ID, err)
		return CreateResult{Order: full, AwaitingPaymentInit: true}, nil
	}

	if err := s.repo.SetSessionID(full.ID, sess.ID); err != nil {
		return CreateResult{}, err
	}
	full.SessionID = sess.ID

	return CreateResult{Order: full, SessionURL: sess.URL}, nil
}

// Validate reconciles the order with the remote payment session. An
// unpaid session keeps the order Pending; otherwise the payment intent's
// status decides the transition, and a succeeded intent is the only
// place the paymentIntentId ever gets recorded. Remote or lookup
// failures leave the order untouched and surface as
// ErrValidationInconclusive.
func (s *Service) Validate(id uuid.UUID) (Header, error) {
	h, err := s.repo.GetByIDWithDetails(id)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrValidationInconclusive, err)
	}
	if h.SessionID == "" {
		return Header{}, fmt.Errorf("%w: order has no payment session", ErrValidationInconclusive)
	}

	sess, err := s.gateway.GetSession(h.SessionID)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrValidationInconclusive, err)
	}

	if sess.PaymentStatus == payment.SessionUnpaid {
		if err := s.repo.UpdateStatus(id, StatusPending); err != nil {
			return Header{}, fmt.Errorf("%w: %v", ErrValidationInconclusive, err)
		}
		h.Status = StatusPending
		return h, nil
	}

	intentStatus, err := s.gateway.GetPaymentIntent(sess.PaymentIntentID)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrValidationInconclusive, err)
	}

	var status Status
	intentID := ""
	switch intentStatus {
	case payment.IntentSucceeded:
		status = StatusApproved
		intentID = sess.PaymentIntentID
	case payment.IntentRequiresPaymentMethod:
		status = StatusPaymentRequired
	case payment.IntentRequiresAction:
		status = StatusPaymentPending
	default:
		status = StatusPaymentFailed
	}

	if err := s.repo.RecordPaymentOutcome(id, status, intentID); err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrValidationInconclusive, err)
	}

	h.Status = status
	if intentID != "" {
		h.PaymentIntentID = intentID
	}
	return h, nil
}

// ProcessRefund refunds the order's payment. The status moves to
// Refunded only after the remote refund reports success; any other
// outcome leaves the order unchanged.
func (s *Service) ProcessRefund(id uuid.UUID) error {
	h, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if h.PaymentIntentID == "" {
		return ErrNoPaymentIntent
	}

	ok, err := s.gateway.CreateRefund(h.PaymentIntentID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRefundDeclined
	}

	return s.repo.UpdateStatus(id, StatusRefunded)
}

// Cancel cancels an Approved order. When a payment intent exists the
// refund must succeed before the status moves to Cancelled; without one
// the order transitions directly. Any other starting status is rejected.
func (s *Service) Cancel(id uuid.UUID) error {
	h, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if h.Status != StatusApproved {
		return fmt.Errorf("%w: cannot cancel from %q", ErrInvalidTransition, h.Status)
	}

	if h.PaymentIntentID != "" {
		ok, err := s.gateway.CreateRefund(h.PaymentIntentID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRefundDeclined
		}
	}

	return s.repo.UpdateStatus(id, StatusCancelled)
}

// UpdateStatus is the administrative override used for operational
// transitions (ReadyForPickup, Completed). It does not guard on the
// prior state; the handler restricts it to admins.
func (s *Service) UpdateStatus(id uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	return s.repo.UpdateStatus(id, status)
}

func (s *Service) GetByID(id uuid.UUID) (Header, error) {
	return s.repo.GetByIDWithDetails(id)
}

func (s *Service) ListByUser(userID uuid.UUID) ([]Header, error) {
	return s.repo.ListByUser(userID)
}

func (s *Service) ListAll() ([]Header, error) {
	return s.repo.ListAll()
}
