package payment

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/coupon"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/promotioncode"
	"github.com/stripe/stripe-go/v76/refund"
)

// StripeGateway implements Gateway against the Stripe API.
type StripeGateway struct {
	currency string
}

// NewStripeGateway configures the global Stripe client with the given
// secret key. Amounts are charged in the given currency.
func NewStripeGateway(secretKey, currency string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{currency: currency}
}

func (g *StripeGateway) CreateSession(req SessionRequest) (Session, error) {
	params := &stripe.CheckoutSessionParams{
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	if req.Reference != "" {
		params.ClientReferenceID = stripe.String(req.Reference)
	}

	for _, line := range req.Lines {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(g.currency),
				UnitAmount: stripe.Int64(minorUnits(line.UnitPrice)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(line.Name),
					Description: stripe.String(line.Description),
				},
			},
			Quantity: stripe.Int64(int64(line.Quantity)),
		})
	}

	if req.CouponCode != "" {
		// Prefer a matching promotion code; fall back to treating the
		// value as a coupon id, which is how coupons are registered.
		promoID, err := g.PromotionCodeID(req.CouponCode)
		if err == nil && promoID != "" {
			params.Discounts = []*stripe.CheckoutSessionDiscountParams{
				{PromotionCode: stripe.String(promoID)},
			}
		} else {
			params.Discounts = []*stripe.CheckoutSessionDiscountParams{
				{Coupon: stripe.String(req.CouponCode)},
			}
		}
	}

	sess, err := session.New(params)
	if err != nil {
		return Session{}, remoteErr("create session", err)
	}
	return Session{ID: sess.ID, URL: sess.URL}, nil
}

func (g *StripeGateway) GetSession(sessionID string) (SessionStatus, error) {
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return SessionStatus{}, remoteErr("get session", err)
	}

	status := SessionStatus{PaymentStatus: string(sess.PaymentStatus)}
	if sess.PaymentIntent != nil {
		status.PaymentIntentID = sess.PaymentIntent.ID
	}
	return status, nil
}

func (g *StripeGateway) GetPaymentIntent(intentID string) (string, error) {
	intent, err := paymentintent.Get(intentID, nil)
	if err != nil {
		return "", remoteErr("get payment intent", err)
	}
	return string(intent.Status), nil
}

func (g *StripeGateway) CreateRefund(intentID string) (bool, error) {
	ref, err := refund.New(&stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	})
	if err != nil {
		return false, remoteErr("create refund", err)
	}
	return ref.Status == stripe.RefundStatusSucceeded, nil
}

func (g *StripeGateway) CreateCoupon(code string, amountOff decimal.Decimal) (string, error) {
	cp, err := coupon.New(&stripe.CouponParams{
		ID:        stripe.String(code),
		Name:      stripe.String(code),
		Duration:  stripe.String(string(stripe.CouponDurationOnce)),
		AmountOff: stripe.Int64(minorUnits(amountOff)),
		Currency:  stripe.String(g.currency),
	})
	if err != nil {
		return "", remoteErr("create coupon", err)
	}
	if !cp.Valid {
		return "", &RemoteError{Op: "create coupon", Message: "coupon is not valid"}
	}
	return cp.ID, nil
}

func (g *StripeGateway) DeleteCoupon(code string) error {
	if _, err := coupon.Del(code, nil); err != nil {
		return remoteErr("delete coupon", err)
	}
	return nil
}

func (g *StripeGateway) PromotionCodeID(code string) (string, error) {
	params := &stripe.PromotionCodeListParams{Code: stripe.String(code)}
	params.Limit = stripe.Int64(1)

	iter := promotioncode.List(params)
	for iter.Next() {
		return iter.PromotionCode().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", remoteErr("list promotion codes", err)
	}
	return "", nil
}

func remoteErr(op string, err error) *RemoteError {
	var sErr *stripe.Error
	if errors.As(err, &sErr) && sErr.Msg != "" {
		return &RemoteError{Op: op, Message: sErr.Msg}
	}
	return &RemoteError{Op: op, Message: err.Error()}
}
