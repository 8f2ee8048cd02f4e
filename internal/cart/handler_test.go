package cart

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"

	"github.com/Oussama-souissi024/formation-ecommerce/internal/order"
	"github.com/Oussama-souissi024/formation-ecommerce/internal/payment"
	"github.com/Oussama-souissi024/formation-ecommerce/internal/user"
)

type checkoutFixture struct {
	*testFixture
	app       *fiber.App
	orderRepo *order.InMemoryRepository
	gateway   *payment.FakeGateway
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	f := newFixture(t)

	gateway := payment.NewFakeGateway()
	orderRepo := order.NewInMemoryRepository()
	orders := order.NewService(orderRepo, gateway)

	users := user.NewService(user.NewInMemoryRepository([]user.User{{
		ID:    f.userID,
		Email: "marie@example.com",
		Name:  "Marie Dupont",
		Phone: "0600000001",
	}}))

	handler := NewHandler(f.service, orders, users)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id":  f.userID.String(),
			"is_admin": false,
		})
		c.Locals("user", token)
		return c.Next()
	})
	handler.RegisterProtectedRoutes(app)

	return &checkoutFixture{testFixture: f, app: app, orderRepo: orderRepo, gateway: gateway}
}

func doCheckout(t *testing.T, f *checkoutFixture) (int, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/cart/checkout",
		strings.NewReader(`{"successUrl":"https://shop.example.test/order/confirmation?id={orderId}","cancelUrl":"https://shop.example.test/cart/checkout"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, body
}

func TestCheckout(t *testing.T) {
	f := newCheckoutFixture(t)
	if _, err := f.service.UpsertItem(f.userID, f.beans, 2); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}
	if _, err := f.service.UpsertItem(f.userID, f.filters, 1); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}
	if _, err := f.service.ApplyCoupon(f.userID, "SAVE10"); err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}

	status, body := doCheckout(t, f)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	var paymentURL string
	if err := json.Unmarshal(body["paymentUrl"], &paymentURL); err != nil || paymentURL == "" {
		t.Fatalf("missing payment url in response: %s", body["paymentUrl"])
	}
	var created order.Header
	if err := json.Unmarshal(body["order"], &created); err != nil {
		t.Fatalf("decode order: %v", err)
	}

	stored, err := f.orderRepo.GetByIDWithDetails(created.ID)
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if stored.Status != order.StatusPending {
		t.Fatalf("status = %q, want Pending", stored.Status)
	}
	if !stored.OrderTotal.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("orderTotal = %s, want 15 (25 minus the coupon)", stored.OrderTotal)
	}
	if !stored.Discount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("discount = %s, want 10", stored.Discount)
	}
	if stored.Name != "Marie Dupont" || stored.Email != "marie@example.com" {
		t.Fatalf("contact snapshot = %q / %q", stored.Name, stored.Email)
	}
	if len(stored.Details) != 2 {
		t.Fatalf("got %d order details, want 2", len(stored.Details))
	}

	snap, err := f.service.Get(f.userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !snap.Empty() {
		t.Fatal("cart must be cleared after checkout")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	status, _ := doCheckout(t, f)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	orders, err := f.orderRepo.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(orders) != 0 {
		t.Fatal("no order should be created from an empty cart")
	}
}

func TestCheckoutClearsCartEvenWithoutPaymentSession(t *testing.T) {
	f := newCheckoutFixture(t)
	f.gateway.FailSessions = true
	if _, err := f.service.UpsertItem(f.userID, f.beans, 1); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}

	status, body := doCheckout(t, f)
	if status != fiber.StatusAccepted {
		t.Fatalf("status = %d, want 202", status)
	}
	var awaiting bool
	if err := json.Unmarshal(body["awaitingPayment"], &awaiting); err != nil || !awaiting {
		t.Fatalf("expected awaitingPayment true, got %s", body["awaitingPayment"])
	}

	snap, err := f.service.Get(f.userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !snap.Empty() {
		t.Fatal("cart must be cleared once the order is durable")
	}
}
