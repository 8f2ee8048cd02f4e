package cart

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Oussama-souissi024/formation-ecommerce/internal/order"
	"github.com/Oussama-souissi024/formation-ecommerce/internal/user"
)

// OrderCreator starts the order lifecycle; satisfied by *order.Service.
type OrderCreator interface {
	Create(h order.Header, details []order.Detail, redirect order.RedirectURLs) (order.CreateResult, error)
}

// UserSource supplies the contact snapshot frozen onto the order.
type UserSource interface {
	GetByID(id uuid.UUID) (user.User, error)
}

type Handler struct {
	service *Service
	orders  OrderCreator
	users   UserSource
}

func NewHandler(s *Service, orders OrderCreator, users UserSource) *Handler {
	return &Handler{service: s, orders: orders, users: users}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/items", h.upsertItem)
	app.Delete("/api/v1/cart/items/:productId", h.removeItem)
	app.Post("/api/v1/cart/coupon", h.applyCoupon)
	app.Delete("/api/v1/cart/coupon", h.removeCoupon)
	app.Delete("/api/v1/cart", h.clearCart)
	app.Post("/api/v1/cart/checkout", h.checkout)
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	snap, err := h.service.Get(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(snap)
}

type upsertItemRequest struct {
	ProductID string `json:"productId"`
	Count     int    `json:"count"`
}

func (h *Handler) upsertItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(upsertItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	productID, err := uuid.Parse(payload.ProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	snap, err := h.service.UpsertItem(userID, productID, payload.Count)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(snap)
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid product id"})
	}

	snap, err := h.service.RemoveItem(userID, productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(snap)
}

type applyCouponRequest struct {
	CouponCode string `json:"couponCode"`
}

func (h *Handler) applyCoupon(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(applyCouponRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	snap, err := h.service.ApplyCoupon(userID, payload.CouponCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownCoupon):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "coupon code not found"})
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart is empty"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(snap)
}

func (h *Handler) removeCoupon(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	snap, err := h.service.ApplyCoupon(userID, "")
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart is empty"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(snap)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	if err := h.service.Clear(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "cart cleared"})
}

type checkoutRequest struct {
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

// checkout freezes the cart into an order: line prices, the coupon
// discount and the user's contact details are copied as they stand, so
// later catalog or coupon edits cannot change what was ordered. The cart
// is cleared once the order is durable, whether or not a payment session
// came up.
func (h *Handler) checkout(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(checkoutRequest)
	if err := c.BodyParser(payload); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.SuccessURL == "" {
		payload.SuccessURL = c.BaseURL() + "/order/confirmation?id=" + order.OrderIDPlaceholder
	}
	if payload.CancelURL == "" {
		payload.CancelURL = c.BaseURL() + "/cart/checkout"
	}

	snap, err := h.service.Get(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if snap.Empty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart is empty"})
	}

	u, err := h.users.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	draft := order.Header{
		UserID:     userID,
		CouponCode: snap.CouponCode,
		Discount:   snap.Discount,
		OrderTotal: snap.Total,
		Name:       u.Name,
		Phone:      u.Phone,
		Email:      u.Email,
		OrderTime:  time.Now().UTC().Format(time.RFC3339),
		Status:     order.StatusPending,
	}
	details := make([]order.Detail, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		details = append(details, order.Detail{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Price:       l.Price,
			Count:       l.Count,
		})
	}

	result, err := h.orders.Create(draft, details, order.RedirectURLs{
		Success: payload.SuccessURL,
		Cancel:  payload.CancelURL,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	// the order is durable at this point; leaving items behind would let
	// the user order the same cart twice
	if err := h.service.Clear(userID); err != nil {
		log.Printf("user %s: failed to clear cart after checkout: %v", userID, err)
	}

	if result.AwaitingPaymentInit {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"order":           result.Order,
			"awaitingPayment": true,
			"message":         "order created, payment session unavailable",
		})
	}
	return c.JSON(fiber.Map{
		"order":      result.Order,
		"paymentUrl": result.SessionURL,
	})
}
