package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Oussama-souissi024/formation-ecommerce/internal/user"
)

// Handler exposes the order lifecycle over HTTP. Creation happens in the
// cart handler's checkout; everything here operates on existing orders.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/orders", h.listOrders)
	app.Get("/api/v1/orders/:id", h.getOrder)
	app.Post("/api/v1/orders/:id/validate", h.validatePayment)
	app.Post("/api/v1/orders/:id/cancel", h.cancelOrder)
	app.Post("/api/v1/orders/:id/refund", h.processRefund)
	app.Put("/api/v1/orders/:id/status", h.updateStatus)
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	// admins see every order, customers only their own
	if user.IsAdminFromCtx(c) && c.Query("all") == "true" {
		orders, err := h.service.ListAll()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
		return c.JSON(orders)
	}

	orders, err := h.service.ListByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	ord, err := h.service.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	if ord.UserID != userID && !user.IsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "not your order"})
	}
	return c.JSON(ord)
}

// validatePayment reconciles the order with the remote payment session.
// An inconclusive validation is a 502, never a payment verdict.
func (h *Handler) validatePayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	ord, err := h.service.Validate(id)
	if err != nil {
		if errors.Is(err, ErrValidationInconclusive) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "payment validation could not complete"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(ord)
}

func (h *Handler) cancelOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	if err := h.service.Cancel(id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case errors.Is(err, ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "order cannot be cancelled in its current status"})
		case errors.Is(err, ErrRefundDeclined):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "failed to process refund"})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": "order cancelled"})
}

func (h *Handler) processRefund(c *fiber.Ctx) error {
	if !user.IsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	if err := h.service.ProcessRefund(id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "order not found"})
		case errors.Is(err, ErrNoPaymentIntent):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "order has no payment reference"})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "message": "refund failed"})
		}
	}
	return c.JSON(fiber.Map{"success": true, "message": "refund processed"})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	if !user.IsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	payload := new(updateStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.service.UpdateStatus(id, Status(payload.Status)); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case errors.Is(err, ErrUnknownStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown status"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": "status updated"})
}
