package coupon

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Oussama-souissi024/formation-ecommerce/internal/payment"
	"github.com/Oussama-souissi024/formation-ecommerce/internal/user"
)

// Handler exposes coupon management. All mutating routes are admin-only;
// coupon application to carts lives in the cart handler.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/coupons", h.listCoupons)
	app.Get("/api/v1/coupons/:code", h.getCoupon)
	app.Post("/api/v1/coupons", h.createCoupon)
	app.Put("/api/v1/coupons/:id", h.updateCoupon)
	app.Delete("/api/v1/coupons/:id", h.deleteCoupon)
}

type couponRequest struct {
	Code           string          `json:"couponCode"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

func (h *Handler) listCoupons(c *fiber.Ctx) error {
	coupons, err := h.service.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(coupons)
}

func (h *Handler) getCoupon(c *fiber.Ctx) error {
	cp, err := h.service.GetByCode(c.Params("code"))
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "coupon not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(cp)
}

func (h *Handler) createCoupon(c *fiber.Ctx) error {
	if !user.IsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	payload := new(couponRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Code == "" || !payload.DiscountAmount.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "couponCode and a positive discountAmount are required"})
	}

	created, err := h.service.Add(Coupon{Code: payload.Code, DiscountAmount: payload.DiscountAmount})
	if err != nil {
		return couponError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateCoupon(c *fiber.Ctx) error {
	if !user.IsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid coupon id"})
	}

	payload := new(couponRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.service.Update(Coupon{ID: id, Code: payload.Code, DiscountAmount: payload.DiscountAmount}); err != nil {
		return couponError(c, err)
	}
	return c.JSON(fiber.Map{"message": "coupon updated"})
}

func (h *Handler) deleteCoupon(c *fiber.Ctx) error {
	if !user.IsAdminFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid coupon id"})
	}

	if err := h.service.Delete(id); err != nil {
		return couponError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func couponError(c *fiber.Ctx, err error) error {
	var remote *payment.RemoteError
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "coupon not found"})
	case errors.As(err, &remote):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "payment sync failed", "detail": remote.Message})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
