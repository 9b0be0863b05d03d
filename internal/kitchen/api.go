package kitchen

import (
	"errors"

	"restoran-pos/internal/models"
	"restoran-pos/internal/orders"

	"github.com/gofiber/fiber/v2"
)

type StatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// GET /api/kitchen/orders
func ListActiveAPI(svc *orders.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		active, err := svc.Active(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Orders could not be listed")
		}
		type item struct {
			models.Order
			NextStatus models.OrderStatus `json:"next_status,omitempty"`
		}
		out := make([]item, 0, len(active))
		for _, o := range active {
			next, _ := orders.Next(o.Status)
			out = append(out, item{Order: o, NextStatus: next})
		}
		return c.JSON(fiber.Map{"success": true, "orders": out})
	}
}

// POST /api/kitchen/orders/:id/status
func SetStatusAPI(svc *orders.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}
		var body StatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		o, err := svc.SetStatus(c.UserContext(), uint(id), body.Status)
		if err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{"success": true, "order": o})
	}
}

// GET /api/orders/:id
func GetOrderAPI(svc *orders.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}
		o, err := svc.Get(c.UserContext(), uint(id))
		if err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{"success": true, "order": o})
	}
}

func apiError(err error) error {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Order not found")
	case errors.Is(err, orders.ErrIllegalTransition):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, orders.ErrStaleStatus):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Order operation failed")
}
