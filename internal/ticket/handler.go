// Package ticket renders the printable receipt of an order.
package ticket

import (
	"errors"

	"restoran-pos/internal/orders"

	"github.com/gofiber/fiber/v2"
)

// GET /?action=print&order_id=<id>
func PrintHandler(svc *orders.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.QueryInt("order_id")
		if id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid order id")
		}
		o, err := svc.Get(c.UserContext(), uint(id))
		if errors.Is(err, orders.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}
		if err != nil {
			return err
		}
		return c.Render("ticket", fiber.Map{
			"Title":       "Ticket " + o.OrderNumber,
			"Order":       o,
			"StatusLabel": orders.StatusLabel(o.Status),
		})
	}
}
