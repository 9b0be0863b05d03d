// Package kitchen lists the orders still in the pipeline and moves them
// forward one status at a time.
package kitchen

import (
	"errors"
	"log/slog"

	"restoran-pos/internal/auth"
	"restoran-pos/internal/logger"
	"restoran-pos/internal/models"
	"restoran-pos/internal/orders"
	"restoran-pos/internal/routes"
	"restoran-pos/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Card is one order on the kitchen board.
type Card struct {
	models.Order
	StatusLabel string
	NextStatus  models.OrderStatus
	ActionLabel string
}

func cards(list []models.Order) []Card {
	out := make([]Card, 0, len(list))
	for _, o := range list {
		next, _ := orders.Next(o.Status)
		out = append(out, Card{
			Order:       o,
			StatusLabel: orders.StatusLabel(o.Status),
			NextStatus:  next,
			ActionLabel: orders.ActionLabel(o.Status),
		})
	}
	return out
}

// GET /?view=kitchen
func PageHandler(svc *orders.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		active, err := svc.Active(c.UserContext())
		if err != nil {
			return err
		}
		return c.Render("kitchen", fiber.Map{
			"Title":  "Kitchen",
			"User":   auth.CurrentUser(c),
			"Flash":  session.From(c).TakeFlash(),
			"Orders": cards(active),
		}, "layouts/main")
	}
}

// GET /?view=kitchen&action=status&order_id=<id>&new_status=<status>
func StatusHandler(svc *orders.Service, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := session.From(c)
		requestID, _ := c.Locals("requestid").(string)

		id := c.QueryInt("order_id")
		if id <= 0 {
			st.SetFlash("Invalid order id")
			return c.Redirect(routes.Kitchen)
		}
		to := models.OrderStatus(c.Query("new_status"))

		o, err := svc.SetStatus(c.UserContext(), uint(id), to)
		if err != nil {
			st.SetFlash(statusMessage(err))
			if !isExpected(err) {
				log.Error("order_status", requestID, "status change failed", err,
					slog.Int("order_id", id), slog.String("to", string(to)))
			}
			return c.Redirect(routes.Kitchen)
		}

		log.Info("order_status", requestID, "status changed",
			slog.String("order_number", o.OrderNumber),
			slog.String("status", string(o.Status)))
		return c.Redirect(routes.Kitchen)
	}
}

func isExpected(err error) bool {
	return errors.Is(err, orders.ErrNotFound) ||
		errors.Is(err, orders.ErrIllegalTransition) ||
		errors.Is(err, orders.ErrStaleStatus)
}

func statusMessage(err error) string {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		return "Order not found"
	case errors.Is(err, orders.ErrIllegalTransition):
		return "That status change is not allowed"
	case errors.Is(err, orders.ErrStaleStatus):
		return "The order was updated by someone else, check the board again"
	}
	return "The status could not be changed"
}
