// Package pos serves the ordering screen: catalog, cart, discount panel and
// order confirmation.
package pos

import (
	"errors"
	"log/slog"
	"strconv"

	"restoran-pos/internal/auth"
	"restoran-pos/internal/catalog"
	"restoran-pos/internal/discount"
	"restoran-pos/internal/logger"
	"restoran-pos/internal/orders"
	"restoran-pos/internal/pricing"
	"restoran-pos/internal/routes"
	"restoran-pos/internal/session"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	catalog *catalog.Store
	engine  *pricing.Engine
	orders  *orders.Service
	log     *logger.Logger
}

func NewHandler(catalog *catalog.Store, engine *pricing.Engine, orders *orders.Service, log *logger.Logger) *Handler {
	return &Handler{catalog: catalog, engine: engine, orders: orders, log: log}
}

// Page renders GET /?view=pos.
func (h *Handler) Page(c *fiber.Ctx) error {
	st := session.From(c)
	ctx := c.UserContext()

	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		return err
	}
	entries, err := h.engine.Entries(ctx, st.Cart)
	if err != nil {
		return err
	}
	quote, err := h.engine.Quote(ctx, st.Cart, st.DiscountCode)
	if err != nil {
		return err
	}

	return c.Render("pos", fiber.Map{
		"Title":        "Point of sale",
		"User":         auth.CurrentUser(c),
		"Flash":        st.TakeFlash(),
		"Categories":   categories,
		"Entries":      entries,
		"Quote":        quote,
		"DiscountCode": st.DiscountCode,
		"Success":      c.Query("success") == "1",
		"LastOrderID":  st.LastOrderID,
	}, "layouts/main")
}

// Add appends the product id unconditionally; ids that do not resolve are
// dropped when the cart is priced.
func (h *Handler) Add(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err == nil && id > 0 {
		session.From(c).Cart.Add(uint(id))
	}
	return c.Redirect(routes.POS)
}

func (h *Handler) Remove(c *fiber.Ctx) error {
	if i, err := strconv.Atoi(c.Query("index")); err == nil {
		session.From(c).Cart.RemoveAt(i)
	}
	return c.Redirect(routes.POS)
}

func (h *Handler) Clear(c *fiber.Ctx) error {
	session.From(c).ClearCart()
	return c.Redirect(routes.POS)
}

// ApplyDiscount stores the entered code as is; an unknown code stays in the
// session and is shown as invalid until removed.
func (h *Handler) ApplyDiscount(c *fiber.Ctx) error {
	session.From(c).DiscountCode = discount.NormalizeCode(c.FormValue("discount_code"))
	return c.Redirect(routes.POS)
}

func (h *Handler) RemoveDiscount(c *fiber.Ctx) error {
	session.From(c).DiscountCode = ""
	return c.Redirect(routes.POS)
}

func (h *Handler) Confirm(c *fiber.Ctx) error {
	st := session.From(c)
	requestID, _ := c.Locals("requestid").(string)

	o, err := h.orders.Confirm(c.UserContext(), st.Cart, st.DiscountCode, st.UserID)
	switch {
	case errors.Is(err, orders.ErrEmptyCart):
		return c.Redirect(routes.POS)
	case errors.Is(err, orders.ErrNothingToOrder):
		st.SetFlash("None of the products in the cart are available any more")
		return c.Redirect(routes.POS)
	case err != nil:
		h.log.Error("order_confirm", requestID, "order confirmation failed", err,
			slog.Int("cart_items", st.Cart.Len()))
		st.SetFlash("The order could not be saved, please try again")
		return c.Redirect(routes.POS)
	}

	h.log.Info("order_confirm", requestID, "order created",
		slog.String("order_number", o.OrderNumber),
		slog.String("total", o.Total.StringFixed(2)),
		slog.String("discount_code", o.DiscountCode),
		slog.String("waiter", st.Username))

	st.MarkOrderPlaced(o.ID)
	return c.Redirect(routes.POSSuccess)
}
