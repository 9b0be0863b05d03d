// Package admin renders the admin dashboard: today's figures, catalog,
// recent orders, users, discount codes and the latest audit entries.
package admin

import (
	"context"
	"errors"

	"restoran-pos/internal/audit"
	"restoran-pos/internal/auth"
	"restoran-pos/internal/catalog"
	"restoran-pos/internal/discount"
	"restoran-pos/internal/models"
	"restoran-pos/internal/orders"
	"restoran-pos/internal/session"
	"restoran-pos/internal/users"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

const recentOrdersLimit = 10

type Deps struct {
	Catalog   *catalog.Store
	Discounts *discount.Store
	Users     *users.Store
	Orders    *orders.Service
	Audit     *audit.Recorder
}

// Dashboard is everything the admin view shows.
type Dashboard struct {
	Stats        orders.Stats
	Products     []models.Product
	Categories   []string
	RecentOrders []models.Order
	Users        []models.User
	Discounts    []models.DiscountCode
	AuditLogs    []models.AuditLog

	EditingProduct  *models.Product
	EditingUser     *models.User
	EditingDiscount *models.DiscountCode
}

// GET /?view=admin[&action=edit_product_form|edit_user_form|edit_discount_form&id=<id>]
func DashboardHandler(d Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		var dash Dashboard

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			dash.Stats, err = d.Orders.TodayStats(gctx)
			return err
		})
		g.Go(func() (err error) {
			dash.Products, err = d.Catalog.ListAll(gctx)
			return err
		})
		g.Go(func() (err error) {
			dash.Categories, err = d.Catalog.CategoryNames(gctx)
			return err
		})
		g.Go(func() (err error) {
			dash.RecentOrders, err = d.Orders.Recent(gctx, recentOrdersLimit)
			return err
		})
		g.Go(func() (err error) {
			dash.Users, err = d.Users.List(gctx)
			return err
		})
		g.Go(func() (err error) {
			dash.Discounts, err = d.Discounts.List(gctx, "", nil)
			return err
		})
		g.Go(func() (err error) {
			dash.AuditLogs, err = d.Audit.List(gctx, audit.Filter{Limit: 15})
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		if id := c.QueryInt("id"); id > 0 {
			if err := loadEditing(ctx, d, &dash, c.Query("action"), uint(id)); err != nil {
				return err
			}
		}

		return c.Render("admin", fiber.Map{
			"Title":     "Administration",
			"User":      auth.CurrentUser(c),
			"Flash":     session.From(c).TakeFlash(),
			"Dashboard": dash,
		}, "layouts/main")
	}
}

// loadEditing fills the edit form for the requested row. An id that no longer
// exists leaves the form closed; any other store failure is returned.
func loadEditing(ctx context.Context, d Deps, dash *Dashboard, action string, id uint) error {
	var err error
	switch action {
	case "edit_product_form":
		dash.EditingProduct, err = d.Catalog.Get(ctx, id)
		if errors.Is(err, catalog.ErrNotFound) {
			return nil
		}
	case "edit_user_form":
		dash.EditingUser, err = d.Users.Get(ctx, id)
		if errors.Is(err, users.ErrNotFound) {
			return nil
		}
	case "edit_discount_form":
		dash.EditingDiscount, err = d.Discounts.Get(ctx, id)
		if errors.Is(err, discount.ErrNotFound) {
			return nil
		}
	}
	return err
}
