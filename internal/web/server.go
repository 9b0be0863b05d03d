// Package web assembles the fiber application: template views, middleware,
// the query-string dispatcher of the HTML interface and the JSON API.
package web

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"restoran-pos/internal/admin"
	"restoran-pos/internal/audit"
	"restoran-pos/internal/auth"
	"restoran-pos/internal/catalog"
	"restoran-pos/internal/config"
	"restoran-pos/internal/discount"
	"restoran-pos/internal/kitchen"
	"restoran-pos/internal/logger"
	"restoran-pos/internal/models"
	"restoran-pos/internal/orders"
	"restoran-pos/internal/pos"
	"restoran-pos/internal/pricing"
	"restoran-pos/internal/reports"
	"restoran-pos/internal/session"
	"restoran-pos/internal/ticket"
	"restoran-pos/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options lets tests swap the clock and silence the access log.
type Options struct {
	Now           func() time.Time
	DisableAccess bool
}

// NewServer wires every store and service on top of db and returns the app.
func NewServer(cfg *config.Config, db *gorm.DB, log *logger.Logger, opts Options) *fiber.App {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := cfg.Location()

	catalogStore := catalog.NewStore(db)
	discountStore := discount.NewStore(db)
	userStore := users.NewStore(db)
	engine := pricing.NewEngine(catalogStore, discountStore)
	orderService := orders.NewService(db, engine, loc, now)
	reportService := reports.NewService(db, loc, now)
	auditRecorder := audit.NewRecorder(db)
	authService := auth.NewService(userStore)
	guard := auth.NewGuard(userStore)

	app := fiber.New(fiber.Config{
		AppName:               "restoran-pos",
		Views:                 NewViews(loc),
		DisableStartupMessage: cfg.IsProduction(),
		ErrorHandler:          errorHandler(log),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if !opts.DisableAccess {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${url} ${locals:requestid}\n",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// JSON API

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	api := app.Group("/api", cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api.Post("/auth/login", auth.APILoginHandler(authService, cfg.JWTSecret, now))

	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg.JWTSecret, userStore))

	protected.Get("/auth/me", auth.MeHandler(userStore))
	protected.Get("/kitchen/orders", kitchen.ListActiveAPI(orderService))
	protected.Post("/kitchen/orders/:id/status", kitchen.SetStatusAPI(orderService))
	protected.Get("/orders/:id", kitchen.GetOrderAPI(orderService))

	adminAPI := protected.Group("", auth.RequireRole(models.RoleAdmin))
	trackAPI := func(entity string, action models.AuditAction, h fiber.Handler) fiber.Handler {
		return audit.TrackAPI(auditRecorder, log, entity, action, h)
	}

	adminAPI.Get("/products", catalog.ListProductsAPI(catalogStore))
	adminAPI.Post("/products", trackAPI(audit.EntityProduct, models.AuditActionCreate, catalog.CreateProductAPI(catalogStore)))
	adminAPI.Get("/products/:id", catalog.GetProductAPI(catalogStore))
	adminAPI.Put("/products/:id", trackAPI(audit.EntityProduct, models.AuditActionUpdate, catalog.UpdateProductAPI(catalogStore)))
	adminAPI.Delete("/products/:id", trackAPI(audit.EntityProduct, models.AuditActionDeactivate, catalog.DeactivateProductAPI(catalogStore)))
	adminAPI.Post("/products/:id/activate", trackAPI(audit.EntityProduct, models.AuditActionActivate, catalog.ActivateProductAPI(catalogStore)))

	adminAPI.Get("/discounts", discount.ListDiscountsAPI(discountStore))
	adminAPI.Post("/discounts", trackAPI(audit.EntityDiscount, models.AuditActionCreate, discount.CreateDiscountAPI(discountStore)))
	adminAPI.Get("/discounts/:id", discount.GetDiscountAPI(discountStore))
	adminAPI.Put("/discounts/:id", trackAPI(audit.EntityDiscount, models.AuditActionUpdate, discount.UpdateDiscountAPI(discountStore)))
	adminAPI.Delete("/discounts/:id", trackAPI(audit.EntityDiscount, models.AuditActionDeactivate, discount.DeactivateDiscountAPI(discountStore)))
	adminAPI.Post("/discounts/:id/activate", trackAPI(audit.EntityDiscount, models.AuditActionActivate, discount.ActivateDiscountAPI(discountStore)))

	adminAPI.Get("/users", users.ListUsersAPI(userStore))
	adminAPI.Post("/users", trackAPI(audit.EntityUser, models.AuditActionCreate, users.CreateUserAPI(userStore)))
	adminAPI.Get("/users/:id", users.GetUserAPI(userStore))
	adminAPI.Put("/users/:id", trackAPI(audit.EntityUser, models.AuditActionUpdate, users.UpdateUserAPI(userStore)))
	adminAPI.Delete("/users/:id", trackAPI(audit.EntityUser, models.AuditActionDeactivate, users.DeactivateUserAPI(userStore)))
	adminAPI.Post("/users/:id/activate", trackAPI(audit.EntityUser, models.AuditActionActivate, users.ActivateUserAPI(userStore)))

	adminAPI.Get("/reports/sales-day", reports.SalesDayAPI(reportService))
	adminAPI.Get("/reports/sales-range", reports.SalesRangeAPI(reportService))
	adminAPI.Get("/reports/top-products", reports.TopProductsAPI(reportService))
	adminAPI.Get("/reports/categories", reports.CategoriesAPI(reportService))
	adminAPI.Get("/reports/xlsx/:kind", reports.ExportAPI(reportService))

	adminAPI.Get("/audit-logs", audit.ListAuditLogsHandler(auditRecorder))

	// HTML interface

	cookies := encryptcookie.New(encryptcookie.Config{Key: cfg.CookieKey})
	sessions := session.Middleware(session.NewStore(cfg.SessionTTL, cfg.IsProduction()))

	posHandler := pos.NewHandler(catalogStore, engine, orderService, log)
	track := func(entity string, action models.AuditAction, h fiber.Handler) fiber.Handler {
		return audit.Track(auditRecorder, log, entity, action, h)
	}

	d := &dispatcher{
		views: map[string]fiber.Handler{
			"login":   auth.LoginPageHandler(),
			"pos":     guard.RequireLogin(posHandler.Page),
			"kitchen": guard.RequireLogin(kitchen.PageHandler(orderService)),
			"admin": guard.RequireAdmin(admin.DashboardHandler(admin.Deps{
				Catalog:   catalogStore,
				Discounts: discountStore,
				Users:     userStore,
				Orders:    orderService,
				Audit:     auditRecorder,
			})),
		},
		get: map[string]fiber.Handler{
			"logout":          auth.LogoutHandler(),
			"add":             guard.RequireLogin(posHandler.Add),
			"remove":          guard.RequireLogin(posHandler.Remove),
			"clear":           guard.RequireLogin(posHandler.Clear),
			"remove_discount": guard.RequireLogin(posHandler.RemoveDiscount),
			"confirm":         guard.RequireLogin(posHandler.Confirm),
			"status":          guard.RequireLogin(kitchen.StatusHandler(orderService, log)),
			"print":           guard.RequireLogin(ticket.PrintHandler(orderService)),

			"delete_product":    guard.RequireAdmin(track(audit.EntityProduct, models.AuditActionDeactivate, catalog.DeleteProductHandler(catalogStore))),
			"activate_product":  guard.RequireAdmin(track(audit.EntityProduct, models.AuditActionActivate, catalog.ActivateProductHandler(catalogStore))),
			"delete_discount":   guard.RequireAdmin(track(audit.EntityDiscount, models.AuditActionDeactivate, discount.DeleteDiscountHandler(discountStore))),
			"activate_discount": guard.RequireAdmin(track(audit.EntityDiscount, models.AuditActionActivate, discount.ActivateDiscountHandler(discountStore))),
			"delete_user":       guard.RequireAdmin(track(audit.EntityUser, models.AuditActionDeactivate, users.DeleteUserHandler(userStore))),
			"activate_user":     guard.RequireAdmin(track(audit.EntityUser, models.AuditActionActivate, users.ActivateUserHandler(userStore))),
			"export":            guard.RequireAdmin(reports.ExportHandler(reportService, log)),
		},
		post: map[string]fiber.Handler{
			"login":          auth.LoginHandler(authService, now),
			"apply_discount": guard.RequireLogin(posHandler.ApplyDiscount),

			"add_product":   guard.RequireAdmin(track(audit.EntityProduct, models.AuditActionCreate, catalog.AddProductHandler(catalogStore))),
			"edit_product":  guard.RequireAdmin(track(audit.EntityProduct, models.AuditActionUpdate, catalog.EditProductHandler(catalogStore))),
			"add_discount":  guard.RequireAdmin(track(audit.EntityDiscount, models.AuditActionCreate, discount.AddDiscountHandler(discountStore))),
			"edit_discount": guard.RequireAdmin(track(audit.EntityDiscount, models.AuditActionUpdate, discount.EditDiscountHandler(discountStore))),
			"add_user":      guard.RequireAdmin(track(audit.EntityUser, models.AuditActionCreate, users.AddUserHandler(userStore))),
			"edit_user":     guard.RequireAdmin(track(audit.EntityUser, models.AuditActionUpdate, users.EditUserHandler(userStore))),
		},
	}
	app.Get("/", cookies, sessions, d.serve)
	app.Post("/", cookies, sessions, d.serve)

	return app
}

func errorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Unexpected server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		}

		requestID, _ := c.Locals("requestid").(string)
		if code >= fiber.StatusInternalServerError {
			log.Error("http_request", requestID, "request failed", err,
				slog.String("method", c.Method()),
				slog.String("path", c.Path()))
		}

		if strings.HasPrefix(c.Path(), "/api") {
			return c.Status(code).JSON(fiber.Map{"success": false, "error": msg})
		}
		return c.Status(code).Render("error", fiber.Map{
			"Title":     "Error",
			"Code":      code,
			"Message":   msg,
			"RequestID": requestID,
		}, "layouts/main")
	}
}
