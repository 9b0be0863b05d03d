package web

import (
	"time"

	"restoran-pos/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Diagnostic describes why the application could not start normally.
type Diagnostic struct {
	// Problem is "connection" or "schema".
	Problem        string
	Error          string
	Host           string
	Port           string
	Database       string
	User           string
	MissingTables  []string
	ExistingTables []string
}

func NewConnectionDiagnostic(cfg *config.Config, err error) Diagnostic {
	d := diagnosticFor(cfg)
	d.Problem = "connection"
	if err != nil {
		d.Error = err.Error()
	}
	return d
}

func NewSchemaDiagnostic(cfg *config.Config, missing, existing []string) Diagnostic {
	d := diagnosticFor(cfg)
	d.Problem = "schema"
	d.MissingTables = missing
	d.ExistingTables = existing
	return d
}

// diagnosticFor copies the connection settings; the password is never shown.
func diagnosticFor(cfg *config.Config) Diagnostic {
	db := cfg.Database
	if db.DSN != "" {
		return Diagnostic{Host: "(DATABASE_DSN)", Database: "(DATABASE_DSN)"}
	}
	return Diagnostic{Host: db.Host, Port: db.Port, Database: db.Name, User: db.User}
}

// NewDiagnosticServer answers every request with the diagnostic page and
// status 503, and /health with a JSON error.
func NewDiagnosticServer(cfg *config.Config, d Diagnostic) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "restoran-pos (diagnostic)",
		Views:   NewViews(cfg.Location()),
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":  "unavailable",
			"problem": d.Problem,
		})
	})
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusServiceUnavailable).Render("diagnostic", fiber.Map{
			"Title":      "Service unavailable",
			"Diagnostic": d,
			"CheckedAt":  time.Now().In(cfg.Location()),
		})
	})
	return app
}
