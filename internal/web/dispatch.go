package web

import (
	"restoran-pos/internal/routes"
	"restoran-pos/internal/session"

	"github.com/gofiber/fiber/v2"
)

// dispatcher routes "/" by its query string. A known action for the request
// method wins; otherwise the view parameter selects the page. Every entry is
// already wrapped in the guard it needs.
type dispatcher struct {
	views map[string]fiber.Handler
	get   map[string]fiber.Handler
	post  map[string]fiber.Handler
}

func (d *dispatcher) serve(c *fiber.Ctx) error {
	actions := d.get
	if c.Method() == fiber.MethodPost {
		actions = d.post
	}
	if h, ok := actions[c.Query("action")]; ok {
		return h(c)
	}

	if h, ok := d.views[c.Query("view")]; ok {
		return h(c)
	}
	if session.From(c).LoggedIn() {
		return c.Redirect(routes.POS)
	}
	return c.Redirect(routes.Login)
}
