package auth

import (
	"restoran-pos/internal/models"
	"restoran-pos/internal/routes"
	"restoran-pos/internal/session"

	"github.com/gofiber/fiber/v2"
)

const ctxCurrentUserKey = "current_user"

// Guard wraps HTML handlers with the authentication and authorization checks.
// The user row is re-read on every request, so a deactivated account or a
// role change takes effect immediately regardless of what the session says.
type Guard struct {
	users UserFinder
}

func NewGuard(users UserFinder) *Guard {
	return &Guard{users: users}
}

// RequireLogin redirects anonymous requests, and sessions whose user is gone
// or inactive, to the login view.
func (g *Guard) RequireLogin(next fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, ok, err := g.resolve(c)
		if err != nil {
			return err
		}
		if !ok {
			return c.Redirect(routes.Login)
		}
		c.Locals(ctxCurrentUserKey, u)
		return next(c)
	}
}

// RequireAdmin additionally sends non-admins to the POS view without an error.
func (g *Guard) RequireAdmin(next fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, ok, err := g.resolve(c)
		if err != nil {
			return err
		}
		if !ok {
			return c.Redirect(routes.Login)
		}
		if u.Role != models.RoleAdmin {
			return c.Redirect(routes.POS)
		}
		c.Locals(ctxCurrentUserKey, u)
		return next(c)
	}
}

func (g *Guard) resolve(c *fiber.Ctx) (*models.User, bool, error) {
	st := session.From(c)
	if !st.LoggedIn() {
		return nil, false, nil
	}
	u, err := g.users.FindActive(c.UserContext(), st.UserID)
	if err != nil {
		return nil, false, err
	}
	if u == nil {
		st.SignOut()
		return nil, false, nil
	}
	// keep the session copy in line with the database
	if st.Role != u.Role || st.DisplayName != u.Name {
		st.Role = u.Role
		st.DisplayName = u.Name
	}
	return u, true, nil
}

// CurrentUser is the user loaded by the guard for this request.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(ctxCurrentUserKey).(*models.User)
	return u
}
