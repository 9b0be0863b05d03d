package auth

import (
	"errors"
	"time"

	"restoran-pos/internal/routes"
	"restoran-pos/internal/session"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GET /?view=login
func LoginPageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := session.From(c)
		if st.LoggedIn() {
			return c.Redirect(routes.POS)
		}
		return c.Render("login", fiber.Map{
			"Title": "Login",
			"Error": st.TakeFlash(),
		}, "layouts/main")
	}
}

// POST /?action=login
func LoginHandler(svc *Service, now func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := session.From(c)
		u, err := svc.Authenticate(c.UserContext(), c.FormValue("username"), c.FormValue("password"))
		if err != nil {
			if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrWrongPassword) {
				st.SetFlash(err.Error())
				return c.Redirect(routes.Login)
			}
			return err
		}
		st.SignIn(u, now())
		return c.Redirect(routes.POS)
	}
}

// GET /?action=logout
func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session.From(c).SignOut()
		return c.Redirect(routes.Login)
	}
}

// POST /api/auth/login
func APILoginHandler(svc *Service, secret string, now func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		u, err := svc.Authenticate(c.UserContext(), body.Username, body.Password)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrWrongPassword) {
				return fiber.NewError(fiber.StatusUnauthorized, "Invalid username or password")
			}
			return err
		}

		token, err := GenerateToken(secret, u, now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token could not be created")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":       u.ID,
				"username": u.Username,
				"name":     u.Name,
				"role":     u.Role,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler(users UserFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := users.FindActive(c.UserContext(), APIUserID(c))
		if err != nil {
			return err
		}
		if u == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "User not found or inactive")
		}
		return c.JSON(fiber.Map{
			"user_id":  u.ID,
			"username": u.Username,
			"name":     u.Name,
			"role":     u.Role,
		})
	}
}
