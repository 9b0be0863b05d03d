package users

import (
	"errors"
	"strconv"
	"strings"

	"restoran-pos/internal/models"
	"restoran-pos/internal/routes"
	"restoran-pos/internal/session"

	"github.com/gofiber/fiber/v2"
)

func AddUserHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := session.From(c)
		u, err := store.Create(c.UserContext(), formInput(c))
		if err != nil {
			st.SetFlash(flashMessage(err, "User could not be created"))
			return c.Redirect(routes.Admin)
		}
		st.SetFlash("User \"" + u.Username + "\" created")
		return c.Redirect(routes.Admin)
	}
}

// EditUserHandler leaves the password untouched when the field is empty.
func EditUserHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := session.From(c)
		id, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("id")), 10, 64)
		if err != nil || id == 0 {
			st.SetFlash("Invalid user id")
			return c.Redirect(routes.Admin)
		}
		if _, err := store.Update(c.UserContext(), uint(id), formInput(c)); err != nil {
			st.SetFlash(flashMessage(err, "User could not be updated"))
			return c.Redirect(routes.Admin)
		}
		st.SetFlash("User updated")
		return c.Redirect(routes.Admin)
	}
}

func DeleteUserHandler(store *Store) fiber.Handler {
	return setActiveHandler(store, false, "User deactivated")
}

func ActivateUserHandler(store *Store) fiber.Handler {
	return setActiveHandler(store, true, "User activated")
}

func setActiveHandler(store *Store, active bool, okMsg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := session.From(c)
		id := c.QueryInt("id")
		if id <= 0 {
			st.SetFlash("Invalid user id")
			return c.Redirect(routes.Admin)
		}
		if err := store.SetActive(c.UserContext(), st.UserID, uint(id), active); err != nil {
			st.SetFlash(flashMessage(err, "User could not be changed"))
			return c.Redirect(routes.Admin)
		}
		st.SetFlash(okMsg)
		return c.Redirect(routes.Admin)
	}
}

func formInput(c *fiber.Ctx) Input {
	return Input{
		Username: c.FormValue("username"),
		Name:     c.FormValue("name"),
		Role:     models.UserRole(strings.TrimSpace(c.FormValue("role"))),
		Password: c.FormValue("password"),
	}
}

func flashMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, ErrInvalidUser):
		return strings.TrimPrefix(err.Error(), ErrInvalidUser.Error()+": ")
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrSelfDeactivate):
		return err.Error()
	case errors.Is(err, ErrNotFound):
		return "User not found"
	}
	return fallback
}
