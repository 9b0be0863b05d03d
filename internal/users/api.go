package users

import (
	"errors"

	"restoran-pos/internal/auth"
	"restoran-pos/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UserRequest struct {
	Username string          `json:"username"`
	Name     string          `json:"name"`
	Role     models.UserRole `json:"role"`
	Password string          `json:"password"`
}

// GET /api/users
func ListUsersAPI(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := store.List(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Users could not be listed")
		}
		return c.JSON(fiber.Map{"success": true, "users": list})
	}
}

// GET /api/users/:id
func GetUserAPI(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
		}
		u, err := store.Get(c.UserContext(), uint(id))
		if err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{"success": true, "user": u})
	}
}

// POST /api/users
func CreateUserAPI(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		u, err := store.Create(c.UserContext(), Input(body))
		if err != nil {
			return apiError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "user": u})
	}
}

// PUT /api/users/:id
func UpdateUserAPI(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
		}
		var body UserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		u, err := store.Update(c.UserContext(), uint(id), Input(body))
		if err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{"success": true, "user": u})
	}
}

// DELETE /api/users/:id (soft delete)
func DeactivateUserAPI(store *Store) fiber.Handler {
	return setActiveAPI(store, false)
}

// POST /api/users/:id/activate
func ActivateUserAPI(store *Store) fiber.Handler {
	return setActiveAPI(store, true)
}

func setActiveAPI(store *Store, active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid user id")
		}
		if err := store.SetActive(c.UserContext(), auth.APIUserID(c), uint(id), active); err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

func apiError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidUser), errors.Is(err, ErrSelfDeactivate):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUsernameTaken):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "User operation failed")
}
