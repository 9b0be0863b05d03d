package discount

import (
	"errors"

	"restoran-pos/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type DiscountRequest struct {
	Code  string              `json:"code"`
	Kind  models.DiscountKind `json:"kind"`
	Value decimal.Decimal     `json:"value"`
}

// GET /api/discounts?search=&active=true|false
func ListDiscountsAPI(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var active *bool
		switch c.Query("active") {
		case "true":
			v := true
			active = &v
		case "false":
			v := false
			active = &v
		}
		codes, err := store.List(c.UserContext(), c.Query("search"), active)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Discount codes could not be listed")
		}
		return c.JSON(fiber.Map{"success": true, "discounts": codes})
	}
}

// GET /api/discounts/:id
func GetDiscountAPI(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid discount id")
		}
		dc, err := store.Get(c.UserContext(), uint(id))
		if err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{"success": true, "discount": dc})
	}
}

// POST /api/discounts
func CreateDiscountAPI(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DiscountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		dc, err := store.Create(c.UserContext(), Input(body))
		if err != nil {
			return apiError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "discount": dc})
	}
}

// PUT /api/discounts/:id
func UpdateDiscountAPI(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid discount id")
		}
		var body DiscountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		dc, err := store.Update(c.UserContext(), uint(id), Input(body))
		if err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{"success": true, "discount": dc})
	}
}

// DELETE /api/discounts/:id
func DeactivateDiscountAPI(store *Store) fiber.Handler {
	return setActiveAPI(store, false)
}

// POST /api/discounts/:id/activate
func ActivateDiscountAPI(store *Store) fiber.Handler {
	return setActiveAPI(store, true)
}

func setActiveAPI(store *Store, active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid discount id")
		}
		if err := store.SetActive(c.UserContext(), uint(id), active); err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

func apiError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidDiscount):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrCodeExists):
		return fiber.NewError(fiber.StatusConflict, "Discount code already exists")
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Discount code not found")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Discount operation failed")
}
