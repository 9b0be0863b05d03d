package catalog

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// GET /api/products?search=&category=&active=true|false
func ListProductsAPI(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := Filter{
			Search:   c.Query("search"),
			Category: c.Query("category"),
		}
		switch c.Query("active") {
		case "true":
			v := true
			f.Active = &v
		case "false":
			v := false
			f.Active = &v
		}

		products, err := store.Search(c.UserContext(), f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Products could not be listed")
		}
		return c.JSON(fiber.Map{"success": true, "products": products})
	}
}

// GET /api/products/:id
func GetProductAPI(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}
		p, err := store.Get(c.UserContext(), uint(id))
		if err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{"success": true, "product": p})
	}
}

// POST /api/products
func CreateProductAPI(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		p, err := store.Create(c.UserContext(), ProductInput(body))
		if err != nil {
			return apiError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "product": p})
	}
}

// PUT /api/products/:id
func UpdateProductAPI(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		p, err := store.Update(c.UserContext(), uint(id), ProductInput(body))
		if err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{"success": true, "product": p})
	}
}

// DELETE /api/products/:id (soft delete)
func DeactivateProductAPI(store *Store) fiber.Handler {
	return setActiveAPI(store, false)
}

// POST /api/products/:id/activate
func ActivateProductAPI(store *Store) fiber.Handler {
	return setActiveAPI(store, true)
}

func setActiveAPI(store *Store, active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}
		if err := store.SetActive(c.UserContext(), uint(id), active); err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

func apiError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidProduct):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Product operation failed")
}
