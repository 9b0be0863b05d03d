package catalog

import (
	"errors"
	"strconv"
	"strings"

	"restoran-pos/internal/routes"
	"restoran-pos/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Admin form actions. Every outcome is a redirect back to the admin view
// with a flash message; nothing is written when validation fails.

func AddProductHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := session.From(c)
		in, err := formInput(c)
		if err != nil {
			st.SetFlash(err.Error())
			return c.Redirect(routes.Admin)
		}
		p, err := store.Create(c.UserContext(), in)
		if err != nil {
			st.SetFlash(flashMessage(err, "Product could not be created"))
			return c.Redirect(routes.Admin)
		}
		st.SetFlash("Product \"" + p.Name + "\" created")
		return c.Redirect(routes.Admin)
	}
}

func EditProductHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := session.From(c)
		id, err := formID(c)
		if err != nil {
			st.SetFlash("Invalid product id")
			return c.Redirect(routes.Admin)
		}
		in, err := formInput(c)
		if err != nil {
			st.SetFlash(err.Error())
			return c.Redirect(routes.Admin)
		}
		if _, err := store.Update(c.UserContext(), id, in); err != nil {
			st.SetFlash(flashMessage(err, "Product could not be updated"))
			return c.Redirect(routes.Admin)
		}
		st.SetFlash("Product updated")
		return c.Redirect(routes.Admin)
	}
}

// DeleteProductHandler deactivates the product; it is never removed.
func DeleteProductHandler(store *Store) fiber.Handler {
	return setActiveHandler(store, false, "Product deactivated")
}

func ActivateProductHandler(store *Store) fiber.Handler {
	return setActiveHandler(store, true, "Product activated")
}

func setActiveHandler(store *Store, active bool, okMsg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := session.From(c)
		id := c.QueryInt("id")
		if id <= 0 {
			st.SetFlash("Invalid product id")
			return c.Redirect(routes.Admin)
		}
		if err := store.SetActive(c.UserContext(), uint(id), active); err != nil {
			st.SetFlash(flashMessage(err, "Product could not be changed"))
			return c.Redirect(routes.Admin)
		}
		st.SetFlash(okMsg)
		return c.Redirect(routes.Admin)
	}
}

func formInput(c *fiber.Ctx) (ProductInput, error) {
	priceStr := strings.TrimSpace(c.FormValue("price"))
	if priceStr == "" {
		return ProductInput{}, errors.New("Name, price and category are required")
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return ProductInput{}, errors.New("Price must be a number")
	}
	return ProductInput{
		Name:     c.FormValue("name"),
		Price:    price,
		Category: c.FormValue("category"),
	}, nil
}

func formID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("id")), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func flashMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, ErrInvalidProduct):
		return strings.TrimPrefix(err.Error(), ErrInvalidProduct.Error()+": ")
	case errors.Is(err, ErrNotFound):
		return "Product not found"
	}
	return fallback
}
