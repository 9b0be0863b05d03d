package discount

import (
	"errors"
	"strconv"
	"strings"

	"restoran-pos/internal/models"
	"restoran-pos/internal/routes"
	"restoran-pos/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func AddDiscountHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := session.From(c)
		in, err := formInput(c)
		if err != nil {
			st.SetFlash(err.Error())
			return c.Redirect(routes.Admin)
		}
		dc, err := store.Create(c.UserContext(), in)
		if err != nil {
			st.SetFlash(flashMessage(err, "Discount code could not be created"))
			return c.Redirect(routes.Admin)
		}
		st.SetFlash("Discount code " + dc.Code + " created")
		return c.Redirect(routes.Admin)
	}
}

func EditDiscountHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := session.From(c)
		id, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("id")), 10, 64)
		if err != nil || id == 0 {
			st.SetFlash("Invalid discount id")
			return c.Redirect(routes.Admin)
		}
		in, err := formInput(c)
		if err != nil {
			st.SetFlash(err.Error())
			return c.Redirect(routes.Admin)
		}
		if _, err := store.Update(c.UserContext(), uint(id), in); err != nil {
			st.SetFlash(flashMessage(err, "Discount code could not be updated"))
			return c.Redirect(routes.Admin)
		}
		st.SetFlash("Discount code updated")
		return c.Redirect(routes.Admin)
	}
}

func DeleteDiscountHandler(store *Store) fiber.Handler {
	return setActiveHandler(store, false, "Discount code deactivated")
}

func ActivateDiscountHandler(store *Store) fiber.Handler {
	return setActiveHandler(store, true, "Discount code activated")
}

func setActiveHandler(store *Store, active bool, okMsg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := session.From(c)
		id := c.QueryInt("id")
		if id <= 0 {
			st.SetFlash("Invalid discount id")
			return c.Redirect(routes.Admin)
		}
		if err := store.SetActive(c.UserContext(), uint(id), active); err != nil {
			st.SetFlash(flashMessage(err, "Discount code could not be changed"))
			return c.Redirect(routes.Admin)
		}
		st.SetFlash(okMsg)
		return c.Redirect(routes.Admin)
	}
}

func formInput(c *fiber.Ctx) (Input, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(c.FormValue("value")))
	if err != nil {
		return Input{}, errors.New("Value must be a number")
	}
	return Input{
		Code:  c.FormValue("code"),
		Kind:  models.DiscountKind(strings.TrimSpace(c.FormValue("kind"))),
		Value: value,
	}, nil
}

func flashMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, ErrInvalidDiscount):
		return strings.TrimPrefix(err.Error(), ErrInvalidDiscount.Error()+": ")
	case errors.Is(err, ErrCodeExists):
		return "That discount code already exists"
	case errors.Is(err, ErrNotFound):
		return "Discount code not found"
	}
	return fallback
}
