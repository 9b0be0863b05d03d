package reports

import (
	"errors"
	"log/slog"

	"restoran-pos/internal/logger"
	"restoran-pos/internal/routes"
	"restoran-pos/internal/session"

	"github.com/gofiber/fiber/v2"
)

// GET /api/reports/sales-day?date=YYYY-MM-DD
func SalesDayAPI(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := svc.ParseDay(c.Query("date"))
		if err != nil {
			return apiError(err)
		}
		r, err := svc.SalesDay(c.UserContext(), day)
		if err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{"success": true, "report": r})
	}
}

// GET /api/reports/sales-range?start_date=&end_date=
func SalesRangeAPI(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.ParsePeriod(c.Query("start_date"), c.Query("end_date"), true)
		if err != nil {
			return apiError(err)
		}
		r, err := svc.SalesRange(c.UserContext(), p)
		if err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{"success": true, "report": r})
	}
}

// GET /api/reports/top-products?start_date=&end_date=&limit=
func TopProductsAPI(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.ParsePeriod(c.Query("start_date"), c.Query("end_date"), false)
		if err != nil {
			return apiError(err)
		}
		list, err := svc.TopProducts(c.UserContext(), p, c.QueryInt("limit", 10))
		if err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{"success": true, "products": list})
	}
}

// GET /api/reports/categories?start_date=&end_date=
func CategoriesAPI(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.ParsePeriod(c.Query("start_date"), c.Query("end_date"), false)
		if err != nil {
			return apiError(err)
		}
		list, err := svc.Categories(c.UserContext(), p)
		if err != nil {
			return apiError(err)
		}
		return c.JSON(fiber.Map{"success": true, "categories": list})
	}
}

// GET /api/reports/xlsx/:kind
func ExportAPI(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, body, err := svc.Export(c.UserContext(), c.Params("kind"), queryFrom(c))
		if err != nil {
			return apiError(err)
		}
		return sendXLSX(c, name, body)
	}
}

// GET /?action=export&report=<kind> from the admin view. Bad parameters come
// back as a flash message.
func ExportHandler(svc *Service, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind := c.Query("report")
		name, body, err := svc.Export(c.UserContext(), kind, queryFrom(c))
		if err != nil {
			st := session.From(c)
			if isInputError(err) {
				st.SetFlash(err.Error())
			} else {
				requestID, _ := c.Locals("requestid").(string)
				log.Error("report_export", requestID, "report export failed", err, slog.String("report", kind))
				st.SetFlash("The report could not be generated")
			}
			return c.Redirect(routes.Admin)
		}
		return sendXLSX(c, name, body)
	}
}

func queryFrom(c *fiber.Ctx) Query {
	return Query{
		Date:      c.Query("date"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Limit:     c.QueryInt("limit", 10),
	}
}

func sendXLSX(c *fiber.Ctx, name string, body []byte) error {
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, XLSXContentType)
	return c.Send(body)
}

func isInputError(err error) bool {
	return errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrInvalidRange) || errors.Is(err, ErrUnknownReport)
}

func apiError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownReport):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case isInputError(err):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Report could not be generated")
}
