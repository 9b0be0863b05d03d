package audit

import (
	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entity_type=product&entity_id=1&user_id=1&limit=50
func ListAuditLogsHandler(r *Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := Filter{
			EntityType: c.Query("entity_type"),
			Limit:      c.QueryInt("limit", 100),
		}
		if id := c.QueryInt("entity_id"); id > 0 {
			f.EntityID = uint(id)
		}
		if id := c.QueryInt("user_id"); id > 0 {
			f.UserID = uint(id)
		}

		logs, err := r.List(c.UserContext(), f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit logs could not be listed")
		}
		return c.JSON(fiber.Map{"success": true, "logs": logs})
	}
}
