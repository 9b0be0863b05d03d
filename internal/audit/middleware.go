package audit

import (
	"fmt"
	"log/slog"
	"strconv"

	"restoran-pos/internal/auth"
	"restoran-pos/internal/logger"
	"restoran-pos/internal/models"
	"restoran-pos/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Track wraps an admin form action and records it once the handler has run.
// The flash message set by the handler becomes the description, so failed
// validations are recorded with their message too.
func Track(r *Recorder, log *logger.Logger, entityType string, action models.AuditAction, next fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := next(c); err != nil {
			return err
		}
		st := session.From(c)

		id, _ := strconv.ParseUint(c.FormValue("id", c.Query("id")), 10, 64)
		opts := LogOptions{
			UserID:      st.UserID,
			UserName:    st.Username,
			EntityType:  entityType,
			EntityID:    uint(id),
			Action:      action,
			Description: st.Flash,
			Source:      SourceWeb,
		}
		if err := r.Write(c.UserContext(), opts); err != nil {
			requestID, _ := c.Locals("requestid").(string)
			log.Error("audit_write", requestID, "audit log could not be written", err,
				slog.String("entity_type", entityType))
		}
		return nil
	}
}

// TrackAPI is Track for JSON routes; only successful responses are recorded.
func TrackAPI(r *Recorder, log *logger.Logger, entityType string, action models.AuditAction, next fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := next(c); err != nil {
			return err
		}
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			return nil
		}

		id, _ := c.ParamsInt("id")
		opts := LogOptions{
			UserID:      auth.APIUserID(c),
			EntityType:  entityType,
			EntityID:    uint(id),
			Action:      action,
			Description: fmt.Sprintf("%s %s", c.Method(), c.Path()),
			Source:      SourceAPI,
		}
		if err := r.Write(c.UserContext(), opts); err != nil {
			requestID, _ := c.Locals("requestid").(string)
			log.Error("audit_write", requestID, "audit log could not be written", err,
				slog.String("entity_type", entityType))
		}
		return nil
	}
}
