package handler

import (
	"errors"
	"time"

	"go-sealindo/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Helper untuk ambil User Info dari JWT Context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system" // Fallback jika tidak ada (shouldn't happen in protected routes)
	}
	return userID.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// parseDate menerima tanggal format "2006-01-02".
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// respondErr memetakan taksonomi apperr ke status HTTP: referensi hilang
// 404, pelanggaran invariant 422, sisanya 500 dengan pesan opaque.
func respondErr(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		status := fiber.StatusUnprocessableEntity
		if appErr.Code == apperr.CodeNotFound {
			status = fiber.StatusNotFound
		}
		resp := fiber.Map{"error": appErr.Message, "code": appErr.Code}
		if len(appErr.Fields) > 0 {
			resp["fields"] = appErr.Fields
		}
		return c.Status(status).JSON(resp)
	}

	logrus.WithError(err).Error("unexpected error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}
