package middleware

import (
	"Sistem-Absensi-Cuti/models"

	"github.com/gofiber/fiber/v2"
)

// AdminMiddleware meloloskan hanya admin perusahaan atau admin cabang.
// Cakupan per item (cabang mana yang boleh dikelola) dicek lagi di service.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("user").(*models.Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Tidak terautentikasi atau data sesi rusak"})
		}

		if !claims.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Akses ditolak. Hak akses admin diperlukan"})
		}

		return c.Next()
	}
}
