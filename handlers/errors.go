package handlers

import (
	"errors"

	"Sistem-Absensi-Cuti/models"

	"github.com/gofiber/fiber/v2"
)

// mapBusinessError memetakan error bisnis ke status HTTP yang spesifik.
// Pesan error-nya sendiri sudah menjelaskan kendala yang terjadi, jadi
// diteruskan apa adanya ke client.
func mapBusinessError(c *fiber.Ctx, err error) error {
	var status int

	switch {
	case errors.Is(err, models.ErrTanggalTidakValid),
		errors.Is(err, models.ErrQRCodeTidakValid):
		status = fiber.StatusBadRequest
	case errors.Is(err, models.ErrAksesDitolak):
		status = fiber.StatusForbidden
	case errors.Is(err, models.ErrSesiTidakDitemukan),
		errors.Is(err, models.ErrPengajuanTidakDitemukan),
		errors.Is(err, models.ErrUserTidakDitemukan):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrKoreksiMasihPending),
		errors.Is(err, models.ErrSesiBelumSelesai),
		errors.Is(err, models.ErrSudahDiproses):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrSaldoCutiTidakCukup):
		status = fiber.StatusUnprocessableEntity
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Terjadi kesalahan internal"})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// currentClaims mengambil claims hasil AuthMiddleware dari context.
func currentClaims(c *fiber.Ctx) (*models.Claims, bool) {
	claims, ok := c.Locals("user").(*models.Claims)
	return claims, ok
}
