package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Sistem-Absensi-Cuti/repository"
)

type NotificationHandler struct {
	notifRepo repository.NotificationRepository
}

func NewNotificationHandler(notifRepo repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{
		notifRepo: notifRepo,
	}
}

// GetMyNotifications godoc
// @Summary Get My Notifications
// @Description Notifikasi user yang sedang login, terbaru lebih dulu. Endpoint ini yang dipakai polling 30 detik di frontend.
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maksimum item (default: 20, max: 100)"
// @Success 200 {object} object{data=array,unread=int} "Daftar notifikasi"
// @Router /notifications [get]
func (h *NotificationHandler) GetMyNotifications(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	notifications, err := h.notifRepo.FindByEmployee(ctx, claims.UserID, int64(limit))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal mengambil notifikasi"})
	}

	unread, err := h.notifRepo.CountUnread(ctx, claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal menghitung notifikasi belum dibaca"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":   notifications,
		"unread": unread,
	})
}

// MarkNotificationRead godoc
// @Summary Mark Notification Read
// @Description Menandai satu notifikasi milik sendiri sebagai sudah dibaca
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} object{message=string} "Notifikasi ditandai dibaca"
// @Failure 404 {object} models.NotFoundErrorResponse "Notifikasi tidak ditemukan"
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkNotificationRead(c *fiber.Ctx) error {
	idParam := c.Params("id")
	notifID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format ID notifikasi tidak valid"})
	}

	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	matched, err := h.notifRepo.MarkRead(ctx, notifID, claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal menandai notifikasi"})
	}
	if !matched {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notifikasi tidak ditemukan"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Notifikasi ditandai sudah dibaca"})
}

// MarkAllNotificationsRead godoc
// @Summary Mark All Notifications Read
// @Description Menandai semua notifikasi milik sendiri sebagai sudah dibaca
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string} "Semua notifikasi ditandai dibaca"
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	if err := h.notifRepo.MarkAllRead(ctx, claims.UserID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal menandai notifikasi"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Semua notifikasi ditandai sudah dibaca"})
}
