package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Sistem-Absensi-Cuti/models"
	util "Sistem-Absensi-Cuti/pkg/utils"
	"Sistem-Absensi-Cuti/services"
)

const correctionTimeLayout = "2006-01-02 15:04"

type WorkSessionHandler struct {
	sessionService *services.WorkSessionService
}

func NewWorkSessionHandler(sessionService *services.WorkSessionService) *WorkSessionHandler {
	return &WorkSessionHandler{
		sessionService: sessionService,
	}
}

// ClockIn godoc
// @Summary Clock In
// @Description Memulai sesi kerja. Idempoten: clock-in saat masih ada sesi aktif mengembalikan sesi itu tanpa membuat duplikat.
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ClockSuccessResponse "Sesi aktif dikembalikan"
// @Failure 401 {object} models.UnauthorizedErrorResponse "Tidak terautentikasi"
// @Router /sessions/clock-in [post]
func (h *WorkSessionHandler) ClockIn(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	session, err := h.sessionService.ClockIn(ctx, claims)
	if err != nil {
		return mapBusinessError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Clock-in berhasil",
		"session": session,
	})
}

// ClockOut godoc
// @Summary Clock Out
// @Description Menutup sesi kerja aktif. Tanpa sesi aktif tidak ada data yang dibuat.
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ClockSuccessResponse "Sesi ditutup"
// @Failure 404 {object} models.NotFoundErrorResponse "Tidak ada sesi aktif"
// @Router /sessions/clock-out [post]
func (h *WorkSessionHandler) ClockOut(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	session, err := h.sessionService.ClockOut(ctx, claims.UserID)
	if err != nil {
		return mapBusinessError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Clock-out berhasil",
		"session": session,
	})
}

// GetActiveSession godoc
// @Summary Get Active Session
// @Description Mengambil sesi aktif user yang sedang login, null bila tidak ada
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{session=models.WorkSession} "Sesi aktif (atau null)"
// @Router /sessions/active [get]
func (h *WorkSessionHandler) GetActiveSession(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	session, err := h.sessionService.GetActive(ctx, claims.UserID)
	if err != nil {
		return mapBusinessError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"session": session})
}

// GetMyHistory godoc
// @Summary Get My Session History
// @Description Riwayat sesi kerja user yang sedang login, terbaru lebih dulu
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{data=array} "Riwayat sesi"
// @Router /sessions/my-history [get]
func (h *WorkSessionHandler) GetMyHistory(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.sessionService.History(ctx, claims.UserID)
	if err != nil {
		return mapBusinessError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": sessions})
}

// ProposeCorrection godoc
// @Summary Propose Time Correction
// @Description Mengusulkan koreksi waktu atas sesi milik sendiri yang sudah selesai. Sesi dengan koreksi yang masih menunggu menolak usulan baru.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param correction body models.CorrectionProposePayload true "Waktu usulan (format 2006-01-02 15:04)"
// @Success 200 {object} object{message=string,session=models.WorkSession} "Koreksi diajukan"
// @Failure 400 {object} models.ValidationErrorResponse "Payload tidak valid"
// @Failure 404 {object} models.NotFoundErrorResponse "Sesi tidak ditemukan"
// @Failure 409 {object} models.ConflictErrorResponse "Koreksi masih pending atau sesi belum selesai"
// @Router /sessions/{id}/correction [post]
func (h *WorkSessionHandler) ProposeCorrection(c *fiber.Ctx) error {
	idParam := c.Params("id")
	sessionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format ID sesi tidak valid"})
	}

	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	var payload models.CorrectionProposePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload tidak valid"})
	}

	if errors := util.ValidateStruct(payload); errors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errors})
	}

	newStart, err := time.ParseInLocation(correctionTimeLayout, payload.NewStart, time.Local)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format waktu mulai tidak valid"})
	}

	var newEnd *time.Time
	if payload.NewEnd != "" {
		parsed, err := time.ParseInLocation(correctionTimeLayout, payload.NewEnd, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format waktu selesai tidak valid"})
		}
		newEnd = &parsed
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	session, err := h.sessionService.ProposeCorrection(ctx, claims, sessionID, newStart, newEnd)
	if err != nil {
		return mapBusinessError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Koreksi waktu berhasil diajukan",
		"session": session,
	})
}

// GenerateQRCode godoc
// @Summary Generate Daily Branch QR Code
// @Description Membuat (atau memakai ulang) QR Code absensi harian sebuah cabang, dikembalikan sebagai PNG
// @Tags Sessions
// @Produce png
// @Security BearerAuth
// @Param branch_id query string true "Branch ID"
// @Success 200 {file} file "PNG QR Code"
// @Failure 403 {object} models.ForbiddenErrorResponse "Akses ditolak"
// @Router /admin/qr-code [get]
func (h *WorkSessionHandler) GenerateQRCode(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	branchID, err := primitive.ObjectIDFromHex(c.Query("branch_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format branch_id tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	qrCode, err := h.sessionService.GenerateDailyQRCode(ctx, claims, branchID)
	if err != nil {
		return mapBusinessError(c, err)
	}

	png, err := qrcode.Encode(qrCode.Code, qrcode.Medium, 256)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal membuat gambar QR Code"})
	}

	c.Set("Content-Type", "image/png")
	return c.Status(fiber.StatusOK).Send(png)
}

// ScanQRCode godoc
// @Summary Scan QR Code
// @Description Scan QR kios cabang: clock-in bila belum ada sesi aktif, clock-out bila ada
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param scan body models.QRCodeScanPayload true "Nilai QR hasil scan"
// @Success 200 {object} object{message=string,action=string,session=models.WorkSession} "Scan diproses"
// @Failure 400 {object} models.ErrorResponse "QR tidak valid atau kedaluwarsa"
// @Failure 403 {object} models.ForbiddenErrorResponse "QR milik cabang lain"
// @Router /sessions/scan [post]
func (h *WorkSessionHandler) ScanQRCode(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	var payload models.QRCodeScanPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload tidak valid"})
	}

	if errors := util.ValidateStruct(payload); errors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errors})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	session, action, err := h.sessionService.ScanQRCode(ctx, claims, payload.QRCodeValue)
	if err != nil {
		return mapBusinessError(c, err)
	}

	message := "Clock-in berhasil lewat QR"
	if action == "clock_out" {
		message = "Clock-out berhasil lewat QR"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": message,
		"action":  action,
		"session": session,
	})
}
