package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Sistem-Absensi-Cuti/models"
	util "Sistem-Absensi-Cuti/pkg/utils"
	"Sistem-Absensi-Cuti/services"
)

type ApprovalHandler struct {
	approvalService *services.ApprovalService
	sessionService  *services.WorkSessionService
	leaveService    *services.LeaveRequestService
}

func NewApprovalHandler(
	approvalService *services.ApprovalService,
	sessionService *services.WorkSessionService,
	leaveService *services.LeaveRequestService,
) *ApprovalHandler {
	return &ApprovalHandler{
		approvalService: approvalService,
		sessionService:  sessionService,
		leaveService:    leaveService,
	}
}

// GetPendingApprovals godoc
// @Summary Get Pending Approvals
// @Description Antrean koreksi dan pengajuan cuti yang menunggu keputusan, urut dari yang paling lama. Admin perusahaan melihat semua cabang, admin cabang hanya cabangnya.
// @Tags Approvals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.PendingApprovals "Antrean persetujuan"
// @Failure 403 {object} models.ForbiddenErrorResponse "Bukan admin"
// @Router /approvals/pending [get]
func (h *ApprovalHandler) GetPendingApprovals(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	pending, err := h.approvalService.Pending(ctx, claims)
	if err != nil {
		return mapBusinessError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(pending)
}

// GetResolvedToday godoc
// @Summary Get Resolved Today
// @Description Semua keputusan dalam hari kalender berjalan, sesuai cakupan admin
// @Tags Approvals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.ResolvedToday "Keputusan hari ini"
// @Router /approvals/resolved-today [get]
func (h *ApprovalHandler) GetResolvedToday(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	resolved, err := h.approvalService.ResolvedToday(ctx, claims)
	if err != nil {
		return mapBusinessError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resolved)
}

// GetApprovalHistory godoc
// @Summary Get Approval History
// @Description Riwayat keputusan beberapa bulan terakhir, dikelompokkan per bulan lalu per hari
// @Tags Approvals
// @Produce json
// @Security BearerAuth
// @Param months query int false "Jumlah bulan ke belakang (default: 3, max: 24)"
// @Success 200 {object} object{data=array} "Riwayat keputusan"
// @Router /approvals/history [get]
func (h *ApprovalHandler) GetApprovalHistory(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	months := c.QueryInt("months", 3)

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	history, err := h.approvalService.History(ctx, claims, months)
	if err != nil {
		return mapBusinessError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": history})
}

// ResolveCorrection godoc
// @Summary Resolve Time Correction
// @Description Menyetujui atau menolak koreksi waktu. Item yang sudah diproses menolak keputusan kedua (409), jadi dua admin tidak bisa memutus item yang sama dua kali.
// @Tags Approvals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param decision body models.ResolvePayload true "Keputusan"
// @Success 200 {object} models.ResolveSuccessResponse "Koreksi diputus"
// @Failure 403 {object} models.ForbiddenErrorResponse "Di luar cakupan admin"
// @Failure 404 {object} models.NotFoundErrorResponse "Sesi tidak ditemukan"
// @Failure 409 {object} models.ConflictErrorResponse "Sudah diproses"
// @Router /approvals/corrections/{id} [post]
func (h *ApprovalHandler) ResolveCorrection(c *fiber.Ctx) error {
	idParam := c.Params("id")
	sessionID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format ID sesi tidak valid"})
	}

	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	var payload models.ResolvePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload tidak valid"})
	}

	if errors := util.ValidateStruct(payload); errors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errors})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	session, err := h.sessionService.ResolveCorrection(ctx, claims, sessionID, *payload.Approved, payload.Note)
	if err != nil {
		return mapBusinessError(c, err)
	}

	message := "Koreksi disetujui"
	if !*payload.Approved {
		message = "Koreksi ditolak"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": message,
		"session": session,
	})
}

// ResolveLeaveRequest godoc
// @Summary Resolve Leave Request
// @Description Menyetujui atau menolak pengajuan cuti. Persetujuan memotong saldo lewat pengecekan ulang atomik; saldo kurang membuat pengajuan tetap pending (422).
// @Tags Approvals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param decision body models.ResolvePayload true "Keputusan"
// @Success 200 {object} models.ResolveSuccessResponse "Pengajuan diputus"
// @Failure 403 {object} models.ForbiddenErrorResponse "Di luar cakupan admin"
// @Failure 404 {object} models.NotFoundErrorResponse "Pengajuan tidak ditemukan"
// @Failure 409 {object} models.ConflictErrorResponse "Sudah diproses"
// @Failure 422 {object} models.ErrorResponse "Saldo cuti tidak mencukupi"
// @Router /approvals/leave-requests/{id} [post]
func (h *ApprovalHandler) ResolveLeaveRequest(c *fiber.Ctx) error {
	idParam := c.Params("id")
	requestID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format ID pengajuan tidak valid"})
	}

	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	var payload models.ResolvePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload tidak valid"})
	}

	if errors := util.ValidateStruct(payload); errors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errors})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	request, err := h.leaveService.Resolve(ctx, claims, requestID, *payload.Approved, payload.Note)
	if err != nil {
		return mapBusinessError(c, err)
	}

	message := "Pengajuan disetujui"
	if !*payload.Approved {
		message = "Pengajuan ditolak"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": message,
		"request": request,
	})
}

// GetDashboardStats godoc
// @Summary Get Dashboard Stats
// @Description Rekap dashboard admin: jumlah karyawan, sedang bekerja, antrean tertunda, distribusi cabang
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.DashboardStats "Rekap dashboard"
// @Router /admin/dashboard [get]
func (h *ApprovalHandler) GetDashboardStats(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.approvalService.DashboardStats(ctx, claims)
	if err != nil {
		return mapBusinessError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
