package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Sistem-Absensi-Cuti/models"
	util "Sistem-Absensi-Cuti/pkg/utils"
	"Sistem-Absensi-Cuti/repository"
	"Sistem-Absensi-Cuti/services"
)

type LeaveRequestHandler struct {
	leaveService *services.LeaveRequestService
	holidayRepo  repository.HolidayRuleRepository
}

func NewLeaveRequestHandler(leaveService *services.LeaveRequestService, holidayRepo repository.HolidayRuleRepository) *LeaveRequestHandler {
	return &LeaveRequestHandler{
		leaveService: leaveService,
		holidayRepo:  holidayRepo,
	}
}

// CreateLeaveRequest godoc
// @Summary Create Leave Request
// @Description Mengajukan cuti/izin/sakit. Tanggal dan saldo divalidasi sebelum ada yang tersimpan; nomor pengajuan LEAVE/{tahun}/{urut} dijamin unik per perusahaan.
// @Tags LeaveRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.LeaveRequestCreatePayload true "Data pengajuan"
// @Success 201 {object} models.LeaveSubmitSuccessResponse "Pengajuan dibuat"
// @Failure 400 {object} models.ValidationErrorResponse "Tanggal atau payload tidak valid"
// @Failure 422 {object} models.ErrorResponse "Saldo cuti tidak mencukupi"
// @Router /leave-requests [post]
func (h *LeaveRequestHandler) CreateLeaveRequest(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	var payload models.LeaveRequestCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload tidak valid"})
	}

	if errors := util.ValidateStruct(payload); errors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errors})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	request, err := h.leaveService.Submit(ctx, claims, &payload)
	if err != nil {
		return mapBusinessError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Pengajuan berhasil dibuat",
		"request": request,
	})
}

// GetMyLeaveRequests godoc
// @Summary Get My Leave Requests
// @Description Pengajuan milik user yang sedang login, terbaru lebih dulu
// @Tags LeaveRequests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{data=array} "Daftar pengajuan"
// @Router /leave-requests/my [get]
func (h *LeaveRequestHandler) GetMyLeaveRequests(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	requests, err := h.leaveService.MyRequests(ctx, claims.UserID)
	if err != nil {
		return mapBusinessError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": requests})
}

// WithdrawLeaveRequest godoc
// @Summary Withdraw Leave Request
// @Description Menarik pengajuan milik sendiri selama masih pending
// @Tags LeaveRequests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} object{message=string} "Pengajuan ditarik"
// @Failure 404 {object} models.NotFoundErrorResponse "Pengajuan tidak ditemukan"
// @Failure 409 {object} models.ConflictErrorResponse "Pengajuan sudah diproses"
// @Router /leave-requests/{id} [delete]
func (h *LeaveRequestHandler) WithdrawLeaveRequest(c *fiber.Ctx) error {
	idParam := c.Params("id")
	requestID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format ID pengajuan tidak valid"})
	}

	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	if err := h.leaveService.Withdraw(ctx, claims, requestID); err != nil {
		return mapBusinessError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Pengajuan berhasil ditarik"})
}

// UploadAttachment godoc
// @Summary Upload Leave Attachment
// @Description Mengunggah lampiran (mis. surat dokter) pada pengajuan milik sendiri
// @Tags LeaveRequests
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param attachment formData file true "File lampiran"
// @Success 200 {object} object{message=string,file_url=string} "File berhasil diunggah"
// @Failure 400 {object} models.ErrorResponse "File tidak ditemukan"
// @Router /leave-requests/{id}/attachment [post]
func (h *LeaveRequestHandler) UploadAttachment(c *fiber.Ctx) error {
	idParam := c.Params("id")
	requestID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format ID pengajuan tidak valid"})
	}

	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	file, err := c.FormFile("attachment")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File tidak ditemukan"})
	}

	uniqueFileName := fmt.Sprintf("%d-%s", time.Now().Unix(), file.Filename)
	filePath := fmt.Sprintf("./uploads/attachments/%s", uniqueFileName)

	if err := c.SaveFile(file, filePath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal menyimpan file"})
	}

	fileURL := fmt.Sprintf("/uploads/attachments/%s", uniqueFileName)

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	if err := h.leaveService.AttachDocument(ctx, claims, requestID, fileURL); err != nil {
		return mapBusinessError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "File berhasil diunggah",
		"file_url": fileURL,
	})
}

// GetHolidays godoc
// @Summary Get Holidays
// @Description Kalender hari libur untuk form pengajuan: libur nasional (API eksternal) plus libur perusahaan hasil ekspansi aturan berulang. Informatif saja, tidak mengubah perhitungan jumlah hari.
// @Tags LeaveRequests
// @Produce json
// @Security BearerAuth
// @Param year query int false "Tahun (default: tahun berjalan)"
// @Success 200 {object} object{national=array,company=array} "Daftar hari libur"
// @Router /leave-requests/holidays [get]
func (h *LeaveRequestHandler) GetHolidays(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	year := c.QueryInt("year", time.Now().Year())

	national, err := util.GetNationalHolidays(strconv.Itoa(year))
	if err != nil {
		// API eksternal boleh gagal; kalender perusahaan tetap dikirim
		national = []models.Holiday{}
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	rules, err := h.holidayRepo.FindByCompany(ctx, claims.CompanyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal mengambil aturan hari libur"})
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	company := util.ExpandHolidayRules(rules, yearStart, yearEnd)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"national": national,
		"company":  company,
	})
}

// CreateHolidayRule godoc
// @Summary Create Holiday Rule
// @Description Menambahkan aturan hari libur perusahaan yang berulang (RRULE)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param rule body models.HolidayRuleCreatePayload true "Aturan hari libur"
// @Success 201 {object} object{message=string,rule=models.HolidayRule} "Aturan dibuat"
// @Failure 400 {object} models.ValidationErrorResponse "Payload tidak valid"
// @Router /admin/holiday-rules [post]
func (h *LeaveRequestHandler) CreateHolidayRule(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	var payload models.HolidayRuleCreatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payload tidak valid"})
	}

	if errors := util.ValidateStruct(payload); errors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errors})
	}

	rule := &models.HolidayRule{
		ID:             primitive.NewObjectID(),
		CompanyID:      claims.CompanyID,
		Name:           payload.Name,
		StartDate:      payload.StartDate,
		RecurrenceRule: payload.RecurrenceRule,
		CreatedAt:      time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	if err := h.holidayRepo.Create(ctx, rule); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal menyimpan aturan hari libur"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Aturan hari libur berhasil dibuat",
		"rule":    rule,
	})
}

// DeleteHolidayRule godoc
// @Summary Delete Holiday Rule
// @Description Menghapus aturan hari libur perusahaan
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Rule ID"
// @Success 200 {object} object{message=string} "Aturan dihapus"
// @Router /admin/holiday-rules/{id} [delete]
func (h *LeaveRequestHandler) DeleteHolidayRule(c *fiber.Ctx) error {
	idParam := c.Params("id")
	ruleID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format ID aturan tidak valid"})
	}

	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	if err := h.holidayRepo.DeleteRule(ctx, ruleID, claims.CompanyID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Aturan hari libur tidak ditemukan"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Aturan hari libur berhasil dihapus"})
}
