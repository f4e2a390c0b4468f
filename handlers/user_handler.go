package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"Sistem-Absensi-Cuti/models"
	util "Sistem-Absensi-Cuti/pkg/utils"
	"Sistem-Absensi-Cuti/repository"
)

type UserHandler struct {
	userRepo repository.UserRepository
}

func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
	}
}

// GetUserByID godoc
// @Summary Get User by ID
// @Description Mendapatkan detail user (karyawan hanya dirinya sendiri, admin sesuai cakupan cabang/perusahaan)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.User "User berhasil ditemukan"
// @Failure 400 {object} models.ErrorResponse "Format ID tidak valid"
// @Failure 403 {object} models.ForbiddenErrorResponse "Akses ditolak"
// @Failure 404 {object} models.NotFoundErrorResponse "User tidak ditemukan"
// @Router /users/{id} [get]
func (h *UserHandler) GetUserByID(c *fiber.Ctx) error {
	idParam := c.Params("id")
	objID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format ID user tidak valid"})
	}

	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	user, err := h.userRepo.FindUserByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("gagal mendapatkan user: %v", err)})
	}
	if user == nil {
		return mapBusinessError(c, models.ErrUserTidakDitemukan)
	}

	if claims.UserID != user.ID && !claims.BolehKelola(user.CompanyID, user.BranchID) {
		return mapBusinessError(c, models.ErrAksesDitolak)
	}

	user.Password = ""
	return c.Status(fiber.StatusOK).JSON(user)
}

// GetAllUsers godoc
// @Summary Get All Users
// @Description Mendapatkan data users dalam cakupan admin, dengan pagination dan filter
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10, max: 100)"
// @Param search query string false "Search by name or email"
// @Param role query string false "Filter by role"
// @Success 200 {object} object{data=array,total=int,page=int,limit=int} "Data users berhasil diambil"
// @Failure 401 {object} models.UnauthorizedErrorResponse "Tidak terautentikasi"
// @Failure 500 {object} models.ErrorResponse "Gagal mengambil data users"
// @Router /admin/users [get]
func (h *UserHandler) GetAllUsers(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	search := c.Query("search", "")
	role := c.Query("role", "")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	// Cakupan: admin cabang terkunci ke cabangnya sendiri
	filter := bson.M{"company_id": claims.CompanyID}
	if claims.Role == models.RoleBranchAdmin {
		filter["branch_id"] = claims.BranchID
	}
	if search != "" {
		filter["$or"] = []bson.M{
			{"name": primitive.Regex{Pattern: search, Options: "i"}},
			{"email": primitive.Regex{Pattern: search, Options: "i"}},
		}
	}
	if role != "" {
		filter["role"] = role
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	users, total, err := h.userRepo.GetAllUsers(ctx, filter, int64(page), int64(limit))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("gagal mendapatkan semua user: %v", err)})
	}
	for i := range users {
		users[i].Password = ""
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":  users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// UpdateUser godoc
// @Summary Update User
// @Description Update data user. Karyawan hanya boleh mengubah foto profilnya sendiri; admin mengubah data karyawan dalam cakupannya, termasuk jatah cuti.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param user body models.UserUpdatePayload true "Data update user"
// @Success 200 {object} object{message=string} "User berhasil diupdate"
// @Failure 400 {object} models.ValidationErrorResponse "Payload atau ID tidak valid"
// @Failure 403 {object} models.ForbiddenErrorResponse "Akses ditolak"
// @Failure 404 {object} models.NotFoundErrorResponse "User tidak ditemukan"
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	idParam := c.Params("id")
	objID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format ID user tidak valid"})
	}

	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	var payload models.UserUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	if errors := util.ValidateStruct(payload); errors != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errors})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	target, err := h.userRepo.FindUserByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("gagal mendapatkan user: %v", err)})
	}
	if target == nil {
		return mapBusinessError(c, models.ErrUserTidakDitemukan)
	}

	isAdminScope := claims.BolehKelola(target.CompanyID, target.BranchID)
	updateData := bson.M{}

	if !isAdminScope {
		if claims.UserID != target.ID {
			return mapBusinessError(c, models.ErrAksesDitolak)
		}
		if payload.Name != "" || payload.Email != "" || payload.Position != "" || payload.VacationDaysTotal != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "akses ditolak. anda hanya diizinkan mengubah foto profil.",
			})
		}
		if payload.Photo != "" {
			updateData["photo"] = payload.Photo
		}
	} else {
		if payload.Name != "" {
			updateData["name"] = payload.Name
		}
		if payload.Email != "" {
			updateData["email"] = payload.Email
		}
		if payload.Position != "" {
			updateData["position"] = payload.Position
		}
		if payload.Photo != "" {
			updateData["photo"] = payload.Photo
		}
		if payload.VacationDaysTotal != nil {
			updateData["vacation_days_total"] = *payload.VacationDaysTotal
		}
	}

	if len(updateData) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tidak ada field yang diupdate"})
	}
	updateData["updated_at"] = time.Now()

	matched, err := h.userRepo.UpdateUser(ctx, objID, updateData)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("gagal update user: %v", err)})
	}
	if matched == 0 {
		return mapBusinessError(c, models.ErrUserTidakDitemukan)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "User berhasil diupdate"})
}

// DeleteUser godoc
// @Summary Delete User
// @Description Menghapus user dalam cakupan admin
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} object{message=string} "User berhasil dihapus"
// @Failure 403 {object} models.ForbiddenErrorResponse "Akses ditolak"
// @Failure 404 {object} models.NotFoundErrorResponse "User tidak ditemukan"
// @Router /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	idParam := c.Params("id")
	objID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format ID user tidak valid"})
	}

	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	target, err := h.userRepo.FindUserByID(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("gagal mendapatkan user: %v", err)})
	}
	if target == nil {
		return mapBusinessError(c, models.ErrUserTidakDitemukan)
	}
	if !claims.BolehKelola(target.CompanyID, target.BranchID) {
		return mapBusinessError(c, models.ErrAksesDitolak)
	}

	deleted, err := h.userRepo.DeleteUser(ctx, objID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("gagal menghapus user: %v", err)})
	}
	if deleted == 0 {
		return mapBusinessError(c, models.ErrUserTidakDitemukan)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "User berhasil dihapus"})
}

// UploadPhoto godoc
// @Summary Upload Profile Photo
// @Description Mengunggah foto profil user yang sedang login
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "File foto profil"
// @Success 200 {object} object{message=string,file_url=string} "Foto berhasil diunggah"
// @Failure 400 {object} models.ErrorResponse "File tidak ditemukan"
// @Router /users/me/photo [post]
func (h *UserHandler) UploadPhoto(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "tidak terautentikasi atau klaim token tidak valid"})
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File tidak ditemukan"})
	}

	uniqueFileName := fmt.Sprintf("%d-%s", time.Now().Unix(), file.Filename)
	filePath := fmt.Sprintf("./uploads/photos/%s", uniqueFileName)

	if err := c.SaveFile(file, filePath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal menyimpan file"})
	}

	fileURL := fmt.Sprintf("/uploads/photos/%s", uniqueFileName)

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	updateData := bson.M{"photo": fileURL, "updated_at": time.Now()}
	if _, err := h.userRepo.UpdateUser(ctx, claims.UserID, updateData); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gagal menyimpan URL foto ke database"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Foto berhasil diunggah",
		"file_url": fileURL,
	})
}
