package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"Sistem-Absensi-Cuti/models"
	"Sistem-Absensi-Cuti/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeaveRequestService memegang buku besar cuti: pengajuan, penarikan, dan
// keputusan admin beserta mutasi saldo.
type LeaveRequestService struct {
	leaveRepo   repository.LeaveRequestRepository
	userRepo    repository.UserRepository
	counterRepo repository.CounterRepository
	notifRepo   repository.NotificationRepository
}

func NewLeaveRequestService(
	leaveRepo repository.LeaveRequestRepository,
	userRepo repository.UserRepository,
	counterRepo repository.CounterRepository,
	notifRepo repository.NotificationRepository,
) *LeaveRequestService {
	return &LeaveRequestService{
		leaveRepo:   leaveRepo,
		userRepo:    userRepo,
		counterRepo: counterRepo,
		notifRepo:   notifRepo,
	}
}

// Submit memvalidasi tanggal dan saldo sebelum menulis apa pun. Nomor
// pengajuan diambil dari counter atomik per (perusahaan, tahun) sehingga
// dua pengajuan bersamaan tidak pernah berebut nomor yang sama.
func (s *LeaveRequestService) Submit(ctx context.Context, claims *models.Claims, payload *models.LeaveRequestCreatePayload) (*models.LeaveRequest, error) {
	startDate, err := time.Parse("2006-01-02", payload.StartDate)
	if err != nil {
		return nil, models.ErrTanggalTidakValid
	}
	endDate, err := time.Parse("2006-01-02", payload.EndDate)
	if err != nil {
		return nil, models.ErrTanggalTidakValid
	}
	if endDate.Before(startDate) {
		return nil, models.ErrTanggalTidakValid
	}

	daysCount := models.HitungJumlahHari(startDate, endDate)

	// Saldo dicek terhadap nilai tersimpan terbaru, bukan angka di token.
	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.ErrUserTidakDitemukan
	}
	if payload.Type == models.LeaveTypeCuti && daysCount > user.SisaCuti() {
		return nil, models.ErrSaldoCutiTidakCukup
	}

	year := startDate.Year()
	seq, err := s.counterRepo.NextSequence(ctx, claims.CompanyID, year)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request := &models.LeaveRequest{
		ID:            primitive.NewObjectID(),
		RequestNumber: fmt.Sprintf("LEAVE/%d/%d", year, seq),
		EmployeeID:    claims.UserID,
		CompanyID:     claims.CompanyID,
		BranchID:      claims.BranchID,
		StartDate:     payload.StartDate,
		EndDate:       payload.EndDate,
		DaysCount:     daysCount,
		Type:          payload.Type,
		Reason:        payload.Reason,
		Status:        models.LeaveStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.leaveRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *LeaveRequestService) MyRequests(ctx context.Context, employeeID primitive.ObjectID) ([]models.LeaveRequest, error) {
	return s.leaveRepo.FindByEmployee(ctx, employeeID)
}

// Withdraw menarik pengajuan milik sendiri selama masih pending. Pengajuan
// yang sudah diputus tidak bisa ditarik.
func (s *LeaveRequestService) Withdraw(ctx context.Context, claims *models.Claims, requestID primitive.ObjectID) error {
	request, err := s.leaveRepo.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return models.ErrPengajuanTidakDitemukan
	}
	if request.EmployeeID != claims.UserID {
		return models.ErrAksesDitolak
	}
	if !request.IsPending() {
		return models.ErrSudahDiproses
	}

	deleted, err := s.leaveRepo.DeletePending(ctx, requestID)
	if err != nil {
		return err
	}
	if !deleted {
		// Admin keburu memutus di antara baca dan hapus.
		return models.ErrSudahDiproses
	}
	return nil
}

// Resolve memutus satu pengajuan. Saat disetujui, saldo dipotong lewat
// update bersyarat yang mengecek ulang used+daysCount <= total terhadap
// nilai tersimpan; bila gagal, pengajuan tetap pending untuk ditinjau
// ulang dan tidak ada yang berubah. Bila transisi status kalah balapan
// dari admin lain, potongan yang sudah terjadi dikembalikan.
func (s *LeaveRequestService) Resolve(ctx context.Context, claims *models.Claims, requestID primitive.ObjectID, approved bool, note string) (*models.LeaveRequest, error) {
	request, err := s.leaveRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, models.ErrPengajuanTidakDitemukan
	}
	if !claims.BolehKelola(request.CompanyID, request.BranchID) {
		return nil, models.ErrAksesDitolak
	}
	if !request.IsPending() {
		return nil, models.ErrSudahDiproses
	}

	deductedDays := 0
	if approved && request.Type == models.LeaveTypeCuti {
		deducted, err := s.userRepo.TryDeductVacationDays(ctx, request.EmployeeID, request.DaysCount)
		if err != nil {
			return nil, err
		}
		if !deducted {
			return nil, models.ErrSaldoCutiTidakCukup
		}
		deductedDays = request.DaysCount
	}

	resolution := repository.LeaveResolution{
		Note: note,
		Audit: models.AuditEntry{
			ResolverID:   claims.UserID,
			ResolverName: claims.Name,
			ResolvedAt:   time.Now(),
			Note:         note,
		},
	}
	if approved {
		resolution.Status = models.LeaveStatusApproved
		resolution.Audit.Outcome = models.OutcomeApproved
	} else {
		resolution.Status = models.LeaveStatusRejected
		resolution.Audit.Outcome = models.OutcomeRejected
	}

	matched, err := s.leaveRepo.Resolve(ctx, requestID, resolution)
	if err != nil {
		s.refundDeduction(ctx, request.EmployeeID, deductedDays)
		return nil, err
	}
	if !matched {
		// Admin lain keburu memutus di antara baca dan tulis; potongan
		// saldo dikembalikan supaya used tetap sama dengan total hari
		// yang benar-benar disetujui.
		s.refundDeduction(ctx, request.EmployeeID, deductedDays)
		return nil, models.ErrSudahDiproses
	}

	s.notifyLeaveResolved(ctx, request, approved, note)

	return s.leaveRepo.FindByID(ctx, requestID)
}

func (s *LeaveRequestService) refundDeduction(ctx context.Context, employeeID primitive.ObjectID, days int) {
	if days == 0 {
		return
	}
	if err := s.userRepo.RefundVacationDays(ctx, employeeID, days); err != nil {
		log.Printf("gagal mengembalikan saldo cuti karyawan %s: %v", employeeID.Hex(), err)
	}
}

// AttachDocument menyimpan URL lampiran (mis. surat dokter) pada pengajuan
// milik karyawan sendiri.
func (s *LeaveRequestService) AttachDocument(ctx context.Context, claims *models.Claims, requestID primitive.ObjectID, fileURL string) error {
	request, err := s.leaveRepo.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return models.ErrPengajuanTidakDitemukan
	}
	if request.EmployeeID != claims.UserID {
		return models.ErrAksesDitolak
	}

	matched, err := s.leaveRepo.UpdateAttachmentURL(ctx, requestID, fileURL)
	if err != nil {
		return err
	}
	if !matched {
		return models.ErrPengajuanTidakDitemukan
	}
	return nil
}

func (s *LeaveRequestService) notifyLeaveResolved(ctx context.Context, request *models.LeaveRequest, approved bool, note string) {
	title := fmt.Sprintf("Pengajuan %s disetujui", request.RequestNumber)
	message := fmt.Sprintf("Pengajuan %s Anda (%s s/d %s) telah disetujui.", request.Type, request.StartDate, request.EndDate)
	if !approved {
		title = fmt.Sprintf("Pengajuan %s ditolak", request.RequestNumber)
		message = fmt.Sprintf("Pengajuan %s Anda (%s s/d %s) ditolak.", request.Type, request.StartDate, request.EndDate)
	}
	if note != "" {
		message = fmt.Sprintf("%s Catatan: %s", message, note)
	}

	if err := s.notifRepo.Create(ctx, request.EmployeeID, models.NotificationKindCuti, title, message); err != nil {
		log.Printf("gagal membuat notifikasi cuti: %v", err)
	}
}
