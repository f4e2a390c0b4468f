package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"Sistem-Absensi-Cuti/models"
	"Sistem-Absensi-Cuti/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkSessionService memegang alur absensi: clock-in/clock-out, koreksi
// waktu oleh karyawan, dan persetujuan koreksi oleh admin.
type WorkSessionService struct {
	sessionRepo repository.WorkSessionRepository
	notifRepo   repository.NotificationRepository
	qrRepo      repository.QRCodeRepository
	hub         *SessionEventHub
}

func NewWorkSessionService(
	sessionRepo repository.WorkSessionRepository,
	notifRepo repository.NotificationRepository,
	qrRepo repository.QRCodeRepository,
	hub *SessionEventHub,
) *WorkSessionService {
	return &WorkSessionService{
		sessionRepo: sessionRepo,
		notifRepo:   notifRepo,
		qrRepo:      qrRepo,
		hub:         hub,
	}
}

// Hub mengekspos registry event sesi untuk pendaftaran listener.
func (s *WorkSessionService) Hub() *SessionEventHub {
	return s.hub
}

// ClockIn idempoten: bila karyawan sudah punya sesi aktif, sesi itu
// dikembalikan apa adanya. Dua clock-in bersamaan menghasilkan tepat satu
// sesi karena penyimpanan memakai upsert atomik pada (karyawan, aktif).
func (s *WorkSessionService) ClockIn(ctx context.Context, claims *models.Claims) (*models.WorkSession, error) {
	now := time.Now()
	candidate := &models.WorkSession{
		ID:         primitive.NewObjectID(),
		EmployeeID: claims.UserID,
		CompanyID:  claims.CompanyID,
		BranchID:   claims.BranchID,
		StartTime:  now,
		EndTime:    nil,
		Status:     models.SessionStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	session, err := s.sessionRepo.StartSession(ctx, candidate)
	if err != nil {
		return nil, err
	}

	// Event hanya untuk sesi yang benar-benar baru dibuat; hit idempoten
	// bukan perubahan.
	if session.ID == candidate.ID {
		s.hub.Publish(session)
	}
	return session, nil
}

// ClockOut menutup sesi aktif. Tanpa sesi aktif tidak ada yang ditulis.
func (s *WorkSessionService) ClockOut(ctx context.Context, employeeID primitive.ObjectID) (*models.WorkSession, error) {
	session, err := s.sessionRepo.CompleteActiveSession(ctx, employeeID, time.Now())
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, models.ErrSesiTidakDitemukan
	}

	s.hub.Publish(session)
	return session, nil
}

func (s *WorkSessionService) GetActive(ctx context.Context, employeeID primitive.ObjectID) (*models.WorkSession, error) {
	return s.sessionRepo.FindActiveByEmployee(ctx, employeeID)
}

func (s *WorkSessionService) History(ctx context.Context, employeeID primitive.ObjectID) ([]models.WorkSession, error) {
	return s.sessionRepo.FindByEmployee(ctx, employeeID)
}

// ProposeCorrection mengajukan koreksi waktu atas sesi milik karyawan yang
// sudah selesai. Sesi yang masih menunggu persetujuan koreksi menolak
// usulan baru sampai koreksi sebelumnya diproses.
func (s *WorkSessionService) ProposeCorrection(ctx context.Context, claims *models.Claims, sessionID primitive.ObjectID, newStart time.Time, newEnd *time.Time) (*models.WorkSession, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, models.ErrSesiTidakDitemukan
	}
	if session.EmployeeID != claims.UserID {
		return nil, models.ErrAksesDitolak
	}
	if session.IsPendingApproval() {
		return nil, models.ErrKoreksiMasihPending
	}
	if session.IsActive() {
		return nil, models.ErrSesiBelumSelesai
	}
	if newEnd != nil && newEnd.Before(newStart) {
		return nil, models.ErrTanggalTidakValid
	}

	proposal := repository.CorrectionProposal{
		OriginalStart: session.StartTime,
		OriginalEnd:   session.EndTime,
		EditedStart:   newStart,
		EditedEnd:     newEnd,
	}

	matched, err := s.sessionRepo.MarkPendingCorrection(ctx, sessionID, proposal)
	if err != nil {
		return nil, err
	}
	if !matched {
		// Status berubah di antara baca dan tulis; koreksi lain sudah
		// masuk lebih dulu.
		return nil, models.ErrKoreksiMasihPending
	}

	updated, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(updated)
	return updated, nil
}

// ResolveCorrection memproses satu koreksi. Disetujui berarti waktu usulan
// menjadi waktu resmi; ditolak berarti waktu kembali ke nilai sebelum
// usulan. Dua admin yang memproses item yang sama hanya menghasilkan satu
// resolusi: update di penyimpanan difilter pada status pending_approval.
func (s *WorkSessionService) ResolveCorrection(ctx context.Context, claims *models.Claims, sessionID primitive.ObjectID, approved bool, note string) (*models.WorkSession, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, models.ErrSesiTidakDitemukan
	}
	if !claims.BolehKelola(session.CompanyID, session.BranchID) {
		return nil, models.ErrAksesDitolak
	}
	if !session.IsPendingApproval() {
		return nil, models.ErrSudahDiproses
	}

	// Nilai original_*/edited_* dibaca di sini lalu diterapkan lewat update
	// yang memfilter status dan updated_at yang teramati; bila ada siklus
	// propose/resolve lain yang menyela, update tidak mengenai apa pun.
	resolution := repository.CorrectionResolution{
		ObservedUpdatedAt: session.UpdatedAt,
		Audit: models.AuditEntry{
			ResolverID:   claims.UserID,
			ResolverName: claims.Name,
			ResolvedAt:   time.Now(),
			Note:         note,
		},
	}
	if approved {
		resolution.Audit.Outcome = models.OutcomeApproved
		resolution.StartTime = *session.EditedStartTime
		resolution.EndTime = session.EditedEndTime
	} else {
		resolution.Audit.Outcome = models.OutcomeRejected
		resolution.StartTime = *session.OriginalStartTime
		resolution.EndTime = session.OriginalEndTime
	}

	matched, err := s.sessionRepo.ResolveCorrection(ctx, sessionID, resolution)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, models.ErrSudahDiproses
	}

	s.notifyCorrectionResolved(ctx, session, approved, note)

	updated, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(updated)
	return updated, nil
}

func (s *WorkSessionService) notifyCorrectionResolved(ctx context.Context, session *models.WorkSession, approved bool, note string) {
	title := "Koreksi absensi disetujui"
	message := "Koreksi waktu sesi kerja Anda telah disetujui."
	if !approved {
		title = "Koreksi absensi ditolak"
		message = "Koreksi waktu sesi kerja Anda ditolak; waktu tercatat tetap berlaku."
	}
	if note != "" {
		message = fmt.Sprintf("%s Catatan: %s", message, note)
	}

	// Kegagalan notifikasi tidak membatalkan resolusi yang sudah tersimpan.
	if err := s.notifRepo.Create(ctx, session.EmployeeID, models.NotificationKindKoreksi, title, message); err != nil {
		log.Printf("gagal membuat notifikasi koreksi: %v", err)
	}
}

// GenerateDailyQRCode membuat (atau memakai ulang) QR harian sebuah cabang
// untuk absensi lewat kios. QR kedaluwarsa di akhir hari.
func (s *WorkSessionService) GenerateDailyQRCode(ctx context.Context, claims *models.Claims, branchID primitive.ObjectID) (*models.QRCode, error) {
	if !claims.BolehKelola(claims.CompanyID, branchID) {
		return nil, models.ErrAksesDitolak
	}

	now := time.Now()
	today := now.Format("2006-01-02")

	existing, err := s.qrRepo.FindActiveByBranchAndDate(ctx, branchID, today)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	qrCode := &models.QRCode{
		ID:        primitive.NewObjectID(),
		Code:      uuid.New().String(),
		CompanyID: claims.CompanyID,
		BranchID:  branchID,
		Date:      today,
		ExpiresAt: endOfDay,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.qrRepo.Create(ctx, qrCode); err != nil {
		return nil, err
	}
	return qrCode, nil
}

// ScanQRCode memroses scan kios: karyawan tanpa sesi aktif di-clock-in,
// yang sedang aktif di-clock-out.
func (s *WorkSessionService) ScanQRCode(ctx context.Context, claims *models.Claims, code string) (*models.WorkSession, string, error) {
	qrCode, err := s.qrRepo.FindByValue(ctx, code)
	if err != nil {
		return nil, "", err
	}
	if qrCode == nil || time.Now().After(qrCode.ExpiresAt) {
		return nil, "", models.ErrQRCodeTidakValid
	}
	if qrCode.BranchID != claims.BranchID || qrCode.CompanyID != claims.CompanyID {
		return nil, "", models.ErrAksesDitolak
	}

	active, err := s.sessionRepo.FindActiveByEmployee(ctx, claims.UserID)
	if err != nil {
		return nil, "", err
	}

	if active != nil {
		session, err := s.ClockOut(ctx, claims.UserID)
		if err != nil {
			return nil, "", err
		}
		return session, "clock_out", nil
	}

	session, err := s.ClockIn(ctx, claims)
	if err != nil {
		return nil, "", err
	}
	return session, "clock_in", nil
}
