package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"Sistem-Absensi-Cuti/models"
	"Sistem-Absensi-Cuti/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestLeaveService() (*LeaveRequestService, *mockLeaveRepo, *mockUserRepo, *mockNotificationRepo) {
	leaveRepo := newMockLeaveRepo()
	userRepo := newMockUserRepo()
	notifRepo := newMockNotificationRepo()
	svc := NewLeaveRequestService(leaveRepo, userRepo, newMockCounterRepo(), notifRepo)
	return svc, leaveRepo, userRepo, notifRepo
}

func seedKaryawan(userRepo *mockUserRepo, companyID, branchID primitive.ObjectID, total, used int) *models.Claims {
	user := &models.User{
		ID:                primitive.NewObjectID(),
		Name:              "Siti Rahayu",
		Email:             fmt.Sprintf("%s@example.com", primitive.NewObjectID().Hex()),
		Role:              models.RoleKaryawan,
		CompanyID:         companyID,
		BranchID:          branchID,
		VacationDaysTotal: total,
		VacationDaysUsed:  used,
	}
	userRepo.add(user)
	return &models.Claims{
		UserID:    user.ID,
		Name:      user.Name,
		Role:      user.Role,
		CompanyID: companyID,
		BranchID:  branchID,
	}
}

func cutiPayload(start, end string) *models.LeaveRequestCreatePayload {
	return &models.LeaveRequestCreatePayload{
		StartDate: start,
		EndDate:   end,
		Type:      models.LeaveTypeCuti,
		Reason:    "liburan keluarga akhir tahun",
	}
}

func TestSubmitTanggalTerbalik(t *testing.T) {
	svc, leaveRepo, userRepo, _ := newTestLeaveService()
	companyID := primitive.NewObjectID()
	claims := seedKaryawan(userRepo, companyID, primitive.NewObjectID(), 12, 0)
	ctx := context.Background()

	_, err := svc.Submit(ctx, claims, cutiPayload("2026-06-14", "2026-06-10"))
	if !errors.Is(err, models.ErrTanggalTidakValid) {
		t.Fatalf("error = %v, harusnya ErrTanggalTidakValid", err)
	}

	requests, _ := leaveRepo.FindByEmployee(ctx, claims.UserID)
	if len(requests) != 0 {
		t.Error("tidak boleh ada pengajuan tersimpan saat tanggal tidak valid")
	}
}

func TestSubmitHitungHariInklusif(t *testing.T) {
	svc, _, userRepo, _ := newTestLeaveService()
	companyID := primitive.NewObjectID()
	claims := seedKaryawan(userRepo, companyID, primitive.NewObjectID(), 12, 0)
	ctx := context.Background()

	request, err := svc.Submit(ctx, claims, cutiPayload("2026-06-10", "2026-06-14"))
	if err != nil {
		t.Fatalf("submit gagal: %v", err)
	}
	if request.DaysCount != 5 {
		t.Errorf("days_count = %d, harusnya 5 (rentang inklusif)", request.DaysCount)
	}

	sehari, err := svc.Submit(ctx, claims, cutiPayload("2026-07-01", "2026-07-01"))
	if err != nil {
		t.Fatalf("submit sehari gagal: %v", err)
	}
	if sehari.DaysCount != 1 {
		t.Errorf("days_count = %d, harusnya 1", sehari.DaysCount)
	}
}

func TestSubmitSaldoTidakCukup(t *testing.T) {
	svc, leaveRepo, userRepo, _ := newTestLeaveService()
	companyID := primitive.NewObjectID()
	claims := seedKaryawan(userRepo, companyID, primitive.NewObjectID(), 12, 10)
	ctx := context.Background()

	// sisa 2 hari, minta 5
	_, err := svc.Submit(ctx, claims, cutiPayload("2026-06-10", "2026-06-14"))
	if !errors.Is(err, models.ErrSaldoCutiTidakCukup) {
		t.Fatalf("error = %v, harusnya ErrSaldoCutiTidakCukup", err)
	}

	requests, _ := leaveRepo.FindByEmployee(ctx, claims.UserID)
	if len(requests) != 0 {
		t.Error("tidak boleh ada pengajuan tersimpan saat saldo kurang")
	}
}

func TestSubmitIzinTanpaPotonganSaldo(t *testing.T) {
	svc, _, userRepo, _ := newTestLeaveService()
	companyID := primitive.NewObjectID()
	claims := seedKaryawan(userRepo, companyID, primitive.NewObjectID(), 12, 12)
	ctx := context.Background()

	// Saldo cuti habis, tapi izin tidak memakai saldo
	payload := &models.LeaveRequestCreatePayload{
		StartDate: "2026-06-10",
		EndDate:   "2026-06-11",
		Type:      models.LeaveTypeIzin,
		Reason:    "mengurus dokumen kependudukan",
	}
	if _, err := svc.Submit(ctx, claims, payload); err != nil {
		t.Fatalf("submit izin gagal: %v", err)
	}
}

func TestSubmitNomorPengajuanBerurutan(t *testing.T) {
	svc, _, userRepo, _ := newTestLeaveService()
	companyID := primitive.NewObjectID()
	claims := seedKaryawan(userRepo, companyID, primitive.NewObjectID(), 30, 0)
	ctx := context.Background()

	first, _ := svc.Submit(ctx, claims, cutiPayload("2026-06-10", "2026-06-10"))
	second, _ := svc.Submit(ctx, claims, cutiPayload("2026-07-10", "2026-07-10"))

	if first.RequestNumber != "LEAVE/2026/1" {
		t.Errorf("nomor pertama = %s, harusnya LEAVE/2026/1", first.RequestNumber)
	}
	if second.RequestNumber != "LEAVE/2026/2" {
		t.Errorf("nomor kedua = %s, harusnya LEAVE/2026/2", second.RequestNumber)
	}

	// Perusahaan lain mulai dari 1 lagi
	lain := seedKaryawan(userRepo, primitive.NewObjectID(), primitive.NewObjectID(), 12, 0)
	other, _ := svc.Submit(ctx, lain, cutiPayload("2026-06-10", "2026-06-10"))
	if other.RequestNumber != "LEAVE/2026/1" {
		t.Errorf("nomor perusahaan lain = %s, harusnya LEAVE/2026/1", other.RequestNumber)
	}
}

func TestWithdraw(t *testing.T) {
	svc, _, userRepo, _ := newTestLeaveService()
	companyID := primitive.NewObjectID()
	branchID := primitive.NewObjectID()
	claims := seedKaryawan(userRepo, companyID, branchID, 12, 0)
	admin := adminClaims(models.RoleCompanyAdmin, companyID, branchID)
	ctx := context.Background()

	request, _ := svc.Submit(ctx, claims, cutiPayload("2026-06-10", "2026-06-12"))

	// Orang lain tidak boleh menarik
	lain := seedKaryawan(userRepo, companyID, branchID, 12, 0)
	if err := svc.Withdraw(ctx, lain, request.ID); !errors.Is(err, models.ErrAksesDitolak) {
		t.Errorf("error = %v, harusnya ErrAksesDitolak", err)
	}

	if err := svc.Withdraw(ctx, claims, request.ID); err != nil {
		t.Fatalf("withdraw pending gagal: %v", err)
	}

	// Yang sudah diputus tidak bisa ditarik
	resolved, _ := svc.Submit(ctx, claims, cutiPayload("2026-08-10", "2026-08-11"))
	svc.Resolve(ctx, admin, resolved.ID, true, "")
	if err := svc.Withdraw(ctx, claims, resolved.ID); !errors.Is(err, models.ErrSudahDiproses) {
		t.Errorf("error = %v, harusnya ErrSudahDiproses", err)
	}
}

func TestResolveDisetujuiMemotongSaldo(t *testing.T) {
	svc, _, userRepo, notifRepo := newTestLeaveService()
	companyID := primitive.NewObjectID()
	branchID := primitive.NewObjectID()
	claims := seedKaryawan(userRepo, companyID, branchID, 12, 0)
	admin := adminClaims(models.RoleBranchAdmin, companyID, branchID)
	ctx := context.Background()

	request, _ := svc.Submit(ctx, claims, cutiPayload("2026-06-10", "2026-06-14"))

	resolved, err := svc.Resolve(ctx, admin, request.ID, true, "selamat berlibur")
	if err != nil {
		t.Fatalf("resolve gagal: %v", err)
	}
	if resolved.Status != models.LeaveStatusApproved {
		t.Errorf("status = %s, harusnya approved", resolved.Status)
	}
	if resolved.Audit == nil || resolved.Audit.Outcome != models.OutcomeApproved {
		t.Error("entri audit persetujuan tidak terisi")
	}

	user, _ := userRepo.FindUserByID(ctx, claims.UserID)
	if user.VacationDaysUsed != 5 {
		t.Errorf("vacation_days_used = %d, harusnya 5", user.VacationDaysUsed)
	}
	if notifRepo.count() != 1 {
		t.Errorf("notifikasi = %d, harusnya 1", notifRepo.count())
	}

	// Resolusi kedua ditolak dan saldo tidak berubah lagi
	if _, err := svc.Resolve(ctx, admin, request.ID, true, ""); !errors.Is(err, models.ErrSudahDiproses) {
		t.Errorf("error = %v, harusnya ErrSudahDiproses", err)
	}
	user, _ = userRepo.FindUserByID(ctx, claims.UserID)
	if user.VacationDaysUsed != 5 {
		t.Errorf("vacation_days_used berubah jadi %d setelah resolusi ganda", user.VacationDaysUsed)
	}
}

func TestResolveDitolakTanpaPotongan(t *testing.T) {
	svc, _, userRepo, _ := newTestLeaveService()
	companyID := primitive.NewObjectID()
	branchID := primitive.NewObjectID()
	claims := seedKaryawan(userRepo, companyID, branchID, 12, 0)
	admin := adminClaims(models.RoleCompanyAdmin, companyID, branchID)
	ctx := context.Background()

	request, _ := svc.Submit(ctx, claims, cutiPayload("2026-06-10", "2026-06-14"))

	resolved, err := svc.Resolve(ctx, admin, request.ID, false, "beban kerja tinggi")
	if err != nil {
		t.Fatalf("resolve gagal: %v", err)
	}
	if resolved.Status != models.LeaveStatusRejected {
		t.Errorf("status = %s, harusnya rejected", resolved.Status)
	}
	if resolved.Note != "beban kerja tinggi" {
		t.Errorf("note = %q", resolved.Note)
	}

	user, _ := userRepo.FindUserByID(ctx, claims.UserID)
	if user.VacationDaysUsed != 0 {
		t.Errorf("penolakan tidak boleh memotong saldo, used = %d", user.VacationDaysUsed)
	}
}

func TestResolveSaldoBerubahSetelahSubmit(t *testing.T) {
	svc, _, userRepo, _ := newTestLeaveService()
	companyID := primitive.NewObjectID()
	branchID := primitive.NewObjectID()
	claims := seedKaryawan(userRepo, companyID, branchID, 10, 0)
	admin := adminClaims(models.RoleCompanyAdmin, companyID, branchID)
	ctx := context.Background()

	// Dua pengajuan yang masing-masing muat, tapi totalnya melebihi saldo
	first, _ := svc.Submit(ctx, claims, cutiPayload("2026-06-01", "2026-06-07"))  // 7 hari
	second, _ := svc.Submit(ctx, claims, cutiPayload("2026-07-01", "2026-07-06")) // 6 hari

	if _, err := svc.Resolve(ctx, admin, first.ID, true, ""); err != nil {
		t.Fatalf("resolve pertama gagal: %v", err)
	}

	// Saldo tersisa 3; persetujuan kedua harus gagal pada pengecekan ulang
	_, err := svc.Resolve(ctx, admin, second.ID, true, "")
	if !errors.Is(err, models.ErrSaldoCutiTidakCukup) {
		t.Fatalf("error = %v, harusnya ErrSaldoCutiTidakCukup", err)
	}

	// Pengajuan tetap pending untuk ditinjau ulang, saldo tidak berubah
	stillPending, _ := svc.leaveRepo.FindByID(ctx, second.ID)
	if stillPending.Status != models.LeaveStatusPending {
		t.Errorf("status = %s, harusnya tetap pending", stillPending.Status)
	}
	user, _ := userRepo.FindUserByID(ctx, claims.UserID)
	if user.VacationDaysUsed != 7 {
		t.Errorf("vacation_days_used = %d, harusnya tetap 7", user.VacationDaysUsed)
	}
}

// deductHookUserRepo menyisipkan aksi tepat sebelum potongan saldo,
// meniru jendela antara pengecekan pending dan potongan milik satu admin.
type deductHookUserRepo struct {
	repository.UserRepository
	beforeDeduct func()
}

func (h *deductHookUserRepo) TryDeductVacationDays(ctx context.Context, id primitive.ObjectID, days int) (bool, error) {
	if h.beforeDeduct != nil {
		hook := h.beforeDeduct
		h.beforeDeduct = nil
		hook()
	}
	return h.UserRepository.TryDeductVacationDays(ctx, id, days)
}

func TestResolveBalapanDuaAdmin(t *testing.T) {
	leaveRepo := newMockLeaveRepo()
	userRepo := newMockUserRepo()
	notifRepo := newMockNotificationRepo()
	counterRepo := newMockCounterRepo()
	svcB := NewLeaveRequestService(leaveRepo, userRepo, counterRepo, notifRepo)

	companyID := primitive.NewObjectID()
	branchID := primitive.NewObjectID()
	claims := seedKaryawan(userRepo, companyID, branchID, 12, 0)
	admin := adminClaims(models.RoleCompanyAdmin, companyID, branchID)
	ctx := context.Background()

	request, err := svcB.Submit(ctx, claims, cutiPayload("2026-06-10", "2026-06-14"))
	if err != nil {
		t.Fatalf("submit gagal: %v", err)
	}

	// Admin A membaca pengajuan pending; sebelum potongan saldonya
	// berlanjut ke transisi status, admin B keburu menolak pengajuan itu.
	hooked := &deductHookUserRepo{UserRepository: userRepo}
	svcA := NewLeaveRequestService(leaveRepo, hooked, counterRepo, notifRepo)
	hooked.beforeDeduct = func() {
		if _, err := svcB.Resolve(ctx, admin, request.ID, false, "ditolak duluan"); err != nil {
			t.Fatalf("resolusi admin B gagal: %v", err)
		}
	}

	_, err = svcA.Resolve(ctx, admin, request.ID, true, "")
	if !errors.Is(err, models.ErrSudahDiproses) {
		t.Fatalf("resolusi admin A = %v, harusnya ErrSudahDiproses", err)
	}

	final, _ := leaveRepo.FindByID(ctx, request.ID)
	if final.Status != models.LeaveStatusRejected {
		t.Fatalf("status akhir = %s, harusnya rejected", final.Status)
	}
	user, _ := userRepo.FindUserByID(ctx, claims.UserID)
	if user.VacationDaysUsed != 0 {
		t.Errorf("saldo terpotong untuk pengajuan yang ditolak: used = %d", user.VacationDaysUsed)
	}
}

func TestResolveDiLuarCakupan(t *testing.T) {
	svc, _, userRepo, _ := newTestLeaveService()
	companyID := primitive.NewObjectID()
	branchID := primitive.NewObjectID()
	claims := seedKaryawan(userRepo, companyID, branchID, 12, 0)
	adminCabangLain := adminClaims(models.RoleBranchAdmin, companyID, primitive.NewObjectID())
	ctx := context.Background()

	request, _ := svc.Submit(ctx, claims, cutiPayload("2026-06-10", "2026-06-12"))

	_, err := svc.Resolve(ctx, adminCabangLain, request.ID, true, "")
	if !errors.Is(err, models.ErrAksesDitolak) {
		t.Errorf("error = %v, harusnya ErrAksesDitolak", err)
	}
}

func TestHitungJumlahHari(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2026-06-10", "2026-06-14", 5},
		{"2026-06-10", "2026-06-10", 1},
		{"2026-06-14", "2026-06-10", 0},
		{"2026-12-30", "2027-01-02", 4},
	}

	for _, tc := range cases {
		start, _ := time.Parse("2006-01-02", tc.start)
		end, _ := time.Parse("2006-01-02", tc.end)
		if got := models.HitungJumlahHari(start, end); got != tc.want {
			t.Errorf("HitungJumlahHari(%s, %s) = %d, harusnya %d", tc.start, tc.end, got, tc.want)
		}
	}
}
