package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"Sistem-Absensi-Cuti/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestApprovalSetup() (*ApprovalService, *WorkSessionService, *LeaveRequestService, *mockUserRepo) {
	sessionRepo := newMockWorkSessionRepo()
	leaveRepo := newMockLeaveRepo()
	userRepo := newMockUserRepo()
	notifRepo := newMockNotificationRepo()

	sessionSvc := NewWorkSessionService(sessionRepo, notifRepo, newMockQRCodeRepo(), NewSessionEventHub())
	leaveSvc := NewLeaveRequestService(leaveRepo, userRepo, newMockCounterRepo(), notifRepo)
	approvalSvc := NewApprovalService(sessionRepo, leaveRepo, userRepo)

	return approvalSvc, sessionSvc, leaveSvc, userRepo
}

func TestPendingKaryawanDitolak(t *testing.T) {
	approvalSvc, _, _, _ := newTestApprovalSetup()
	claims := karyawanClaims(primitive.NewObjectID(), primitive.NewObjectID())

	_, err := approvalSvc.Pending(context.Background(), claims)
	if !errors.Is(err, models.ErrAksesDitolak) {
		t.Errorf("error = %v, harusnya ErrAksesDitolak", err)
	}
}

func TestPendingCakupanCabang(t *testing.T) {
	approvalSvc, sessionSvc, leaveSvc, userRepo := newTestApprovalSetup()
	companyID := primitive.NewObjectID()
	branchA := primitive.NewObjectID()
	branchB := primitive.NewObjectID()
	ctx := context.Background()

	// Satu koreksi pending di tiap cabang
	for _, branch := range []primitive.ObjectID{branchA, branchB} {
		karyawan := karyawanClaims(companyID, branch)
		session, _ := sessionSvc.ClockIn(ctx, karyawan)
		sessionSvc.ClockOut(ctx, karyawan.UserID)
		sessionSvc.ProposeCorrection(ctx, karyawan, session.ID, time.Now().Add(-4*time.Hour), nil)

		pengaju := seedKaryawan(userRepo, companyID, branch, 12, 0)
		leaveSvc.Submit(ctx, pengaju, cutiPayload("2026-06-10", "2026-06-12"))
	}

	adminCabang := adminClaims(models.RoleBranchAdmin, companyID, branchA)
	pending, err := approvalSvc.Pending(ctx, adminCabang)
	if err != nil {
		t.Fatalf("pending gagal: %v", err)
	}
	if len(pending.Corrections) != 1 || len(pending.LeaveRequests) != 1 {
		t.Errorf("admin cabang melihat %d koreksi dan %d cuti, harusnya 1 dan 1",
			len(pending.Corrections), len(pending.LeaveRequests))
	}
	if len(pending.Corrections) == 1 && pending.Corrections[0].BranchID != branchA {
		t.Error("admin cabang melihat item cabang lain")
	}

	adminPerusahaan := adminClaims(models.RoleCompanyAdmin, companyID, branchA)
	all, err := approvalSvc.Pending(ctx, adminPerusahaan)
	if err != nil {
		t.Fatalf("pending gagal: %v", err)
	}
	if len(all.Corrections) != 2 || len(all.LeaveRequests) != 2 {
		t.Errorf("admin perusahaan melihat %d koreksi dan %d cuti, harusnya 2 dan 2",
			len(all.Corrections), len(all.LeaveRequests))
	}
}

func TestResolvedTodayDanHistory(t *testing.T) {
	approvalSvc, sessionSvc, leaveSvc, userRepo := newTestApprovalSetup()
	companyID := primitive.NewObjectID()
	branchID := primitive.NewObjectID()
	admin := adminClaims(models.RoleCompanyAdmin, companyID, branchID)
	ctx := context.Background()

	karyawan := karyawanClaims(companyID, branchID)
	session, _ := sessionSvc.ClockIn(ctx, karyawan)
	sessionSvc.ClockOut(ctx, karyawan.UserID)
	sessionSvc.ProposeCorrection(ctx, karyawan, session.ID, time.Now().Add(-4*time.Hour), nil)
	if _, err := sessionSvc.ResolveCorrection(ctx, admin, session.ID, true, ""); err != nil {
		t.Fatalf("resolve koreksi gagal: %v", err)
	}

	pengaju := seedKaryawan(userRepo, companyID, branchID, 12, 0)
	request, _ := leaveSvc.Submit(ctx, pengaju, cutiPayload("2026-09-01", "2026-09-03"))
	if _, err := leaveSvc.Resolve(ctx, admin, request.ID, false, "jadwal padat"); err != nil {
		t.Fatalf("resolve cuti gagal: %v", err)
	}

	today, err := approvalSvc.ResolvedToday(ctx, admin)
	if err != nil {
		t.Fatalf("resolved-today gagal: %v", err)
	}
	if len(today.Corrections) != 1 || len(today.LeaveRequests) != 1 {
		t.Errorf("resolved-today berisi %d koreksi dan %d cuti, harusnya 1 dan 1",
			len(today.Corrections), len(today.LeaveRequests))
	}

	history, err := approvalSvc.History(ctx, admin, 3)
	if err != nil {
		t.Fatalf("history gagal: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history berisi %d bulan, harusnya 1", len(history))
	}
	month := history[0]
	if month.Month != time.Now().Format("2006-01") {
		t.Errorf("bulan = %s, harusnya %s", month.Month, time.Now().Format("2006-01"))
	}
	if len(month.Days) != 1 {
		t.Fatalf("hari dalam bulan = %d, harusnya 1", len(month.Days))
	}
	day := month.Days[0]
	if day.Date != time.Now().Format("2006-01-02") {
		t.Errorf("tanggal = %s, harusnya hari ini", day.Date)
	}
	if len(day.Corrections) != 1 || len(day.LeaveRequests) != 1 {
		t.Errorf("isi hari: %d koreksi, %d cuti; harusnya 1 dan 1",
			len(day.Corrections), len(day.LeaveRequests))
	}
}

func TestGroupHistoryLintasBulan(t *testing.T) {
	mei := time.Date(2026, 5, 20, 14, 0, 0, 0, time.UTC)
	juni := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	juli := time.Date(2026, 7, 2, 9, 0, 0, 0, time.UTC)

	// Juni hanya muncul di daftar cuti; urutan bulan harus tetap dari yang
	// terbaru, bukan per asal daftar.
	corrections := []models.WorkSessionWithUser{
		{ID: primitive.NewObjectID(), ResolvedAt: &juli},
		{ID: primitive.NewObjectID(), ResolvedAt: &mei},
	}
	leaves := []models.LeaveRequestWithUser{
		{ID: primitive.NewObjectID(), ResolvedAt: &juni},
	}

	grouped := groupHistory(corrections, leaves)
	if len(grouped) != 3 {
		t.Fatalf("grouping menghasilkan %d bulan, harusnya 3", len(grouped))
	}
	for i, want := range []string{"2026-07", "2026-06", "2026-05"} {
		if grouped[i].Month != want {
			t.Fatalf("bulan ke-%d = %s, harusnya %s", i, grouped[i].Month, want)
		}
	}

	if m := grouped[0]; len(m.Days) != 1 || len(m.Days[0].Corrections) != 1 {
		t.Errorf("isi 2026-07 tidak sesuai: %+v", m)
	}
	if m := grouped[1]; len(m.Days) != 1 || len(m.Days[0].LeaveRequests) != 1 {
		t.Errorf("isi 2026-06 tidak sesuai: %+v", m)
	}
	if m := grouped[2]; len(m.Days) != 1 || len(m.Days[0].Corrections) != 1 {
		t.Errorf("isi 2026-05 tidak sesuai: %+v", m)
	}
}

func TestGroupHistoryUrutanHari(t *testing.T) {
	awalBulan := time.Date(2026, 6, 3, 9, 0, 0, 0, time.UTC)
	tengahBulan := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	akhirBulan := time.Date(2026, 6, 28, 11, 0, 0, 0, time.UTC)

	corrections := []models.WorkSessionWithUser{
		{ID: primitive.NewObjectID(), ResolvedAt: &akhirBulan},
		{ID: primitive.NewObjectID(), ResolvedAt: &awalBulan},
	}
	leaves := []models.LeaveRequestWithUser{
		{ID: primitive.NewObjectID(), ResolvedAt: &tengahBulan},
	}

	grouped := groupHistory(corrections, leaves)
	if len(grouped) != 1 || len(grouped[0].Days) != 3 {
		t.Fatalf("grouping tidak sesuai: %+v", grouped)
	}
	for i, want := range []string{"2026-06-28", "2026-06-15", "2026-06-03"} {
		if grouped[0].Days[i].Date != want {
			t.Fatalf("hari ke-%d = %s, harusnya %s", i, grouped[0].Days[i].Date, want)
		}
	}
}

func TestDashboardStats(t *testing.T) {
	approvalSvc, sessionSvc, leaveSvc, userRepo := newTestApprovalSetup()
	companyID := primitive.NewObjectID()
	branchA := primitive.NewObjectID()
	branchB := primitive.NewObjectID()
	ctx := context.Background()

	bekerja := seedKaryawan(userRepo, companyID, branchA, 12, 0)
	sessionSvc.ClockIn(ctx, bekerja)

	pengaju := seedKaryawan(userRepo, companyID, branchB, 12, 0)
	leaveSvc.Submit(ctx, pengaju, cutiPayload("2026-06-10", "2026-06-12"))

	admin := adminClaims(models.RoleCompanyAdmin, companyID, branchA)
	stats, err := approvalSvc.DashboardStats(ctx, admin)
	if err != nil {
		t.Fatalf("dashboard gagal: %v", err)
	}

	if stats.TotalKaryawan != 2 {
		t.Errorf("total karyawan = %d, harusnya 2", stats.TotalKaryawan)
	}
	if stats.SedangBekerja != 1 {
		t.Errorf("sedang bekerja = %d, harusnya 1", stats.SedangBekerja)
	}
	if stats.PengajuanCutiTertunda != 1 {
		t.Errorf("cuti tertunda = %d, harusnya 1", stats.PengajuanCutiTertunda)
	}
	if len(stats.DistribusiCabang) != 2 {
		t.Errorf("distribusi cabang = %d entri, harusnya 2", len(stats.DistribusiCabang))
	}

	// Admin cabang tidak mendapat distribusi lintas cabang
	adminCabang := adminClaims(models.RoleBranchAdmin, companyID, branchA)
	scoped, err := approvalSvc.DashboardStats(ctx, adminCabang)
	if err != nil {
		t.Fatalf("dashboard cabang gagal: %v", err)
	}
	if scoped.TotalKaryawan != 1 {
		t.Errorf("total karyawan cabang = %d, harusnya 1", scoped.TotalKaryawan)
	}
	if scoped.DistribusiCabang != nil {
		t.Error("admin cabang tidak seharusnya mendapat distribusi cabang")
	}
}
