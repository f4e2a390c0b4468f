package services

import (
	"context"
	"sort"
	"time"

	"Sistem-Absensi-Cuti/models"
	"Sistem-Absensi-Cuti/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PendingApprovals adalah isi antrean persetujuan admin, urut dari item
// yang paling lama menunggu.
type PendingApprovals struct {
	Corrections   []models.WorkSessionWithUser  `json:"corrections"`
	LeaveRequests []models.LeaveRequestWithUser `json:"leave_requests"`
}

// ResolvedToday adalah item yang diputus dalam hari kalender berjalan.
type ResolvedToday struct {
	Corrections   []models.WorkSessionWithUser  `json:"corrections"`
	LeaveRequests []models.LeaveRequestWithUser `json:"leave_requests"`
}

// ApprovalHistoryDay adalah satu hari riwayat keputusan.
type ApprovalHistoryDay struct {
	Date          string                        `json:"date"` // 2006-01-02
	Corrections   []models.WorkSessionWithUser  `json:"corrections"`
	LeaveRequests []models.LeaveRequestWithUser `json:"leave_requests"`
}

// ApprovalHistoryMonth mengelompokkan riwayat per bulan lalu per hari.
type ApprovalHistoryMonth struct {
	Month string               `json:"month"` // 2006-01
	Days  []ApprovalHistoryDay `json:"days"`
}

// ApprovalService menyatukan antrean persetujuan lintas modul untuk UI
// admin. Gerbang peran dijalankan sebelum query maupun mutasi apa pun.
type ApprovalService struct {
	sessionRepo repository.WorkSessionRepository
	leaveRepo   repository.LeaveRequestRepository
	userRepo    repository.UserRepository
}

func NewApprovalService(
	sessionRepo repository.WorkSessionRepository,
	leaveRepo repository.LeaveRequestRepository,
	userRepo repository.UserRepository,
) *ApprovalService {
	return &ApprovalService{
		sessionRepo: sessionRepo,
		leaveRepo:   leaveRepo,
		userRepo:    userRepo,
	}
}

// scope menurunkan filter perusahaan/cabang dari claims admin. Admin
// perusahaan melihat seluruh cabang, admin cabang hanya cabangnya.
func (s *ApprovalService) scope(claims *models.Claims) (primitive.ObjectID, *primitive.ObjectID, error) {
	switch claims.Role {
	case models.RoleCompanyAdmin:
		return claims.CompanyID, nil, nil
	case models.RoleBranchAdmin:
		branchID := claims.BranchID
		return claims.CompanyID, &branchID, nil
	default:
		return primitive.NilObjectID, nil, models.ErrAksesDitolak
	}
}

// Pending mengembalikan antrean koreksi dan pengajuan cuti yang menunggu,
// urut dari yang paling lama.
func (s *ApprovalService) Pending(ctx context.Context, claims *models.Claims) (*PendingApprovals, error) {
	companyID, branchID, err := s.scope(claims)
	if err != nil {
		return nil, err
	}

	corrections, err := s.sessionRepo.FindPendingWithUser(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}
	leaveRequests, err := s.leaveRepo.FindPendingWithUser(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}

	return &PendingApprovals{
		Corrections:   corrections,
		LeaveRequests: leaveRequests,
	}, nil
}

// ResolvedToday mengembalikan semua keputusan dalam hari kalender berjalan.
func (s *ApprovalService) ResolvedToday(ctx context.Context, claims *models.Claims) (*ResolvedToday, error) {
	companyID, branchID, err := s.scope(claims)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	corrections, err := s.sessionRepo.FindResolvedBetweenWithUser(ctx, companyID, branchID, start, end)
	if err != nil {
		return nil, err
	}
	leaveRequests, err := s.leaveRepo.FindResolvedBetweenWithUser(ctx, companyID, branchID, start, end)
	if err != nil {
		return nil, err
	}

	return &ResolvedToday{
		Corrections:   corrections,
		LeaveRequests: leaveRequests,
	}, nil
}

// History mengembalikan riwayat keputusan beberapa bulan ke belakang,
// dikelompokkan per bulan lalu per hari, terbaru lebih dulu.
func (s *ApprovalService) History(ctx context.Context, claims *models.Claims, months int) ([]ApprovalHistoryMonth, error) {
	companyID, branchID, err := s.scope(claims)
	if err != nil {
		return nil, err
	}

	if months < 1 {
		months = 1
	}
	if months > 24 {
		months = 24
	}

	now := time.Now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	corrections, err := s.sessionRepo.FindResolvedBetweenWithUser(ctx, companyID, branchID, start, end)
	if err != nil {
		return nil, err
	}
	leaveRequests, err := s.leaveRepo.FindResolvedBetweenWithUser(ctx, companyID, branchID, start, end)
	if err != nil {
		return nil, err
	}

	return groupHistory(corrections, leaveRequests), nil
}

// groupHistory menggabungkan kedua daftar resolved menjadi bulan -> hari,
// urut resolved_at dari yang terbaru. Masing-masing daftar sudah urut dari
// penyimpanan; keduanya tetap digabung ulang berdasarkan stempel waktu
// supaya bulan yang hanya muncul di salah satu daftar tidak salah posisi.
func groupHistory(corrections []models.WorkSessionWithUser, leaveRequests []models.LeaveRequestWithUser) []ApprovalHistoryMonth {
	type dayKey struct {
		month string
		date  string
	}
	type historyItem struct {
		resolvedAt time.Time
		correction *models.WorkSessionWithUser
		leave      *models.LeaveRequestWithUser
	}

	items := make([]historyItem, 0, len(corrections)+len(leaveRequests))
	for i := range corrections {
		if corrections[i].ResolvedAt == nil {
			continue
		}
		items = append(items, historyItem{resolvedAt: *corrections[i].ResolvedAt, correction: &corrections[i]})
	}
	for i := range leaveRequests {
		if leaveRequests[i].ResolvedAt == nil {
			continue
		}
		items = append(items, historyItem{resolvedAt: *leaveRequests[i].ResolvedAt, leave: &leaveRequests[i]})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].resolvedAt.After(items[j].resolvedAt)
	})

	dayIndex := make(map[dayKey]*ApprovalHistoryDay)
	monthIndex := make(map[string]*ApprovalHistoryMonth)
	var monthOrder []string
	var dayOrder []dayKey

	touch := func(resolvedAt time.Time) *ApprovalHistoryDay {
		key := dayKey{
			month: resolvedAt.Format("2006-01"),
			date:  resolvedAt.Format("2006-01-02"),
		}
		if day, ok := dayIndex[key]; ok {
			return day
		}
		if _, ok := monthIndex[key.month]; !ok {
			monthIndex[key.month] = &ApprovalHistoryMonth{Month: key.month}
			monthOrder = append(monthOrder, key.month)
		}
		day := &ApprovalHistoryDay{Date: key.date}
		dayIndex[key] = day
		dayOrder = append(dayOrder, key)
		return day
	}

	for _, item := range items {
		day := touch(item.resolvedAt)
		if item.correction != nil {
			day.Corrections = append(day.Corrections, *item.correction)
		}
		if item.leave != nil {
			day.LeaveRequests = append(day.LeaveRequests, *item.leave)
		}
	}

	for _, key := range dayOrder {
		month := monthIndex[key.month]
		month.Days = append(month.Days, *dayIndex[key])
	}

	result := make([]ApprovalHistoryMonth, 0, len(monthOrder))
	for _, m := range monthOrder {
		result = append(result, *monthIndex[m])
	}
	return result
}

// DashboardStats merangkum angka untuk dashboard admin sesuai cakupan.
func (s *ApprovalService) DashboardStats(ctx context.Context, claims *models.Claims) (*models.DashboardStats, error) {
	companyID, branchID, err := s.scope(claims)
	if err != nil {
		return nil, err
	}

	totalKaryawan, err := s.userRepo.CountByCompany(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}
	sedangBekerja, err := s.sessionRepo.CountActive(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}
	koreksiTertunda, err := s.sessionRepo.CountPending(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}
	cutiTertunda, err := s.leaveRepo.CountPending(ctx, companyID, branchID)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		TotalKaryawan:         totalKaryawan,
		SedangBekerja:         sedangBekerja,
		KoreksiTertunda:       koreksiTertunda,
		PengajuanCutiTertunda: cutiTertunda,
	}

	// Distribusi cabang hanya untuk admin perusahaan.
	if branchID == nil {
		distribusi, err := s.userRepo.CountByBranch(ctx, companyID)
		if err != nil {
			return nil, err
		}
		stats.DistribusiCabang = distribusi
	}

	return stats, nil
}
