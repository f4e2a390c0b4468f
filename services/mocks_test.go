package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"Sistem-Absensi-Cuti/models"
	"Sistem-Absensi-Cuti/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mock repository in-memory. Kontraknya meniru operasi atomik di Mongo:
// update berfilter status hanya cocok bila status masih sesuai, dan
// StartSession mengembalikan sesi aktif yang sudah ada tanpa mengubahnya.

type mockWorkSessionRepo struct {
	mu       sync.Mutex
	sessions map[primitive.ObjectID]*models.WorkSession
}

func newMockWorkSessionRepo() *mockWorkSessionRepo {
	return &mockWorkSessionRepo{
		sessions: make(map[primitive.ObjectID]*models.WorkSession),
	}
}

func copySession(s *models.WorkSession) *models.WorkSession {
	c := *s
	return &c
}

func (m *mockWorkSessionRepo) StartSession(_ context.Context, candidate *models.WorkSession) (*models.WorkSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.EmployeeID == candidate.EmployeeID && s.Status == models.SessionStatusActive {
			return copySession(s), nil
		}
	}
	m.sessions[candidate.ID] = copySession(candidate)
	return copySession(candidate), nil
}

func (m *mockWorkSessionRepo) FindActiveByEmployee(_ context.Context, employeeID primitive.ObjectID) (*models.WorkSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.EmployeeID == employeeID && s.Status == models.SessionStatusActive {
			return copySession(s), nil
		}
	}
	return nil, nil
}

func (m *mockWorkSessionRepo) CompleteActiveSession(_ context.Context, employeeID primitive.ObjectID, endTime time.Time) (*models.WorkSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.EmployeeID == employeeID && s.Status == models.SessionStatusActive {
			end := endTime
			s.EndTime = &end
			s.Status = models.SessionStatusCompleted
			s.UpdatedAt = time.Now()
			return copySession(s), nil
		}
	}
	return nil, nil
}

func (m *mockWorkSessionRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.WorkSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return copySession(s), nil
}

func (m *mockWorkSessionRepo) FindByEmployee(_ context.Context, employeeID primitive.ObjectID) ([]models.WorkSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.WorkSession
	for _, s := range m.sessions {
		if s.EmployeeID == employeeID {
			result = append(result, *copySession(s))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.After(result[j].StartTime)
	})
	return result, nil
}

func (m *mockWorkSessionRepo) MarkPendingCorrection(_ context.Context, id primitive.ObjectID, proposal repository.CorrectionProposal) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || s.Status != models.SessionStatusCompleted {
		return false, nil
	}
	origStart := proposal.OriginalStart
	editStart := proposal.EditedStart
	s.Status = models.SessionStatusPendingApproval
	s.OriginalStartTime = &origStart
	s.OriginalEndTime = proposal.OriginalEnd
	s.EditedStartTime = &editStart
	s.EditedEndTime = proposal.EditedEnd
	s.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockWorkSessionRepo) ResolveCorrection(_ context.Context, id primitive.ObjectID, resolution repository.CorrectionResolution) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || s.Status != models.SessionStatusPendingApproval || !s.UpdatedAt.Equal(resolution.ObservedUpdatedAt) {
		return false, nil
	}
	resolverID := resolution.Audit.ResolverID
	resolvedAt := resolution.Audit.ResolvedAt
	s.StartTime = resolution.StartTime
	s.EndTime = resolution.EndTime
	s.Status = models.SessionStatusCompleted
	s.OriginalStartTime = nil
	s.OriginalEndTime = nil
	s.EditedStartTime = nil
	s.EditedEndTime = nil
	s.ResolvedBy = &resolverID
	s.ResolvedByName = resolution.Audit.ResolverName
	s.ResolvedAt = &resolvedAt
	s.Audit = append(s.Audit, resolution.Audit)
	s.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockWorkSessionRepo) matchScope(s *models.WorkSession, companyID primitive.ObjectID, branchID *primitive.ObjectID) bool {
	if s.CompanyID != companyID {
		return false
	}
	if branchID != nil && s.BranchID != *branchID {
		return false
	}
	return true
}

func sessionToWithUser(s *models.WorkSession) models.WorkSessionWithUser {
	return models.WorkSessionWithUser{
		ID:                s.ID,
		EmployeeID:        s.EmployeeID,
		CompanyID:         s.CompanyID,
		BranchID:          s.BranchID,
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		Status:            s.Status,
		OriginalStartTime: s.OriginalStartTime,
		OriginalEndTime:   s.OriginalEndTime,
		EditedStartTime:   s.EditedStartTime,
		EditedEndTime:     s.EditedEndTime,
		ResolvedByName:    s.ResolvedByName,
		ResolvedAt:        s.ResolvedAt,
		UserName:          "Mock User",
	}
}

func (m *mockWorkSessionRepo) FindPendingWithUser(_ context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) ([]models.WorkSessionWithUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.WorkSessionWithUser
	for _, s := range m.sessions {
		if s.Status == models.SessionStatusPendingApproval && m.matchScope(s, companyID, branchID) {
			result = append(result, sessionToWithUser(s))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

func (m *mockWorkSessionRepo) FindResolvedBetweenWithUser(_ context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID, start, end time.Time) ([]models.WorkSessionWithUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.WorkSessionWithUser
	for _, s := range m.sessions {
		if s.ResolvedAt == nil || !m.matchScope(s, companyID, branchID) {
			continue
		}
		if s.ResolvedAt.Before(start) || !s.ResolvedAt.Before(end) {
			continue
		}
		result = append(result, sessionToWithUser(s))
	}
	return result, nil
}

func (m *mockWorkSessionRepo) CountActive(_ context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, s := range m.sessions {
		if s.Status == models.SessionStatusActive && m.matchScope(s, companyID, branchID) {
			count++
		}
	}
	return count, nil
}

func (m *mockWorkSessionRepo) CountPending(_ context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, s := range m.sessions {
		if s.Status == models.SessionStatusPendingApproval && m.matchScope(s, companyID, branchID) {
			count++
		}
	}
	return count, nil
}

type mockLeaveRepo struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]*models.LeaveRequest
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{
		requests: make(map[primitive.ObjectID]*models.LeaveRequest),
	}
}

func copyRequest(r *models.LeaveRequest) *models.LeaveRequest {
	c := *r
	return &c
}

func (m *mockLeaveRepo) Create(_ context.Context, req *models.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests[req.ID] = copyRequest(req)
	return nil
}

func (m *mockLeaveRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	return copyRequest(r), nil
}

func (m *mockLeaveRepo) FindByEmployee(_ context.Context, employeeID primitive.ObjectID) ([]models.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.LeaveRequest
	for _, r := range m.requests {
		if r.EmployeeID == employeeID {
			result = append(result, *copyRequest(r))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockLeaveRepo) DeletePending(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.requests[id]
	if !ok || r.Status != models.LeaveStatusPending {
		return false, nil
	}
	delete(m.requests, id)
	return true, nil
}

func (m *mockLeaveRepo) Resolve(_ context.Context, id primitive.ObjectID, resolution repository.LeaveResolution) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.requests[id]
	if !ok || r.Status != models.LeaveStatusPending {
		return false, nil
	}
	resolverID := resolution.Audit.ResolverID
	resolvedAt := resolution.Audit.ResolvedAt
	audit := resolution.Audit
	r.Status = resolution.Status
	r.Note = resolution.Note
	r.ResolvedBy = &resolverID
	r.ResolvedByName = resolution.Audit.ResolverName
	r.ResolvedAt = &resolvedAt
	r.Audit = &audit
	r.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockLeaveRepo) UpdateAttachmentURL(_ context.Context, id primitive.ObjectID, fileURL string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.requests[id]
	if !ok {
		return false, nil
	}
	r.AttachmentURL = fileURL
	return true, nil
}

func (m *mockLeaveRepo) matchScope(r *models.LeaveRequest, companyID primitive.ObjectID, branchID *primitive.ObjectID) bool {
	if r.CompanyID != companyID {
		return false
	}
	if branchID != nil && r.BranchID != *branchID {
		return false
	}
	return true
}

func requestToWithUser(r *models.LeaveRequest) models.LeaveRequestWithUser {
	return models.LeaveRequestWithUser{
		ID:             r.ID,
		RequestNumber:  r.RequestNumber,
		EmployeeID:     r.EmployeeID,
		CompanyID:      r.CompanyID,
		BranchID:       r.BranchID,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		DaysCount:      r.DaysCount,
		Type:           r.Type,
		Reason:         r.Reason,
		Status:         r.Status,
		ResolvedByName: r.ResolvedByName,
		ResolvedAt:     r.ResolvedAt,
		CreatedAt:      r.CreatedAt,
		UserName:       "Mock User",
	}
}

func (m *mockLeaveRepo) FindPendingWithUser(_ context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) ([]models.LeaveRequestWithUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.LeaveRequestWithUser
	for _, r := range m.requests {
		if r.Status == models.LeaveStatusPending && m.matchScope(r, companyID, branchID) {
			result = append(result, requestToWithUser(r))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockLeaveRepo) FindResolvedBetweenWithUser(_ context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID, start, end time.Time) ([]models.LeaveRequestWithUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.LeaveRequestWithUser
	for _, r := range m.requests {
		if r.ResolvedAt == nil || !m.matchScope(r, companyID, branchID) {
			continue
		}
		if r.ResolvedAt.Before(start) || !r.ResolvedAt.Before(end) {
			continue
		}
		result = append(result, requestToWithUser(r))
	}
	return result, nil
}

func (m *mockLeaveRepo) CountPending(_ context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, r := range m.requests {
		if r.Status == models.LeaveStatusPending && m.matchScope(r, companyID, branchID) {
			count++
		}
	}
	return count, nil
}

func (m *mockLeaveRepo) SumApprovedDays(_ context.Context, employeeID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	for _, r := range m.requests {
		if r.EmployeeID == employeeID && r.Status == models.LeaveStatusApproved {
			total += int64(r.DaysCount)
		}
	}
	return total, nil
}

type mockUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users: make(map[primitive.ObjectID]*models.User),
	}
}

func (m *mockUserRepo) add(u *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *u
	m.users[u.ID] = &c
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	c := *user
	m.users[user.ID] = &c
	return user.ID, nil
}

func (m *mockUserRepo) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (m *mockUserRepo) UpdateUser(_ context.Context, id primitive.ObjectID, updateData bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return 0, nil
	}
	if total, ok := updateData["vacation_days_total"].(int); ok {
		u.VacationDaysTotal = total
	}
	if name, ok := updateData["name"].(string); ok {
		u.Name = name
	}
	return 1, nil
}

func (m *mockUserRepo) UpdateUserPassword(_ context.Context, id primitive.ObjectID, hashedPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[id]; ok {
		u.Password = hashedPassword
		u.IsFirstLogin = false
	}
	return nil
}

func (m *mockUserRepo) DeleteUser(_ context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	return 1, nil
}

func (m *mockUserRepo) GetAllUsers(_ context.Context, _ bson.M, _, _ int64) ([]models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) TryDeductVacationDays(_ context.Context, id primitive.ObjectID, days int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return false, nil
	}
	if u.VacationDaysUsed+days > u.VacationDaysTotal {
		return false, nil
	}
	u.VacationDaysUsed += days
	return true, nil
}

func (m *mockUserRepo) RefundVacationDays(_ context.Context, id primitive.ObjectID, days int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[id]; ok {
		u.VacationDaysUsed -= days
	}
	return nil
}

func (m *mockUserRepo) CountByCompany(_ context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, u := range m.users {
		if u.CompanyID != companyID {
			continue
		}
		if branchID != nil && u.BranchID != *branchID {
			continue
		}
		count++
	}
	return count, nil
}

func (m *mockUserRepo) CountByBranch(_ context.Context, companyID primitive.ObjectID) ([]models.BranchCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[primitive.ObjectID]int64)
	for _, u := range m.users {
		if u.CompanyID == companyID {
			counts[u.BranchID]++
		}
	}
	var result []models.BranchCount
	for branchID, count := range counts {
		result = append(result, models.BranchCount{BranchID: branchID, Count: count})
	}
	return result, nil
}

type mockCounterRepo struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func newMockCounterRepo() *mockCounterRepo {
	return &mockCounterRepo{
		seqs: make(map[string]int64),
	}
}

func (m *mockCounterRepo) NextSequence(_ context.Context, companyID primitive.ObjectID, year int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s/%d", companyID.Hex(), year)
	m.seqs[key]++
	return m.seqs[key], nil
}

type mockNotificationRepo struct {
	mu            sync.Mutex
	notifications []models.Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, employeeID primitive.ObjectID, kind, title, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notifications = append(m.notifications, models.Notification{
		ID:         primitive.NewObjectID(),
		EmployeeID: employeeID,
		Kind:       kind,
		Title:      title,
		Message:    message,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (m *mockNotificationRepo) FindByEmployee(_ context.Context, employeeID primitive.ObjectID, _ int64) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.Notification
	for _, n := range m.notifications {
		if n.EmployeeID == employeeID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, employeeID primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.notifications {
		if m.notifications[i].ID == id && m.notifications[i].EmployeeID == employeeID {
			m.notifications[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, employeeID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.notifications {
		if m.notifications[i].EmployeeID == employeeID {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, employeeID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, n := range m.notifications {
		if n.EmployeeID == employeeID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notifications)
}

type mockQRCodeRepo struct {
	mu    sync.Mutex
	codes map[string]*models.QRCode
}

func newMockQRCodeRepo() *mockQRCodeRepo {
	return &mockQRCodeRepo{
		codes: make(map[string]*models.QRCode),
	}
}

func (m *mockQRCodeRepo) Create(_ context.Context, qrCode *models.QRCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *qrCode
	m.codes[qrCode.Code] = &c
	return nil
}

func (m *mockQRCodeRepo) FindByValue(_ context.Context, code string) (*models.QRCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	qr, ok := m.codes[code]
	if !ok {
		return nil, nil
	}
	c := *qr
	return &c, nil
}

func (m *mockQRCodeRepo) FindActiveByBranchAndDate(_ context.Context, branchID primitive.ObjectID, date string) (*models.QRCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, qr := range m.codes {
		if qr.BranchID == branchID && qr.Date == date && time.Now().Before(qr.ExpiresAt) {
			c := *qr
			return &c, nil
		}
	}
	return nil, nil
}
