package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status sesi kerja
const (
	SessionStatusActive          = "active"           // sedang bekerja
	SessionStatusPendingApproval = "pending_approval" // menunggu persetujuan koreksi
	SessionStatusCompleted       = "completed"        // sesi selesai
)

// Hasil resolusi (koreksi maupun cuti)
const (
	OutcomeApproved = "approved"
	OutcomeRejected = "rejected"
)

// AuditEntry merekam siapa yang memproses sebuah item, kapan, dan hasilnya.
// Nama resolver disalin apa adanya saat resolusi sehingga riwayat tetap
// terbaca walaupun akun admin yang bersangkutan sudah diubah atau dihapus.
type AuditEntry struct {
	ResolverID   primitive.ObjectID `json:"resolver_id" bson:"resolver_id"`
	ResolverName string             `json:"resolver_name" bson:"resolver_name"`
	ResolvedAt   time.Time          `json:"resolved_at" bson:"resolved_at"`
	Outcome      string             `json:"outcome" bson:"outcome"`
	Note         string             `json:"note,omitempty" bson:"note,omitempty"`
}

type WorkSession struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EmployeeID primitive.ObjectID `json:"employee_id" bson:"employee_id,omitempty"`
	CompanyID  primitive.ObjectID `json:"company_id" bson:"company_id,omitempty"`
	BranchID   primitive.ObjectID `json:"branch_id" bson:"branch_id,omitempty"`
	StartTime  time.Time          `json:"start_time" bson:"start_time,omitempty"`
	EndTime    *time.Time         `json:"end_time" bson:"end_time"`
	Status     string             `json:"status" bson:"status,omitempty"`

	// Snapshot dan usulan koreksi. Terisi bersamaan hanya selama status
	// pending_approval, dikosongkan kembali saat resolusi.
	OriginalStartTime *time.Time `json:"original_start_time,omitempty" bson:"original_start_time,omitempty"`
	OriginalEndTime   *time.Time `json:"original_end_time,omitempty" bson:"original_end_time,omitempty"`
	EditedStartTime   *time.Time `json:"edited_start_time,omitempty" bson:"edited_start_time,omitempty"`
	EditedEndTime     *time.Time `json:"edited_end_time,omitempty" bson:"edited_end_time,omitempty"`

	ResolvedBy     *primitive.ObjectID `json:"resolved_by,omitempty" bson:"resolved_by,omitempty"`
	ResolvedByName string              `json:"resolved_by_name,omitempty" bson:"resolved_by_name,omitempty"`
	ResolvedAt     *time.Time          `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`

	// Jejak audit. Append-only, satu entri per resolusi.
	Audit []AuditEntry `json:"audit,omitempty" bson:"audit,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at,omitempty"`
}

func (ws *WorkSession) IsActive() bool {
	return ws.Status == SessionStatusActive && ws.EndTime == nil
}

func (ws *WorkSession) IsPendingApproval() bool {
	return ws.Status == SessionStatusPendingApproval
}

// DurasiMenit menghitung lama sesi dalam menit, 0 bila belum clock-out.
func (ws *WorkSession) DurasiMenit() int {
	if ws.EndTime == nil || ws.EndTime.IsZero() {
		return 0
	}
	return int(ws.EndTime.Sub(ws.StartTime).Minutes())
}

type CorrectionProposePayload struct {
	NewStart string `json:"new_start" validate:"required,datetime=2006-01-02 15:04"`
	NewEnd   string `json:"new_end" validate:"omitempty,datetime=2006-01-02 15:04"`
	Reason   string `json:"reason" validate:"omitempty,max=500"`
}

type ResolvePayload struct {
	Approved *bool  `json:"approved" validate:"required"`
	Note     string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// WorkSessionWithUser adalah proyeksi sesi + detail karyawan untuk antrean admin.
type WorkSessionWithUser struct {
	ID                primitive.ObjectID `json:"id" bson:"_id"`
	EmployeeID        primitive.ObjectID `json:"employee_id" bson:"employee_id"`
	CompanyID         primitive.ObjectID `json:"company_id" bson:"company_id"`
	BranchID          primitive.ObjectID `json:"branch_id" bson:"branch_id"`
	StartTime         time.Time          `json:"start_time" bson:"start_time"`
	EndTime           *time.Time         `json:"end_time" bson:"end_time"`
	Status            string             `json:"status" bson:"status"`
	OriginalStartTime *time.Time         `json:"original_start_time,omitempty" bson:"original_start_time,omitempty"`
	OriginalEndTime   *time.Time         `json:"original_end_time,omitempty" bson:"original_end_time,omitempty"`
	EditedStartTime   *time.Time         `json:"edited_start_time,omitempty" bson:"edited_start_time,omitempty"`
	EditedEndTime     *time.Time         `json:"edited_end_time,omitempty" bson:"edited_end_time,omitempty"`
	ResolvedByName    string             `json:"resolved_by_name,omitempty" bson:"resolved_by_name,omitempty"`
	ResolvedAt        *time.Time         `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
	UserName          string             `json:"user_name" bson:"user_name"`
	UserEmail         string             `json:"user_email" bson:"user_email"`
	UserPosition      string             `json:"user_position,omitempty" bson:"user_position,omitempty"`
}
