package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status pengajuan cuti
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// Jenis pengajuan
const (
	LeaveTypeCuti  = "Cuti"
	LeaveTypeIzin  = "Izin"
	LeaveTypeSakit = "Sakit"
)

type LeaveRequest struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RequestNumber string             `json:"request_number" bson:"request_number,omitempty"`
	EmployeeID    primitive.ObjectID `json:"employee_id" bson:"employee_id,omitempty"`
	CompanyID     primitive.ObjectID `json:"company_id" bson:"company_id,omitempty"`
	BranchID      primitive.ObjectID `json:"branch_id" bson:"branch_id,omitempty"`
	StartDate     string             `json:"start_date" bson:"start_date,omitempty"`
	EndDate       string             `json:"end_date" bson:"end_date,omitempty"`
	DaysCount     int                `json:"days_count" bson:"days_count"`
	Type          string             `json:"type" bson:"type,omitempty"`
	Reason        string             `json:"reason" bson:"reason,omitempty"`
	Status        string             `json:"status" bson:"status,omitempty"`
	AttachmentURL string             `json:"attachment_url,omitempty" bson:"attachment_url,omitempty"`

	ResolvedBy     *primitive.ObjectID `json:"resolved_by,omitempty" bson:"resolved_by,omitempty"`
	ResolvedByName string              `json:"resolved_by_name,omitempty" bson:"resolved_by_name,omitempty"`
	ResolvedAt     *time.Time          `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
	Note           string              `json:"note,omitempty" bson:"note,omitempty"`

	// Satu entri audit per resolusi, tidak pernah ditimpa.
	Audit *AuditEntry `json:"audit,omitempty" bson:"audit,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at,omitempty"`
}

func (lr *LeaveRequest) IsPending() bool {
	return lr.Status == LeaveStatusPending
}

// HitungJumlahHari menghitung rentang hari inklusif antara dua tanggal.
// 2024-06-10 s/d 2024-06-14 = 5 hari. Mengembalikan 0 bila endDate
// mendahului startDate.
func HitungJumlahHari(startDate, endDate time.Time) int {
	start := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

type LeaveRequestCreatePayload struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Type      string `json:"type" validate:"required,oneof=Cuti Izin Sakit"`
	Reason    string `json:"reason" validate:"required,min=10,max=500"`
}

// LeaveRequestWithUser adalah proyeksi pengajuan + detail karyawan untuk antrean admin.
type LeaveRequestWithUser struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	RequestNumber  string             `json:"request_number" bson:"request_number"`
	EmployeeID     primitive.ObjectID `json:"employee_id" bson:"employee_id"`
	CompanyID      primitive.ObjectID `json:"company_id" bson:"company_id"`
	BranchID       primitive.ObjectID `json:"branch_id" bson:"branch_id"`
	StartDate      string             `json:"start_date" bson:"start_date"`
	EndDate        string             `json:"end_date" bson:"end_date"`
	DaysCount      int                `json:"days_count" bson:"days_count"`
	Type           string             `json:"type" bson:"type"`
	Reason         string             `json:"reason" bson:"reason"`
	Status         string             `json:"status" bson:"status"`
	ResolvedByName string             `json:"resolved_by_name,omitempty" bson:"resolved_by_name,omitempty"`
	ResolvedAt     *time.Time         `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UserName       string             `json:"user_name" bson:"user_name"`
	UserEmail      string             `json:"user_email" bson:"user_email"`
	UserPosition   string             `json:"user_position,omitempty" bson:"user_position,omitempty"`
	SisaCuti       int                `json:"sisa_cuti" bson:"sisa_cuti"`
}
