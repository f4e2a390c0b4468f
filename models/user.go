package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role perusahaan. Admin perusahaan membawahi semua cabang,
// admin cabang hanya cabangnya sendiri.
const (
	RoleCompanyAdmin = "company_admin"
	RoleBranchAdmin  = "branch_admin"
	RoleKaryawan     = "karyawan"
)

type User struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name              string             `json:"name" bson:"name,omitempty"`
	Email             string             `json:"email" bson:"email,omitempty"`
	Password          string             `json:"password,omitempty" bson:"password,omitempty"`
	Role              string             `json:"role" bson:"role,omitempty"`
	CompanyID         primitive.ObjectID `json:"company_id" bson:"company_id,omitempty"`
	BranchID          primitive.ObjectID `json:"branch_id" bson:"branch_id,omitempty"`
	Position          string             `json:"position" bson:"position,omitempty"`
	VacationDaysTotal int                `json:"vacation_days_total" bson:"vacation_days_total"`
	VacationDaysUsed  int                `json:"vacation_days_used" bson:"vacation_days_used"`
	Photo             string             `json:"photo" bson:"photo,omitempty"`
	IsFirstLogin      bool               `json:"is_first_login" bson:"is_first_login"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at,omitempty"`
}

// SisaCuti menghitung sisa hari cuti karyawan.
func (u *User) SisaCuti() int {
	sisa := u.VacationDaysTotal - u.VacationDaysUsed
	if sisa < 0 {
		return 0
	}
	return sisa
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleCompanyAdmin || u.Role == RoleBranchAdmin
}

type UserRegisterPayload struct {
	Name              string `json:"name" validate:"required,min=3,max=100"`
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=8,max=50,hasuppercase"`
	Role              string `json:"role" validate:"required,oneof=company_admin branch_admin karyawan"`
	CompanyID         string `json:"company_id" validate:"required"`
	BranchID          string `json:"branch_id" validate:"required"`
	Position          string `json:"position"`
	VacationDaysTotal int    `json:"vacation_days_total" validate:"min=0,max=90"`
	Photo             string `json:"photo" validate:"omitempty,url"`
}

type UserLoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserUpdatePayload struct {
	Name              string `json:"name,omitempty"`
	Email             string `json:"email,omitempty" validate:"omitempty,email"`
	Position          string `json:"position,omitempty"`
	VacationDaysTotal *int   `json:"vacation_days_total,omitempty" validate:"omitempty,min=0,max=90"`
	Photo             string `json:"photo,omitempty" validate:"omitempty,url"`
}

type ChangePasswordPayload struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=50,hasuppercase"`
}

// Claims adalah identitas hasil autentikasi yang dipercaya oleh seluruh handler.
type Claims struct {
	UserID       primitive.ObjectID `json:"user_id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Role         string             `json:"role"`
	CompanyID    primitive.ObjectID `json:"company_id"`
	BranchID     primitive.ObjectID `json:"branch_id"`
	IsFirstLogin bool               `json:"is_first_login"`
}

func (c *Claims) IsAdmin() bool {
	return c.Role == RoleCompanyAdmin || c.Role == RoleBranchAdmin
}

// BolehKelola memeriksa apakah claims punya cakupan admin atas
// kombinasi perusahaan/cabang target.
func (c *Claims) BolehKelola(companyID, branchID primitive.ObjectID) bool {
	if c.CompanyID != companyID {
		return false
	}
	switch c.Role {
	case RoleCompanyAdmin:
		return true
	case RoleBranchAdmin:
		return c.BranchID == branchID
	default:
		return false
	}
}
