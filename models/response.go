package models

// Success Response Models

type LoginSuccessResponse struct {
	Message      string `json:"message" example:"Login berhasil"`
	Token        string `json:"token" example:"v2.local.Ft9QcxZhJXEYyb7-bMM..."`
	UserID       string `json:"user_id" example:"507f1f77bcf86cd799439011"`
	Role         string `json:"role" example:"karyawan"`
	IsFirstLogin bool   `json:"is_first_login" example:"true"`
}

type RegisterSuccessResponse struct {
	Message string `json:"message" example:"User berhasil didaftarkan (oleh admin)"`
	UserID  string `json:"user_id" example:"507f1f77bcf86cd799439011"`
}

type ClockSuccessResponse struct {
	Message string      `json:"message" example:"Berhasil clock-in pukul 08:02"`
	Session WorkSession `json:"session"`
}

type LeaveSubmitSuccessResponse struct {
	Message string       `json:"message" example:"Pengajuan cuti berhasil dibuat"`
	Request LeaveRequest `json:"request"`
}

type ResolveSuccessResponse struct {
	Message string `json:"message" example:"Item berhasil diproses"`
	Outcome string `json:"outcome" example:"approved"`
}

// Error Response Models

type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request body"`
	Details string `json:"details,omitempty" example:"validation failed"`
}

type ValidationErrorResponse struct {
	Error  string `json:"error" example:"Validation failed"`
	Errors string `json:"errors" example:"start_date: tanggal tidak valid"`
}

type UnauthorizedErrorResponse struct {
	Error string `json:"error" example:"Token tidak valid atau tidak ada"`
}

type ForbiddenErrorResponse struct {
	Error string `json:"error" example:"Akses ditolak untuk cakupan cabang/perusahaan ini"`
}

type NotFoundErrorResponse struct {
	Error string `json:"error" example:"Pengajuan tidak ditemukan"`
}

type ConflictErrorResponse struct {
	Error string `json:"error" example:"Item ini sudah diproses sebelumnya"`
}
