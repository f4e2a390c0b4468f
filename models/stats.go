package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type BranchCount struct {
	BranchID primitive.ObjectID `bson:"branch_id" json:"branch_id"`
	Count    int64              `bson:"count" json:"count"`
}

// DashboardStats adalah rekap untuk dashboard admin.
type DashboardStats struct {
	TotalKaryawan         int64         `json:"total_karyawan"`
	SedangBekerja         int64         `json:"sedang_bekerja"`
	KoreksiTertunda       int64         `json:"koreksi_tertunda"`
	PengajuanCutiTertunda int64         `json:"pengajuan_cuti_tertunda"`
	DistribusiCabang      []BranchCount `json:"distribusi_cabang"`
}
