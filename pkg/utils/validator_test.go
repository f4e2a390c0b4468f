package util

import (
	"testing"

	"Sistem-Absensi-Cuti/models"
)

func TestValidateLeaveRequestPayload(t *testing.T) {
	valid := models.LeaveRequestCreatePayload{
		StartDate: "2026-06-10",
		EndDate:   "2026-06-14",
		Type:      "Cuti",
		Reason:    "liburan keluarga akhir tahun",
	}
	if errs := ValidateStruct(valid); errs != nil {
		t.Errorf("payload valid ditolak: %+v", errs[0])
	}

	salahFormat := valid
	salahFormat.StartDate = "10-06-2026"
	if errs := ValidateStruct(salahFormat); errs == nil {
		t.Error("format tanggal salah harusnya gagal validasi")
	}

	jenisAsing := valid
	jenisAsing.Type = "Bolos"
	if errs := ValidateStruct(jenisAsing); errs == nil {
		t.Error("jenis pengajuan di luar daftar harusnya gagal validasi")
	}

	alasanPendek := valid
	alasanPendek.Reason = "mager"
	if errs := ValidateStruct(alasanPendek); errs == nil {
		t.Error("alasan terlalu pendek harusnya gagal validasi")
	}
}

func TestValidatePasswordHasUppercase(t *testing.T) {
	payload := models.ChangePasswordPayload{
		OldPassword: "PasswordLama1",
		NewPassword: "tanpakapital1",
	}
	errs := ValidateStruct(payload)
	if errs == nil {
		t.Fatal("password tanpa huruf kapital harusnya gagal validasi")
	}
	if errs[0].Tag != "hasuppercase" {
		t.Errorf("tag = %s, harusnya hasuppercase", errs[0].Tag)
	}

	payload.NewPassword = "PasswordBaru1"
	if errs := ValidateStruct(payload); errs != nil {
		t.Errorf("password valid ditolak: %+v", errs[0])
	}
}

func TestValidateCorrectionPayload(t *testing.T) {
	valid := models.CorrectionProposePayload{
		NewStart: "2026-08-28 08:00",
		NewEnd:   "2026-08-28 17:00",
	}
	if errs := ValidateStruct(valid); errs != nil {
		t.Errorf("payload koreksi valid ditolak: %+v", errs[0])
	}

	tanpaEnd := models.CorrectionProposePayload{NewStart: "2026-08-28 08:00"}
	if errs := ValidateStruct(tanpaEnd); errs != nil {
		t.Errorf("koreksi tanpa waktu selesai harusnya boleh: %+v", errs[0])
	}

	salahFormat := models.CorrectionProposePayload{NewStart: "28/08/2026 08.00"}
	if errs := ValidateStruct(salahFormat); errs == nil {
		t.Error("format waktu salah harusnya gagal validasi")
	}
}
