package models

import "errors"

// Kesalahan bisnis. Handler memetakan masing-masing ke status HTTP yang
// spesifik supaya UI admin bisa menjelaskan kendala yang sebenarnya,
// bukan sekadar "gagal".
var (
	// Validasi
	ErrTanggalTidakValid = errors.New("tanggal selesai mendahului tanggal mulai")

	// Konflik status
	ErrKoreksiMasihPending = errors.New("sesi ini masih punya koreksi yang menunggu persetujuan")
	ErrSesiBelumSelesai    = errors.New("sesi belum selesai, koreksi hanya untuk sesi yang sudah clock-out")
	ErrSudahDiproses       = errors.New("item ini sudah diproses sebelumnya")

	// Saldo
	ErrSaldoCutiTidakCukup = errors.New("sisa saldo cuti tidak mencukupi")

	// Tidak ditemukan
	ErrSesiTidakDitemukan      = errors.New("sesi kerja tidak ditemukan")
	ErrPengajuanTidakDitemukan = errors.New("pengajuan tidak ditemukan")
	ErrUserTidakDitemukan      = errors.New("user tidak ditemukan")

	// Hak akses
	ErrAksesDitolak = errors.New("akses ditolak untuk cakupan cabang/perusahaan ini")

	// QR kios
	ErrQRCodeTidakValid = errors.New("QR Code tidak valid atau sudah kedaluwarsa")
)
