package seeder

import (
	"context"
	"fmt"
	"log"
	"time"

	"Sistem-Absensi-Cuti/models"
	"Sistem-Absensi-Cuti/pkg/password"
	"Sistem-Absensi-Cuti/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID perusahaan dan cabang demo, tetap supaya seeding idempoten dan token
// hasil login langsung cocok dengan data.
var (
	demoCompanyID = mustObjectID("66a000000000000000000001")
	demoBranchA   = mustObjectID("66a000000000000000000011")
	demoBranchB   = mustObjectID("66a000000000000000000012")
)

func mustObjectID(hex string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic(fmt.Sprintf("seeder: hex ObjectID tidak valid: %s", hex))
	}
	return id
}

type seedUser struct {
	Name              string
	Email             string
	Role              string
	BranchID          primitive.ObjectID
	Position          string
	VacationDaysTotal int
}

// SeedUsers mengisi admin perusahaan, admin cabang, dan beberapa karyawan
// dengan saldo cuti. User yang sudah ada dilewati.
func SeedUsers(userRepo repository.UserRepository) {
	log.Println("Memulai seeding user...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hashedPassword, err := password.HashPassword("Password123")
	if err != nil {
		log.Fatalf("Gagal hash password seeder: %v", err)
	}

	seeds := []seedUser{
		{"Admin Perusahaan", "admin.perusahaan@example.com", models.RoleCompanyAdmin, demoBranchA, "Direktur Operasional", 18},
		{"Admin Cabang Timur", "admin.timur@example.com", models.RoleBranchAdmin, demoBranchA, "Kepala Cabang", 15},
		{"Admin Cabang Barat", "admin.barat@example.com", models.RoleBranchAdmin, demoBranchB, "Kepala Cabang", 15},
		{"Budi Santoso", "budi.santoso@example.com", models.RoleKaryawan, demoBranchA, "Staf Lapangan", 12},
		{"Siti Rahayu", "siti.rahayu@example.com", models.RoleKaryawan, demoBranchA, "Staf Administrasi", 12},
		{"Agus Wijaya", "agus.wijaya@example.com", models.RoleKaryawan, demoBranchB, "Staf Lapangan", 12},
		{"Dewi Lestari", "dewi.lestari@example.com", models.RoleKaryawan, demoBranchB, "Staf Layanan", 12},
	}

	for _, seed := range seeds {
		existing, err := userRepo.FindUserByEmail(ctx, seed.Email)
		if err == nil && existing != nil {
			log.Printf("User %s sudah ada, dilewati.", seed.Email)
			continue
		}

		now := time.Now()
		newUser := &models.User{
			ID:                primitive.NewObjectID(),
			Name:              seed.Name,
			Email:             seed.Email,
			Password:          hashedPassword,
			Role:              seed.Role,
			CompanyID:         demoCompanyID,
			BranchID:          seed.BranchID,
			Position:          seed.Position,
			VacationDaysTotal: seed.VacationDaysTotal,
			VacationDaysUsed:  0,
			IsFirstLogin:      true,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		if _, err := userRepo.CreateUser(ctx, newUser); err != nil {
			log.Printf("Gagal menyimpan user %s: %v", seed.Email, err)
			continue
		}
		fmt.Printf("User %s (%s) berhasil ditambahkan.\n", seed.Name, seed.Role)
	}

	log.Println("Seeding user selesai.")
}
