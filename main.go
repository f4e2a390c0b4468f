package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"Sistem-Absensi-Cuti/config"
	"Sistem-Absensi-Cuti/repository"
	"Sistem-Absensi-Cuti/router"
	"Sistem-Absensi-Cuti/seeder"

	_ "time/tzdata"
)

// @title Sistem Absensi & Cuti API
// @version 1.0
// @description API absensi karyawan dengan koreksi waktu bergerbang admin dan pengajuan cuti dengan saldo tahunan
//
// @contact.name API Support
// @contact.email support@example.com
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:3000
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and PASETO token.
//
// @tag.name Auth
// @tag.description Authentication endpoints
//
// @tag.name Users
// @tag.description User management endpoints
//
// @tag.name Sessions
// @tag.description Clock-in/clock-out dan koreksi waktu
//
// @tag.name LeaveRequests
// @tag.description Pengajuan cuti, izin, dan sakit
//
// @tag.name Approvals
// @tag.description Antrean dan keputusan admin
//
// @tag.name Notifications
// @tag.description Notifikasi hasil keputusan
//
// @tag.name Admin
// @tag.description Admin only endpoints
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file tidak ditemukan, menggunakan environment variables sistem")
	}

	cfg := config.LoadConfig()

	config.MongoConnect()
	config.InitDatabase()

	defer config.DisconnectDB()

	if os.Getenv("SEED_ON_START") == "true" {
		seeder.SeedUsers(repository.NewUserRepository())
	}

	app := fiber.New()

	config.SetupCORS(app)

	app.Use(logger.New())

	router.SetupRoutes(app)

	log.Printf("Server running on port %s", cfg.Port)
	log.Printf("API Documentation: http://localhost:%s/docs/index.html", cfg.Port)
	log.Printf("Health Check: http://localhost:%s/", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
