package router

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"Sistem-Absensi-Cuti/config/middleware"
	"Sistem-Absensi-Cuti/handlers"
	"Sistem-Absensi-Cuti/models"
	"Sistem-Absensi-Cuti/repository"
	"Sistem-Absensi-Cuti/services"
)

func SetupRoutes(app *fiber.App) {
	log.Println("Memulai pendaftaran rute aplikasi...")

	// Inisialisasi Repositories
	userRepo := repository.NewUserRepository()
	sessionRepo := repository.NewWorkSessionRepository()
	leaveRepo := repository.NewLeaveRequestRepository()
	counterRepo := repository.NewCounterRepository()
	notifRepo := repository.NewNotificationRepository()
	qrRepo := repository.NewQRCodeRepository()
	holidayRepo := repository.NewHolidayRuleRepository()

	// Inisialisasi Services
	hub := services.NewSessionEventHub()
	sessionService := services.NewWorkSessionService(sessionRepo, notifRepo, qrRepo, hub)
	leaveService := services.NewLeaveRequestService(leaveRepo, userRepo, counterRepo, notifRepo)
	approvalService := services.NewApprovalService(sessionRepo, leaveRepo, userRepo)

	// Log listener: setiap perubahan sesi tercatat di log aplikasi
	hub.Subscribe(func(session *models.WorkSession) {
		log.Printf("sesi %s karyawan %s -> %s", session.ID.Hex(), session.EmployeeID.Hex(), session.Status)
	})

	// Inisialisasi Handlers
	authHandler := handlers.NewAuthHandler(userRepo)
	userHandler := handlers.NewUserHandler(userRepo)
	sessionHandler := handlers.NewWorkSessionHandler(sessionService)
	leaveHandler := handlers.NewLeaveRequestHandler(leaveService, holidayRepo)
	approvalHandler := handlers.NewApprovalHandler(approvalService, sessionService, leaveService)
	notifHandler := handlers.NewNotificationHandler(notifRepo)

	// Health check & Docs
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Sistem Absensi & Cuti API",
			"status":  "running",
			"docs":    "/docs/index.html",
		})
	})
	app.Get("/docs/*", swagger.HandlerDefault)
	app.Static("/uploads", "./uploads")

	// API v1 group
	api := app.Group("/api/v1")

	// Authentication routes
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", middleware.AuthMiddleware(), middleware.AdminMiddleware(), authHandler.Register)
	authGroup.Post("/logout", middleware.AuthMiddleware(), authHandler.Logout)

	// User routes
	userGroup := api.Group("/users", middleware.AuthMiddleware())
	userGroup.Post("/change-password", authHandler.ChangePassword)
	userGroup.Post("/me/photo", userHandler.UploadPhoto)
	userGroup.Get("/:id", userHandler.GetUserByID)
	userGroup.Put("/:id", userHandler.UpdateUser)

	// Session (absensi) routes
	sessionGroup := api.Group("/sessions", middleware.AuthMiddleware())
	sessionGroup.Post("/clock-in", sessionHandler.ClockIn)
	sessionGroup.Post("/clock-out", sessionHandler.ClockOut)
	sessionGroup.Post("/scan", sessionHandler.ScanQRCode)
	sessionGroup.Get("/active", sessionHandler.GetActiveSession)
	sessionGroup.Get("/my-history", sessionHandler.GetMyHistory)
	sessionGroup.Post("/:id/correction", sessionHandler.ProposeCorrection)

	// Leave request routes
	leaveGroup := api.Group("/leave-requests", middleware.AuthMiddleware())
	leaveGroup.Post("/", leaveHandler.CreateLeaveRequest)
	leaveGroup.Get("/my", leaveHandler.GetMyLeaveRequests)
	leaveGroup.Get("/holidays", leaveHandler.GetHolidays)
	leaveGroup.Post("/:id/attachment", leaveHandler.UploadAttachment)
	leaveGroup.Delete("/:id", leaveHandler.WithdrawLeaveRequest)

	// Approval routes (admin only)
	approvalGroup := api.Group("/approvals", middleware.AuthMiddleware(), middleware.AdminMiddleware())
	approvalGroup.Get("/pending", approvalHandler.GetPendingApprovals)
	approvalGroup.Get("/resolved-today", approvalHandler.GetResolvedToday)
	approvalGroup.Get("/history", approvalHandler.GetApprovalHistory)
	approvalGroup.Post("/corrections/:id", approvalHandler.ResolveCorrection)
	approvalGroup.Post("/leave-requests/:id", approvalHandler.ResolveLeaveRequest)

	// Notification routes
	notifGroup := api.Group("/notifications", middleware.AuthMiddleware())
	notifGroup.Get("/", notifHandler.GetMyNotifications)
	notifGroup.Post("/read-all", notifHandler.MarkAllNotificationsRead)
	notifGroup.Post("/:id/read", notifHandler.MarkNotificationRead)

	// Admin routes
	adminGroup := api.Group("/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware())
	adminGroup.Get("/users", userHandler.GetAllUsers)
	adminGroup.Delete("/users/:id", userHandler.DeleteUser)
	adminGroup.Get("/dashboard", approvalHandler.GetDashboardStats)
	adminGroup.Get("/qr-code", sessionHandler.GenerateQRCode)
	adminGroup.Post("/holiday-rules", leaveHandler.CreateHolidayRule)
	adminGroup.Delete("/holiday-rules/:id", leaveHandler.DeleteHolidayRule)

	log.Println("Semua rute aplikasi berhasil didaftarkan.")
	log.Println("Swagger documentation tersedia di: /docs/index.html")
}
