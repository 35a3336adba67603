package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/Oggm2/registroServicio/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Oggm2/registroServicio/internal/auth"
	"github.com/Oggm2/registroServicio/internal/cache"
	"github.com/Oggm2/registroServicio/internal/config"
	"github.com/Oggm2/registroServicio/internal/db"
	"github.com/Oggm2/registroServicio/internal/handler"
	"github.com/Oggm2/registroServicio/internal/model"
	"github.com/Oggm2/registroServicio/internal/repository"
	"github.com/Oggm2/registroServicio/internal/router"
	"github.com/Oggm2/registroServicio/internal/service"
)

// @title API de Pre-registro de Servicio Social
// @version 1.0
// @description Pre-registro de servicios sociales, asistencia a la feria y reportes.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.AttendanceRecord{},
			&model.Enrollment{},
			&model.PasswordResetToken{},
			&model.Service{},
			&model.Partner{},
			&model.Student{},
			&model.Career{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Career{},
		&model.Student{},
		&model.Partner{},
		&model.Service{},
		&model.Enrollment{},
		&model.PasswordResetToken{},
		&model.AttendanceRecord{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	careerRepo := repository.NewCareerRepository(gormDB)
	studentRepo := repository.NewStudentRepository(gormDB)
	partnerRepo := repository.NewPartnerRepository(gormDB)
	serviceRepo := repository.NewServiceRepository(gormDB)
	enrollmentRepo := repository.NewEnrollmentRepository(gormDB)
	attendanceRepo := repository.NewAttendanceRepository(gormDB)
	tokenRepo := repository.NewResetTokenRepository(gormDB)
	statsRepo := repository.NewStatsRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	mailer := service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	// Initialize services
	authService := service.NewAuthService(userRepo, studentRepo, careerRepo, tokenRepo, jwtService, mailer, cfg.FrontendURL)
	studentService := service.NewStudentService(studentRepo, userRepo, careerRepo, enrollmentRepo, attendanceRepo)
	catalogService := service.NewCatalogService(serviceRepo, partnerRepo, cacheClient)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, studentRepo, cacheClient)
	attendanceService := service.NewAttendanceService(attendanceRepo, studentRepo, cacheClient)
	partnerService := service.NewPartnerService(partnerRepo)
	statsService := service.NewStatsService(statsRepo, serviceRepo, attendanceRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(studentService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	serviceHandler := handler.NewServiceHandler(catalogService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)
	partnerHandler := handler.NewPartnerHandler(partnerService)
	adminHandler := handler.NewAdminHandler(statsService, studentService, authService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		studentHandler,
		enrollmentHandler,
		serviceHandler,
		attendanceHandler,
		partnerHandler,
		adminHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
