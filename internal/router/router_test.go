package router

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Oggm2/registroServicio/internal/auth"
	"github.com/Oggm2/registroServicio/internal/config"
	"github.com/Oggm2/registroServicio/internal/handler"
	"github.com/Oggm2/registroServicio/internal/model"
	"github.com/Oggm2/registroServicio/internal/repository"
	"github.com/Oggm2/registroServicio/internal/service"
)

// buildTestServer wires the full route table over a throwaway sqlite database.
func buildTestServer(t *testing.T) (*echo.Echo, *gorm.DB, *auth.JWTService) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Career{},
		&model.Student{},
		&model.Partner{},
		&model.Service{},
		&model.Enrollment{},
		&model.PasswordResetToken{},
		&model.AttendanceRecord{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-secret"}
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	userRepo := repository.NewUserRepository(db)
	careerRepo := repository.NewCareerRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	partnerRepo := repository.NewPartnerRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	tokenRepo := repository.NewResetTokenRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	mailer := service.NewSMTPMailer("", 0, "", "", "")
	authService := service.NewAuthService(userRepo, studentRepo, careerRepo, tokenRepo, jwtService, mailer, "http://localhost")
	studentService := service.NewStudentService(studentRepo, userRepo, careerRepo, enrollmentRepo, attendanceRepo)
	catalogService := service.NewCatalogService(serviceRepo, partnerRepo, nil)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, studentRepo, nil)
	attendanceService := service.NewAttendanceService(attendanceRepo, studentRepo, nil)
	partnerService := service.NewPartnerService(partnerRepo)
	statsService := service.NewStatsService(statsRepo, serviceRepo, attendanceRepo, nil)

	e := echo.New()
	Register(
		e,
		cfg,
		handler.NewAuthHandler(authService),
		handler.NewStudentHandler(studentService),
		handler.NewEnrollmentHandler(enrollmentService),
		handler.NewServiceHandler(catalogService),
		handler.NewAttendanceHandler(attendanceService),
		handler.NewPartnerHandler(partnerService),
		handler.NewAdminHandler(statsService, studentService, authService),
	)
	return e, db, jwtService
}

func seedAccount(t *testing.T, db *gorm.DB, jwtService *auth.JWTService, username, role string) (*model.User, string) {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x", Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := jwtService.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

func doJSON(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestEnrollmentCreationIsStaffOnly(t *testing.T) {
	e, db, jwtService := buildTestServer(t)

	career := &model.Career{Name: "Ingeniería en Tecnologías Computacionales", Code: "ITC"}
	require.NoError(t, db.Create(career).Error)

	studentUser, studentToken := seedAccount(t, db, jwtService, "alumno1", model.RoleStudent)
	student := &model.Student{UserID: studentUser.ID, FullName: "Ana López", Matricula: "A01111111", CareerID: career.ID}
	require.NoError(t, db.Create(student).Error)

	svc := &model.Service{Description: "Servicio 10231", CRN: "10231", Period: "2024-1", MaxCapacity: 10}
	require.NoError(t, db.Create(svc).Error)

	_, staffToken := seedAccount(t, db, jwtService, "becario1", model.RoleStaff)

	// students may not create pre-registrations, not even their own
	rec := doJSON(e, http.MethodPost, "/api/preregistros", studentToken, `{"crn":"10231"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/preregistros", "", `{"crn":"10231"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// staff must name the student
	rec = doJSON(e, http.MethodPost, "/api/preregistros", staffToken, `{"crn":"10231"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "estudiante_id")

	rec = doJSON(e, http.MethodPost, "/api/preregistros", staffToken,
		`{"crn":"10231","estudiante_id":`+strconv.FormatUint(uint64(student.ID), 10)+`}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDashboardAndReportsAreAdminOnly(t *testing.T) {
	e, db, jwtService := buildTestServer(t)

	_, staffToken := seedAccount(t, db, jwtService, "becario1", model.RoleStaff)
	_, adminToken := seedAccount(t, db, jwtService, "admin1", model.RoleAdmin)

	for _, target := range []string{
		"/api/dashboard/stats",
		"/api/reportes/estudiantes",
		"/api/reportes/preregistros",
	} {
		rec := doJSON(e, http.MethodGet, target, staffToken, "")
		assert.Equal(t, http.StatusForbidden, rec.Code, target)

		rec = doJSON(e, http.MethodGet, target, adminToken, "")
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
}
