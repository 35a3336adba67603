package service

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Oggm2/registroServicio/internal/model"
)

// openTestDB creates a throwaway sqlite database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func seedCareer(t *testing.T, db *gorm.DB) *model.Career {
	t.Helper()
	career := &model.Career{Name: "Ingeniería en Tecnologías Computacionales", Code: "ITC"}
	if err := db.Create(career).Error; err != nil {
		t.Fatalf("seed career: %v", err)
	}
	return career
}

func seedStudent(t *testing.T, db *gorm.DB, careerID uint, username, matricula string) *model.Student {
	t.Helper()
	user := &model.User{
		Username:     username,
		PasswordHash: "x",
		Role:         model.RoleStudent,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	student := &model.Student{
		UserID:    user.ID,
		FullName:  "Estudiante " + matricula,
		Matricula: matricula,
		CareerID:  careerID,
	}
	if err := db.Create(student).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return student
}

func seedService(t *testing.T, db *gorm.DB, crn, period string, capacity int) *model.Service {
	t.Helper()
	svc := &model.Service{
		Description: "Servicio " + crn,
		CRN:         crn,
		Period:      period,
		MaxCapacity: capacity,
	}
	if err := db.Create(svc).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return svc
}

func countEnrollments(t *testing.T, db *gorm.DB, serviceID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&model.Enrollment{}).Where("service_id = ?", serviceID).Count(&count).Error; err != nil {
		t.Fatalf("count enrollments: %v", err)
	}
	return count
}

var testCtx = context.Background()
