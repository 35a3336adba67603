package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Oggm2/registroServicio/internal/config"
	"github.com/Oggm2/registroServicio/internal/db"
	"github.com/Oggm2/registroServicio/internal/model"
	"github.com/Oggm2/registroServicio/internal/repository"
)

// careers is the institutional program catalog loaded on first run.
var careers = []model.Career{
	{Name: "Ingeniería en Tecnologías Computacionales", Code: "ITC"},
	{Name: "Ingeniería Industrial y de Sistemas", Code: "IIS"},
	{Name: "Ingeniería en Biotecnología", Code: "IBT"},
	{Name: "Ingeniería Mecatrónica", Code: "IMT"},
	{Name: "Ingeniería Civil", Code: "IC"},
	{Name: "Licenciatura en Administración y Finanzas", Code: "LAF"},
	{Name: "Licenciatura en Negocios Internacionales", Code: "LIN"},
	{Name: "Licenciatura en Derecho", Code: "LED"},
	{Name: "Licenciatura en Comunicación", Code: "LC"},
	{Name: "Licenciatura en Psicología Clínica", Code: "LPS"},
	{Name: "Medicina", Code: "MC"},
	{Name: "Arquitectura", Code: "ARQ"},
}

func main() {
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

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

	ctx := context.Background()
	careerRepo := repository.NewCareerRepository(gormDB)

	for i := range careers {
		if err := careerRepo.Upsert(ctx, &careers[i]); err != nil {
			log.Fatalf("seed career %s: %v", careers[i].Code, err)
		}
	}
	log.Printf("seeded %d careers", len(careers))

	if err := seedAdmin(gormDB); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	if err := seedDemo(gormDB); err != nil {
		log.Fatalf("seed demo data: %v", err)
	}

	log.Println("seed complete")
}

// seedAdmin creates the initial admin account from ADMIN_USERNAME and
// ADMIN_PASSWORD, skipping if the username is already taken.
func seedAdmin(gormDB *gorm.DB) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Println("ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}

	var existing model.User
	err := gormDB.Where("username = ?", username).First(&existing).Error
	if err == nil {
		log.Printf("admin %s already exists", username)
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := gormDB.Create(admin).Error; err != nil {
		return err
	}
	log.Printf("created admin %s", username)
	return nil
}

// seedDemo loads a small partner and service catalog when SEED_DEMO=true.
func seedDemo(gormDB *gorm.DB) error {
	if os.Getenv("SEED_DEMO") != "true" {
		return nil
	}

	partners := []model.Partner{
		{Name: "Cruz Roja Mexicana"},
		{Name: "Banco de Alimentos"},
		{Name: "Techo México"},
	}
	for i := range partners {
		var existing model.Partner
		err := gormDB.Where("name = ?", partners[i].Name).First(&existing).Error
		if err == nil {
			partners[i].ID = existing.ID
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := gormDB.Create(&partners[i]).Error; err != nil {
			return err
		}
	}

	services := []model.Service{
		{Description: "Apoyo en colecta de alimentos", CRN: "10231", Period: "2026-1", MaxCapacity: 30, PartnerID: &partners[1].ID},
		{Description: "Brigadas de primeros auxilios", CRN: "10232", Period: "2026-1", MaxCapacity: 25, PartnerID: &partners[0].ID},
		{Description: "Construcción de vivienda emergente", CRN: "10233", Period: "2026-2", MaxCapacity: 40, PartnerID: &partners[2].ID},
	}
	for i := range services {
		var existing model.Service
		err := gormDB.Where("crn = ?", services[i].CRN).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := gormDB.Create(&services[i]).Error; err != nil {
			return err
		}
	}

	log.Println("seeded demo partners and services")
	return nil
}
