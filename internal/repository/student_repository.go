package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Oggm2/registroServicio/internal/model"
)

// StudentAdminRow is the flattened listing row for student management.
type StudentAdminRow struct {
	ID        uint   `json:"id"`
	FullName  string `json:"nombre_completo"`
	Matricula string `json:"matricula"`
	Career    string `json:"carrera"`
	Phone     string `json:"celular"`
	AltEmail  string `json:"correo_alterno"`
	Username  string `json:"username"`
	UserID    uint   `json:"usuario_id"`
}

// StudentRepository defines student persistence operations.
type StudentRepository interface {
	CreateWithUser(ctx context.Context, user *model.User, student *model.Student) error
	Update(ctx context.Context, student *model.Student) error
	FindByID(ctx context.Context, id uint) (*model.Student, error)
	FindByUserID(ctx context.Context, userID uint) (*model.Student, error)
	FindByMatricula(ctx context.Context, matricula string) (*model.Student, error)
	FindByAltEmail(ctx context.Context, email string, excludeID uint) (*model.Student, error)
	Search(ctx context.Context, q string, limit int) ([]model.Student, error)
	ListPaged(ctx context.Context, q string, page, perPage int) ([]StudentAdminRow, *Pagination, error)
	DeleteCascade(ctx context.Context, id uint) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

// CreateWithUser creates the credential and the profile in one transaction,
// so a failed profile insert never leaves an orphan user.
func (r *studentRepository) CreateWithUser(ctx context.Context, user *model.User, student *model.Student) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		student.UserID = user.ID
		return tx.Create(student).Error
	})
}

func (r *studentRepository) Update(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) FindByID(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).Preload("Career").First(&student, id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) FindByUserID(ctx context.Context, userID uint) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).Preload("Career").
		Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) FindByMatricula(ctx context.Context, matricula string) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).Where("matricula = ?", matricula).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByAltEmail looks up the student owning an alternate email, skipping
// excludeID so profile updates do not collide with themselves.
func (r *studentRepository) FindByAltEmail(ctx context.Context, email string, excludeID uint) (*model.Student, error) {
	var student model.Student
	query := r.db.WithContext(ctx).Where("alt_email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) Search(ctx context.Context, q string, limit int) ([]model.Student, error) {
	var students []model.Student
	pattern := "%" + q + "%"
	if err := r.db.WithContext(ctx).Preload("Career").
		Where("matricula LIKE ? OR full_name LIKE ?", pattern, pattern).
		Limit(limit).Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) ListPaged(ctx context.Context, q string, page, perPage int) ([]StudentAdminRow, *Pagination, error) {
	query := r.db.WithContext(ctx).Table("estudiantes e").
		Select(`e.id AS id, e.full_name AS full_name, e.matricula AS matricula,
			c.name AS career, COALESCE(e.phone, '') AS phone,
			COALESCE(e.alt_email, '') AS alt_email,
			u.username AS username, e.user_id AS user_id`).
		Joins("JOIN carreras c ON c.id = e.career_id").
		Joins("JOIN usuarios u ON u.id = e.user_id").
		Order("e.full_name")
	if q != "" {
		pattern := "%" + q + "%"
		query = query.Where("e.full_name LIKE ? OR e.matricula LIKE ? OR u.username LIKE ?",
			pattern, pattern, pattern)
	}

	var rows []StudentAdminRow
	pagination, err := paginate(query, page, perPage, &rows)
	if err != nil {
		return nil, nil, err
	}
	return rows, pagination, nil
}

// DeleteCascade removes the student together with their enrollments,
// attendance records and login credential, all in one transaction.
func (r *studentRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student model.Student
		if err := tx.First(&student, id).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&model.AttendanceRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&student).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, student.UserID).Error
	})
}
