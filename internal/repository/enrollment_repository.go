package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Oggm2/registroServicio/internal/model"
)

// EnrollmentRow is the staff listing row joined across student, career and
// service.
type EnrollmentRow struct {
	ID                 uint      `json:"id"`
	StudentName        string    `json:"estudiante_nombre"`
	Matricula          string    `json:"matricula"`
	Career             string    `json:"carrera"`
	CRN                string    `json:"crn"`
	ServiceDescription string    `json:"servicio_descripcion"`
	Period             string    `json:"periodo"`
	RegisteredAt       time.Time `json:"fecha_registro"`
}

// StudentEnrollmentRow is a student's own enrollment with service details.
type StudentEnrollmentRow struct {
	EnrollmentID       uint      `json:"preregistro_id"`
	ServiceID          uint      `json:"servicio_id"`
	ServiceDescription string    `json:"servicio_descripcion"`
	CRN                string    `json:"crn"`
	Period             string    `json:"periodo"`
	RegisteredAt       time.Time `json:"fecha_registro"`
}

// EnrollmentRepository is the persistence surface of the enrollment guard.
// WithTransaction runs the guard's reads and its single write in one
// transaction; FindServiceForUpdate locks the service row so two last-seat
// enrollments serialize instead of both passing the quota check.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	FindByID(ctx context.Context, id uint) (*model.Enrollment, error)
	Delete(ctx context.Context, id uint) error
	FindServiceForUpdate(ctx context.Context, crn string) (*model.Service, error)
	CountByService(ctx context.Context, serviceID uint) (int64, error)
	ExistsByStudentAndService(ctx context.Context, studentID, serviceID uint) (bool, error)
	FindByStudentInPeriod(ctx context.Context, studentID uint, period string) (*model.Enrollment, error)
	ListDetailed(ctx context.Context, period, career string) ([]EnrollmentRow, error)
	ListByStudent(ctx context.Context, studentID uint, period string) ([]StudentEnrollmentRow, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo EnrollmentRepository) error) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates a new enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) FindByID(ctx context.Context, id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	if err := r.db.WithContext(ctx).First(&enrollment, id).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Enrollment{}, id).Error
}

// FindServiceForUpdate fetches the service by CRN with a row-level lock.
// SQLite (used in tests) drops the locking clause; its single-writer model
// serializes the transaction anyway.
func (r *enrollmentRepository) FindServiceForUpdate(ctx context.Context, crn string) (*model.Service, error) {
	var service model.Service
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("crn = ?", crn).First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *enrollmentRepository) CountByService(ctx context.Context, serviceID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("service_id = ?", serviceID).Count(&count).Error
	return count, err
}

func (r *enrollmentRepository) ExistsByStudentAndService(ctx context.Context, studentID, serviceID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("student_id = ? AND service_id = ?", studentID, serviceID).
		Count(&count).Error
	return count > 0, err
}

// FindByStudentInPeriod returns any enrollment the student already holds in
// a service of the given period.
func (r *enrollmentRepository) FindByStudentInPeriod(ctx context.Context, studentID uint, period string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Joins("JOIN servicios s ON s.id = preregistros.service_id").
		Where("preregistros.student_id = ? AND s.period = ?", studentID, period).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) ListDetailed(ctx context.Context, period, career string) ([]EnrollmentRow, error) {
	query := r.db.WithContext(ctx).Table("preregistros p").
		Select(`p.id AS id, e.full_name AS student_name, e.matricula AS matricula,
			c.name AS career, s.crn AS crn, s.description AS service_description,
			s.period AS period, p.registered_at AS registered_at`).
		Joins("JOIN estudiantes e ON e.id = p.student_id").
		Joins("JOIN servicios s ON s.id = p.service_id").
		Joins("JOIN carreras c ON c.id = e.career_id").
		Order("p.registered_at DESC")
	if period != "" {
		query = query.Where("s.period = ?", period)
	}
	if career != "" {
		query = query.Where("c.name LIKE ?", "%"+career+"%")
	}

	var rows []EnrollmentRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *enrollmentRepository) ListByStudent(ctx context.Context, studentID uint, period string) ([]StudentEnrollmentRow, error) {
	query := r.db.WithContext(ctx).Table("preregistros p").
		Select(`p.id AS enrollment_id, s.id AS service_id,
			s.description AS service_description, s.crn AS crn,
			s.period AS period, p.registered_at AS registered_at`).
		Joins("JOIN servicios s ON s.id = p.service_id").
		Where("p.student_id = ?", studentID).
		Order("p.registered_at DESC")
	if period != "" {
		query = query.Where("s.period = ?", period)
	}

	var rows []StudentEnrollmentRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// WithTransaction executes fn within a database transaction, handing it a
// repository bound to that transaction.
func (r *enrollmentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo EnrollmentRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &enrollmentRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
