package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Oggm2/registroServicio/internal/model"
)

// AttendanceRepository defines fair attendance persistence operations.
type AttendanceRepository interface {
	Create(ctx context.Context, record *model.AttendanceRecord) error
	Update(ctx context.Context, record *model.AttendanceRecord) error
	FindByID(ctx context.Context, id uint) (*model.AttendanceRecord, error)
	FindByStudent(ctx context.Context, studentID uint) (*model.AttendanceRecord, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, statuses ...model.AttendanceStatus) (int64, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepository) Update(ctx context.Context, record *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *attendanceRepository) FindByID(ctx context.Context, id uint) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByStudent returns the student's latest record. The business rule keeps
// at most one per student, so "latest" only matters after manual deletes.
func (r *attendanceRepository) FindByStudent(ctx context.Context, studentID uint) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("id DESC").First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AttendanceRecord{}).Count(&count).Error
	return count, err
}

func (r *attendanceRepository) CountByStatus(ctx context.Context, statuses ...model.AttendanceStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
		Where("status IN ?", statuses).Count(&count).Error
	return count, err
}
