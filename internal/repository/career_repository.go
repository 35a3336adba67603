package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Oggm2/registroServicio/internal/model"
)

// CareerRepository defines career catalog operations.
type CareerRepository interface {
	List(ctx context.Context) ([]model.Career, error)
	FindByID(ctx context.Context, id uint) (*model.Career, error)
	Upsert(ctx context.Context, career *model.Career) error
}

type careerRepository struct {
	db *gorm.DB
}

// NewCareerRepository creates a new career repository.
func NewCareerRepository(db *gorm.DB) CareerRepository {
	return &careerRepository{db: db}
}

func (r *careerRepository) List(ctx context.Context) ([]model.Career, error) {
	var careers []model.Career
	if err := r.db.WithContext(ctx).Order("name").Find(&careers).Error; err != nil {
		return nil, err
	}
	return careers, nil
}

func (r *careerRepository) FindByID(ctx context.Context, id uint) (*model.Career, error) {
	var career model.Career
	if err := r.db.WithContext(ctx).First(&career, id).Error; err != nil {
		return nil, err
	}
	return &career, nil
}

// Upsert creates the career or leaves an existing one (matched by name)
// untouched. Used by the seed command.
func (r *careerRepository) Upsert(ctx context.Context, career *model.Career) error {
	var existing model.Career
	err := r.db.WithContext(ctx).Where("name = ?", career.Name).First(&existing).Error
	if err == nil {
		career.ID = existing.ID
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.WithContext(ctx).Create(career).Error
}
