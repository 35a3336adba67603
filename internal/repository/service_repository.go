package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Oggm2/registroServicio/internal/model"
)

// ServiceRow is a catalog listing row with the live enrollment count.
type ServiceRow struct {
	ID          uint    `json:"id"`
	Description string  `json:"descripcion"`
	CRN         string  `json:"crn"`
	Period      string  `json:"periodo"`
	MaxCapacity int     `json:"cupo_maximo"`
	Enrolled    int64   `json:"inscritos"`
	PartnerID   *uint   `json:"socio_formador_id"`
	PartnerName *string `json:"socio_formador_nombre"`
}

// ServiceRepository defines service catalog persistence operations.
type ServiceRepository interface {
	Create(ctx context.Context, service *model.Service) error
	Save(ctx context.Context, service *model.Service) error
	FindByID(ctx context.Context, id uint) (*model.Service, error)
	FindByCRN(ctx context.Context, crn string, excludeID uint) (*model.Service, error)
	CountEnrollments(ctx context.Context, serviceID uint) (int64, error)
	ListPaged(ctx context.Context, q string, page, perPage int) ([]ServiceRow, *Pagination, error)
	Delete(ctx context.Context, id uint) error
	DistinctPeriods(ctx context.Context) ([]string, error)
}

type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new service repository.
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *serviceRepository) Save(ctx context.Context, service *model.Service) error {
	return r.db.WithContext(ctx).Save(service).Error
}

func (r *serviceRepository) FindByID(ctx context.Context, id uint) (*model.Service, error) {
	var service model.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// FindByCRN looks up a service by reference code, skipping excludeID so
// updates do not collide with the row being updated.
func (r *serviceRepository) FindByCRN(ctx context.Context, crn string, excludeID uint) (*model.Service, error) {
	var service model.Service
	query := r.db.WithContext(ctx).Where("crn = ?", crn)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) CountEnrollments(ctx context.Context, serviceID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("service_id = ?", serviceID).Count(&count).Error
	return count, err
}

func (r *serviceRepository) ListPaged(ctx context.Context, q string, page, perPage int) ([]ServiceRow, *Pagination, error) {
	query := r.db.WithContext(ctx).Table("servicios s").
		Select(`s.id AS id, s.description AS description, s.crn AS crn,
			s.period AS period, s.max_capacity AS max_capacity,
			COUNT(p.id) AS enrolled,
			s.partner_id AS partner_id, sf.name AS partner_name`).
		Joins("LEFT JOIN preregistros p ON p.service_id = s.id").
		Joins("LEFT JOIN socios_formadores sf ON sf.id = s.partner_id").
		Group("s.id, s.description, s.crn, s.period, s.max_capacity, s.partner_id, sf.name").
		Order("s.period DESC, s.description")
	if q != "" {
		pattern := "%" + q + "%"
		query = query.Where("s.description LIKE ? OR s.crn LIKE ?", pattern, pattern)
	}

	var rows []ServiceRow
	pagination, err := paginate(query, page, perPage, &rows)
	if err != nil {
		return nil, nil, err
	}
	return rows, pagination, nil
}

func (r *serviceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Service{}, id).Error
}

func (r *serviceRepository) DistinctPeriods(ctx context.Context) ([]string, error) {
	var periods []string
	err := r.db.WithContext(ctx).Model(&model.Service{}).
		Distinct("period").Order("period").Pluck("period", &periods).Error
	return periods, err
}
