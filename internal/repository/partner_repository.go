package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Oggm2/registroServicio/internal/model"
)

// PartnerServiceRow is a partner's service with its live enrollment count.
type PartnerServiceRow struct {
	ID          uint   `json:"id"`
	Description string `json:"descripcion"`
	CRN         string `json:"crn"`
	Period      string `json:"periodo"`
	MaxCapacity int    `json:"cupo_maximo"`
	Enrolled    int64  `json:"inscritos"`
}

// PartnerStatsRow aggregates service and enrollment totals per partner.
type PartnerStatsRow struct {
	ID            uint   `json:"id"`
	Name          string `json:"nombre"`
	TotalServices int64  `json:"total_servicios"`
	TotalEnrolled int64  `json:"total_inscritos"`
}

// PartnerRepository defines partner persistence operations.
type PartnerRepository interface {
	Create(ctx context.Context, partner *model.Partner) error
	Update(ctx context.Context, partner *model.Partner) error
	FindByID(ctx context.Context, id uint) (*model.Partner, error)
	FindByName(ctx context.Context, name string, excludeID uint) (*model.Partner, error)
	ListPaged(ctx context.Context, q string, page, perPage int) ([]model.Partner, *Pagination, error)
	Delete(ctx context.Context, id uint) error
	CountServices(ctx context.Context, partnerID uint) (int64, error)
	ServicesWithCounts(ctx context.Context, partnerID uint) ([]PartnerServiceRow, error)
	Stats(ctx context.Context) ([]PartnerStatsRow, error)
}

type partnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository creates a new partner repository.
func NewPartnerRepository(db *gorm.DB) PartnerRepository {
	return &partnerRepository{db: db}
}

func (r *partnerRepository) Create(ctx context.Context, partner *model.Partner) error {
	return r.db.WithContext(ctx).Create(partner).Error
}

func (r *partnerRepository) Update(ctx context.Context, partner *model.Partner) error {
	return r.db.WithContext(ctx).Save(partner).Error
}

func (r *partnerRepository) FindByID(ctx context.Context, id uint) (*model.Partner, error) {
	var partner model.Partner
	if err := r.db.WithContext(ctx).First(&partner, id).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *partnerRepository) FindByName(ctx context.Context, name string, excludeID uint) (*model.Partner, error) {
	var partner model.Partner
	query := r.db.WithContext(ctx).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *partnerRepository) ListPaged(ctx context.Context, q string, page, perPage int) ([]model.Partner, *Pagination, error) {
	query := r.db.WithContext(ctx).Model(&model.Partner{}).Order("name")
	if q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}

	var partners []model.Partner
	pagination, err := paginate(query, page, perPage, &partners)
	if err != nil {
		return nil, nil, err
	}
	return partners, pagination, nil
}

func (r *partnerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Partner{}, id).Error
}

func (r *partnerRepository) CountServices(ctx context.Context, partnerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Service{}).
		Where("partner_id = ?", partnerID).Count(&count).Error
	return count, err
}

func (r *partnerRepository) ServicesWithCounts(ctx context.Context, partnerID uint) ([]PartnerServiceRow, error) {
	var rows []PartnerServiceRow
	err := r.db.WithContext(ctx).Table("servicios s").
		Select(`s.id AS id, s.description AS description, s.crn AS crn,
			s.period AS period, s.max_capacity AS max_capacity,
			COUNT(p.id) AS enrolled`).
		Joins("LEFT JOIN preregistros p ON p.service_id = s.id").
		Where("s.partner_id = ?", partnerID).
		Group("s.id, s.description, s.crn, s.period, s.max_capacity").
		Find(&rows).Error
	return rows, err
}

func (r *partnerRepository) Stats(ctx context.Context) ([]PartnerStatsRow, error) {
	var rows []PartnerStatsRow
	err := r.db.WithContext(ctx).Table("socios_formadores sf").
		Select(`sf.id AS id, sf.name AS name,
			COUNT(DISTINCT s.id) AS total_services,
			COUNT(p.id) AS total_enrolled`).
		Joins("LEFT JOIN servicios s ON s.partner_id = sf.id").
		Joins("LEFT JOIN preregistros p ON p.service_id = s.id").
		Group("sf.id, sf.name").
		Order("COUNT(p.id) DESC").
		Find(&rows).Error
	return rows, err
}
