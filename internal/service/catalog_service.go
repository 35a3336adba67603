package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Oggm2/registroServicio/internal/cache"
	"github.com/Oggm2/registroServicio/internal/errors"
	"github.com/Oggm2/registroServicio/internal/model"
	"github.com/Oggm2/registroServicio/internal/repository"
)

// CreateServiceInput carries the fields of a new catalog entry.
type CreateServiceInput struct {
	Description string
	CRN         string
	Period      string
	MaxCapacity *int
	PartnerID   *uint
}

// UpdateServiceInput is a partial update; nil fields stay untouched.
type UpdateServiceInput struct {
	Description *string
	CRN         *string
	Period      *string
	MaxCapacity *int
	PartnerID   *uint
}

// CatalogService manages the social service catalog.
type CatalogService interface {
	List(ctx context.Context, q string, page, perPage int) ([]repository.ServiceRow, *repository.Pagination, error)
	Create(ctx context.Context, input CreateServiceInput) (*model.Service, error)
	Update(ctx context.Context, id uint, input UpdateServiceInput) (*model.Service, error)
	UpdateCapacity(ctx context.Context, id uint, capacity int) (*model.Service, error)
	Delete(ctx context.Context, id uint) error
	Periods(ctx context.Context) ([]string, error)
}

type catalogService struct {
	serviceRepo repository.ServiceRepository
	partnerRepo repository.PartnerRepository
	cache       *cache.Client
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	serviceRepo repository.ServiceRepository,
	partnerRepo repository.PartnerRepository,
	cache *cache.Client,
) CatalogService {
	return &catalogService{
		serviceRepo: serviceRepo,
		partnerRepo: partnerRepo,
		cache:       cache,
	}
}

func (s *catalogService) List(ctx context.Context, q string, page, perPage int) ([]repository.ServiceRow, *repository.Pagination, error) {
	return s.serviceRepo.ListPaged(ctx, q, page, perPage)
}

// Create adds a catalog entry. CRN must be unique; capacity defaults to
// model.DefaultMaxCapacity when omitted.
func (s *catalogService) Create(ctx context.Context, input CreateServiceInput) (*model.Service, error) {
	if _, err := s.serviceRepo.FindByCRN(ctx, input.CRN, 0); err == nil {
		return nil, errors.ErrCRNTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	capacity := model.DefaultMaxCapacity
	if input.MaxCapacity != nil {
		if *input.MaxCapacity < 0 {
			return nil, errors.ErrInvalidCapacity
		}
		capacity = *input.MaxCapacity
	}

	if input.PartnerID != nil {
		if _, err := s.partnerRepo.FindByID(ctx, *input.PartnerID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrPartnerNotFound
			}
			return nil, err
		}
	}

	service := &model.Service{
		Description: input.Description,
		CRN:         input.CRN,
		Period:      input.Period,
		MaxCapacity: capacity,
		PartnerID:   input.PartnerID,
	}
	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return nil, err
	}

	_ = s.cache.DeleteByPrefix(ctx, statsCachePrefix)
	return service, nil
}

// Update applies a partial edit. Capacity may never drop below the current
// enrollment count.
func (s *catalogService) Update(ctx context.Context, id uint, input UpdateServiceInput) (*model.Service, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrServiceNotFound
		}
		return nil, err
	}

	if input.CRN != nil && *input.CRN != service.CRN {
		if _, err := s.serviceRepo.FindByCRN(ctx, *input.CRN, id); err == nil {
			return nil, errors.ErrCRNTaken
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		service.CRN = *input.CRN
	}

	if input.MaxCapacity != nil {
		if err := s.checkCapacity(ctx, id, *input.MaxCapacity); err != nil {
			return nil, err
		}
		service.MaxCapacity = *input.MaxCapacity
	}

	if input.PartnerID != nil {
		if _, err := s.partnerRepo.FindByID(ctx, *input.PartnerID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrPartnerNotFound
			}
			return nil, err
		}
		service.PartnerID = input.PartnerID
	}

	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.Period != nil {
		service.Period = *input.Period
	}

	if err := s.serviceRepo.Save(ctx, service); err != nil {
		return nil, err
	}

	_ = s.cache.DeleteByPrefix(ctx, statsCachePrefix)
	return service, nil
}

// UpdateCapacity adjusts only the quota. Reducing it to exactly the current
// enrollment count is allowed; below it is not.
func (s *catalogService) UpdateCapacity(ctx context.Context, id uint, capacity int) (*model.Service, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrServiceNotFound
		}
		return nil, err
	}

	if err := s.checkCapacity(ctx, id, capacity); err != nil {
		return nil, err
	}

	service.MaxCapacity = capacity
	if err := s.serviceRepo.Save(ctx, service); err != nil {
		return nil, err
	}

	_ = s.cache.DeleteByPrefix(ctx, statsCachePrefix)
	return service, nil
}

func (s *catalogService) checkCapacity(ctx context.Context, id uint, capacity int) error {
	if capacity < 0 {
		return errors.ErrInvalidCapacity
	}
	enrolled, err := s.serviceRepo.CountEnrollments(ctx, id)
	if err != nil {
		return err
	}
	if int64(capacity) < enrolled {
		return fmt.Errorf("%w (%d inscritos)", errors.ErrCapacityBelowEnrolled, enrolled)
	}
	return nil
}

func (s *catalogService) Delete(ctx context.Context, id uint) error {
	if _, err := s.serviceRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrServiceNotFound
		}
		return err
	}
	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.cache.DeleteByPrefix(ctx, statsCachePrefix)
	return nil
}

func (s *catalogService) Periods(ctx context.Context) ([]string, error) {
	return s.serviceRepo.DistinctPeriods(ctx)
}
