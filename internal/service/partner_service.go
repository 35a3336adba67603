package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/Oggm2/registroServicio/internal/errors"
	"github.com/Oggm2/registroServicio/internal/model"
	"github.com/Oggm2/registroServicio/internal/repository"
)

// PartnerDetail bundles a partner with its services and their enrollment
// counts.
type PartnerDetail struct {
	Partner  model.Partner                  `json:"socio_formador"`
	Services []repository.PartnerServiceRow `json:"servicios"`
}

// PartnerService manages the sponsoring organizations behind the catalog.
type PartnerService interface {
	List(ctx context.Context, q string, page, perPage int) ([]model.Partner, *repository.Pagination, error)
	Create(ctx context.Context, name string) (*model.Partner, error)
	Update(ctx context.Context, id uint, name string) (*model.Partner, error)
	Delete(ctx context.Context, id uint) error
	Detail(ctx context.Context, id uint) (*PartnerDetail, error)
	Stats(ctx context.Context) ([]repository.PartnerStatsRow, error)
}

type partnerService struct {
	partnerRepo repository.PartnerRepository
}

// NewPartnerService creates a new partner service.
func NewPartnerService(partnerRepo repository.PartnerRepository) PartnerService {
	return &partnerService{partnerRepo: partnerRepo}
}

func (s *partnerService) List(ctx context.Context, q string, page, perPage int) ([]model.Partner, *repository.Pagination, error) {
	return s.partnerRepo.ListPaged(ctx, q, page, perPage)
}

func (s *partnerService) Create(ctx context.Context, name string) (*model.Partner, error) {
	if _, err := s.partnerRepo.FindByName(ctx, name, 0); err == nil {
		return nil, errors.ErrPartnerNameTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	partner := &model.Partner{Name: name}
	if err := s.partnerRepo.Create(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

func (s *partnerService) Update(ctx context.Context, id uint, name string) (*model.Partner, error) {
	partner, err := s.partnerRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPartnerNotFound
		}
		return nil, err
	}

	if _, err := s.partnerRepo.FindByName(ctx, name, id); err == nil {
		return nil, errors.ErrPartnerNameTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	partner.Name = name
	if err := s.partnerRepo.Update(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// Delete refuses partners that still own services; reassign or delete the
// services first.
func (s *partnerService) Delete(ctx context.Context, id uint) error {
	if _, err := s.partnerRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrPartnerNotFound
		}
		return err
	}

	count, err := s.partnerRepo.CountServices(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.ErrPartnerHasServices
	}
	return s.partnerRepo.Delete(ctx, id)
}

func (s *partnerService) Detail(ctx context.Context, id uint) (*PartnerDetail, error) {
	partner, err := s.partnerRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPartnerNotFound
		}
		return nil, err
	}

	services, err := s.partnerRepo.ServicesWithCounts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PartnerDetail{Partner: *partner, Services: services}, nil
}

func (s *partnerService) Stats(ctx context.Context) ([]repository.PartnerStatsRow, error) {
	return s.partnerRepo.Stats(ctx)
}
