package service

import (
	"context"
	"errors"

	"motofix/internal/dto"
	"motofix/internal/model"
	"motofix/internal/repository"

	"github.com/google/uuid"
)

// WorkshopService manages the fixed-price labor catalog (oil change, tune-up...).
type WorkshopService interface {
	List(ctx context.Context) ([]dto.ServiceResponse, error)
	Create(ctx context.Context, req dto.ServiceRequest) (*dto.ServiceResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.ServiceRequest) (*dto.ServiceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type workshopService struct {
	repo repository.ServiceRepository
}

func NewWorkshopService(repo repository.ServiceRepository) WorkshopService {
	return &workshopService{repo: repo}
}

func (s *workshopService) List(ctx context.Context) ([]dto.ServiceResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServiceResponse, 0, len(list))
	for i := range list {
		out = append(out, serviceToResponse(&list[i]))
	}
	return out, nil
}

func (s *workshopService) Create(ctx context.Context, req dto.ServiceRequest) (*dto.ServiceResponse, error) {
	sv := &model.Service{Name: req.Name, Price: req.Price}
	if err := s.repo.Create(ctx, sv); err != nil {
		return nil, err
	}
	resp := serviceToResponse(sv)
	return &resp, nil
}

func (s *workshopService) Update(ctx context.Context, id uuid.UUID, req dto.ServiceRequest) (*dto.ServiceResponse, error) {
	sv := &model.Service{ID: id, Name: req.Name, Price: req.Price}
	if err := s.repo.Update(ctx, sv); err != nil {
		return nil, mapNotFound(err, ErrServiceNotFound)
	}
	resp := serviceToResponse(sv)
	return &resp, nil
}

func (s *workshopService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrInUse) {
		return ErrInUse
	}
	return mapNotFound(err, ErrServiceNotFound)
}

func serviceToResponse(sv *model.Service) dto.ServiceResponse {
	return dto.ServiceResponse{ID: sv.ID.String(), Name: sv.Name, Price: sv.Price}
}
