package service

import (
	"context"
	"errors"
	"time"

	"motofix/internal/dto"
	"motofix/internal/model"
	"motofix/internal/repository"

	"github.com/google/uuid"
)

type MechanicService interface {
	List(ctx context.Context) ([]dto.MechanicResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.MechanicResponse, error)
	Create(ctx context.Context, req dto.MechanicRequest) (*dto.MechanicResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.MechanicRequest) (*dto.MechanicResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type mechanicService struct {
	repo repository.MechanicRepository
}

func NewMechanicService(repo repository.MechanicRepository) MechanicService {
	return &mechanicService{repo: repo}
}

func (s *mechanicService) List(ctx context.Context) ([]dto.MechanicResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MechanicResponse, 0, len(list))
	for i := range list {
		out = append(out, mechanicToResponse(&list[i]))
	}
	return out, nil
}

func (s *mechanicService) Get(ctx context.Context, id uuid.UUID) (*dto.MechanicResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrMechanicNotFound)
	}
	resp := mechanicToResponse(m)
	return &resp, nil
}

func (s *mechanicService) Create(ctx context.Context, req dto.MechanicRequest) (*dto.MechanicResponse, error) {
	m := &model.Mechanic{}
	applyMechanic(m, req)
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	resp := mechanicToResponse(m)
	return &resp, nil
}

func (s *mechanicService) Update(ctx context.Context, id uuid.UUID, req dto.MechanicRequest) (*dto.MechanicResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrMechanicNotFound)
	}
	applyMechanic(m, req)
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, mapNotFound(err, ErrMechanicNotFound)
	}
	resp := mechanicToResponse(m)
	return &resp, nil
}

func (s *mechanicService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrInUse) {
		return ErrInUse
	}
	return mapNotFound(err, ErrMechanicNotFound)
}

func applyMechanic(m *model.Mechanic, req dto.MechanicRequest) {
	m.Name = req.Name
	m.Phone = req.Phone
	m.Position = req.Role
	m.Specialty = req.Specialty
	m.CommissionRate = req.CommissionRate
	m.Rating = req.Rating
	m.Status = statusOrDefault(req.Status)
}

func mechanicToResponse(m *model.Mechanic) dto.MechanicResponse {
	return dto.MechanicResponse{
		ID:             m.ID.String(),
		Name:           m.Name,
		Phone:          m.Phone,
		Role:           m.Position,
		Specialty:      m.Specialty,
		CommissionRate: m.CommissionRate,
		Rating:         m.Rating,
		TotalJobs:      m.TotalJobs,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}
