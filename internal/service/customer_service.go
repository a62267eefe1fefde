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

type CustomerService interface {
	List(ctx context.Context, search string) ([]dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	Create(ctx context.Context, req dto.CustomerRequest) (*dto.CustomerResponse, error)
	// Update never touches last_service; only recorded sales move it.
	Update(ctx context.Context, id uuid.UUID, req dto.CustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) List(ctx context.Context, search string) ([]dto.CustomerResponse, error) {
	list, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for i := range list {
		out = append(out, customerToResponse(&list[i]))
	}
	return out, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrCustomerNotFound)
	}
	resp := customerToResponse(c)
	return &resp, nil
}

func (s *customerService) Create(ctx context.Context, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c := &model.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   blankToNil(req.Email),
		Address: req.Address,
		Status:  statusOrDefault(req.Status),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := customerToResponse(c)
	return &resp, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrCustomerNotFound)
	}
	c.Name = req.Name
	c.Phone = req.Phone
	c.Email = blankToNil(req.Email)
	c.Address = req.Address
	c.Status = statusOrDefault(req.Status)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, mapNotFound(err, ErrCustomerNotFound)
	}
	resp := customerToResponse(c)
	return &resp, nil
}

// Delete removes a customer. Customers referenced by sales cannot be removed.
func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrInUse) {
		return ErrInUse
	}
	return mapNotFound(err, ErrCustomerNotFound)
}

func statusOrDefault(s string) string {
	if s == "" {
		return model.StatusActive
	}
	return s
}

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func customerToResponse(c *model.Customer) dto.CustomerResponse {
	r := dto.CustomerResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Status:    c.Status,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	if c.LastService != nil {
		ls := c.LastService.Format(time.RFC3339)
		r.LastService = &ls
	}
	return r
}
