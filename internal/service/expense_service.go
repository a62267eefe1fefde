package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"motofix/internal/dto"
	"motofix/internal/model"
	"motofix/internal/repository"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type ExpenseService interface {
	List(ctx context.Context, filter dto.ExpenseFilter) ([]dto.ExpenseResponse, error)
	Create(ctx context.Context, req dto.ExpenseRequest) (*dto.ExpenseResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type expenseService struct {
	repo repository.ExpenseRepository
}

func NewExpenseService(repo repository.ExpenseRepository) ExpenseService {
	return &expenseService{repo: repo}
}

func (s *expenseService) List(ctx context.Context, filter dto.ExpenseFilter) ([]dto.ExpenseResponse, error) {
	var from, to time.Time
	var err error
	if filter.Start != "" {
		if from, err = time.ParseInLocation(dateLayout, filter.Start, time.Local); err != nil {
			return nil, fmt.Errorf("%w: start must be YYYY-MM-DD", ErrInvalidRange)
		}
	}
	if filter.End != "" {
		end, err := time.ParseInLocation(dateLayout, filter.End, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: end must be YYYY-MM-DD", ErrInvalidRange)
		}
		to = end.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return nil, fmt.Errorf("%w: start is after end", ErrInvalidRange)
	}

	list, err := s.repo.List(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseResponse, 0, len(list))
	for i := range list {
		out = append(out, expenseToResponse(&list[i]))
	}
	return out, nil
}

func (s *expenseService) Create(ctx context.Context, req dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "Other"
	}
	e := &model.Expense{Description: req.Description, Amount: req.Amount, Category: category}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	resp := expenseToResponse(e)
	return &resp, nil
}

func (s *expenseService) Delete(ctx context.Context, id uuid.UUID) error {
	return mapNotFound(s.repo.Delete(ctx, id), ErrNotFound)
}

func expenseToResponse(e *model.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:          e.ID.String(),
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}
