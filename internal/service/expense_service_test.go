package service_test

import (
	"context"
	"testing"
	"time"

	"motofix/internal/dto"
	"motofix/internal/model"
	"motofix/internal/repository"
	"motofix/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockExpenseRepo struct{ mock.Mock }

func (m *mockExpenseRepo) Create(ctx context.Context, e *model.Expense) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockExpenseRepo) List(ctx context.Context, from, to time.Time) ([]model.Expense, error) {
	args := m.Called(ctx, from, to)
	list, _ := args.Get(0).([]model.Expense)
	return list, args.Error(1)
}

func (m *mockExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestExpenseList_EndDayIsInclusive(t *testing.T) {
	repo := &mockExpenseRepo{}
	svc := service.NewExpenseService(repo)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.Local)
	repo.On("List", mock.Anything, at(from), at(to)).
		Return([]model.Expense{{ID: uuid.New(), Description: "Listrik", Amount: decimal.NewFromInt(350000), Category: "Utilities"}}, nil)

	list, err := svc.List(context.Background(), dto.ExpenseFilter{Start: "2026-03-01", End: "2026-03-31"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Listrik", list[0].Description)
	repo.AssertExpectations(t)
}

func TestExpenseList_OpenBounds(t *testing.T) {
	repo := &mockExpenseRepo{}
	repo.On("List", mock.Anything, time.Time{}, time.Time{}).Return([]model.Expense{}, nil)

	list, err := service.NewExpenseService(repo).List(context.Background(), dto.ExpenseFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExpenseList_BadRange(t *testing.T) {
	svc := service.NewExpenseService(&mockExpenseRepo{})

	_, err := svc.List(context.Background(), dto.ExpenseFilter{Start: "2026-03-02", End: "2026-03-01"})
	assert.ErrorIs(t, err, service.ErrInvalidRange)

	_, err = svc.List(context.Background(), dto.ExpenseFilter{Start: "01/03/2026"})
	assert.ErrorIs(t, err, service.ErrInvalidRange)
}

func TestExpenseCreate(t *testing.T) {
	repo := &mockExpenseRepo{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Expense) bool {
		return e.Category == "Other" && e.Amount.Equal(decimal.NewFromInt(50000))
	})).Return(nil)
	svc := service.NewExpenseService(repo)

	resp, err := svc.Create(context.Background(), dto.ExpenseRequest{Description: "Bensin", Amount: decimal.NewFromInt(50000)})
	require.NoError(t, err)
	assert.Equal(t, "Other", resp.Category)
	repo.AssertExpectations(t)

	_, err = svc.Create(context.Background(), dto.ExpenseRequest{Description: "Nol", Amount: decimal.Zero})
	assert.ErrorIs(t, err, service.ErrInvalidAmount)
}

func TestExpenseDelete_NotFound(t *testing.T) {
	repo := &mockExpenseRepo{}
	id := uuid.New()
	repo.On("Delete", mock.Anything, id).Return(repository.ErrNotFound)

	err := service.NewExpenseService(repo).Delete(context.Background(), id)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
