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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCustomerRepo struct{ mock.Mock }

func (m *mockCustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Customer)
	return c, args.Error(1)
}

func (m *mockCustomerRepo) List(ctx context.Context, search string) ([]model.Customer, error) {
	args := m.Called(ctx, search)
	list, _ := args.Get(0).([]model.Customer)
	return list, args.Error(1)
}

func (m *mockCustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestCustomerCreate_Defaults(t *testing.T) {
	repo := &mockCustomerRepo{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Customer) bool {
		return c.Status == model.StatusActive && c.Email == nil && c.LastService == nil
	})).Return(nil)

	empty := ""
	resp, err := service.NewCustomerService(repo).Create(context.Background(),
		dto.CustomerRequest{Name: "Budi", Phone: "0813", Email: &empty})
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, resp.Status)
	assert.Nil(t, resp.LastService)
	repo.AssertExpectations(t)
}

func TestCustomerUpdate_KeepsLastService(t *testing.T) {
	repo := &mockCustomerRepo{}
	id := uuid.New()
	last := time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)
	repo.On("FindByID", mock.Anything, id).
		Return(&model.Customer{ID: id, Name: "Budi", Status: model.StatusActive, LastService: &last}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(c *model.Customer) bool {
		return c.LastService != nil && c.LastService.Equal(last) && c.Status == model.StatusInactive
	})).Return(nil)

	resp, err := service.NewCustomerService(repo).Update(context.Background(), id,
		dto.CustomerRequest{Name: "Budi S.", Status: model.StatusInactive})
	require.NoError(t, err)
	assert.Equal(t, "Budi S.", resp.Name)
	require.NotNil(t, resp.LastService)
	assert.Equal(t, last.Format(time.RFC3339), *resp.LastService)
	repo.AssertExpectations(t)
}

func TestCustomerDelete_ReferencedBySales(t *testing.T) {
	repo := &mockCustomerRepo{}
	inUse, missing := uuid.New(), uuid.New()
	repo.On("Delete", mock.Anything, inUse).Return(repository.ErrInUse)
	repo.On("Delete", mock.Anything, missing).Return(repository.ErrNotFound)
	svc := service.NewCustomerService(repo)

	assert.ErrorIs(t, svc.Delete(context.Background(), inUse), service.ErrInUse)
	assert.ErrorIs(t, svc.Delete(context.Background(), missing), service.ErrCustomerNotFound)
}
