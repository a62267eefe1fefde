package repository

import (
	"context"

	"motofix/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceRepository stores the fixed-price workshop services.
type ServiceRepository interface {
	Create(ctx context.Context, s *model.Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Service, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Service, error)
	List(ctx context.Context) ([]model.Service, error)
	Update(ctx context.Context, s *model.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type serviceRepo struct{ db *gorm.DB }

func NewServiceRepository(db *gorm.DB) ServiceRepository { return &serviceRepo{db: db} }

func (r *serviceRepo) Create(ctx context.Context, s *model.Service) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *serviceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	var s model.Service
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *serviceRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Service, error) {
	var list []model.Service
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *serviceRepo) List(ctx context.Context) ([]model.Service, error) {
	var list []model.Service
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *serviceRepo) Update(ctx context.Context, s *model.Service) error {
	return affected(r.db.WithContext(ctx).Model(&model.Service{}).Where("id = ?", s.ID).
		Updates(map[string]interface{}{"name": s.Name, "price": s.Price}))
}

func (r *serviceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Service{}))
}
