package repository

import (
	"context"

	"motofix/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MechanicRepository interface {
	Create(ctx context.Context, m *model.Mechanic) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Mechanic, error)
	List(ctx context.Context) ([]model.Mechanic, error)
	Update(ctx context.Context, m *model.Mechanic) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type mechanicRepo struct{ db *gorm.DB }

func NewMechanicRepository(db *gorm.DB) MechanicRepository { return &mechanicRepo{db: db} }

const totalJobsSelect = "mechanics.*, (SELECT COUNT(*) FROM sales WHERE sales.mechanic_id = mechanics.id) AS total_jobs"

func (r *mechanicRepo) Create(ctx context.Context, m *model.Mechanic) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *mechanicRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Mechanic, error) {
	var m model.Mechanic
	err := r.db.WithContext(ctx).Select(totalJobsSelect).First(&m, "mechanics.id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *mechanicRepo) List(ctx context.Context) ([]model.Mechanic, error) {
	var list []model.Mechanic
	err := r.db.WithContext(ctx).Select(totalJobsSelect).Order("mechanics.name ASC").Find(&list).Error
	return list, err
}

func (r *mechanicRepo) Update(ctx context.Context, m *model.Mechanic) error {
	return affected(r.db.WithContext(ctx).Model(&model.Mechanic{}).Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"name":            m.Name,
			"phone":           m.Phone,
			"role":            m.Position,
			"specialty":       m.Specialty,
			"commission_rate": m.CommissionRate,
			"rating":          m.Rating,
			"status":          m.Status,
		}))
}

func (r *mechanicRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Mechanic{}))
}
