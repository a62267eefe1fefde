package repository

import (
	"context"

	"motofix/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, search string) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *customerRepo) List(ctx context.Context, search string) ([]model.Customer, error) {
	var list []model.Customer
	q := r.db.WithContext(ctx).Model(&model.Customer{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR phone ILIKE ?", like, like)
	}
	err := q.Order("name ASC").Find(&list).Error
	return list, err
}

// Update never touches last_service; that column belongs to sale recording.
func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return affected(r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":    c.Name,
			"phone":   c.Phone,
			"email":   c.Email,
			"address": c.Address,
			"status":  c.Status,
		}))
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Customer{}))
}
