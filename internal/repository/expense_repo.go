package repository

import (
	"context"
	"time"

	"motofix/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, e *model.Expense) error
	// List returns expenses created in [from, to), newest first. Zero bounds are open.
	List(ctx context.Context, from, to time.Time) ([]model.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, e *model.Expense) error {
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

func (r *expenseRepo) List(ctx context.Context, from, to time.Time) ([]model.Expense, error) {
	var list []model.Expense
	q := r.db.WithContext(ctx).Model(&model.Expense{})
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Expense{}))
}
