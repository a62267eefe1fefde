package repository

import (
	"context"

	"motofix/internal/dto"
	"motofix/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the gorm implementation.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error)
	// Update locks the product row, hands it to edit and saves the result in
	// one transaction. A stock change made by edit is recorded as an
	// adjustment movement measured from the locked value.
	Update(ctx context.Context, id uuid.UUID, edit func(p *model.Product) error) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepo) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Preload("Category").Where("code = ?", code).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var list []model.Product
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error) {
	var list []model.Product
	q := r.db.WithContext(ctx).Model(&model.Product{}).Preload("Category")

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("name ILIKE ? OR code ILIKE ?", like, like)
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.LowStock {
		q = q.Where("stock <= min_stock")
	}

	err := q.Order("name ASC").Find(&list).Error
	return list, err
}

func (r *productRepo) Update(ctx context.Context, id uuid.UUID, edit func(p *model.Product) error) (*model.Product, error) {
	var saved model.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		before := p.Stock
		if err := edit(&p); err != nil {
			return err
		}

		fields := map[string]interface{}{
			"code":        p.Code,
			"name":        p.Name,
			"category_id": p.CategoryID,
			"buy_price":   p.BuyPrice,
			"sell_price":  p.SellPrice,
			"min_stock":   p.MinStock,
		}
		// Stock is written only when edit changed it.
		if p.Stock != before {
			fields["stock"] = p.Stock
		}
		if err := affected(tx.Model(&model.Product{}).Where("id = ?", id).Updates(fields)); err != nil {
			return err
		}
		if p.Stock != before {
			mov := &model.StockMovement{
				ID:          uuid.New(),
				ProductID:   id,
				Kind:        model.MovementAdjustment,
				Quantity:    p.Stock - before,
				StockBefore: before,
				StockAfter:  p.Stock,
				Reason:      "Manual adjustment",
			}
			if err := translate(tx.Create(mov).Error); err != nil {
				return err
			}
		}
		saved = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{}))
}

func (r *productRepo) ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	var list []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
