package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motofix/internal/dto"
	"motofix/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockChange describes one applied stock decrement.
type StockChange struct {
	ProductID uuid.UUID
	Code      string
	Before    int
	After     int
}

// SaleTx is the set of writes a sale performs. Every call made through one
// SaleTx commits or rolls back together.
type SaleTx interface {
	// NextInvoiceSeq draws the next value of the invoice sequence.
	NextInvoiceSeq(ctx context.Context) (int64, error)
	CustomerExists(ctx context.Context, id uuid.UUID) (bool, error)
	MechanicExists(ctx context.Context, id uuid.UUID) (bool, error)
	ServiceExists(ctx context.Context, id uuid.UUID) (bool, error)
	CreateSale(ctx context.Context, s *model.Sale) error
	CreateItem(ctx context.Context, item *model.SaleItem) error
	// DecrementStock subtracts qty from the product's stock. Unless
	// allowNegative is set, a result below zero fails with ErrInsufficientStock.
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int, allowNegative bool) (StockChange, error)
	CreateMovement(ctx context.Context, m *model.StockMovement) error
	TouchCustomer(ctx context.Context, id uuid.UUID, at time.Time) error
}

type SaleRepository interface {
	// WithTx runs fn inside one database transaction. A non-nil error from fn
	// rolls back every write made through the SaleTx.
	WithTx(ctx context.Context, fn func(tx SaleTx) error) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) WithTx(ctx context.Context, fn func(tx SaleTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSaleTx{tx: tx})
	})
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Customer").
		Preload("Mechanic").
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if filter.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", filter.Date, time.Local)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid date %q: %w", filter.Date, err)
		}
		q = q.Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1))
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Customer").Preload("Mechanic").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error
	return sales, total, err
}

// ── gorm unit of work ────────────────────────────────────────────────────────

type gormSaleTx struct{ tx *gorm.DB }

func (t *gormSaleTx) NextInvoiceSeq(ctx context.Context) (int64, error) {
	var n int64
	err := t.tx.WithContext(ctx).Raw("SELECT nextval('sales_invoice_seq')").Scan(&n).Error
	return n, err
}

func (t *gormSaleTx) exists(ctx context.Context, m interface{}, id uuid.UUID) (bool, error) {
	var n int64
	err := t.tx.WithContext(ctx).Model(m).Where("id = ?", id).Limit(1).Count(&n).Error
	return n > 0, err
}

func (t *gormSaleTx) CustomerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return t.exists(ctx, &model.Customer{}, id)
}

func (t *gormSaleTx) MechanicExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return t.exists(ctx, &model.Mechanic{}, id)
}

func (t *gormSaleTx) ServiceExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return t.exists(ctx, &model.Service{}, id)
}

// CreateSale inserts only the sale row; items go through CreateItem so their
// order and the interleaved stock updates stay under the caller's control.
func (t *gormSaleTx) CreateSale(ctx context.Context, s *model.Sale) error {
	return translate(t.tx.WithContext(ctx).Omit(clause.Associations).Create(s).Error)
}

func (t *gormSaleTx) CreateItem(ctx context.Context, item *model.SaleItem) error {
	return translate(t.tx.WithContext(ctx).Create(item).Error)
}

func (t *gormSaleTx) DecrementStock(ctx context.Context, productID uuid.UUID, qty int, allowNegative bool) (StockChange, error) {
	// Row lock so the before/after values recorded in the movement are exact.
	var p model.Product
	err := t.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "code", "stock").
		First(&p, "id = ?", productID).Error
	if err != nil {
		return StockChange{}, translate(err)
	}

	q := t.tx.WithContext(ctx).Model(&model.Product{}).Where("id = ?", productID)
	if !allowNegative {
		q = q.Where("stock >= ?", qty)
	}
	res := q.Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return StockChange{}, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return StockChange{}, ErrInsufficientStock
	}

	return StockChange{
		ProductID: p.ID,
		Code:      p.Code,
		Before:    p.Stock,
		After:     p.Stock - qty,
	}, nil
}

func (t *gormSaleTx) CreateMovement(ctx context.Context, m *model.StockMovement) error {
	return translate(t.tx.WithContext(ctx).Create(m).Error)
}

func (t *gormSaleTx) TouchCustomer(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := t.tx.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", id).
		UpdateColumn("last_service", at)
	if err := affected(res); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
