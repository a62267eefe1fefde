//go:build integration

// Run with: go test -tags integration ./internal/repository/... -v
package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"motofix/internal/infra"
	"motofix/internal/model"
	"motofix/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:15-alpine",
		tcPostgres.WithDatabase("motofix_test"),
		tcPostgres.WithUsername("motofix"),
		tcPostgres.WithPassword("motofix"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// NewDatabase runs the migrations.
	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, code string, stock int) model.Product {
	t.Helper()
	p := model.Product{Code: code, Name: "Part " + code, SellPrice: decimal.NewFromInt(10000), Stock: stock}
	require.NoError(t, repository.NewProductRepository(db).Create(context.Background(), &p))
	return p
}

func stockOf(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var p model.Product
	require.NoError(t, db.First(&p, "id = ?", id).Error)
	return p.Stock
}

func TestSaleRepo_WithTxRollsBackEveryWrite(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := repository.NewSaleRepository(db)
	p := seedProduct(t, db, "OLI-01", 5)

	boom := errors.New("boom")
	err := repo.WithTx(ctx, func(tx repository.SaleTx) error {
		sale := &model.Sale{ID: uuid.New(), InvoiceNo: "INV-ROLLBACK", TotalAmount: decimal.NewFromInt(20000), PaymentMethod: "Cash"}
		require.NoError(t, tx.CreateSale(ctx, sale))
		require.NoError(t, tx.CreateItem(ctx, &model.SaleItem{
			SaleID: sale.ID, Position: 1, ItemType: model.ItemKindProduct, ItemID: p.ID,
			Quantity: 2, Price: decimal.NewFromInt(10000), Subtotal: decimal.NewFromInt(20000),
		}))
		_, err := tx.DecrementStock(ctx, p.ID, 2, false)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var sales, items int64
	db.Model(&model.Sale{}).Count(&sales)
	db.Model(&model.SaleItem{}).Count(&items)
	assert.Zero(t, sales)
	assert.Zero(t, items)
	assert.Equal(t, 5, stockOf(t, db, p.ID))
}

func TestSaleRepo_DecrementStockIsConditional(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := repository.NewSaleRepository(db)
	p := seedProduct(t, db, "BAN-01", 3)

	err := repo.WithTx(ctx, func(tx repository.SaleTx) error {
		_, err := tx.DecrementStock(ctx, p.ID, 4, false)
		return err
	})
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.Equal(t, 3, stockOf(t, db, p.ID))

	var change repository.StockChange
	err = repo.WithTx(ctx, func(tx repository.SaleTx) error {
		var err error
		change, err = tx.DecrementStock(ctx, p.ID, 4, true)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 3, change.Before)
	assert.Equal(t, -1, change.After)
	assert.Equal(t, -1, stockOf(t, db, p.ID))

	err = repo.WithTx(ctx, func(tx repository.SaleTx) error {
		_, err := tx.DecrementStock(ctx, uuid.New(), 1, false)
		return err
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSaleRepo_ConcurrentDecrementsNeverOversell(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := repository.NewSaleRepository(db)
	p := seedProduct(t, db, "BUSI-01", 5)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		sold     int
		rejected int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.WithTx(ctx, func(tx repository.SaleTx) error {
				_, err := tx.DecrementStock(ctx, p.ID, 1, false)
				return err
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				sold++
			} else if errors.Is(err, repository.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, sold)
	assert.Equal(t, 5, rejected)
	assert.Equal(t, 0, stockOf(t, db, p.ID))
}

func TestSaleRepo_InvoiceSequenceAndUniqueness(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := repository.NewSaleRepository(db)

	var first, second int64
	require.NoError(t, repo.WithTx(ctx, func(tx repository.SaleTx) error {
		var err error
		first, err = tx.NextInvoiceSeq(ctx)
		return err
	}))
	// A rolled-back draw still consumes its value.
	_ = repo.WithTx(ctx, func(tx repository.SaleTx) error {
		_, _ = tx.NextInvoiceSeq(ctx)
		return errors.New("abort")
	})
	require.NoError(t, repo.WithTx(ctx, func(tx repository.SaleTx) error {
		var err error
		second, err = tx.NextInvoiceSeq(ctx)
		return err
	}))
	assert.Equal(t, first+2, second)

	create := func() error {
		return repo.WithTx(ctx, func(tx repository.SaleTx) error {
			return tx.CreateSale(ctx, &model.Sale{
				ID: uuid.New(), InvoiceNo: "INV-DUP", TotalAmount: decimal.Zero, PaymentMethod: "Cash",
			})
		})
	}
	require.NoError(t, create())
	assert.ErrorIs(t, create(), repository.ErrDuplicate)
}

func TestSaleRepo_TouchCustomer(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := repository.NewSaleRepository(db)

	c := model.Customer{Name: "Andi", Phone: "0812000111"}
	require.NoError(t, db.Create(&c).Error)

	at := time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.WithTx(ctx, func(tx repository.SaleTx) error {
		return tx.TouchCustomer(ctx, c.ID, at)
	}))

	var got model.Customer
	require.NoError(t, db.First(&got, "id = ?", c.ID).Error)
	require.NotNil(t, got.LastService)
	assert.True(t, at.Equal(*got.LastService))

	err := repo.WithTx(ctx, func(tx repository.SaleTx) error {
		return tx.TouchCustomer(ctx, uuid.New(), at)
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
