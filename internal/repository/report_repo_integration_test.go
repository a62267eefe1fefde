//go:build integration

// Run with: go test -tags integration ./internal/repository/... -v
package repository_test

import (
	"context"
	"testing"
	"time"

	"motofix/internal/model"
	"motofix/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSaleAt(t *testing.T, db *gorm.DB, invoice string, amount int64, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&model.Sale{
		ID: uuid.New(), InvoiceNo: invoice, TotalAmount: decimal.NewFromInt(amount),
		PaymentMethod: "Cash", CreatedAt: at,
	}).Error)
}

func TestReportRepo_MonthlyBucketsByShopCalendar(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	// The container session runs in UTC; the shop is seven hours ahead.
	wib := time.FixedZone("WIB", 7*60*60)
	repo := repository.NewReportRepositoryIn(db, wib)

	seedSaleAt(t, db, "INV-JAN-LATE", 100000, time.Date(2026, time.January, 31, 23, 30, 0, 0, wib))
	seedSaleAt(t, db, "INV-FEB-EARLY", 40000, time.Date(2026, time.February, 1, 0, 30, 0, 0, wib))
	seedSaleAt(t, db, "INV-PREV-YEAR", 7000, time.Date(2025, time.December, 31, 23, 59, 0, 0, wib))
	seedSaleAt(t, db, "INV-NEW-YEAR", 9000, time.Date(2026, time.January, 1, 0, 5, 0, 0, wib))
	require.NoError(t, db.Create(&model.Expense{
		Description: "Sewa", Amount: decimal.NewFromInt(25000),
		CreatedAt: time.Date(2026, time.March, 1, 0, 15, 0, 0, wib),
	}).Error)

	sales, err := repo.MonthlySales(ctx, 2026)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(109000).Equal(sales[0]), "january: %s", sales[0])
	assert.True(t, decimal.NewFromInt(40000).Equal(sales[1]), "february: %s", sales[1])
	for m := 2; m < 12; m++ {
		assert.True(t, sales[m].IsZero(), "month %d: %s", m+1, sales[m])
	}

	expenses, err := repo.MonthlyExpenses(ctx, 2026)
	require.NoError(t, err)
	assert.True(t, expenses[1].IsZero())
	assert.True(t, decimal.NewFromInt(25000).Equal(expenses[2]))

	prev, err := repo.MonthlySales(ctx, 2025)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(7000).Equal(prev[11]))
}
