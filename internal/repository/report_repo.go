package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"motofix/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportRepository runs the summation queries behind the dashboard and the
// profit/loss report. Ranges are half-open: [from, to).
type ReportRepository interface {
	SumSales(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	CountSales(ctx context.Context, from, to time.Time) (int64, error)
	SumExpenses(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	CountLowStock(ctx context.Context) (int64, error)
	// MonthlySales / MonthlyExpenses return totals indexed by month-1.
	MonthlySales(ctx context.Context, year int) ([12]decimal.Decimal, error)
	MonthlyExpenses(ctx context.Context, year int) ([12]decimal.Decimal, error)
}

type reportRepo struct {
	db  *gorm.DB
	loc *time.Location
}

// NewReportRepository buckets monthly totals by the server's local calendar.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return NewReportRepositoryIn(db, time.Local)
}

// NewReportRepositoryIn buckets monthly totals by the calendar of loc,
// whatever TimeZone the database session uses.
func NewReportRepositoryIn(db *gorm.DB, loc *time.Location) ReportRepository {
	if loc == nil {
		loc = time.Local
	}
	return &reportRepo{db: db, loc: loc}
}

func (r *reportRepo) sum(ctx context.Context, m interface{}, column string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(m).
		Select("COALESCE(SUM("+column+"), 0)").
		Where("created_at >= ? AND created_at < ?", from, to).
		Row().Scan(&total)
	return total, err
}

func (r *reportRepo) SumSales(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, &model.Sale{}, "total_amount", from, to)
}

func (r *reportRepo) SumExpenses(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, &model.Expense{}, "amount", from, to)
}

func (r *reportRepo) CountSales(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *reportRepo) CountLowStock(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("stock <= min_stock").Count(&n).Error
	return n, err
}

// monthly sums column per calendar month of year. Month boundaries are
// computed in r.loc and compared as instants, so a sale at 00:30 local time
// on the 1st lands in the new month regardless of the session time zone.
func (r *reportRepo) monthly(ctx context.Context, m interface{}, column string, year int) ([12]decimal.Decimal, error) {
	var out [12]decimal.Decimal
	var bounds [13]time.Time
	for i := range bounds {
		bounds[i] = time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, r.loc)
	}

	cols := make([]string, len(out))
	args := make([]interface{}, 0, 2*len(out))
	for i := range out {
		cols[i] = fmt.Sprintf("COALESCE(SUM(CASE WHEN created_at >= ? AND created_at < ? THEN %s END), 0)", column)
		args = append(args, bounds[i], bounds[i+1])
	}

	dest := make([]interface{}, len(out))
	for i := range out {
		dest[i] = &out[i]
	}
	err := r.db.WithContext(ctx).Model(m).
		Select(strings.Join(cols, ", "), args...).
		Where("created_at >= ? AND created_at < ?", bounds[0], bounds[12]).
		Row().Scan(dest...)
	return out, err
}

func (r *reportRepo) MonthlySales(ctx context.Context, year int) ([12]decimal.Decimal, error) {
	return r.monthly(ctx, &model.Sale{}, "total_amount", year)
}

func (r *reportRepo) MonthlyExpenses(ctx context.Context, year int) ([12]decimal.Decimal, error) {
	return r.monthly(ctx, &model.Expense{}, "amount", year)
}
