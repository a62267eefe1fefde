package service

import (
	"context"
	"fmt"
	"time"

	"motofix/internal/dto"
	"motofix/internal/repository"
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type ReportService interface {
	Dashboard(ctx context.Context) (*dto.DashboardStats, error)
	// Charts returns income, expense and profit per calendar month of year.
	Charts(ctx context.Context, year int) ([]dto.MonthlyProfit, error)
	// ProfitLoss sums sales and expenses between two inclusive dates.
	ProfitLoss(ctx context.Context, q dto.ProfitLossQuery) (*dto.ProfitLossResponse, error)
}

type reportService struct {
	repo repository.ReportRepository
	now  func() time.Time
}

func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo, now: time.Now}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardStats, error) {
	from := startOfDay(s.now())
	to := from.AddDate(0, 0, 1)

	income, err := s.repo.SumSales(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum sales: %w", err)
	}
	expense, err := s.repo.SumExpenses(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}
	count, err := s.repo.CountSales(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("count sales: %w", err)
	}
	low, err := s.repo.CountLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("count low stock: %w", err)
	}
	return &dto.DashboardStats{
		IncomeToday:       &income,
		ExpenseToday:      &expense,
		TransactionsToday: count,
		LowStockCount:     low,
	}, nil
}

func (s *reportService) Charts(ctx context.Context, year int) ([]dto.MonthlyProfit, error) {
	if year == 0 {
		year = s.now().Year()
	}
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("%w: year %d", ErrInvalidRange, year)
	}
	income, err := s.repo.MonthlySales(ctx, year)
	if err != nil {
		return nil, err
	}
	expense, err := s.repo.MonthlyExpenses(ctx, year)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MonthlyProfit, 12)
	for i := range out {
		out[i] = dto.MonthlyProfit{
			Name:    monthNames[i],
			Income:  income[i],
			Expense: expense[i],
			Profit:  income[i].Sub(expense[i]),
		}
	}
	return out, nil
}

func (s *reportService) ProfitLoss(ctx context.Context, q dto.ProfitLossQuery) (*dto.ProfitLossResponse, error) {
	start, err := time.ParseInLocation(dateLayout, q.Start, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: start must be YYYY-MM-DD", ErrInvalidRange)
	}
	end, err := time.ParseInLocation(dateLayout, q.End, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: end must be YYYY-MM-DD", ErrInvalidRange)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: start is after end", ErrInvalidRange)
	}
	to := end.AddDate(0, 0, 1)

	income, err := s.repo.SumSales(ctx, start, to)
	if err != nil {
		return nil, err
	}
	expense, err := s.repo.SumExpenses(ctx, start, to)
	if err != nil {
		return nil, err
	}
	return &dto.ProfitLossResponse{
		Start:   q.Start,
		End:     q.End,
		Income:  income,
		Expense: expense,
		Profit:  income.Sub(expense),
	}, nil
}
