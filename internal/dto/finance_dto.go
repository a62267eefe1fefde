package dto

import "github.com/shopspring/decimal"

// ─── Expenses ────────────────────────────────────────────────────────────────

type ExpenseRequest struct {
	Description string          `json:"description" validate:"required,min=1,max=300"`
	Amount      decimal.Decimal `json:"amount"      validate:"gt=0"`
	Category    string          `json:"category"    validate:"omitempty,max=60"`
}

type ExpenseFilter struct {
	Start string `form:"start"` // YYYY-MM-DD, inclusive
	End   string `form:"end"`   // YYYY-MM-DD, inclusive
}

type ExpenseResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	CreatedAt   string          `json:"created_at"`
}

// ─── Reports ─────────────────────────────────────────────────────────────────

type ProfitLossQuery struct {
	Start string `form:"start" validate:"required,datetime=2006-01-02"`
	End   string `form:"end"   validate:"required,datetime=2006-01-02"`
}

type ProfitLossResponse struct {
	Start   string          `json:"start"`
	End     string          `json:"end"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

// DashboardStats money fields are nil for roles without finance access.
type DashboardStats struct {
	IncomeToday       *decimal.Decimal `json:"incomeToday"`
	ExpenseToday      *decimal.Decimal `json:"expenseToday"`
	TransactionsToday int64            `json:"transactionsToday"`
	LowStockCount     int64            `json:"lowStockCount"`
}

type MonthlyProfit struct {
	Name    string          `json:"name"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}
