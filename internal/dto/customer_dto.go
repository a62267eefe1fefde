package dto

import "github.com/shopspring/decimal"

// ─── Customers ───────────────────────────────────────────────────────────────

type CustomerRequest struct {
	Name    string  `json:"name"    validate:"required,min=1,max=150"`
	Phone   string  `json:"phone"   validate:"omitempty,max=30"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address string  `json:"address" validate:"omitempty,max=300"`
	Status  string  `json:"status"  validate:"omitempty,oneof=Active Inactive"`
}

type CustomerResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Email       *string `json:"email"`
	Address     string  `json:"address"`
	Status      string  `json:"status"`
	LastService *string `json:"last_service"`
	CreatedAt   string  `json:"created_at"`
}

// ─── Mechanics ───────────────────────────────────────────────────────────────

type MechanicRequest struct {
	Name           string          `json:"name"            validate:"required,min=1,max=150"`
	Phone          string          `json:"phone"           validate:"omitempty,max=30"`
	Role           string          `json:"role"            validate:"omitempty,max=60"`
	Specialty      string          `json:"specialty"       validate:"omitempty,max=120"`
	CommissionRate decimal.Decimal `json:"commission_rate" validate:"min=0,max=100"`
	Rating         decimal.Decimal `json:"rating"          validate:"min=0,max=5"`
	Status         string          `json:"status"          validate:"omitempty,oneof=Active Inactive"`
}

type MechanicResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Role           string          `json:"role"`
	Specialty      string          `json:"specialty"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Rating         decimal.Decimal `json:"rating"`
	TotalJobs      int             `json:"total_jobs"`
	Status         string          `json:"status"`
	CreatedAt      string          `json:"created_at"`
}
