package dto

import "github.com/shopspring/decimal"

// ─── Products ────────────────────────────────────────────────────────────────

type ProductRequest struct {
	Code       string          `json:"code"        validate:"required,min=1,max=64"`
	Name       string          `json:"name"        validate:"required,min=1,max=200"`
	CategoryID *string         `json:"category_id" validate:"omitempty,uuid"`
	BuyPrice   decimal.Decimal `json:"buy_price"   validate:"min=0"`
	SellPrice  decimal.Decimal `json:"sell_price"  validate:"min=0"`
	Stock      int             `json:"stock"       validate:"min=0"`
	MinStock   int             `json:"min_stock"   validate:"min=0"`
}

type ProductFilter struct {
	Query      string `form:"q"`
	CategoryID string `form:"category_id"`
	LowStock   bool   `form:"low_stock"`
}

type ProductResponse struct {
	ID           string           `json:"id"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	CategoryID   *string          `json:"category_id"`
	CategoryName string           `json:"category_name,omitempty"`
	BuyPrice     *decimal.Decimal `json:"buy_price"`
	SellPrice    decimal.Decimal  `json:"sell_price"`
	Stock        int              `json:"stock"`
	MinStock     int              `json:"min_stock"`
	LowStock     bool             `json:"low_stock"`
}

// ProductLookupResponse is the cached checkout view of a product.
type ProductLookupResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	CategoryName string          `json:"category_name,omitempty"`
	SellPrice    decimal.Decimal `json:"sell_price"`
	Stock        int             `json:"stock"`
}

type StockMovementResponse struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Quantity    int     `json:"quantity"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	Reason      string  `json:"reason"`
	ReferenceID *string `json:"reference_id"`
	CreatedAt   string  `json:"created_at"`
}

// ─── Categories ──────────────────────────────────────────────────────────────

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ─── Services ────────────────────────────────────────────────────────────────

type ServiceRequest struct {
	Name  string          `json:"name"  validate:"required,min=1,max=200"`
	Price decimal.Decimal `json:"price" validate:"min=0"`
}

type ServiceResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
