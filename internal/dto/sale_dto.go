package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SaleItemRequest is one cart line. Name is display-only and never persisted.
type SaleItemRequest struct {
	Type     string          `json:"type"     validate:"required,oneof=product service"`
	ID       string          `json:"id"       validate:"required,uuid"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity" validate:"required,gt=0"`
	Price    decimal.Decimal `json:"price"    validate:"min=0"`
	Subtotal decimal.Decimal `json:"subtotal" validate:"min=0"`
}

// RecordSaleRequest is the checkout payload. TotalAmount is computed by the
// caller and stored as given.
type RecordSaleRequest struct {
	CustomerID    *string           `json:"customer_id"    validate:"omitempty,uuid"`
	MechanicID    *string           `json:"mechanic_id"    validate:"omitempty,uuid"`
	Items         []SaleItemRequest `json:"items"          validate:"required,min=1,dive"`
	TotalAmount   decimal.Decimal   `json:"total_amount"   validate:"min=0"`
	Discount      decimal.Decimal   `json:"discount"       validate:"min=0"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=Cash Transfer Debit QRIS"`
}

// SaleFilter is bound from the query string of GET /api/transactions.
type SaleFilter struct {
	Date  string `form:"date"` // YYYY-MM-DD; empty = all dates
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RecordSaleResponse struct {
	ID        string `json:"id"`
	InvoiceNo string `json:"invoice_no"`
	CreatedAt string `json:"created_at"`
}

// Monetary fields are pointers so they can be withheld from roles without
// finance access.
type SaleListItem struct {
	ID            string           `json:"id"`
	InvoiceNo     string           `json:"invoice_no"`
	CustomerID    *string          `json:"customer_id"`
	CustomerName  string           `json:"customer_name,omitempty"`
	MechanicID    *string          `json:"mechanic_id"`
	MechanicName  string           `json:"mechanic_name,omitempty"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
	Discount      *decimal.Decimal `json:"discount"`
	PaymentMethod string           `json:"payment_method"`
	CreatedAt     string           `json:"created_at"`
}

type SaleItemResponse struct {
	Position int              `json:"position"`
	Type     string           `json:"type"`
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Quantity int              `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
	Subtotal *decimal.Decimal `json:"subtotal"`
}

type SaleDetailResponse struct {
	SaleListItem
	Items []SaleItemResponse `json:"items"`
}

type ListMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// ReceiptFile describes a rendered receipt PDF.
type ReceiptFile struct {
	SaleID        string
	InvoiceNo     string
	Path          string
	CustomerName  string
	CustomerEmail *string
	Total         decimal.Decimal
}
