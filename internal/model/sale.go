package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line item kinds.
const (
	ItemKindProduct = "product"
	ItemKindService = "service"
)

// Sale is one completed checkout. It is created exactly once and never mutated.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNo     string          `gorm:"uniqueIndex;not null"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index"`
	MechanicID    *uuid.UUID      `gorm:"type:uuid;index"`
	CashierID     *uuid.UUID      `gorm:"type:uuid"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	CreatedAt     time.Time       `gorm:"index"`

	Items    []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Customer *Customer  `gorm:"foreignKey:CustomerID"`
	Mechanic *Mechanic  `gorm:"foreignKey:MechanicID"`
}

// SaleItem is an immutable line of a Sale. Position keeps the caller's order.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Position  int             `gorm:"not null"`
	ItemType  string          `gorm:"type:varchar(10);not null"` // "product" | "service"
	ItemID    uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}
