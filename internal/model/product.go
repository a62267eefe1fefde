package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a stocked spare part or consumable.
// Stock changes only through sales (decrement) and catalog edits (absolute set);
// both leave a StockMovement behind.
type Product struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code       string          `gorm:"uniqueIndex;not null"`
	Name       string          `gorm:"index;not null"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index"`
	BuyPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SellPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Stock      int             `gorm:"not null;default:0"`
	MinStock   int             `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}

// LowStock reports whether the product sits at or below its reorder threshold.
func (p *Product) LowStock() bool { return p.Stock <= p.MinStock }
