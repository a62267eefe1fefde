package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mechanic is a workshop technician that can be attached to a sale.
type Mechanic struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string    `gorm:"not null"`
	Phone          string
	Position       string          `gorm:"column:role"`
	Specialty      string
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Rating         decimal.Decimal `gorm:"type:decimal(3,1);not null;default:0"`
	Status         string          `gorm:"type:varchar(20);not null;default:'Active'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// TotalJobs is computed on read (count of sales referencing the mechanic).
	TotalJobs int `gorm:"->;-:migration"`
}
