package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products (oil, tyres, spare parts...).
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
