package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer status values.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Customer is a workshop client. LastService is stamped by sale recording.
type Customer struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Phone       string
	Email       *string
	Address     string
	Status      string `gorm:"type:varchar(20);not null;default:'Active'"`
	LastService *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
