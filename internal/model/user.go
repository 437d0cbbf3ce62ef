package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the owner scope of every product and ledger row.
type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email           string    `gorm:"uniqueIndex;not null"`
	PasswordHash    string    `gorm:"not null"`
	FirstName       string
	LastName        string
	ProfileImageURL *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
