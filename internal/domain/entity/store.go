package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store represents a physical store belonging to a business.
// Store names prefix generated document numbers; a rename changes the
// prefix of numbers generated afterwards and leaves older numbers as-is.
type Store struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_stores_business_name" json:"business_id"`
	Name       string    `gorm:"size:255;not null;uniqueIndex:idx_stores_business_name" json:"name"`
	Address    *string   `gorm:"type:text" json:"address,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Business Business `gorm:"foreignKey:BusinessID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new store
func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Store model
func (Store) TableName() string {
	return "stores"
}
