package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User represents an account holder: staff and customers share the same
// table, distinguished by role. Retailer and workshop users carry a
// credit ledger seeded by OpeningBalance.
type User struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	StoreID        *uuid.UUID      `gorm:"type:uuid;index" json:"store_id,omitempty"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Username       string          `gorm:"size:255;unique;not null" json:"username"`
	Password       string          `gorm:"size:255" json:"-"`
	Contact        *string         `gorm:"size:50" json:"contact,omitempty"`
	Address        *string         `gorm:"type:text" json:"address,omitempty"`
	Role           enum.Role       `gorm:"not null;index" json:"role"`
	OpeningBalance decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"opening_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Business      Business      `gorm:"foreignKey:BusinessID" json:"-"`
	Store         *Store        `gorm:"foreignKey:StoreID" json:"-"`
	Bills         []Bill        `gorm:"foreignKey:UserID" json:"-"`
	Payments      []Payment     `gorm:"foreignKey:PayerUserID" json:"-"`
	LedgerEntries []LedgerEntry `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
