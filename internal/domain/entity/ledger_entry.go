package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerEntry is the append-only log of balance-affecting events for a
// customer. Entries are never updated or deleted. BalanceAfter is a
// write-once snapshot taken when the entry is appended; it is never
// recomputed from history.
//
// ReferenceID points at the originating bill (Debit) or payment
// (Credit), mutually exclusive by entry type.
type LedgerEntry struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	StoreID      *uuid.UUID      `gorm:"type:uuid;index" json:"store_id,omitempty"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_user_created" json:"user_id"`
	UserName     string          `gorm:"size:255;not null" json:"user_name"`
	ReferenceID  uuid.UUID       `gorm:"type:uuid;not null" json:"reference_id"`
	EntryType    enum.EntryType  `gorm:"size:10;not null" json:"entry_type"`
	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	BalanceAfter decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"balance_after"`
	Remarks      string          `gorm:"type:text" json:"remarks"`
	CreatedAt    time.Time       `gorm:"index:idx_ledger_user_created" json:"created_at"`

	// Relationships
	Business Business `gorm:"foreignKey:BusinessID" json:"-"`
	User     User     `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new ledger entry
func (l *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LedgerEntry model
func (LedgerEntry) TableName() string {
	return "ledger"
}

// SignedAmount returns the amount with the sign the entry applies to
// the running balance: positive for debits, negative for credits.
func (l *LedgerEntry) SignedAmount() decimal.Decimal {
	if l.EntryType == enum.EntryTypeCredit {
		return l.Amount.Neg()
	}
	return l.Amount
}
