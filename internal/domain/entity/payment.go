package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment records money received from a customer. Immutable once
// created; it is always accompanied by a credit ledger entry written in
// the same transaction.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	PayerUserID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"payer_user_id"`
	PaymentDate   time.Time       `gorm:"type:date;not null" json:"payment_date"`
	AmountPaid    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount_paid"`
	PaymentMethod string          `gorm:"size:50;not null" json:"payment_method"`
	TransactionID *string         `gorm:"size:255" json:"transaction_id,omitempty"`
	ReceivedBy    uuid.UUID       `gorm:"type:uuid;not null" json:"received_by"`
	Remarks       *string         `gorm:"type:text" json:"remarks,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`

	// Relationships
	Business Business `gorm:"foreignKey:BusinessID" json:"-"`
	Payer    User     `gorm:"foreignKey:PayerUserID" json:"-"`
	Receiver User     `gorm:"foreignKey:ReceivedBy" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
