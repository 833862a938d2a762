package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bill is an immutable record of a sale. It is created once inside a
// single transaction together with its items and the debit ledger entry,
// and is never updated or deleted afterwards. Compensation happens
// through payments, not edits.
type Bill struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID    uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_bills_business_number" json:"business_id"`
	StoreID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	SalesBy       uuid.UUID       `gorm:"type:uuid;not null" json:"sales_by"`
	BillNumber    string          `gorm:"size:100;not null;uniqueIndex:idx_bills_business_number" json:"bill_number"`
	BillDate      time.Time       `gorm:"type:date;not null" json:"bill_date"`
	SubTotal      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"sub_total"`
	VATTotal      decimal.Decimal `gorm:"type:numeric(14,2);not null;column:vat_total" json:"vat_total"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_amount"`
	TotalQuantity decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_quantity"`
	TotalItems    int             `gorm:"not null" json:"total_items"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`

	// Relationships
	Business Business   `gorm:"foreignKey:BusinessID" json:"-"`
	Store    Store      `gorm:"foreignKey:StoreID" json:"-"`
	Customer User       `gorm:"foreignKey:UserID" json:"-"`
	Items    []BillItem `gorm:"foreignKey:BillID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// BillItem represents one line of a bill.
// LineTotal = Quantity x Rate, BaseUnitQty = Quantity x the product's
// unit value at billing time.
type BillItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BillID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"bill_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"quantity"`
	BaseUnitQty decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"base_unit_qty"`
	Rate        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"rate"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"line_total"`
	CreatedAt   time.Time       `json:"created_at"`

	// Relationships
	Bill    Bill    `gorm:"foreignKey:BillID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new bill item
func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}
