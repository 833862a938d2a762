package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a sellable item. Three price columns exist because
// retailers and workshops buy at different rates than walk-in sales.
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	SKU           string          `gorm:"size:100;uniqueIndex;column:sku" json:"sku"`
	Unit          string          `gorm:"size:50" json:"unit"`
	UnitValue     decimal.Decimal `gorm:"type:numeric(14,2);default:1" json:"unit_value"`
	ProductPrice  decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"product_price"`
	RetailPrice   decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"retail_price"`
	WorkshopPrice decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"workshop_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Business Business `gorm:"foreignKey:BusinessID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// PriceForRole returns the unit price the given role pays for this product.
func (p *Product) PriceForRole(role enum.Role) decimal.Decimal {
	switch role {
	case enum.RoleRetailer:
		return p.RetailPrice
	case enum.RoleWorkshop:
		return p.WorkshopPrice
	}
	return p.ProductPrice
}
