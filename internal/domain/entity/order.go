package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order mirrors the shape of a Bill but carries a status lifecycle and
// does not post to the ledger.
type Order struct {
	ID                   uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID           uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_orders_business_number" json:"business_id"`
	StoreID              uuid.UUID        `gorm:"type:uuid;not null;index" json:"store_id"`
	UserID               uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedBy            uuid.UUID        `gorm:"type:uuid;not null" json:"created_by"`
	OrderNumber          string           `gorm:"size:100;not null;uniqueIndex:idx_orders_business_number" json:"order_number"`
	OrderDate            time.Time        `gorm:"type:date;not null" json:"order_date"`
	ExpectedDeliveryDate *time.Time       `gorm:"type:date" json:"expected_delivery_date,omitempty"`
	Status               enum.OrderStatus `gorm:"default:0" json:"status"`
	SubTotal             decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"sub_total"`
	TotalAmount          decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"total_amount"`
	TotalQuantity        decimal.Decimal  `gorm:"type:numeric(14,2);not null" json:"total_quantity"`
	TotalItems           int              `gorm:"not null" json:"total_items"`
	Remarks              *string          `gorm:"type:text" json:"remarks,omitempty"`
	CreatedAt            time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`

	// Relationships
	Business      Business            `gorm:"foreignKey:BusinessID" json:"-"`
	Store         Store               `gorm:"foreignKey:StoreID" json:"-"`
	Customer      User                `gorm:"foreignKey:UserID" json:"-"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	StatusChanges []OrderStatusChange `gorm:"foreignKey:OrderID" json:"status_changes,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// StatusTrail renders the human-readable audit trail from the
// append-only status change records, oldest first.
func (o *Order) StatusTrail() string {
	var sb strings.Builder
	for _, change := range o.StatusChanges {
		sb.WriteString(change.TrailLine())
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// OrderItem represents one line of an order, same shape as BillItem.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"quantity"`
	BaseUnitQty decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"base_unit_qty"`
	Rate        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"rate"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"line_total"`
	CreatedAt   time.Time       `json:"created_at"`

	// Relationships
	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderStatusChange is an append-only record of one status transition.
// Records are never updated or deleted; the readable remarks trail is
// rendered from them.
type OrderStatusChange struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	OrderID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"order_id"`
	ChangedBy  uuid.UUID        `gorm:"type:uuid;not null" json:"changed_by"`
	FromStatus enum.OrderStatus `gorm:"not null" json:"from_status"`
	ToStatus   enum.OrderStatus `gorm:"not null" json:"to_status"`
	Reason     *string          `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt  time.Time        `gorm:"index" json:"created_at"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new status change
func (sc *OrderStatusChange) BeforeCreate(tx *gorm.DB) error {
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderStatusChange model
func (OrderStatusChange) TableName() string {
	return "order_status_changes"
}

// TrailLine formats one transition the way the remarks trail shows it.
func (sc *OrderStatusChange) TrailLine() string {
	line := fmt.Sprintf("[%s] Status changed to %s by user %s",
		sc.CreatedAt.Format("2006-01-02 15:04:05"), sc.ToStatus, sc.ChangedBy)
	if sc.Reason != nil && *sc.Reason != "" {
		line += " - " + *sc.Reason
	}
	return line
}
