package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillItemRequest is one line of a bill or order creation request.
type BillItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	Rate      *decimal.Decimal `json:"rate,omitempty"`
}

// CreateBillRequest represents the bill creation payload.
// BillDate is YYYY-MM-DD; empty means today.
type CreateBillRequest struct {
	CustomerID    uuid.UUID         `json:"customer_id" binding:"required"`
	StoreID       uuid.UUID         `json:"store_id" binding:"required"`
	BillDate      string            `json:"bill_date,omitempty"`
	VATPercentage decimal.Decimal   `json:"vat_percentage,omitempty"`
	Items         []BillItemRequest `json:"items" binding:"required,min=1"`
}
