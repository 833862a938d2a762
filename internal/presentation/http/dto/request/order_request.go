package request

import (
	"github.com/google/uuid"
)

// CreateOrderRequest represents the order creation payload. CustomerID
// is optional and defaults to the caller.
type CreateOrderRequest struct {
	CustomerID           uuid.UUID         `json:"customer_id,omitempty"`
	StoreID              uuid.UUID         `json:"store_id" binding:"required"`
	OrderDate            string            `json:"order_date,omitempty"`
	ExpectedDeliveryDate string            `json:"expected_delivery_date,omitempty"`
	Remarks              *string           `json:"remarks,omitempty"`
	Items                []BillItemRequest `json:"items" binding:"required,min=1"`
}

// ChangeOrderStatusRequest represents a status transition payload.
// Status is the status name: Pending, Processing, Completed, Cancelled.
type ChangeOrderStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Reason *string `json:"reason,omitempty"`
}
