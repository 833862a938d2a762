package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest represents the payment recording payload.
type CreatePaymentRequest struct {
	PayerUserID   uuid.UUID       `json:"payer_user_id" binding:"required"`
	PaymentDate   string          `json:"payment_date,omitempty"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	Remarks       *string         `json:"remarks,omitempty"`
}
