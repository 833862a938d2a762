package request

import (
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CreateUserRequest represents the user creation payload.
type CreateUserRequest struct {
	Name           string          `json:"name" binding:"required"`
	Username       string          `json:"username" binding:"required"`
	Password       string          `json:"password" binding:"required,min=6"`
	Contact        *string         `json:"contact,omitempty"`
	Address        *string         `json:"address,omitempty"`
	Role           enum.Role       `json:"role" binding:"required"`
	OpeningBalance decimal.Decimal `json:"opening_balance,omitempty"`
}
