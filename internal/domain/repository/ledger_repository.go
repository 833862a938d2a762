package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LedgerRepository defines the interface for the append-only ledger.
// There is no Update or Delete: entries are written once and kept
// forever as the source of truth for customer balances.
type LedgerRepository interface {
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	// LastEntry returns the most recent entry for the customer ordered
	// by (created_at, id) descending, or nil when none exists.
	LastEntry(ctx context.Context, userID uuid.UUID) (*entity.LedgerEntry, error)
	// History returns entries ordered by (created_at, id) ascending.
	// Callers render running-balance tables top to bottom, so the
	// ascending order is part of the contract.
	History(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]entity.LedgerEntry, error)
	Totals(ctx context.Context, userID uuid.UUID) (*CustomerTotals, error)
	CustomerBalances(ctx context.Context) ([]CustomerBalance, error)
}

// CustomerTotals aggregates a customer's billing and payment activity.
type CustomerTotals struct {
	TotalBills    int64           `json:"total_bills"`
	TotalPayments int64           `json:"total_payments"`
	TotalBilled   decimal.Decimal `json:"total_billed"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
}

// CustomerBalance is one row of the all-customers balance overview.
type CustomerBalance struct {
	UserID         uuid.UUID       `json:"user_id"`
	Name           string          `json:"name"`
	Contact        *string         `json:"contact,omitempty"`
	Role           string          `json:"role"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	TotalBills     int64           `json:"total_bills"`
}
