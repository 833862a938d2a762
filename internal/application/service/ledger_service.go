package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/access"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/nirmalkarki/udharo-api/internal/domain/repository"
	"github.com/nirmalkarki/udharo-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// LedgerService is the append-only ledger engine. Posting reads the
// customer's most recent entry, computes the new running balance and
// appends a new entry with that balance snapshotted in balance_after.
// Historical balances are never recomputed or back-filled.
type LedgerService struct {
	ledgerRepo repository.LedgerRepository
	userRepo   repository.UserRepository
	policy     *access.Policy
}

// NewLedgerService creates a new ledger service
func NewLedgerService(ledgerRepo repository.LedgerRepository, userRepo repository.UserRepository, policy *access.Policy) *LedgerService {
	return &LedgerService{
		ledgerRepo: ledgerRepo,
		userRepo:   userRepo,
		policy:     policy,
	}
}

// PostEntryInput describes one balance-affecting event.
type PostEntryInput struct {
	// Customer must be loaded under the posting transaction's row lock
	// so concurrent postings for the same customer serialize.
	Customer    *entity.User
	EntryType   enum.EntryType
	Amount      decimal.Decimal
	ReferenceID uuid.UUID
	StoreID     *uuid.UUID
	Remarks     string
}

// Post appends a ledger entry. The baseline is the balance_after of the
// customer's most recent entry, or the opening balance when no entries
// exist yet. Debit adds the amount to the baseline, Credit subtracts it.
//
// Post must be called inside the posting transaction; authorization is
// the coordinator's responsibility.
func (s *LedgerService) Post(ctx context.Context, input PostEntryInput) (*entity.LedgerEntry, error) {
	if input.Customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	if !input.EntryType.Valid() {
		return nil, apperror.NewBadRequestError("Invalid ledger entry type")
	}
	if input.Amount.IsNegative() {
		return nil, apperror.NewBadRequestError("Ledger amount cannot be negative")
	}

	baseline := input.Customer.OpeningBalance
	last, err := s.ledgerRepo.LastEntry(ctx, input.Customer.ID)
	if err != nil {
		return nil, err
	}
	if last != nil {
		baseline = last.BalanceAfter
	}

	balance := baseline.Add(input.Amount)
	if input.EntryType == enum.EntryTypeCredit {
		balance = baseline.Sub(input.Amount)
	}

	entry := &entity.LedgerEntry{
		BusinessID:   input.Customer.BusinessID,
		StoreID:      input.StoreID,
		UserID:       input.Customer.ID,
		UserName:     input.Customer.Name,
		ReferenceID:  input.ReferenceID,
		EntryType:    input.EntryType,
		Amount:       input.Amount,
		BalanceAfter: balance,
		Remarks:      input.Remarks,
	}
	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// LedgerHistory is a customer's ledger with the customer's details.
type LedgerHistory struct {
	Customer *entity.User         `json:"customer"`
	Ledger   []entity.LedgerEntry `json:"ledger"`
}

// History returns the customer's ledger entries ordered by
// (created_at, id) ascending, optionally bounded by a date range.
func (s *LedgerService) History(ctx context.Context, principal access.Principal, userID uuid.UUID, from, to *time.Time) (*LedgerHistory, error) {
	if !s.policy.CanAccessUserData(principal, userID) {
		return nil, apperror.NewForbiddenError("Access denied. You can only view your own ledger.")
	}

	customer, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	entries, err := s.ledgerRepo.History(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	return &LedgerHistory{Customer: customer, Ledger: entries}, nil
}

// BalanceSummary is a customer's current balance with activity totals.
type BalanceSummary struct {
	UserID         uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Contact        *string         `json:"contact,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	TotalBills     int64           `json:"total_bills"`
	TotalPayments  int64           `json:"total_payments"`
	TotalBilled    decimal.Decimal `json:"total_billed"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
}

// CurrentBalance returns the customer's current balance: balance_after
// of the most recent entry, or the opening balance with no entries.
func (s *LedgerService) CurrentBalance(ctx context.Context, principal access.Principal, userID uuid.UUID) (*BalanceSummary, error) {
	if !s.policy.CanAccessUserData(principal, userID) {
		return nil, apperror.NewForbiddenError("Access denied. You can only view your own balance.")
	}

	customer, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	balance := customer.OpeningBalance
	last, err := s.ledgerRepo.LastEntry(ctx, userID)
	if err != nil {
		return nil, err
	}
	if last != nil {
		balance = last.BalanceAfter
	}

	totals, err := s.ledgerRepo.Totals(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &BalanceSummary{
		UserID:         customer.ID,
		Name:           customer.Name,
		Contact:        customer.Contact,
		OpeningBalance: customer.OpeningBalance,
		CurrentBalance: balance,
		TotalBills:     totals.TotalBills,
		TotalPayments:  totals.TotalPayments,
		TotalBilled:    totals.TotalBilled,
		TotalPaid:      totals.TotalPaid,
	}, nil
}

// CustomerBalances returns every customer's current balance, highest
// first.
func (s *LedgerService) CustomerBalances(ctx context.Context, principal access.Principal) ([]repository.CustomerBalance, error) {
	if !s.policy.Allows(principal.Role, access.CanViewAllLedgers) {
		return nil, apperror.NewForbiddenError("Access denied")
	}
	return s.ledgerRepo.CustomerBalances(ctx)
}
