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

// PaymentService records customer payments. Each payment and its credit
// ledger entry are written in one transaction under the payer's row
// lock, the same discipline bill posting uses.
type PaymentService struct {
	uow         repository.UnitOfWork
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	ledger      *LedgerService
	policy      *access.Policy
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	uow repository.UnitOfWork,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	ledger *LedgerService,
	policy *access.Policy,
) *PaymentService {
	return &PaymentService{
		uow:         uow,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		ledger:      ledger,
		policy:      policy,
	}
}

// CreatePaymentInput is the payment recording request.
type CreatePaymentInput struct {
	PayerUserID   uuid.UUID       `json:"payer_user_id"`
	PaymentDate   time.Time       `json:"payment_date"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	Remarks       *string         `json:"remarks,omitempty"`
}

// CreatePaymentResult reports the payment and the balance movement it
// caused.
type CreatePaymentResult struct {
	PaymentID       uuid.UUID       `json:"payment_id"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
}

// CreatePayment records a payment from a customer and credits their
// ledger. Overpayment is allowed; the balance simply goes negative.
func (s *PaymentService) CreatePayment(ctx context.Context, principal access.Principal, input CreatePaymentInput) (*CreatePaymentResult, error) {
	if !s.policy.Allows(principal.Role, access.CanRecordPayments) {
		return nil, apperror.NewForbiddenError("Access denied. You do not have permission to record payments.")
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}

	var result *CreatePaymentResult
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		payer, err := s.userRepo.GetForUpdate(ctx, input.PayerUserID)
		if err != nil {
			return err
		}
		if payer == nil {
			return apperror.NewNotFoundError("Customer")
		}
		if !payer.Role.IsCustomer() {
			return apperror.NewBadRequestError("Payments can only be recorded for retailer or workshop customers")
		}

		paymentDate := input.PaymentDate
		if paymentDate.IsZero() {
			paymentDate = time.Now()
		}

		payment := &entity.Payment{
			BusinessID:    payer.BusinessID,
			PayerUserID:   payer.ID,
			PaymentDate:   paymentDate,
			AmountPaid:    input.Amount,
			PaymentMethod: input.PaymentMethod,
			TransactionID: input.TransactionID,
			ReceivedBy:    principal.ID,
			Remarks:       input.Remarks,
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		remarks := "Payment received"
		if input.Remarks != nil && *input.Remarks != "" {
			remarks = *input.Remarks
		}
		entry, err := s.ledger.Post(ctx, PostEntryInput{
			Customer:    payer,
			EntryType:   enum.EntryTypeCredit,
			Amount:      payment.AmountPaid,
			ReferenceID: payment.ID,
			StoreID:     payer.StoreID,
			Remarks:     remarks,
		})
		if err != nil {
			return err
		}

		result = &CreatePaymentResult{
			PaymentID:       payment.ID,
			AmountPaid:      payment.AmountPaid,
			PreviousBalance: entry.BalanceAfter.Add(payment.AmountPaid),
			NewBalance:      entry.BalanceAfter,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PaymentService) validate(input CreatePaymentInput) error {
	var fieldErrors []apperror.FieldError
	if input.PayerUserID == uuid.Nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "payer_user_id", Message: "payer_user_id is required"})
	}
	if !input.Amount.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "amount", Message: "amount must be greater than zero"})
	}
	if input.PaymentMethod == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "payment_method", Message: "payment_method is required"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// ListPayments returns payments matching the filters. Customers are
// pinned to their own payments.
func (s *PaymentService) ListPayments(ctx context.Context, principal access.Principal, params *repository.PaymentFilterParams) ([]entity.Payment, int64, error) {
	if !s.policy.Allows(principal.Role, access.CanViewAllLedgers) {
		own := principal.ID
		params.PayerUserID = &own
	}
	return s.paymentRepo.List(ctx, params)
}
