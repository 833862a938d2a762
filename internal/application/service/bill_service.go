package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/access"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/nirmalkarki/udharo-api/internal/domain/repository"
	"github.com/nirmalkarki/udharo-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// BillService coordinates bill posting: one transaction creates the
// bill, its items and the debit ledger entry, or none of them.
type BillService struct {
	uow           repository.UnitOfWork
	billRepo      repository.BillRepository
	userRepo      repository.UserRepository
	storeRepo     repository.StoreRepository
	productRepo   repository.ProductRepository
	ledger        *LedgerService
	sequence      *SequenceGenerator
	policy        *access.Policy
	numberRetries int
}

// NewBillService creates a new bill service
func NewBillService(
	uow repository.UnitOfWork,
	billRepo repository.BillRepository,
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	ledger *LedgerService,
	sequence *SequenceGenerator,
	policy *access.Policy,
	numberRetries int,
) *BillService {
	if numberRetries < 1 {
		numberRetries = 1
	}
	return &BillService{
		uow:           uow,
		billRepo:      billRepo,
		userRepo:      userRepo,
		storeRepo:     storeRepo,
		productRepo:   productRepo,
		ledger:        ledger,
		sequence:      sequence,
		policy:        policy,
		numberRetries: numberRetries,
	}
}

// BillLineInput is one requested line of a bill. Rate is optional; when
// omitted the customer's role price for the product is used.
type BillLineInput struct {
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Rate      *decimal.Decimal `json:"rate,omitempty"`
}

// CreateBillInput is the posting request.
type CreateBillInput struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	StoreID    uuid.UUID       `json:"store_id"`
	BillDate   time.Time       `json:"bill_date"`
	VATPercent decimal.Decimal `json:"vat_percentage"`
	Items      []BillLineInput `json:"items"`
}

// CreateBillResult is returned to the caller after a successful posting.
type CreateBillResult struct {
	BillID      uuid.UUID       `json:"bill_id"`
	BillNumber  string          `json:"bill_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	NewBalance  decimal.Decimal `json:"new_balance"`
}

// CreateBill posts a bill for a customer. The whole posting runs inside
// one transaction holding a row lock on the customer, so concurrent
// postings for the same customer serialize and the ledger chain stays
// consistent. A duplicate bill number from a concurrent transaction
// restarts the posting with a fresh number, a bounded number of times.
func (s *BillService) CreateBill(ctx context.Context, principal access.Principal, input CreateBillInput) (*CreateBillResult, error) {
	if !s.policy.Allows(principal.Role, access.CanCreateBills) {
		return nil, apperror.NewForbiddenError("Access denied. You do not have permission to create bills.")
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}

	var result *CreateBillResult
	var err error
	for attempt := 1; attempt <= s.numberRetries; attempt++ {
		result, err = s.post(ctx, principal, input)
		if !errors.Is(err, repository.ErrDuplicateNumber) {
			break
		}
		log.Printf("bill number collision, retrying (%d/%d)", attempt, s.numberRetries)
	}
	if errors.Is(err, repository.ErrDuplicateNumber) {
		return nil, apperror.NewConflictError("Could not allocate a bill number, please retry")
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *BillService) validate(input CreateBillInput) error {
	var fieldErrors []apperror.FieldError
	if input.CustomerID == uuid.Nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "customer_id", Message: "customer_id is required"})
	}
	if input.StoreID == uuid.Nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "store_id", Message: "store_id is required"})
	}
	if len(input.Items) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "items", Message: "at least one item is required"})
	}
	for i, item := range input.Items {
		if item.ProductID == uuid.Nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].product_id", i),
				Message: "product_id is required",
			})
		}
		if !item.Quantity.IsPositive() {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must be greater than zero",
			})
		}
		if item.Rate != nil && item.Rate.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].rate", i),
				Message: "rate cannot be negative",
			})
		}
	}
	if input.VATPercent.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "vat_percentage", Message: "vat_percentage cannot be negative"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// post runs one posting attempt inside its own transaction.
func (s *BillService) post(ctx context.Context, principal access.Principal, input CreateBillInput) (*CreateBillResult, error) {
	var result *CreateBillResult

	err := s.uow.Do(ctx, func(ctx context.Context) error {
		customer, err := s.userRepo.GetForUpdate(ctx, input.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.NewNotFoundError("Customer")
		}
		if !customer.Role.IsCustomer() {
			return apperror.NewBadRequestError("Bills can only be created for retailer or workshop customers")
		}

		store, err := s.storeRepo.GetByID(ctx, input.StoreID)
		if err != nil {
			return err
		}
		if store == nil {
			return apperror.NewNotFoundError("Store")
		}

		products, err := s.loadProducts(ctx, input.Items)
		if err != nil {
			return err
		}

		billNumber, err := s.sequence.Next(ctx, input.StoreID, enum.DocumentKindBill)
		if err != nil {
			return err
		}

		billDate := input.BillDate
		if billDate.IsZero() {
			billDate = time.Now()
		}

		bill := &entity.Bill{
			BusinessID: customer.BusinessID,
			StoreID:    input.StoreID,
			UserID:     customer.ID,
			SalesBy:    principal.ID,
			BillNumber: billNumber,
			BillDate:   billDate,
		}

		items := make([]entity.BillItem, 0, len(input.Items))
		subTotal := decimal.Zero
		totalQuantity := decimal.Zero
		totalItems := decimal.Zero
		for _, line := range input.Items {
			product := products[line.ProductID]
			rate := product.PriceForRole(customer.Role)
			if line.Rate != nil {
				rate = *line.Rate
			}
			lineTotal := line.Quantity.Mul(rate).Round(2)
			baseUnitQty := line.Quantity.Mul(product.UnitValue).Round(2)

			items = append(items, entity.BillItem{
				ProductID:   product.ID,
				Quantity:    line.Quantity,
				BaseUnitQty: baseUnitQty,
				Rate:        rate,
				LineTotal:   lineTotal,
			})
			subTotal = subTotal.Add(lineTotal)
			totalQuantity = totalQuantity.Add(baseUnitQty)
			totalItems = totalItems.Add(line.Quantity)
		}

		bill.SubTotal = subTotal
		// VAT is accepted on the request but not applied; the total is
		// the sub total until taxation is switched on.
		bill.VATTotal = decimal.Zero
		bill.TotalAmount = subTotal
		bill.TotalQuantity = totalQuantity
		bill.TotalItems = int(totalItems.IntPart())

		if err := s.billRepo.Create(ctx, bill); err != nil {
			return err
		}
		for i := range items {
			items[i].BillID = bill.ID
		}
		if err := s.billRepo.CreateItems(ctx, items); err != nil {
			return err
		}

		storeID := input.StoreID
		entry, err := s.ledger.Post(ctx, PostEntryInput{
			Customer:    customer,
			EntryType:   enum.EntryTypeDebit,
			Amount:      bill.TotalAmount,
			ReferenceID: bill.ID,
			StoreID:     &storeID,
			Remarks:     "Bill " + bill.BillNumber,
		})
		if err != nil {
			return err
		}

		result = &CreateBillResult{
			BillID:      bill.ID,
			BillNumber:  bill.BillNumber,
			TotalAmount: bill.TotalAmount,
			NewBalance:  entry.BalanceAfter,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *BillService) loadProducts(ctx context.Context, lines []BillLineInput) (map[uuid.UUID]entity.Product, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, apperror.NewNotFoundError("Product " + id.String())
		}
	}
	return byID, nil
}

// GetBill returns one bill with its items. Customers can only read
// their own bills.
func (s *BillService) GetBill(ctx context.Context, principal access.Principal, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	if !s.policy.CanAccessUserData(principal, bill.UserID) {
		return nil, apperror.NewForbiddenError("Access denied. You can only view your own bills.")
	}
	return bill, nil
}

// ListBills returns bills matching the filters. Callers without the
// view-all capability are pinned to their own bills regardless of the
// requested filter.
func (s *BillService) ListBills(ctx context.Context, principal access.Principal, params *repository.BillFilterParams) ([]entity.Bill, int64, error) {
	if !s.policy.Allows(principal.Role, access.CanViewAllBills) {
		own := principal.ID
		params.UserID = &own
	}
	return s.billRepo.List(ctx, params)
}
