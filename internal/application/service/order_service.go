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

// OrderService manages customer orders. Orders share the bill's shape
// and numbering discipline but never touch the ledger; money only moves
// when an order is later billed.
type OrderService struct {
	uow           repository.UnitOfWork
	orderRepo     repository.OrderRepository
	userRepo      repository.UserRepository
	storeRepo     repository.StoreRepository
	productRepo   repository.ProductRepository
	sequence      *SequenceGenerator
	policy        *access.Policy
	numberRetries int
}

// NewOrderService creates a new order service
func NewOrderService(
	uow repository.UnitOfWork,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	sequence *SequenceGenerator,
	policy *access.Policy,
	numberRetries int,
) *OrderService {
	if numberRetries < 1 {
		numberRetries = 1
	}
	return &OrderService{
		uow:           uow,
		orderRepo:     orderRepo,
		userRepo:      userRepo,
		storeRepo:     storeRepo,
		productRepo:   productRepo,
		sequence:      sequence,
		policy:        policy,
		numberRetries: numberRetries,
	}
}

// OrderLineInput is one requested line of an order.
type OrderLineInput struct {
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Rate      *decimal.Decimal `json:"rate,omitempty"`
}

// CreateOrderInput is the order creation request.
type CreateOrderInput struct {
	CustomerID           uuid.UUID        `json:"customer_id"`
	StoreID              uuid.UUID        `json:"store_id"`
	OrderDate            time.Time        `json:"order_date"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date,omitempty"`
	Remarks              *string          `json:"remarks,omitempty"`
	Items                []OrderLineInput `json:"items"`
}

// CreateOrderResult is returned after a successful order creation.
type CreateOrderResult struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// CreateOrder creates an order. Callers order for themselves unless
// they hold the order-for-others capability; the check runs on every
// mismatched customer even though no role currently holds it.
func (s *OrderService) CreateOrder(ctx context.Context, principal access.Principal, input CreateOrderInput) (*CreateOrderResult, error) {
	if input.CustomerID == uuid.Nil {
		input.CustomerID = principal.ID
	}
	if input.CustomerID != principal.ID && !s.policy.Allows(principal.Role, access.CanCreateOrderForOthers) {
		return nil, apperror.NewForbiddenError("Access denied. You can only create orders for yourself.")
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}

	var result *CreateOrderResult
	var err error
	for attempt := 1; attempt <= s.numberRetries; attempt++ {
		result, err = s.create(ctx, principal, input)
		if !errors.Is(err, repository.ErrDuplicateNumber) {
			break
		}
		log.Printf("order number collision, retrying (%d/%d)", attempt, s.numberRetries)
	}
	if errors.Is(err, repository.ErrDuplicateNumber) {
		return nil, apperror.NewConflictError("Could not allocate an order number, please retry")
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *OrderService) validate(input CreateOrderInput) error {
	var fieldErrors []apperror.FieldError
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
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func (s *OrderService) create(ctx context.Context, principal access.Principal, input CreateOrderInput) (*CreateOrderResult, error) {
	var result *CreateOrderResult

	err := s.uow.Do(ctx, func(ctx context.Context) error {
		customer, err := s.userRepo.GetByID(ctx, input.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.NewNotFoundError("Customer")
		}
		if !customer.Role.IsCustomer() {
			return apperror.NewBadRequestError("Orders can only be created for retailer or workshop customers")
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

		orderNumber, err := s.sequence.Next(ctx, input.StoreID, enum.DocumentKindOrder)
		if err != nil {
			return err
		}

		orderDate := input.OrderDate
		if orderDate.IsZero() {
			orderDate = time.Now()
		}

		order := &entity.Order{
			BusinessID:           customer.BusinessID,
			StoreID:              input.StoreID,
			UserID:               customer.ID,
			CreatedBy:            principal.ID,
			OrderNumber:          orderNumber,
			OrderDate:            orderDate,
			ExpectedDeliveryDate: input.ExpectedDeliveryDate,
			Status:               enum.OrderStatusPending,
			Remarks:              input.Remarks,
		}

		items := make([]entity.OrderItem, 0, len(input.Items))
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

			items = append(items, entity.OrderItem{
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

		order.SubTotal = subTotal
		order.TotalAmount = subTotal
		order.TotalQuantity = totalQuantity
		order.TotalItems = int(totalItems.IntPart())

		if err := s.orderRepo.Create(ctx, order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := s.orderRepo.CreateItems(ctx, items); err != nil {
			return err
		}

		result = &CreateOrderResult{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			TotalAmount: order.TotalAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *OrderService) loadProducts(ctx context.Context, lines []OrderLineInput) (map[uuid.UUID]entity.Product, error) {
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

// ChangeStatusInput is a status transition request.
type ChangeStatusInput struct {
	OrderID uuid.UUID        `json:"order_id"`
	To      enum.OrderStatus `json:"to"`
	Reason  *string          `json:"reason,omitempty"`
}

// ChangeStatus records a status transition. Every transition is
// accepted and logged, including repeats, reversals and moves out of
// terminal states; the append-only trail is the audit record.
func (s *OrderService) ChangeStatus(ctx context.Context, principal access.Principal, input ChangeStatusInput) (*entity.Order, error) {
	if !s.policy.Allows(principal.Role, access.CanViewReports) {
		return nil, apperror.NewForbiddenError("Access denied. You do not have permission to change order status.")
	}
	if !input.To.Valid() {
		return nil, apperror.NewBadRequestError("Invalid order status")
	}

	err := s.uow.Do(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetByID(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}

		change := &entity.OrderStatusChange{
			OrderID:    order.ID,
			ChangedBy:  principal.ID,
			FromStatus: order.Status,
			ToStatus:   input.To,
			Reason:     input.Reason,
		}
		if err := s.orderRepo.AppendStatusChange(ctx, change); err != nil {
			return err
		}
		return s.orderRepo.UpdateStatus(ctx, order.ID, input.To)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, principal, input.OrderID)
}

// GetOrder returns one order with items and its status trail. Customers
// can only read their own orders.
func (s *OrderService) GetOrder(ctx context.Context, principal access.Principal, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if !s.policy.CanAccessUserData(principal, order.UserID) {
		return nil, apperror.NewForbiddenError("Access denied. You can only view your own orders.")
	}
	return order, nil
}

// ListOrders returns orders matching the filters. Customers are pinned
// to their own orders.
func (s *OrderService) ListOrders(ctx context.Context, principal access.Principal, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	if !s.policy.Allows(principal.Role, access.CanViewAllBills) {
		own := principal.ID
		params.UserID = &own
	}
	return s.orderRepo.List(ctx, params)
}
