package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/nirmalkarki/udharo-api/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItems(ctx context.Context, items []entity.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
	// AppendStatusChange records one transition; the table is
	// append-only and existing rows are never touched.
	AppendStatusChange(ctx context.Context, change *entity.OrderStatusChange) error
	LastNumberForYear(ctx context.Context, storeID uuid.UUID, year int) (string, error)
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	UserID     *uuid.UUID
	StoreID    *uuid.UUID
	Status     *enum.OrderStatus
}
