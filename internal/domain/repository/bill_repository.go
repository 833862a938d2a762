package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/pkg/pagination"
)

// BillRepository defines the interface for bill data operations.
// Bills are insert-only: there is no Update or Delete.
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	CreateItems(ctx context.Context, items []entity.BillItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	// LastNumberForYear returns the most recently created bill number
	// for the store whose text contains the year marker, or "" when
	// none exists.
	LastNumberForYear(ctx context.Context, storeID uuid.UUID, year int) (string, error)
}

// BillFilterParams contains filtering parameters for bill queries
type BillFilterParams struct {
	Pagination *pagination.PaginationParams
	UserID     *uuid.UUID
	StoreID    *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}
