package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/pkg/pagination"
)

// PaymentRepository defines the interface for payment data operations.
// Payments are insert-only.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	List(ctx context.Context, params *PaymentFilterParams) ([]entity.Payment, int64, error)
}

// PaymentFilterParams contains filtering parameters for payment queries
type PaymentFilterParams struct {
	Pagination  *pagination.PaginationParams
	PayerUserID *uuid.UUID
	StartDate   *time.Time
	EndDate     *time.Time
}
