package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// GetForUpdate loads the user and holds a row lock until the
	// surrounding transaction ends. Ledger appends for a customer are
	// serialized through this lock.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error)
	ListCustomers(ctx context.Context) ([]entity.User, error)
}
