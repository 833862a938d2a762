package repository

import (
	"context"

	domainRepo "github.com/nirmalkarki/udharo-api/internal/domain/repository"
	"gorm.io/gorm"
)

type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a transaction-backed unit of work. Repository
// calls made with the context passed to fn join the same transaction,
// so a posting's header, line items and ledger entry commit together
// or not at all.
func NewUnitOfWork(db *gorm.DB) domainRepo.UnitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}
