package repository

import (
	"context"
	"errors"
)

// ErrDuplicateNumber is returned when inserting a document whose
// generated number collides with one committed by a concurrent
// transaction. Posting coordinators regenerate the number and retry.
var ErrDuplicateNumber = errors.New("duplicate document number")

// UnitOfWork runs a function inside a single database transaction.
// Repository calls made with the context passed to fn join that
// transaction; any error rolls the whole unit back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
