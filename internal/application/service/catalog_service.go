package service

import (
	"context"

	"github.com/nirmalkarki/udharo-api/internal/domain/access"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/nirmalkarki/udharo-api/internal/domain/repository"
	"github.com/nirmalkarki/udharo-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// CatalogService serves the reference data the posting flows draw from:
// stores, products and the customer roster.
type CatalogService struct {
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	policy      *access.Policy
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	policy *access.Policy,
) *CatalogService {
	return &CatalogService{
		storeRepo:   storeRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		policy:      policy,
	}
}

// ListStores returns the business's stores.
func (s *CatalogService) ListStores(ctx context.Context) ([]entity.Store, error) {
	return s.storeRepo.List(ctx)
}

// ListProducts returns the product catalog.
func (s *CatalogService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.List(ctx)
}

// ListCustomers returns all retailer and workshop users.
func (s *CatalogService) ListCustomers(ctx context.Context, principal access.Principal) ([]entity.User, error) {
	if !s.policy.Allows(principal.Role, access.CanViewAllLedgers) {
		return nil, apperror.NewForbiddenError("Access denied")
	}
	return s.userRepo.ListCustomers(ctx)
}

// CreateUserInput describes a new staff or customer account.
type CreateUserInput struct {
	Name           string          `json:"name"`
	Username       string          `json:"username"`
	Password       string          `json:"password"`
	Contact        *string         `json:"contact,omitempty"`
	Address        *string         `json:"address,omitempty"`
	Role           enum.Role       `json:"role"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// CreateUser registers a new account. The opening balance seeds the
// customer's ledger baseline and is immutable afterwards.
func (s *CatalogService) CreateUser(ctx context.Context, principal access.Principal, input CreateUserInput) (*entity.User, error) {
	if !s.policy.Allows(principal.Role, access.CanManageUsers) {
		return nil, apperror.NewForbiddenError("Access denied. You do not have permission to manage users.")
	}

	var fieldErrors []apperror.FieldError
	if input.Name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if input.Username == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "username", Message: "username is required"})
	}
	if len(input.Password) < 6 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "password", Message: "password must be at least 6 characters"})
	}
	if !input.Role.Valid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "role", Message: "invalid role"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	existing, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		BusinessID:     principal.BusinessID,
		StoreID:        principal.StoreID,
		Name:           input.Name,
		Username:       input.Username,
		Password:       string(hashed),
		Contact:        input.Contact,
		Address:        input.Address,
		Role:           input.Role,
		OpeningBalance: input.OpeningBalance,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
