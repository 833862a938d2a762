package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	domainRepo "github.com/nirmalkarki/udharo-api/internal/domain/repository"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	err := dbFrom(ctx, r.db).WithContext(ctx).Create(order).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateNumber
	}
	return err
}

func (r *orderRepository) CreateItems(ctx context.Context, items []entity.OrderItem) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(&items).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Scopes(BusinessScope(ctx)).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Scopes(BusinessScope(ctx)).
		Preload("Items").
		Preload("Items.Product").
		Preload("Customer").
		Preload("Store").
		Preload("StatusChanges", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := dbFrom(ctx, r.db).WithContext(ctx).Model(&entity.Order{}).Scopes(BusinessScope(ctx))

	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.StoreID != nil {
		query = query.Where("store_id = ?", *params.StoreID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Preload("Store").
		Order("order_date DESC, created_at DESC").
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepository) AppendStatusChange(ctx context.Context, change *entity.OrderStatusChange) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(change).Error
}

func (r *orderRepository) LastNumberForYear(ctx context.Context, storeID uuid.UUID, year int) (string, error) {
	var numbers []string
	err := dbFrom(ctx, r.db).WithContext(ctx).Model(&entity.Order{}).
		Scopes(BusinessScope(ctx)).
		Where("store_id = ?", storeID).
		Where("order_number LIKE ?", fmt.Sprintf("%%-ORD-%d-%%", year)).
		Order("created_at DESC").
		Limit(1).
		Pluck("order_number", &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}
