package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	domainRepo "github.com/nirmalkarki/udharo-api/internal/domain/repository"
	"gorm.io/gorm"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	err := dbFrom(ctx, r.db).WithContext(ctx).Create(bill).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateNumber
	}
	return err
}

func (r *billRepository) CreateItems(ctx context.Context, items []entity.BillItem) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(&items).Error
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Scopes(BusinessScope(ctx)).
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Scopes(BusinessScope(ctx)).
		Preload("Items").
		Preload("Items.Product").
		Preload("Customer").
		Preload("Store").
		Preload("Business").
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := dbFrom(ctx, r.db).WithContext(ctx).Model(&entity.Bill{}).Scopes(BusinessScope(ctx))

	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.StoreID != nil {
		query = query.Where("store_id = ?", *params.StoreID)
	}
	if params.StartDate != nil {
		query = query.Where("bill_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("bill_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Preload("Store").
		Order("bill_date DESC, created_at DESC").
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) LastNumberForYear(ctx context.Context, storeID uuid.UUID, year int) (string, error) {
	var numbers []string
	err := dbFrom(ctx, r.db).WithContext(ctx).Model(&entity.Bill{}).
		Scopes(BusinessScope(ctx)).
		Where("store_id = ?", storeID).
		Where("bill_number LIKE ?", fmt.Sprintf("%%-%d-%%", year)).
		Order("created_at DESC").
		Limit(1).
		Pluck("bill_number", &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}
