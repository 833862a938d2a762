package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	domainRepo "github.com/nirmalkarki/udharo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository. The ledger table
// is append-only; this implementation exposes no update or delete.
func NewLedgerRepository(db *gorm.DB) domainRepo.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(entry).Error
}

func (r *ledgerRepository) LastEntry(ctx context.Context, userID uuid.UUID) (*entity.LedgerEntry, error) {
	var entry entity.LedgerEntry
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Scopes(BusinessScope(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *ledgerRepository) History(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]entity.LedgerEntry, error) {
	query := dbFrom(ctx, r.db).WithContext(ctx).
		Scopes(BusinessScope(ctx)).
		Where("user_id = ?", userID)

	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var entries []entity.LedgerEntry
	err := query.Order("created_at ASC, id ASC").Find(&entries).Error
	return entries, err
}

func (r *ledgerRepository) Totals(ctx context.Context, userID uuid.UUID) (*domainRepo.CustomerTotals, error) {
	db := dbFrom(ctx, r.db).WithContext(ctx)
	totals := &domainRepo.CustomerTotals{
		TotalBilled: decimal.Zero,
		TotalPaid:   decimal.Zero,
	}

	if err := db.Model(&entity.Bill{}).Where("user_id = ?", userID).
		Count(&totals.TotalBills).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.Payment{}).Where("payer_user_id = ?", userID).
		Count(&totals.TotalPayments).Error; err != nil {
		return nil, err
	}

	var billed decimal.NullDecimal
	if err := db.Model(&entity.Bill{}).Where("user_id = ?", userID).
		Select("SUM(total_amount)").Scan(&billed).Error; err != nil {
		return nil, err
	}
	if billed.Valid {
		totals.TotalBilled = billed.Decimal
	}

	var paid decimal.NullDecimal
	if err := db.Model(&entity.Payment{}).Where("payer_user_id = ?", userID).
		Select("SUM(amount_paid)").Scan(&paid).Error; err != nil {
		return nil, err
	}
	if paid.Valid {
		totals.TotalPaid = paid.Decimal
	}

	return totals, nil
}

func (r *ledgerRepository) CustomerBalances(ctx context.Context) ([]domainRepo.CustomerBalance, error) {
	businessID, ok := GetBusinessID(ctx)
	if !ok {
		return nil, nil
	}

	type row struct {
		UserID         uuid.UUID
		Name           string
		Contact        *string
		Role           enum.Role
		CurrentBalance decimal.Decimal
		TotalBills     int64
	}

	var rows []row
	err := dbFrom(ctx, r.db).WithContext(ctx).Raw(`
		SELECT
			u.id AS user_id,
			u.name AS name,
			u.contact AS contact,
			u.role AS role,
			COALESCE((
				SELECT l.balance_after FROM ledger l
				WHERE l.user_id = u.id
				ORDER BY l.created_at DESC, l.id DESC
				LIMIT 1
			), u.opening_balance) AS current_balance,
			(SELECT COUNT(*) FROM bills b WHERE b.user_id = u.id) AS total_bills
		FROM users u
		WHERE u.business_id = ? AND u.role IN (?, ?) AND u.deleted_at IS NULL
		ORDER BY current_balance DESC`,
		businessID, enum.RoleRetailer, enum.RoleWorkshop,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	balances := make([]domainRepo.CustomerBalance, 0, len(rows))
	for _, r := range rows {
		balances = append(balances, domainRepo.CustomerBalance{
			UserID:         r.UserID,
			Name:           r.Name,
			Contact:        r.Contact,
			Role:           r.Role.String(),
			CurrentBalance: r.CurrentBalance,
			TotalBills:     r.TotalBills,
		})
	}
	return balances, nil
}
