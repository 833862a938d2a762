package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/nirmalkarki/udharo-api/internal/domain/repository"
	infrarepo "github.com/nirmalkarki/udharo-api/internal/infrastructure/repository"
	"github.com/nirmalkarki/udharo-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillService_CreateBill(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.bills.CreateBill(env.ctx, env.principal(env.sales), CreateBillInput{
		CustomerID: env.retailer.ID,
		StoreID:    env.store.ID,
		Items: []BillLineInput{
			{ProductID: env.oil.ID, Quantity: d("2")},
			{ProductID: env.grease.ID, Quantity: d("3")},
		},
	})
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("Thamel-%d-00001", year), result.BillNumber)
	// 2 x 150 retail + 3 x 230 retail
	requireDecimal(t, "990", result.TotalAmount)
	requireDecimal(t, "990", result.NewBalance)

	bill, err := env.bills.GetBill(env.ctx, env.principal(env.sales), result.BillID)
	require.NoError(t, err)
	assert.Len(t, bill.Items, 2)
	requireDecimal(t, "990", bill.SubTotal)
	requireDecimal(t, "0", bill.VATTotal)
	requireDecimal(t, "990", bill.TotalAmount)
	// 2 cartons x 12 + 3 pieces x 1
	requireDecimal(t, "27", bill.TotalQuantity)
	assert.Equal(t, 5, bill.TotalItems)
	assert.Equal(t, env.sales.ID, bill.SalesBy)
}

func TestBillService_CreateBill_NumbersIncrement(t *testing.T) {
	env := newTestEnv(t)

	year := time.Now().Year()
	for i := 1; i <= 3; i++ {
		result, err := env.bills.CreateBill(env.ctx, env.principal(env.sales), CreateBillInput{
			CustomerID: env.retailer.ID,
			StoreID:    env.store.ID,
			Items:      []BillLineInput{{ProductID: env.grease.ID, Quantity: d("1")}},
		})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("Thamel-%d-%05d", year, i), result.BillNumber)
	}
}

func TestBillService_CreateBill_RunningBalances(t *testing.T) {
	env := newTestEnv(t)

	amounts := []string{"1500", "1000", "1250"}
	expected := []string{"1500", "2500", "3750"}
	for i, amount := range amounts {
		rate := d(amount)
		result, err := env.bills.CreateBill(env.ctx, env.principal(env.sales), CreateBillInput{
			CustomerID: env.retailer.ID,
			StoreID:    env.store.ID,
			Items:      []BillLineInput{{ProductID: env.grease.ID, Quantity: d("1"), Rate: &rate}},
		})
		require.NoError(t, err)
		requireDecimal(t, expected[i], result.NewBalance)
	}

	history, err := env.ledger.History(env.ctx, env.principal(env.admin), env.retailer.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, history.Ledger, 3)
	for i, entry := range history.Ledger {
		requireDecimal(t, amounts[i], entry.Amount)
		requireDecimal(t, expected[i], entry.BalanceAfter)
	}
}

func TestBillService_CreateBill_WorkshopPrice(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.bills.CreateBill(env.ctx, env.principal(env.sales), CreateBillInput{
		CustomerID: env.workshop.ID,
		StoreID:    env.store.ID,
		Items:      []BillLineInput{{ProductID: env.oil.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)
	requireDecimal(t, "140", result.TotalAmount)
}

func TestBillService_CreateBill_Forbidden(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.bills.CreateBill(env.ctx, env.principal(env.retailer), CreateBillInput{
		CustomerID: env.retailer.ID,
		StoreID:    env.store.ID,
		Items:      []BillLineInput{{ProductID: env.oil.ID, Quantity: d("1")}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.GetAppError(err).Code)
}

func TestBillService_CreateBill_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.bills.CreateBill(env.ctx, env.principal(env.sales), CreateBillInput{
		CustomerID: env.retailer.ID,
		StoreID:    env.store.ID,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	_, err = env.bills.CreateBill(env.ctx, env.principal(env.sales), CreateBillInput{
		CustomerID: env.retailer.ID,
		StoreID:    env.store.ID,
		Items:      []BillLineInput{{ProductID: env.oil.ID, Quantity: d("0")}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestBillService_CreateBill_UnknownProductLeavesNothingBehind(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.bills.CreateBill(env.ctx, env.principal(env.sales), CreateBillInput{
		CustomerID: env.retailer.ID,
		StoreID:    env.store.ID,
		Items:      []BillLineInput{{ProductID: uuid.New(), Quantity: d("1")}},
	})
	require.Error(t, err)

	assert.EqualValues(t, 0, env.count(t, &entity.Bill{}))
	assert.EqualValues(t, 0, env.count(t, &entity.BillItem{}))
	assert.EqualValues(t, 0, env.count(t, &entity.LedgerEntry{}))
}

func TestBillService_CreateBill_StaffTargetRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.bills.CreateBill(env.ctx, env.principal(env.sales), CreateBillInput{
		CustomerID: env.admin.ID,
		StoreID:    env.store.ID,
		Items:      []BillLineInput{{ProductID: env.oil.ID, Quantity: d("1")}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestBillService_CreateBill_NumberConflictExhaustsRetries(t *testing.T) {
	env := newTestEnv(t)

	// A bill in another store already holds the number the generator
	// will produce for Thamel, so every attempt collides on the unique
	// index.
	other := &entity.Store{BusinessID: env.business.ID, Name: "Patan"}
	require.NoError(t, env.db.Create(other).Error)
	taken := fmt.Sprintf("Thamel-%d-00001", time.Now().Year())
	require.NoError(t, env.db.Create(&entity.Bill{
		BusinessID: env.business.ID,
		StoreID:    other.ID,
		UserID:     env.retailer.ID,
		SalesBy:    env.sales.ID,
		BillNumber: taken,
		BillDate:   time.Now(),
	}).Error)

	_, err := env.bills.CreateBill(env.ctx, env.principal(env.sales), CreateBillInput{
		CustomerID: env.retailer.ID,
		StoreID:    env.store.ID,
		Items:      []BillLineInput{{ProductID: env.oil.ID, Quantity: d("1")}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	// Only the pre-inserted bill remains; failed attempts rolled back.
	assert.EqualValues(t, 1, env.count(t, &entity.Bill{}))
	assert.EqualValues(t, 0, env.count(t, &entity.LedgerEntry{}))
}

// staleNumberScan returns an empty scan result on the first call and
// delegates afterwards, reproducing a read that misses a number another
// transaction committed moments earlier.
type staleNumberScan struct {
	repository.BillRepository
	stale bool
}

func (s *staleNumberScan) LastNumberForYear(ctx context.Context, storeID uuid.UUID, year int) (string, error) {
	if s.stale {
		s.stale = false
		return "", nil
	}
	return s.BillRepository.LastNumberForYear(ctx, storeID, year)
}

func TestBillService_CreateBill_NumberConflictRecoversOnRetry(t *testing.T) {
	env := newTestEnv(t)

	year := time.Now().Year()
	require.NoError(t, env.db.Create(&entity.Bill{
		BusinessID: env.business.ID,
		StoreID:    env.store.ID,
		UserID:     env.retailer.ID,
		SalesBy:    env.sales.ID,
		BillNumber: fmt.Sprintf("Thamel-%d-00001", year),
		BillDate:   time.Now(),
	}).Error)

	scan := &staleNumberScan{BillRepository: env.billRepo, stale: true}
	sequence := NewSequenceGenerator(env.storeRepo, scan, env.orderRepo)
	bills := NewBillService(env.uow, env.billRepo, env.userRepo, env.storeRepo, env.productRepo, env.ledger, sequence, env.policy, 3)

	// First attempt regenerates 00001 from the stale scan and collides;
	// the retry rescans, sees the committed bill and takes 00002.
	result, err := bills.CreateBill(env.ctx, env.principal(env.sales), CreateBillInput{
		CustomerID: env.retailer.ID,
		StoreID:    env.store.ID,
		Items:      []BillLineInput{{ProductID: env.oil.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Thamel-%d-00002", year), result.BillNumber)

	assert.EqualValues(t, 2, env.count(t, &entity.Bill{}))
	assert.EqualValues(t, 1, env.count(t, &entity.LedgerEntry{}))
}

func TestBillService_CreateBill_SameStoreNameAcrossBusinesses(t *testing.T) {
	env := newTestEnv(t)

	// A second tenant with an identically named store issues the same
	// numbers; uniqueness is scoped per business so both postings stand.
	other := &entity.Business{Name: "Pokhara Traders"}
	require.NoError(t, env.db.Create(other).Error)
	otherStore := &entity.Store{BusinessID: other.ID, Name: "Thamel"}
	require.NoError(t, env.db.Create(otherStore).Error)
	otherSales := &entity.User{BusinessID: other.ID, Name: "gita", Username: "gita", Role: enum.RoleSales, OpeningBalance: d("0")}
	require.NoError(t, env.db.Create(otherSales).Error)
	otherRetailer := &entity.User{BusinessID: other.ID, Name: "shyam", Username: "shyam", Role: enum.RoleRetailer, OpeningBalance: d("0")}
	require.NoError(t, env.db.Create(otherRetailer).Error)
	otherOil := &entity.Product{
		BusinessID:  other.ID,
		Name:        "Engine Oil 1L",
		SKU:         "OIL-1L-PKR",
		Unit:        "carton",
		UnitValue:   d("12"),
		RetailPrice: d("150"),
	}
	require.NoError(t, env.db.Create(otherOil).Error)

	number := fmt.Sprintf("Thamel-%d-00001", time.Now().Year())

	first, err := env.bills.CreateBill(env.ctx, env.principal(env.sales), CreateBillInput{
		CustomerID: env.retailer.ID,
		StoreID:    env.store.ID,
		Items:      []BillLineInput{{ProductID: env.oil.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, number, first.BillNumber)

	otherCtx := infrarepo.WithBusiness(context.Background(), other.ID)
	second, err := env.bills.CreateBill(otherCtx, env.principal(otherSales), CreateBillInput{
		CustomerID: otherRetailer.ID,
		StoreID:    otherStore.ID,
		Items:      []BillLineInput{{ProductID: otherOil.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, number, second.BillNumber)

	assert.EqualValues(t, 2, env.count(t, &entity.Bill{}))
}

func TestBillService_GetBill_CustomerSelfOnly(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.bills.CreateBill(env.ctx, env.principal(env.sales), CreateBillInput{
		CustomerID: env.retailer.ID,
		StoreID:    env.store.ID,
		Items:      []BillLineInput{{ProductID: env.oil.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)

	_, err = env.bills.GetBill(env.ctx, env.principal(env.workshop), result.BillID)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.GetAppError(err).Code)

	bill, err := env.bills.GetBill(env.ctx, env.principal(env.retailer), result.BillID)
	require.NoError(t, err)
	assert.Equal(t, result.BillID, bill.ID)
}

func TestBillService_ListBills_CustomerPinnedToOwn(t *testing.T) {
	env := newTestEnv(t)

	for _, customer := range []uuid.UUID{env.retailer.ID, env.workshop.ID} {
		_, err := env.bills.CreateBill(env.ctx, env.principal(env.sales), CreateBillInput{
			CustomerID: customer,
			StoreID:    env.store.ID,
			Items:      []BillLineInput{{ProductID: env.oil.ID, Quantity: d("1")}},
		})
		require.NoError(t, err)
	}

	all, total, err := env.bills.ListBills(env.ctx, env.principal(env.sales), newBillFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	// The customer asks for everything but only gets their own.
	own, total, err := env.bills.ListBills(env.ctx, env.principal(env.retailer), newBillFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, own, 1)
	assert.Equal(t, env.retailer.ID, own[0].UserID)
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	env := newTestEnv(t)

	boom := errors.New("boom")
	err := env.uow.Do(env.ctx, func(ctx context.Context) error {
		bill := &entity.Bill{
			BusinessID: env.business.ID,
			StoreID:    env.store.ID,
			UserID:     env.retailer.ID,
			SalesBy:    env.sales.ID,
			BillNumber: "Thamel-2026-99999",
			BillDate:   time.Now(),
		}
		if err := env.billRepo.Create(ctx, bill); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.EqualValues(t, 0, env.count(t, &entity.Bill{}))
}
