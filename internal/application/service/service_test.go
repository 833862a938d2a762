package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/nirmalkarki/udharo-api/internal/domain/access"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/nirmalkarki/udharo-api/internal/domain/repository"
	"github.com/nirmalkarki/udharo-api/internal/infrastructure/database"
	infrarepo "github.com/nirmalkarki/udharo-api/internal/infrastructure/repository"
	"github.com/nirmalkarki/udharo-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the services against an in-memory sqlite database with
// the same schema the real server migrates.
type testEnv struct {
	db     *gorm.DB
	ctx    context.Context
	policy *access.Policy

	uow         repository.UnitOfWork
	userRepo    repository.UserRepository
	billRepo    repository.BillRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	ledgerRepo  repository.LedgerRepository
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository

	ledger   *LedgerService
	bills    *BillService
	payments *PaymentService
	orders   *OrderService
	catalog  *CatalogService

	business *entity.Business
	store    *entity.Store
	admin    *entity.User
	sales    *entity.User
	retailer *entity.User
	workshop *entity.User
	oil      *entity.Product
	grease   *entity.Product
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	env := &testEnv{
		db:     db,
		policy: access.NewPolicy(access.DefaultPermissions()),
	}

	env.uow = infrarepo.NewUnitOfWork(db)
	env.userRepo = infrarepo.NewUserRepository(db)
	env.billRepo = infrarepo.NewBillRepository(db)
	env.orderRepo = infrarepo.NewOrderRepository(db)
	env.paymentRepo = infrarepo.NewPaymentRepository(db)
	env.ledgerRepo = infrarepo.NewLedgerRepository(db)
	env.storeRepo = infrarepo.NewStoreRepository(db)
	env.productRepo = infrarepo.NewProductRepository(db)

	sequence := NewSequenceGenerator(env.storeRepo, env.billRepo, env.orderRepo)
	retries := 3

	env.ledger = NewLedgerService(env.ledgerRepo, env.userRepo, env.policy)
	env.bills = NewBillService(env.uow, env.billRepo, env.userRepo, env.storeRepo, env.productRepo, env.ledger, sequence, env.policy, retries)
	env.payments = NewPaymentService(env.uow, env.paymentRepo, env.userRepo, env.ledger, env.policy)
	env.orders = NewOrderService(env.uow, env.orderRepo, env.userRepo, env.storeRepo, env.productRepo, sequence, env.policy, retries)
	env.catalog = NewCatalogService(env.storeRepo, env.productRepo, env.userRepo, env.policy)

	env.seed(t)
	env.ctx = infrarepo.WithBusiness(context.Background(), env.business.ID)
	return env
}

func (env *testEnv) seed(t *testing.T) {
	t.Helper()

	env.business = &entity.Business{Name: "Udharo Traders"}
	require.NoError(t, env.db.Create(env.business).Error)

	env.store = &entity.Store{BusinessID: env.business.ID, Name: "Thamel"}
	require.NoError(t, env.db.Create(env.store).Error)

	env.admin = env.createUser(t, "admin", enum.RoleSuperAdmin, "0")
	env.sales = env.createUser(t, "sita", enum.RoleSales, "0")
	env.retailer = env.createUser(t, "ram", enum.RoleRetailer, "0")
	env.workshop = env.createUser(t, "hari", enum.RoleWorkshop, "0")

	env.oil = &entity.Product{
		BusinessID:    env.business.ID,
		Name:          "Engine Oil 1L",
		SKU:           "OIL-1L",
		Unit:          "carton",
		UnitValue:     d("12"),
		ProductPrice:  d("160"),
		RetailPrice:   d("150"),
		WorkshopPrice: d("140"),
	}
	require.NoError(t, env.db.Create(env.oil).Error)

	env.grease = &entity.Product{
		BusinessID:    env.business.ID,
		Name:          "Grease 500g",
		SKU:           "GRS-500",
		Unit:          "piece",
		UnitValue:     d("1"),
		ProductPrice:  d("250"),
		RetailPrice:   d("230"),
		WorkshopPrice: d("220"),
	}
	require.NoError(t, env.db.Create(env.grease).Error)
}

func (env *testEnv) createUser(t *testing.T, username string, role enum.Role, openingBalance string) *entity.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &entity.User{
		BusinessID:     env.business.ID,
		Name:           username,
		Username:       username,
		Password:       string(hashed),
		Role:           role,
		OpeningBalance: d(openingBalance),
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env *testEnv) principal(u *entity.User) access.Principal {
	return access.Principal{
		ID:         u.ID,
		Role:       u.Role,
		BusinessID: u.BusinessID,
		StoreID:    u.StoreID,
	}
}

func (env *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(model).Count(&n).Error)
	return n
}

func newBillFilter() *repository.BillFilterParams {
	return &repository.BillFilterParams{Pagination: pagination.DefaultPagination()}
}

func newOrderFilter() *repository.OrderFilterParams {
	return &repository.OrderFilterParams{Pagination: pagination.DefaultPagination()}
}

func newPaymentFilter() *repository.PaymentFilterParams {
	return &repository.PaymentFilterParams{Pagination: pagination.DefaultPagination()}
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}
