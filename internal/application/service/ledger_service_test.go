package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_Post_BaselineFromOpeningBalance(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createUser(t, "gita", enum.RoleRetailer, "500")

	entry, err := env.ledger.Post(env.ctx, PostEntryInput{
		Customer:    customer,
		EntryType:   enum.EntryTypeDebit,
		Amount:      d("100"),
		ReferenceID: uuid.New(),
	})
	require.NoError(t, err)
	requireDecimal(t, "600", entry.BalanceAfter)

	entry, err = env.ledger.Post(env.ctx, PostEntryInput{
		Customer:    customer,
		EntryType:   enum.EntryTypeCredit,
		Amount:      d("250"),
		ReferenceID: uuid.New(),
	})
	require.NoError(t, err)
	requireDecimal(t, "350", entry.BalanceAfter)
}

func TestLedgerService_Post_RejectsNegativeAmount(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.Post(env.ctx, PostEntryInput{
		Customer:    env.retailer,
		EntryType:   enum.EntryTypeDebit,
		Amount:      d("-10"),
		ReferenceID: uuid.New(),
	})
	assert.Error(t, err)
}

func TestLedgerService_CurrentBalance_NoEntries(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createUser(t, "gita", enum.RoleRetailer, "750")

	summary, err := env.ledger.CurrentBalance(env.ctx, env.principal(env.admin), customer.ID)
	require.NoError(t, err)
	requireDecimal(t, "750", summary.CurrentBalance)
	requireDecimal(t, "750", summary.OpeningBalance)
	assert.EqualValues(t, 0, summary.TotalBills)
	assert.EqualValues(t, 0, summary.TotalPayments)
}

func TestLedgerService_History_SelfOnlyForCustomers(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.History(env.ctx, env.principal(env.retailer), env.workshop.ID, nil, nil)
	assert.Error(t, err, "a customer must not read another customer's ledger")

	history, err := env.ledger.History(env.ctx, env.principal(env.retailer), env.retailer.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, env.retailer.ID, history.Customer.ID)
	assert.Empty(t, history.Ledger)
}

func TestLedgerService_CustomerBalances_RequiresViewAllLedgers(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ledger.CustomerBalances(env.ctx, env.principal(env.retailer))
	assert.Error(t, err)

	_, err = env.ledger.CustomerBalances(env.ctx, env.principal(env.admin))
	assert.NoError(t, err)
}
