package service

import (
	"net/http"
	"testing"

	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/nirmalkarki/udharo-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentService_CreatePayment(t *testing.T) {
	env := newTestEnv(t)

	rate := d("2000")
	_, err := env.bills.CreateBill(env.ctx, env.principal(env.sales), CreateBillInput{
		CustomerID: env.retailer.ID,
		StoreID:    env.store.ID,
		Items:      []BillLineInput{{ProductID: env.grease.ID, Quantity: d("1"), Rate: &rate}},
	})
	require.NoError(t, err)

	result, err := env.payments.CreatePayment(env.ctx, env.principal(env.sales), CreatePaymentInput{
		PayerUserID:   env.retailer.ID,
		Amount:        d("1200"),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	requireDecimal(t, "2000", result.PreviousBalance)
	requireDecimal(t, "800", result.NewBalance)

	history, err := env.ledger.History(env.ctx, env.principal(env.admin), env.retailer.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, history.Ledger, 2)
	assert.Equal(t, enum.EntryTypeCredit, history.Ledger[1].EntryType)
	assert.Equal(t, "Payment received", history.Ledger[1].Remarks)
}

func TestPaymentService_CreatePayment_OverpaymentGoesNegative(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.payments.CreatePayment(env.ctx, env.principal(env.admin), CreatePaymentInput{
		PayerUserID:   env.workshop.ID,
		Amount:        d("300"),
		PaymentMethod: "esewa",
	})
	require.NoError(t, err)
	requireDecimal(t, "0", result.PreviousBalance)
	requireDecimal(t, "-300", result.NewBalance)
}

func TestPaymentService_CreatePayment_RemarksOnLedger(t *testing.T) {
	env := newTestEnv(t)

	remarks := "Settled invoice over the counter"
	_, err := env.payments.CreatePayment(env.ctx, env.principal(env.admin), CreatePaymentInput{
		PayerUserID:   env.retailer.ID,
		Amount:        d("100"),
		PaymentMethod: "cash",
		Remarks:       &remarks,
	})
	require.NoError(t, err)

	history, err := env.ledger.History(env.ctx, env.principal(env.admin), env.retailer.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, history.Ledger, 1)
	assert.Equal(t, remarks, history.Ledger[0].Remarks)
}

func TestPaymentService_CreatePayment_Forbidden(t *testing.T) {
	env := newTestEnv(t)

	// Managers view ledgers but cannot take money.
	manager := env.createUser(t, "maya", enum.RoleManager, "0")
	_, err := env.payments.CreatePayment(env.ctx, env.principal(manager), CreatePaymentInput{
		PayerUserID:   env.retailer.ID,
		Amount:        d("100"),
		PaymentMethod: "cash",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.GetAppError(err).Code)
}

func TestPaymentService_CreatePayment_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.payments.CreatePayment(env.ctx, env.principal(env.admin), CreatePaymentInput{
		PayerUserID:   env.retailer.ID,
		Amount:        d("0"),
		PaymentMethod: "cash",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	_, err = env.payments.CreatePayment(env.ctx, env.principal(env.admin), CreatePaymentInput{
		PayerUserID: env.retailer.ID,
		Amount:      d("100"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestPaymentService_ListPayments_CustomerPinnedToOwn(t *testing.T) {
	env := newTestEnv(t)

	for _, payer := range []string{"ram", "hari"} {
		user := env.retailer
		if payer == "hari" {
			user = env.workshop
		}
		_, err := env.payments.CreatePayment(env.ctx, env.principal(env.admin), CreatePaymentInput{
			PayerUserID:   user.ID,
			Amount:        d("50"),
			PaymentMethod: "cash",
		})
		require.NoError(t, err)
	}

	own, total, err := env.payments.ListPayments(env.ctx, env.principal(env.retailer), newPaymentFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, own, 1)
	assert.Equal(t, env.retailer.ID, own[0].PayerUserID)
}
