package service

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/nirmalkarki/udharo-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService_CreateOrder_Self(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.orders.CreateOrder(env.ctx, env.principal(env.retailer), CreateOrderInput{
		StoreID: env.store.ID,
		Items: []OrderLineInput{
			{ProductID: env.oil.ID, Quantity: d("2")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Thamel-ORD-%d-00001", time.Now().Year()), result.OrderNumber)
	requireDecimal(t, "300", result.TotalAmount)

	order, err := env.orders.GetOrder(env.ctx, env.principal(env.retailer), result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusPending, order.Status)
	assert.Equal(t, env.retailer.ID, order.UserID)
	assert.Equal(t, env.retailer.ID, order.CreatedBy)

	// Orders never post to the ledger.
	assert.EqualValues(t, 0, env.count(t, &entity.LedgerEntry{}))
}

func TestOrderService_CreateOrder_ForOthersDenied(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.CreateOrder(env.ctx, env.principal(env.sales), CreateOrderInput{
		CustomerID: env.retailer.ID,
		StoreID:    env.store.ID,
		Items:      []OrderLineInput{{ProductID: env.oil.ID, Quantity: d("1")}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.GetAppError(err).Code)
}

func TestOrderService_CreateOrder_NumbersSeparateFromBills(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.bills.CreateBill(env.ctx, env.principal(env.sales), CreateBillInput{
		CustomerID: env.retailer.ID,
		StoreID:    env.store.ID,
		Items:      []BillLineInput{{ProductID: env.oil.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)

	result, err := env.orders.CreateOrder(env.ctx, env.principal(env.retailer), CreateOrderInput{
		StoreID: env.store.ID,
		Items:   []OrderLineInput{{ProductID: env.oil.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)
	// The order sequence starts at 1 even though a bill exists.
	assert.Equal(t, fmt.Sprintf("Thamel-ORD-%d-00001", time.Now().Year()), result.OrderNumber)
}

func TestOrderService_ChangeStatus_TrailAppends(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.orders.CreateOrder(env.ctx, env.principal(env.retailer), CreateOrderInput{
		StoreID: env.store.ID,
		Items:   []OrderLineInput{{ProductID: env.grease.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)

	reason := "stock arrived"
	order, err := env.orders.ChangeStatus(env.ctx, env.principal(env.sales), ChangeStatusInput{
		OrderID: created.OrderID,
		To:      enum.OrderStatusProcessing,
		Reason:  &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusProcessing, order.Status)

	order, err = env.orders.ChangeStatus(env.ctx, env.principal(env.sales), ChangeStatusInput{
		OrderID: created.OrderID,
		To:      enum.OrderStatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCompleted, order.Status)

	require.Len(t, order.StatusChanges, 2)
	assert.Equal(t, enum.OrderStatusPending, order.StatusChanges[0].FromStatus)
	assert.Equal(t, enum.OrderStatusProcessing, order.StatusChanges[0].ToStatus)
	assert.Equal(t, enum.OrderStatusCompleted, order.StatusChanges[1].ToStatus)

	trail := order.StatusTrail()
	assert.Contains(t, trail, "Status changed to Processing")
	assert.Contains(t, trail, "stock arrived")
	assert.Contains(t, trail, "Status changed to Completed")
}

func TestOrderService_ChangeStatus_OutOfTerminalAccepted(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.orders.CreateOrder(env.ctx, env.principal(env.retailer), CreateOrderInput{
		StoreID: env.store.ID,
		Items:   []OrderLineInput{{ProductID: env.grease.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)

	for _, to := range []enum.OrderStatus{
		enum.OrderStatusCancelled,
		enum.OrderStatusProcessing,
		enum.OrderStatusProcessing,
	} {
		_, err = env.orders.ChangeStatus(env.ctx, env.principal(env.sales), ChangeStatusInput{
			OrderID: created.OrderID,
			To:      to,
		})
		require.NoError(t, err)
	}

	order, err := env.orders.GetOrder(env.ctx, env.principal(env.sales), created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusProcessing, order.Status)
	// Repeats and moves out of Cancelled are all logged.
	assert.Len(t, order.StatusChanges, 3)
}

func TestOrderService_ChangeStatus_CustomerDenied(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.orders.CreateOrder(env.ctx, env.principal(env.retailer), CreateOrderInput{
		StoreID: env.store.ID,
		Items:   []OrderLineInput{{ProductID: env.grease.ID, Quantity: d("1")}},
	})
	require.NoError(t, err)

	_, err = env.orders.ChangeStatus(env.ctx, env.principal(env.retailer), ChangeStatusInput{
		OrderID: created.OrderID,
		To:      enum.OrderStatusCancelled,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.GetAppError(err).Code)
}

func TestOrderService_ListOrders_CustomerPinnedToOwn(t *testing.T) {
	env := newTestEnv(t)

	for _, u := range []*entity.User{env.retailer, env.workshop} {
		_, err := env.orders.CreateOrder(env.ctx, env.principal(u), CreateOrderInput{
			StoreID: env.store.ID,
			Items:   []OrderLineInput{{ProductID: env.oil.ID, Quantity: d("1")}},
		})
		require.NoError(t, err)
	}

	all, total, err := env.orders.ListOrders(env.ctx, env.principal(env.sales), newOrderFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	own, total, err := env.orders.ListOrders(env.ctx, env.principal(env.workshop), newOrderFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, own, 1)
	assert.Equal(t, env.workshop.ID, own[0].UserID)
}
