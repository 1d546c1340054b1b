package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAdminOrderUC(tx *TxManagerMock, orders *OrderRepoMock, items *OrderItemRepoMock, audit *AuditRepoMock) *usecase.AdminOrderUsecase {
	return usecase.NewAdminOrderUsecase(tx, orders, items, audit, NopLogger{})
}

func TestAdminOrderUsecase_List_InvalidPage(t *testing.T) {
	uc := newAdminOrderUC(new(TxManagerMock), new(OrderRepoMock), new(OrderItemRepoMock), new(AuditRepoMock))

	_, err := uc.List(context.Background(), usecase.AdminOrderListInput{Page: 0, Limit: 20})
	assertErrContains(t, err, "invalid page")
}

func TestAdminOrderUsecase_List_InvalidStatus(t *testing.T) {
	uc := newAdminOrderUC(new(TxManagerMock), new(OrderRepoMock), new(OrderItemRepoMock), new(AuditRepoMock))

	_, err := uc.List(context.Background(), usecase.AdminOrderListInput{Page: 1, Limit: 20, Status: "XXX"})
	assertErrContains(t, err, "invalid status")
}

func TestAdminOrderUsecase_List_Success(t *testing.T) {
	ctx := context.Background()

	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)

	orders := []model.Order{
		{ID: 10, Status: model.OrderStatusPending},
		{ID: 11, Status: model.OrderStatusPaid},
	}
	ordersRepo.On("ListAdmin", mock.Anything, mock.Anything).Return(orders, int64(2), nil)
	itemsRepo.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{}, nil)
	itemsRepo.On("ListByOrderID", mock.Anything, int64(11)).Return([]model.OrderItem{}, nil)

	uc := newAdminOrderUC(new(TxManagerMock), ordersRepo, itemsRepo, new(AuditRepoMock))

	out, err := uc.List(ctx, usecase.AdminOrderListInput{Page: 1, Limit: 20})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(out.Items))
	assert.Equal(t, int64(2), out.Total)

	ordersRepo.AssertExpectations(t)
	itemsRepo.AssertExpectations(t)
}

func TestAdminOrderUsecase_UpdateStatus_InvalidStatus(t *testing.T) {
	uc := newAdminOrderUC(new(TxManagerMock), new(OrderRepoMock), new(OrderItemRepoMock), new(AuditRepoMock))

	_, err := uc.UpdateStatus(context.Background(), 1, 1, model.OrderStatus("XXX"))
	assertErrContains(t, err, "invalid status")
}

func TestAdminOrderUsecase_UpdateStatus_SameStatus_NoOp(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	audit := new(AuditRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: itemsRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID:     1,
		Status: model.OrderStatusPaid,
	}, nil)
	itemsRepo.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)

	uc := newAdminOrderUC(tx, ordersRepo, itemsRepo, audit)

	out, err := uc.UpdateStatus(ctx, 1, 1, model.OrderStatusPaid)
	assert.NoError(t, err)
	assert.Equal(t, "PAID", out.Status)

	ordersRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// PAID -> SHIPPED: 全明細の在庫を引き当てて監査ログを残す
func TestAdminOrderUsecase_UpdateStatus_Ship_DecrementsStock_And_Audits(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	invRepo := new(InventoryRepoMock)
	audit := new(AuditRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: itemsRepo, inventory: invRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	adminID := int64(999)
	orderID := int64(50)

	ordersRepo.On("FindByID", mock.Anything, orderID).Return(model.Order{
		ID:     orderID,
		Status: model.OrderStatusPaid,
	}, nil)

	items := []model.OrderItem{
		{OrderID: orderID, VariantID: 100, ProductNameSnapshot: "Oxford Shirt", Quantity: 2},
		{OrderID: orderID, VariantID: 101, ProductNameSnapshot: "Chinos", Quantity: 1},
	}
	itemsRepo.On("ListByOrderID", mock.Anything, orderID).Return(items, nil)

	invRepo.On("DecreaseStockIfEnough", mock.Anything, int64(100), int64(2)).Return(true, nil)
	invRepo.On("DecreaseStockIfEnough", mock.Anything, int64(101), int64(1)).Return(true, nil)

	ordersRepo.On("UpdateStatus", mock.Anything, orderID, model.OrderStatusShipped).Return(nil)

	audit.On("Create", mock.Anything, mock.MatchedBy(func(a model.AuditLog) bool {
		return a.ActorUserID == adminID &&
			a.Action == model.AuditActionUpdateOrderStatus &&
			a.ResourceType == model.AuditResourceOrder &&
			a.ResourceID == orderID &&
			a.BeforeJSON == `{"status":"PAID"}` &&
			a.AfterJSON == `{"status":"SHIPPED"}`
	})).Return(nil)

	uc := newAdminOrderUC(tx, ordersRepo, itemsRepo, audit)

	out, err := uc.UpdateStatus(ctx, adminID, orderID, model.OrderStatusShipped)
	assert.NoError(t, err)
	assert.Equal(t, "SHIPPED", out.Status)

	invRepo.AssertExpectations(t)
	audit.AssertExpectations(t)
}

// 在庫不足: どの商品が足りないかと残在庫をエラーに含め、全体を巻き戻す
func TestAdminOrderUsecase_UpdateStatus_Ship_InsufficientStock_AllOrNothing(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	variantsRepo := new(VariantRepoMock)
	invRepo := new(InventoryRepoMock)
	audit := new(AuditRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: itemsRepo, variants: variantsRepo, inventory: invRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orderID := int64(51)

	ordersRepo.On("FindByID", mock.Anything, orderID).Return(model.Order{
		ID:     orderID,
		Status: model.OrderStatusPaid,
	}, nil)

	items := []model.OrderItem{
		{OrderID: orderID, VariantID: 100, ProductNameSnapshot: "Oxford Shirt", Quantity: 2},
		{OrderID: orderID, VariantID: 101, ProductNameSnapshot: "Chinos", Quantity: 5},
	}
	itemsRepo.On("ListByOrderID", mock.Anything, orderID).Return(items, nil)

	invRepo.On("DecreaseStockIfEnough", mock.Anything, int64(100), int64(2)).Return(true, nil)
	// 2件目で在庫不足
	invRepo.On("DecreaseStockIfEnough", mock.Anything, int64(101), int64(5)).Return(false, nil)
	variantsRepo.On("FindByID", mock.Anything, int64(101)).Return(model.ProductVariant{
		ID:    101,
		Stock: 3,
	}, nil)

	uc := newAdminOrderUC(tx, ordersRepo, itemsRepo, audit)

	_, err := uc.UpdateStatus(ctx, 1, orderID, model.OrderStatusShipped)
	assertErrContains(t, err, "insufficient stock for Chinos")
	assertErrContains(t, err, "available 3")

	// エラーならステータスは変えないし監査ログも書かない
	ordersRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_Delivered(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	audit := new(AuditRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: itemsRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID:     1,
		Status: model.OrderStatusShipped,
	}, nil)
	itemsRepo.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)
	ordersRepo.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusDelivered).Return(nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := newAdminOrderUC(tx, ordersRepo, itemsRepo, audit)

	out, err := uc.UpdateStatus(ctx, 1, 1, model.OrderStatusDelivered)
	assert.NoError(t, err)
	assert.Equal(t, "DELIVERED", out.Status)
}

// DELIVERED -> CANCELED などの逆行は409
func TestAdminOrderUsecase_UpdateStatus_InvalidTransition(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	audit := new(AuditRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: itemsRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID:     1,
		Status: model.OrderStatusDelivered,
	}, nil)
	itemsRepo.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)

	uc := newAdminOrderUC(tx, ordersRepo, itemsRepo, audit)

	_, err := uc.UpdateStatus(ctx, 1, 1, model.OrderStatusCanceled)
	assertErrContains(t, err, "cannot change status from DELIVERED to CANCELED")
}

// PENDING -> PAID は決済経由のみ
func TestAdminOrderUsecase_UpdateStatus_PendingToPaid_Rejected(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	audit := new(AuditRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo, orderItems: itemsRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID:     1,
		Status: model.OrderStatusPending,
	}, nil)
	itemsRepo.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)

	uc := newAdminOrderUC(tx, ordersRepo, itemsRepo, audit)

	_, err := uc.UpdateStatus(ctx, 1, 1, model.OrderStatusPaid)
	assertErrContains(t, err, "cannot change status from PENDING to PAID")
}
