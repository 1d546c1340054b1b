package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOrderUsecase_CreateOrder_Unauthorized(t *testing.T) {
	tx := new(TxManagerMock)
	store := new(CartStoreMock)
	profiles := new(ProfileRepoMock)

	uc := usecase.NewOrderUsecase(tx, store, profiles)

	_, err := uc.CreateOrder(context.Background(), 0, "tok")
	assertErrContains(t, err, "unauthorized")
}

func TestOrderUsecase_CreateOrder_EmptyCart(t *testing.T) {
	tx := new(TxManagerMock)
	store := new(CartStoreMock)
	profiles := new(ProfileRepoMock)

	store.On("Get", mock.Anything, "tok").Return(model.Cart{}, nil)

	uc := usecase.NewOrderUsecase(tx, store, profiles)

	_, err := uc.CreateOrder(context.Background(), 1, "tok")
	assertErrContains(t, err, "cart empty")

	// カートが空ならtxまで行かない
	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

// 成功時: スナップショットから注文を作り、在庫は触らず、カートを空にする
func TestOrderUsecase_CreateOrder_Success_SnapshotsAndClearsCart(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	store := new(CartStoreMock)
	profiles := new(ProfileRepoMock)

	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	productsRepo := new(ProductRepoMock)
	variantsRepo := new(VariantRepoMock)
	invRepo := new(InventoryRepoMock)

	tx.Repos = &TxReposMock{
		orders:     ordersRepo,
		orderItems: itemsRepo,
		products:   productsRepo,
		variants:   variantsRepo,
		inventory:  invRepo,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	userID := int64(5)

	cart := model.Cart{}
	cart.Add("variant-7", 2, decimal.RequireFromString("19.99"))
	store.On("Get", mock.Anything, "tok").Return(cart, nil)
	store.On("Clear", mock.Anything, "tok").Return(nil)

	profiles.On("FindByUserID", mock.Anything, userID).Return(model.Profile{
		UserID:          userID,
		ShippingAddress: "Calle 10 #4-32",
	}, nil)

	variantsRepo.On("FindByID", mock.Anything, int64(7)).Return(model.ProductVariant{
		ID:        7,
		ProductID: 12,
		SKU:       "12-NAVY-BLUE-M",
	}, nil)
	productsRepo.On("FindByID", mock.Anything, int64(12)).Return(model.Product{
		ID:   12,
		Name: "Oxford Shirt",
	}, nil)

	ordersRepo.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == userID &&
			o.Status == model.OrderStatusPending &&
			o.Total.StringFixed(2) == "39.98" &&
			o.ShippingAddress == "Calle 10 #4-32"
	})).Return(int64(100), nil)

	itemsRepo.On("CreateBulk", mock.Anything, int64(100), mock.MatchedBy(func(items []model.OrderItem) bool {
		if len(items) != 1 {
			return false
		}
		it := items[0]
		return it.VariantID == 7 &&
			it.ProductNameSnapshot == "Oxford Shirt" &&
			it.PurchasePrice.StringFixed(2) == "19.99" &&
			it.Quantity == 2
	})).Return(nil)

	uc := usecase.NewOrderUsecase(tx, store, profiles)

	out, err := uc.CreateOrder(ctx, userID, "tok")
	assert.NoError(t, err)
	assert.Equal(t, int64(100), out.ID)
	assert.Equal(t, "PENDING", out.Status)
	assert.Equal(t, "39.98", out.Total.StringFixed(2))

	// 注文作成では在庫を減らさない（出荷時に減る）
	invRepo.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)

	store.AssertExpectations(t)
	ordersRepo.AssertExpectations(t)
	itemsRepo.AssertExpectations(t)
}

// バリアント未選択の行は先頭バリアントに解決する
func TestOrderUsecase_CreateOrder_BareProductKey_ResolvesFirstVariant(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	store := new(CartStoreMock)
	profiles := new(ProfileRepoMock)

	ordersRepo := new(OrderRepoMock)
	itemsRepo := new(OrderItemRepoMock)
	productsRepo := new(ProductRepoMock)
	variantsRepo := new(VariantRepoMock)

	tx.Repos = &TxReposMock{
		orders:     ordersRepo,
		orderItems: itemsRepo,
		products:   productsRepo,
		variants:   variantsRepo,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	cart := model.Cart{}
	cart.Add("12", 1, decimal.RequireFromString("30.00"))
	store.On("Get", mock.Anything, "tok").Return(cart, nil)
	store.On("Clear", mock.Anything, "tok").Return(nil)

	profiles.On("FindByUserID", mock.Anything, int64(5)).Return(model.Profile{}, repo.ErrNotFound)

	variantsRepo.On("FirstByProductID", mock.Anything, int64(12)).Return(model.ProductVariant{
		ID:        70,
		ProductID: 12,
	}, nil)
	productsRepo.On("FindByID", mock.Anything, int64(12)).Return(model.Product{ID: 12, Name: "Chinos"}, nil)

	ordersRepo.On("Create", mock.Anything, mock.Anything).Return(int64(101), nil)
	itemsRepo.On("CreateBulk", mock.Anything, int64(101), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 && items[0].VariantID == 70
	})).Return(nil)

	uc := usecase.NewOrderUsecase(tx, store, profiles)

	out, err := uc.CreateOrder(ctx, 5, "tok")
	assert.NoError(t, err)
	assert.Equal(t, int64(101), out.ID)
}

func TestOrderUsecase_CancelOrder_NotOwner_NotFound(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	store := new(CartStoreMock)
	profiles := new(ProfileRepoMock)
	ordersRepo := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(9)).Return(model.Order{
		ID:     9,
		UserID: 42,
		Status: model.OrderStatusPending,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, store, profiles)

	//他人の注文は404扱い
	err := uc.CancelOrder(ctx, 1, 9)
	assertErrContains(t, err, "not found")

	ordersRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_CancelOrder_Shipped_Conflict(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	store := new(CartStoreMock)
	profiles := new(ProfileRepoMock)
	ordersRepo := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(9)).Return(model.Order{
		ID:     9,
		UserID: 1,
		Status: model.OrderStatusShipped,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, store, profiles)

	err := uc.CancelOrder(ctx, 1, 9)
	assertErrContains(t, err, "cannot cancel")
}

func TestOrderUsecase_CancelOrder_AlreadyCanceled_Conflict(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	store := new(CartStoreMock)
	profiles := new(ProfileRepoMock)
	ordersRepo := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(9)).Return(model.Order{
		ID:     9,
		UserID: 1,
		Status: model.OrderStatusCanceled,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, store, profiles)

	err := uc.CancelOrder(ctx, 1, 9)
	assertErrContains(t, err, "already canceled")
}

func TestOrderUsecase_CancelOrder_Paid_Succeeds(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	store := new(CartStoreMock)
	profiles := new(ProfileRepoMock)
	ordersRepo := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(9)).Return(model.Order{
		ID:     9,
		UserID: 1,
		Status: model.OrderStatusPaid,
	}, nil)
	ordersRepo.On("UpdateStatus", mock.Anything, int64(9), model.OrderStatusCanceled).Return(nil)

	uc := usecase.NewOrderUsecase(tx, store, profiles)

	err := uc.CancelOrder(ctx, 1, 9)
	assert.NoError(t, err)

	ordersRepo.AssertExpectations(t)
}

func TestOrderUsecase_GetMyOrderDetail_NotOwner_NotFound(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	store := new(CartStoreMock)
	profiles := new(ProfileRepoMock)
	ordersRepo := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: ordersRepo}
	tx.On("WithinTx", mock.Anything).Return(nil)

	ordersRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Order{
		ID:     3,
		UserID: 99,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, store, profiles)

	_, err := uc.GetMyOrderDetail(ctx, 1, 3)
	assertErrContains(t, err, "not found")
}
