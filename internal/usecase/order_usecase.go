package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx          repo.TransactionManager
	cartStore   repo.CartStore
	profileRepo repo.ProfileRepository
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	cartStore repo.CartStore,
	profileRepo repo.ProfileRepository,
) *OrderUsecase {
	return &OrderUsecase{tx: tx, cartStore: cartStore, profileRepo: profileRepo}
}

type OrderItemOutput struct {
	VariantID int64           `json:"variant_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	Status          string            `json:"status"`
	Total           decimal.Decimal   `json:"total"`
	ShippingAddress string            `json:"shipping_address"`
	PaymentID       *int64            `json:"payment_id"`
	CreatedAt       time.Time         `json:"created_at"`
	Items           []OrderItemOutput `json:"items"`
}

// CreateOrder はカートのスナップショットから注文を作る。
// ステータスはPENDINGで、在庫はここでは減らさない（出荷時に減らす）。
// 成功したらカートを空にする。
func (u *OrderUsecase) CreateOrder(ctx context.Context, userID int64, token string) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if token == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "missing session token")
	}

	cart, err := u.cartStore.Get(ctx, token)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}
	if len(cart) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	// 配送先はプロフィールから（無ければ空のまま）
	var shippingAddress string
	if prof, err := u.profileRepo.FindByUserID(ctx, userID); err == nil {
		shippingAddress = prof.ShippingAddress
	} else if err != repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var out OrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orderItems := make([]model.OrderItem, 0, len(cart))
		total := decimal.Zero

		for key, line := range cart {
			productID, variantID, perr := model.ParseCartKey(key)
			if perr != nil {
				return NewHTTPError(http.StatusBadRequest, "invalid cart")
			}

			// カート行をバリアントに解決する。
			// バリアント未選択の行は商品の先頭バリアントに落とす。
			var variant model.ProductVariant
			var err error
			if variantID != nil {
				variant, err = r.Variants().FindByID(ctx, *variantID)
			} else {
				variant, err = r.Variants().FirstByProductID(ctx, productID)
			}
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			p, err := r.Products().FindByID(ctx, variant.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			orderItems = append(orderItems, model.OrderItem{
				VariantID:           variant.ID,
				ProductNameSnapshot: p.Name,
				PurchasePrice:       line.Price,
				Quantity:            line.Quantity,
			})

			total = total.Add(line.Price.Mul(decimal.NewFromInt(line.Quantity)))
		}

		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:          userID,
			Status:          model.OrderStatusPending,
			Total:           total,
			ShippingAddress: shippingAddress,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(model.Order{
			ID:              orderID,
			UserID:          userID,
			Status:          model.OrderStatusPending,
			Total:           total,
			ShippingAddress: shippingAddress,
			CreatedAt:       now,
		}, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	// 注文が確定したのでカートを空にする
	if err := u.cartStore.Clear(ctx, token); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	return out, nil
}

// CancelOrder は PENDING/PAID の注文だけキャンセルできる。
// 出荷済み・配達済み・キャンセル済みは拒否する。
func (u *OrderUsecase) CancelOrder(ctx context.Context, userID int64, orderID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		if o.Status == model.OrderStatusCanceled {
			return NewHTTPError(http.StatusConflict, "order already canceled")
		}
		if !o.Status.CanCancel() {
			return NewHTTPError(http.StatusConflict, "cannot cancel a shipped or delivered order")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCanceled); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			VariantID: it.VariantID,
			Name:      it.ProductNameSnapshot,
			Price:     it.PurchasePrice,
			Quantity:  it.Quantity,
			Subtotal:  it.PurchasePrice.Mul(decimal.NewFromInt(it.Quantity)),
		})
	}

	return OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          string(o.Status),
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		PaymentID:       o.PaymentID,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
	}
}
