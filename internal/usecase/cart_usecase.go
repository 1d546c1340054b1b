package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// 表示通貨の解決と換算。実体は internal/currency。
type CurrencyConverter interface {
	Base() string
	Resolve(code string) string
	Rate(ctx context.Context, target string) decimal.Decimal
	Convert(amount decimal.Decimal, rate decimal.Decimal) decimal.Decimal
}

// CartUsecase はセッションカートの業務ロジック。
// カート本体はDBではなくCartStore（セッショントークン keyed）に置く。
type CartUsecase struct {
	cartStore   repo.CartStore
	productRepo repo.ProductRepository
	variantRepo repo.VariantRepository
	converter   CurrencyConverter
}

func NewCartUsecase(
	cartStore repo.CartStore,
	productRepo repo.ProductRepository,
	variantRepo repo.VariantRepository,
	converter CurrencyConverter,
) *CartUsecase {
	return &CartUsecase{
		cartStore:   cartStore,
		productRepo: productRepo,
		variantRepo: variantRepo,
		converter:   converter,
	}
}

type AddCartInput struct {
	ProductID int64
	VariantID *int64
	Quantity  int64
}

type RemoveCartInput struct {
	ProductID int64
	VariantID *int64
	Quantity  int64
}

type CartItemResponse struct {
	Key             string          `json:"key"`
	ProductID       int64           `json:"product_id"`
	VariantID       *int64          `json:"variant_id"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku,omitempty"`
	Quantity        int64           `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DisplayPrice    decimal.Decimal `json:"display_price"`
	DisplaySubtotal decimal.Decimal `json:"display_subtotal"`
}

type CartResponse struct {
	Items        []CartItemResponse `json:"items"`
	Total        decimal.Decimal    `json:"total"`
	Currency     string             `json:"currency"`
	Rate         decimal.Decimal    `json:"rate"`
	DisplayTotal decimal.Decimal    `json:"display_total"`
}

// カートに追加。数量が1未満なら1に落とす（リクエストは弾かない）。
// 価格は追加時点のスナップショットで、以後のカタログ変更を追わない。
func (u *CartUsecase) AddToCart(ctx context.Context, token string, in AddCartInput) (CartResponse, error) {
	if token == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "missing session token")
	}
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}

	var price decimal.Decimal
	if in.VariantID != nil {
		v, err := u.variantRepo.FindByID(ctx, *in.VariantID)
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		p, err := u.productRepo.FindByID(ctx, v.ProductID)
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		price = v.EffectivePrice(p.BasePrice)
	} else {
		p, err := u.productRepo.FindByID(ctx, in.ProductID)
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		price = p.BasePrice
	}

	cart, err := u.cartStore.Get(ctx, token)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	cart.Add(model.CartKey(in.ProductID, in.VariantID), qty, price)

	if err := u.cartStore.Save(ctx, token, cart); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	return u.buildCartResponse(ctx, cart, "")
}

// カートから削除。要求数量が保持数量以上ならキーごと消える。
// 無いキーは何もしない。
func (u *CartUsecase) RemoveFromCart(ctx context.Context, token string, in RemoveCartInput) (CartResponse, error) {
	if token == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "missing session token")
	}
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}

	cart, err := u.cartStore.Get(ctx, token)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	cart.Remove(model.CartKey(in.ProductID, in.VariantID), qty)

	if err := u.cartStore.Save(ctx, token, cart); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	return u.buildCartResponse(ctx, cart, "")
}

// カート取得。displayCurrencyは表示のためだけで、totalは常にベース通貨。
func (u *CartUsecase) GetCart(ctx context.Context, token string, displayCurrency string) (CartResponse, error) {
	if token == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "missing session token")
	}

	cart, err := u.cartStore.Get(ctx, token)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	return u.buildCartResponse(ctx, cart, displayCurrency)
}

func (u *CartUsecase) buildCartResponse(ctx context.Context, cart model.Cart, displayCurrency string) (CartResponse, error) {
	cur := u.converter.Resolve(displayCurrency)
	rate := u.converter.Rate(ctx, cur)

	items := make([]CartItemResponse, 0, len(cart))
	total := decimal.Zero

	for key, line := range cart {
		productID, variantID, err := model.ParseCartKey(key)
		if err != nil {
			// 壊れたキーは飛ばす
			continue
		}

		item := CartItemResponse{
			Key:      key,
			Quantity: line.Quantity,
			Price:    line.Price,
		}

		if variantID != nil {
			v, err := u.variantRepo.FindByID(ctx, *variantID)
			if err == repo.ErrNotFound {
				return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
			}
			if err != nil {
				return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			p, err := u.productRepo.FindByID(ctx, v.ProductID)
			if err == repo.ErrNotFound {
				return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
			}
			if err != nil {
				return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			item.ProductID = p.ID
			item.VariantID = variantID
			item.Name = p.Name
			item.SKU = v.SKU
		} else {
			p, err := u.productRepo.FindByID(ctx, productID)
			if err == repo.ErrNotFound {
				return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
			}
			if err != nil {
				return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			item.ProductID = p.ID
			item.Name = p.Name
		}

		item.Subtotal = line.Price.Mul(decimal.NewFromInt(line.Quantity))
		item.DisplayPrice = u.converter.Convert(line.Price, rate)
		item.DisplaySubtotal = u.converter.Convert(item.Subtotal, rate)

		total = total.Add(item.Subtotal)
		items = append(items, item)
	}

	return CartResponse{
		Items:        items,
		Total:        total,
		Currency:     cur,
		Rate:         rate,
		DisplayTotal: u.converter.Convert(total, rate),
	}, nil
}
