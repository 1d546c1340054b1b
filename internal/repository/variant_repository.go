package repository

import (
	"context"

	"app/internal/domain/model"
)

// 在庫API用の1行
type StockRow struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Stock       int64  `json:"stock"`
}

type VariantRepository interface {
	FindByID(ctx context.Context, id int64) (model.ProductVariant, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductVariant, error)
	// バリアント未選択のカート行を注文に落とすときに使う
	FirstByProductID(ctx context.Context, productID int64) (model.ProductVariant, error)

	Create(ctx context.Context, v model.ProductVariant) (model.ProductVariant, error)
	Update(ctx context.Context, v model.ProductVariant) error
	Delete(ctx context.Context, id int64) error

	FindColor(ctx context.Context, id int64) (model.Color, error)
	FindSize(ctx context.Context, id int64) (model.Size, error)

	// 全バリアントの在庫一覧（読み取り専用API）
	ListStock(ctx context.Context) ([]StockRow, error)
}
