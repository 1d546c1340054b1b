package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// カタログの絞り込み条件
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	Color    string
	Size     string
	Gender   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error

	ListColors(ctx context.Context) ([]model.Color, error)
	ListSizes(ctx context.Context) ([]model.Size, error)
	CreateColor(ctx context.Context, c model.Color) (model.Color, error)
	CreateSize(ctx context.Context, s model.Size) (model.Size, error)
}
