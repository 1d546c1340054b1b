package repository

import (
	"context"

	"app/internal/domain/model"
)

// セッショントークンをキーにしたカートの保管先。
// 無いトークンは空カート扱い。
type CartStore interface {
	Get(ctx context.Context, token string) (model.Cart, error)
	Save(ctx context.Context, token string, cart model.Cart) error
	Clear(ctx context.Context, token string) error
}
