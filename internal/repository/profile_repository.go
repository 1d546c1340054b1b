package repository

import (
	"context"

	"app/internal/domain/model"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *model.Profile) error
	FindByUserID(ctx context.Context, userID int64) (model.Profile, error)

	// ウィッシュリスト
	AddWish(ctx context.Context, profileID int64, productID int64) error
	RemoveWish(ctx context.Context, profileID int64, productID int64) error
	ListWishes(ctx context.Context, profileID int64) ([]model.Product, error)
}
