package repository

import (
	"context"

	"app/internal/domain/model"
)

type ReviewRepository interface {
	FindByID(ctx context.Context, id int64) (model.ProductReview, error)
	FindByProductAndUser(ctx context.Context, productID int64, userID int64) (model.ProductReview, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductReview, error)
	Create(ctx context.Context, r model.ProductReview) (model.ProductReview, error)
	Update(ctx context.Context, r model.ProductReview) error
	Delete(ctx context.Context, id int64) error
}
