package repository

import (
	"context"

	"app/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, p model.Payment) (int64, error)
	FindByID(ctx context.Context, id int64) (model.Payment, error)
}
