package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	// 全トークンを無効化する（ログアウト）
	IncrementTokenVersion(ctx context.Context, id int64) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}
