package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileGormRepository struct {
	db *gorm.DB
}

func NewProfileGormRepository(db *gorm.DB) *ProfileGormRepository {
	return &ProfileGormRepository{db: db}
}

func (r *ProfileGormRepository) Create(ctx context.Context, p *model.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProfileGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	var p model.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Profile{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// 二重追加は無視する
func (r *ProfileGormRepository) AddWish(ctx context.Context, profileID int64, productID int64) error {
	item := model.WishItem{ProfileID: profileID, ProductID: productID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&item).Error
}

func (r *ProfileGormRepository) RemoveWish(ctx context.Context, profileID int64, productID int64) error {
	res := r.db.WithContext(ctx).
		Where("profile_id = ? AND product_id = ?", profileID, productID).
		Delete(&model.WishItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProfileGormRepository) ListWishes(ctx context.Context, profileID int64) ([]model.Product, error) {
	var items []model.Product
	err := r.db.WithContext(ctx).
		Joins("join wish_items on wish_items.product_id = products.id").
		Where("wish_items.profile_id = ?", profileID).
		Order("wish_items.created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.Product{}, err
	}
	return items, nil
}
