package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) FindByID(ctx context.Context, id int64) (model.ProductReview, error) {
	var rv model.ProductReview
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductReview{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductReview{}, err
	}
	return rv, nil
}

func (r *ReviewGormRepository) FindByProductAndUser(ctx context.Context, productID int64, userID int64) (model.ProductReview, error) {
	var rv model.ProductReview
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&rv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductReview{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductReview{}, err
	}
	return rv, nil
}

func (r *ReviewGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.ProductReview, error) {
	var items []model.ProductReview
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return []model.ProductReview{}, err
	}
	return items, nil
}

func (r *ReviewGormRepository) Create(ctx context.Context, rv model.ProductReview) (model.ProductReview, error) {
	if err := r.db.WithContext(ctx).Create(&rv).Error; err != nil {
		return model.ProductReview{}, err
	}
	return rv, nil
}

func (r *ReviewGormRepository) Update(ctx context.Context, rv model.ProductReview) error {
	res := r.db.WithContext(ctx).Model(&model.ProductReview{}).
		Where("id = ?", rv.ID).
		Updates(map[string]interface{}{
			"rating":  rv.Rating,
			"comment": rv.Comment,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ReviewGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.ProductReview{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
