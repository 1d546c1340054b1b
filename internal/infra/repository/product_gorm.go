package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}

	qb := r.db.WithContext(ctx).Model(&model.Product{})

	// 名前の部分一致
	if q.Q != "" {
		qb = qb.Where("products.name ILIKE ?", "%"+q.Q+"%")
	}
	if q.Gender != "" {
		qb = qb.Where("products.gender = ?", q.Gender)
	}
	if q.MinPrice != nil {
		qb = qb.Where("products.base_price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		qb = qb.Where("products.base_price <= ?", *q.MaxPrice)
	}

	// カラー・サイズはバリアント経由で絞る
	if q.Color != "" {
		qb = qb.Where("products.id IN (?)",
			r.db.Table("product_variants").
				Select("product_variants.product_id").
				Joins("join colors on colors.id = product_variants.color_id").
				Where("colors.name = ?", q.Color))
	}
	if q.Size != "" {
		qb = qb.Where("products.id IN (?)",
			r.db.Table("product_variants").
				Select("product_variants.product_id").
				Joins("join sizes on sizes.id = product_variants.size_id").
				Where("sizes.value = ?", q.Size))
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	var items []model.Product
	offset := (q.Page - 1) * q.Limit
	if err := qb.Order("products.id desc").Limit(q.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return items, total, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":        p.Name,
			"gender":      p.Gender,
			"description": p.Description,
			"materials":   p.Materials,
			"care_guide":  p.CareGuide,
			"base_price":  p.BasePrice,
			"updated_at":  p.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) ListColors(ctx context.Context) ([]model.Color, error) {
	var colors []model.Color
	if err := r.db.WithContext(ctx).Order("id asc").Find(&colors).Error; err != nil {
		return []model.Color{}, err
	}
	return colors, nil
}

func (r *ProductGormRepository) ListSizes(ctx context.Context) ([]model.Size, error) {
	var sizes []model.Size
	if err := r.db.WithContext(ctx).Order("id asc").Find(&sizes).Error; err != nil {
		return []model.Size{}, err
	}
	return sizes, nil
}

func (r *ProductGormRepository) CreateColor(ctx context.Context, c model.Color) (model.Color, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Color{}, err
	}
	return c, nil
}

func (r *ProductGormRepository) CreateSize(ctx context.Context, s model.Size) (model.Size, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Size{}, err
	}
	return s, nil
}
