package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type VariantGormRepository struct {
	db *gorm.DB
}

// DI
func NewVariantGormRepository(db *gorm.DB) *VariantGormRepository {
	return &VariantGormRepository{db: db}
}

func (r *VariantGormRepository) FindByID(ctx context.Context, id int64) (model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductVariant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductVariant{}, err
	}
	return v, nil
}

func (r *VariantGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.ProductVariant, error) {
	var items []model.ProductVariant
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.ProductVariant{}, err
	}
	return items, nil
}

// バリアント未選択のカート行の解決に使う
func (r *VariantGormRepository) FirstByProductID(ctx context.Context, productID int64) (model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id asc").
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductVariant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductVariant{}, err
	}
	return v, nil
}

// SKUが空なら product id + color + size から生成して保存する。
func (r *VariantGormRepository) Create(ctx context.Context, v model.ProductVariant) (model.ProductVariant, error) {
	if v.SKU == "" {
		var colorName, sizeValue string
		if v.ColorID != nil {
			c, err := r.FindColor(ctx, *v.ColorID)
			if err != nil {
				return model.ProductVariant{}, err
			}
			colorName = c.Name
		}
		if v.SizeID != nil {
			s, err := r.FindSize(ctx, *v.SizeID)
			if err != nil {
				return model.ProductVariant{}, err
			}
			sizeValue = s.Value
		}
		v.SKU = model.GenerateSKU(v.ProductID, colorName, sizeValue)
	}

	if err := r.db.WithContext(ctx).Create(&v).Error; err != nil {
		return model.ProductVariant{}, err
	}
	return v, nil
}

func (r *VariantGormRepository) Update(ctx context.Context, v model.ProductVariant) error {
	res := r.db.WithContext(ctx).Model(&model.ProductVariant{}).
		Where("id = ?", v.ID).
		Updates(map[string]interface{}{
			"color_id":       v.ColorID,
			"size_id":        v.SizeID,
			"stock":          v.Stock,
			"price_override": v.PriceOverride,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *VariantGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.ProductVariant{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *VariantGormRepository) FindColor(ctx context.Context, id int64) (model.Color, error) {
	var c model.Color
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Color{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Color{}, err
	}
	return c, nil
}

func (r *VariantGormRepository) FindSize(ctx context.Context, id int64) (model.Size, error) {
	var s model.Size
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Size{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Size{}, err
	}
	return s, nil
}

// 全バリアントの {product_id, product_name, sku, stock}
func (r *VariantGormRepository) ListStock(ctx context.Context) ([]repo.StockRow, error) {
	var rows []repo.StockRow
	err := r.db.WithContext(ctx).
		Table("product_variants").
		Select("product_variants.product_id, products.name as product_name, product_variants.sku, product_variants.stock").
		Joins("join products on products.id = product_variants.product_id").
		Where("products.deleted_at IS NULL").
		Order("product_variants.id asc").
		Scan(&rows).Error
	if err != nil {
		return []repo.StockRow{}, err
	}
	return rows, nil
}
