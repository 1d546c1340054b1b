package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type AdminCatalogUsecase struct {
	productRepo   repo.ProductRepository
	variantRepo   repo.VariantRepository
	inventoryRepo repo.InventoryRepository
	auditRepo     repo.AuditLogRepository
}

// DI
func NewAdminCatalogUsecase(
	productRepo repo.ProductRepository,
	variantRepo repo.VariantRepository,
	inventoryRepo repo.InventoryRepository,
	auditRepo repo.AuditLogRepository,
) *AdminCatalogUsecase {
	return &AdminCatalogUsecase{
		productRepo:   productRepo,
		variantRepo:   variantRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
	}
}

type AdminProductInput struct {
	Name        string
	Gender      string
	Description string
	Materials   string
	CareGuide   string
	BasePrice   decimal.Decimal
}

func (in AdminProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	switch in.Gender {
	case string(model.GenderMale), string(model.GenderFemale), string(model.GenderUnisex):
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid gender")
	}
	if in.BasePrice.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "base_price must be >= 0")
	}
	return nil
}

func (u *AdminCatalogUsecase) CreateProduct(ctx context.Context, adminID int64, in AdminProductInput) (model.Product, error) {
	if adminID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	now := time.Now()
	p, err := u.productRepo.Create(ctx, model.Product{
		Name:        strings.TrimSpace(in.Name),
		Gender:      model.Gender(in.Gender),
		Description: in.Description,
		Materials:   in.Materials,
		CareGuide:   in.CareGuide,
		BasePrice:   in.BasePrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *AdminCatalogUsecase) UpdateProduct(ctx context.Context, adminID int64, productID int64, in AdminProductInput) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := in.validate(); err != nil {
		return err
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:          productID,
		Name:        strings.TrimSpace(in.Name),
		Gender:      model.Gender(in.Gender),
		Description: in.Description,
		Materials:   in.Materials,
		CareGuide:   in.CareGuide,
		BasePrice:   in.BasePrice,
		UpdatedAt:   time.Now(),
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AdminCatalogUsecase) DeleteProduct(ctx context.Context, adminID int64, productID int64) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.productRepo.SoftDelete(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

type AdminVariantInput struct {
	ColorID       *int64
	SizeID        *int64
	Stock         int64
	PriceOverride *decimal.Decimal
}

// バリアント作成。SKUは商品ID＋カラー名＋サイズ値から自動生成する。
func (u *AdminCatalogUsecase) CreateVariant(ctx context.Context, adminID int64, productID int64, in AdminVariantInput) (model.ProductVariant, error) {
	if adminID <= 0 {
		return model.ProductVariant{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.ProductVariant{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Stock < 0 {
		return model.ProductVariant{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if in.PriceOverride != nil && in.PriceOverride.IsNegative() {
		return model.ProductVariant{}, NewHTTPError(http.StatusBadRequest, "price_override must be >= 0")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return model.ProductVariant{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.ProductVariant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// カラー/サイズの存在チェック
	if in.ColorID != nil {
		if _, err := u.variantRepo.FindColor(ctx, *in.ColorID); err != nil {
			if err == repo.ErrNotFound {
				return model.ProductVariant{}, NewHTTPError(http.StatusBadRequest, "unknown color")
			}
			return model.ProductVariant{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}
	if in.SizeID != nil {
		if _, err := u.variantRepo.FindSize(ctx, *in.SizeID); err != nil {
			if err == repo.ErrNotFound {
				return model.ProductVariant{}, NewHTTPError(http.StatusBadRequest, "unknown size")
			}
			return model.ProductVariant{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	v, err := u.variantRepo.Create(ctx, model.ProductVariant{
		ProductID:     productID,
		ColorID:       in.ColorID,
		SizeID:        in.SizeID,
		Stock:         in.Stock,
		PriceOverride: in.PriceOverride,
	})
	if err != nil {
		return model.ProductVariant{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return v, nil
}

func (u *AdminCatalogUsecase) DeleteVariant(ctx context.Context, adminID int64, variantID int64) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if variantID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid variant id")
	}

	err := u.variantRepo.Delete(ctx, variantID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 在庫の現在値を直接設定する。マイナスは拒否。監査ログを残す。
func (u *AdminCatalogUsecase) SetVariantStock(ctx context.Context, adminID int64, variantID int64, newStock int64) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if variantID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid variant id")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	//変更前の在庫（before）
	v, err := u.variantRepo.FindByID(ctx, variantID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.inventoryRepo.SetStock(ctx, variantID, newStock); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//監査ログ（「誰が」「どの在庫を」「どう変えたか」）
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminID,
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceVariant,
		ResourceID:   variantID,
		BeforeJSON:   fmt.Sprintf(`{"stock":%d}`, v.Stock),
		AfterJSON:    fmt.Sprintf(`{"stock":%d}`, newStock),
		CreatedAt:    time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

type AdminColorInput struct {
	Name string
}

func (u *AdminCatalogUsecase) CreateColor(ctx context.Context, adminID int64, in AdminColorInput) (model.Color, error) {
	if adminID <= 0 {
		return model.Color{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Color{}, NewHTTPError(http.StatusBadRequest, "name required")
	}

	c, err := u.productRepo.CreateColor(ctx, model.Color{Name: strings.TrimSpace(in.Name)})
	if err != nil {
		return model.Color{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

type AdminSizeInput struct {
	SizeType string
	Value    string
}

func (u *AdminCatalogUsecase) CreateSize(ctx context.Context, adminID int64, in AdminSizeInput) (model.Size, error) {
	if adminID <= 0 {
		return model.Size{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	switch in.SizeType {
	case string(model.SizeTypeClothing), string(model.SizeTypeShoe):
	default:
		return model.Size{}, NewHTTPError(http.StatusBadRequest, "invalid size_type")
	}
	if strings.TrimSpace(in.Value) == "" {
		return model.Size{}, NewHTTPError(http.StatusBadRequest, "value required")
	}

	s, err := u.productRepo.CreateSize(ctx, model.Size{
		SizeType: model.SizeType(in.SizeType),
		Value:    strings.TrimSpace(in.Value),
	})
	if err != nil {
		return model.Size{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func (u *AdminCatalogUsecase) ListColors(ctx context.Context) ([]model.Color, error) {
	colors, err := u.productRepo.ListColors(ctx)
	if err != nil {
		return []model.Color{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return colors, nil
}

func (u *AdminCatalogUsecase) ListSizes(ctx context.Context) ([]model.Size, error) {
	sizes, err := u.productRepo.ListSizes(ctx)
	if err != nil {
		return []model.Size{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return sizes, nil
}
