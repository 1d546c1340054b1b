package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type CatalogUsecase struct {
	productRepo repo.ProductRepository
	variantRepo repo.VariantRepository
	reviewRepo  repo.ReviewRepository
}

// DI
func NewCatalogUsecase(
	productRepo repo.ProductRepository,
	variantRepo repo.VariantRepository,
	reviewRepo repo.ReviewRepository,
) *CatalogUsecase {
	return &CatalogUsecase{
		productRepo: productRepo,
		variantRepo: variantRepo,
		reviewRepo:  reviewRepo,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Color    string
	Size     string
	Gender   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *CatalogUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	switch in.Gender {
	case "", string(model.GenderMale), string(model.GenderFemale), string(model.GenderUnisex):
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid gender")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Color:    strings.TrimSpace(in.Color),
		Size:     strings.TrimSpace(in.Size),
		Gender:   in.Gender,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// 商品詳細のバリアント1件分
type VariantDetail struct {
	ID        int64           `json:"id"`
	SKU       string          `json:"sku"`
	Color     *model.Color    `json:"color"`
	Size      *model.Size     `json:"size"`
	Stock     int64           `json:"stock"`
	Price     decimal.Decimal `json:"price"`
}

type ProductDetailOutput struct {
	Product  model.Product         `json:"product"`
	Variants []VariantDetail       `json:"variants"`
	Reviews  []model.ProductReview `json:"reviews"`
}

func (u *CatalogUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductDetailOutput, error) {
	if productID <= 0 {
		return ProductDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	variants, err := u.variantRepo.ListByProductID(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	details := make([]VariantDetail, 0, len(variants))
	for _, v := range variants {
		d := VariantDetail{
			ID:    v.ID,
			SKU:   v.SKU,
			Stock: v.Stock,
			Price: v.EffectivePrice(p.BasePrice),
		}
		if v.ColorID != nil {
			if c, err := u.variantRepo.FindColor(ctx, *v.ColorID); err == nil {
				d.Color = &c
			}
		}
		if v.SizeID != nil {
			if s, err := u.variantRepo.FindSize(ctx, *v.SizeID); err == nil {
				d.Size = &s
			}
		}
		details = append(details, d)
	}

	reviews, err := u.reviewRepo.ListByProductID(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductDetailOutput{Product: p, Variants: details, Reviews: reviews}, nil
}

// 在庫の読み取り専用一覧
func (u *CatalogUsecase) ListStock(ctx context.Context) ([]repo.StockRow, error) {
	rows, err := u.variantRepo.ListStock(ctx)
	if err != nil {
		return []repo.StockRow{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rows, nil
}
