package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type WishlistUsecase struct {
	profileRepo repo.ProfileRepository
	productRepo repo.ProductRepository
}

func NewWishlistUsecase(profileRepo repo.ProfileRepository, productRepo repo.ProductRepository) *WishlistUsecase {
	return &WishlistUsecase{profileRepo: profileRepo, productRepo: productRepo}
}

// 追加は冪等。すでにあっても何も起きない。
func (u *WishlistUsecase) Add(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	prof, err := u.profileRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "profile not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.profileRepo.AddWish(ctx, prof.ID, productID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *WishlistUsecase) Remove(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	prof, err := u.profileRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "profile not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.profileRepo.RemoveWish(ctx, prof.ID, productID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *WishlistUsecase) List(ctx context.Context, userID int64) ([]model.Product, error) {
	if userID <= 0 {
		return []model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	prof, err := u.profileRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return []model.Product{}, NewHTTPError(http.StatusNotFound, "profile not found")
	}
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	products, err := u.profileRepo.ListWishes(ctx, prof.ID)
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return products, nil
}
