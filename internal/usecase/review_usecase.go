package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ReviewUsecase struct {
	reviewRepo  repo.ReviewRepository
	productRepo repo.ProductRepository
}

func NewReviewUsecase(reviewRepo repo.ReviewRepository, productRepo repo.ProductRepository) *ReviewUsecase {
	return &ReviewUsecase{reviewRepo: reviewRepo, productRepo: productRepo}
}

type ReviewInput struct {
	Rating  int
	Comment string
}

// レビュー投稿。1ユーザー1商品につき1件まで。
func (u *ReviewUsecase) CreateReview(ctx context.Context, userID int64, productID int64, in ReviewInput) (model.ProductReview, error) {
	if userID <= 0 {
		return model.ProductReview{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.ProductReview{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.ProductReview{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}
	if len(in.Comment) > 2000 {
		return model.ProductReview{}, NewHTTPError(http.StatusBadRequest, "comment too long")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return model.ProductReview{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.ProductReview{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 重複チェック（DBのユニーク制約が最後の砦）
	if _, err := u.reviewRepo.FindByProductAndUser(ctx, productID, userID); err == nil {
		return model.ProductReview{}, NewHTTPError(http.StatusConflict, "review already exists")
	} else if err != repo.ErrNotFound {
		return model.ProductReview{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.reviewRepo.Create(ctx, model.ProductReview{
		ProductID: productID,
		UserID:    userID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
	})
	if err != nil {
		return model.ProductReview{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *ReviewUsecase) UpdateReview(ctx context.Context, userID int64, reviewID int64, in ReviewInput) (model.ProductReview, error) {
	if userID <= 0 {
		return model.ProductReview{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.ProductReview{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}
	if len(in.Comment) > 2000 {
		return model.ProductReview{}, NewHTTPError(http.StatusBadRequest, "comment too long")
	}

	r, err := u.reviewRepo.FindByID(ctx, reviewID)
	if err == repo.ErrNotFound {
		return model.ProductReview{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.ProductReview{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if r.UserID != userID {
		return model.ProductReview{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	r.Rating = in.Rating
	r.Comment = strings.TrimSpace(in.Comment)
	if err := u.reviewRepo.Update(ctx, r); err != nil {
		return model.ProductReview{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return r, nil
}

func (u *ReviewUsecase) DeleteReview(ctx context.Context, userID int64, reviewID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	r, err := u.reviewRepo.FindByID(ctx, reviewID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if r.UserID != userID {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.reviewRepo.Delete(ctx, reviewID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
