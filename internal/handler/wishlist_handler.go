package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ウィッシュリストのAPI。認証必須。
type WishlistHandler struct {
	uc *usecase.WishlistUsecase
}

// DI
func NewWishlistHandler(uc *usecase.WishlistUsecase) *WishlistHandler {
	return &WishlistHandler{uc: uc}
}

func (h *WishlistHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/wishlist", h.list)
	g.POST("/wishlist/:product_id", h.add)
	g.DELETE("/wishlist/:product_id", h.remove)
}

func (h *WishlistHandler) list(c echo.Context) error {
	userID := currentUserID(c)

	products, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, products)
}

func (h *WishlistHandler) add(c echo.Context) error {
	userID := currentUserID(c)
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
	}

	if err := h.uc.Add(c.Request().Context(), userID, productID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "added"})
}

func (h *WishlistHandler) remove(c echo.Context) error {
	userID := currentUserID(c)
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
	}

	if err := h.uc.Remove(c.Request().Context(), userID, productID); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
