package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// 管理者向けカタログAPI（商品・バリアント・カラー・サイズ・在庫）
type AdminProductHandler struct {
	uc *usecase.AdminCatalogUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.AdminCatalogUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

func (h *AdminProductHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/products", h.createProduct)
	g.PUT("/products/:id", h.updateProduct)
	g.DELETE("/products/:id", h.deleteProduct)

	g.POST("/products/:id/variants", h.createVariant)
	g.DELETE("/variants/:id", h.deleteVariant)
	g.PUT("/variants/:id/stock", h.setStock)

	g.GET("/colors", h.listColors)
	g.POST("/colors", h.createColor)
	g.GET("/sizes", h.listSizes)
	g.POST("/sizes", h.createSize)
}

type adminProductRequest struct {
	Name        string          `json:"name"`
	Gender      string          `json:"gender"`
	Description string          `json:"description"`
	Materials   string          `json:"materials"`
	CareGuide   string          `json:"care_guide"`
	BasePrice   decimal.Decimal `json:"base_price"`
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req adminProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.CreateProduct(c.Request().Context(), currentUserID(c), usecase.AdminProductInput{
		Name:        req.Name,
		Gender:      req.Gender,
		Description: req.Description,
		Materials:   req.Materials,
		CareGuide:   req.CareGuide,
		BasePrice:   req.BasePrice,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, p)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req adminProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err = h.uc.UpdateProduct(c.Request().Context(), currentUserID(c), id, usecase.AdminProductInput{
		Name:        req.Name,
		Gender:      req.Gender,
		Description: req.Description,
		Materials:   req.Materials,
		CareGuide:   req.CareGuide,
		BasePrice:   req.BasePrice,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), currentUserID(c), id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type adminVariantRequest struct {
	ColorID       *int64           `json:"color_id"`
	SizeID        *int64           `json:"size_id"`
	Stock         int64            `json:"stock"`
	PriceOverride *decimal.Decimal `json:"price_override"`
}

func (h *AdminProductHandler) createVariant(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req adminVariantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	v, err := h.uc.CreateVariant(c.Request().Context(), currentUserID(c), productID, usecase.AdminVariantInput{
		ColorID:       req.ColorID,
		SizeID:        req.SizeID,
		Stock:         req.Stock,
		PriceOverride: req.PriceOverride,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, v)
}

func (h *AdminProductHandler) deleteVariant(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteVariant(c.Request().Context(), currentUserID(c), id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type setStockRequest struct {
	Stock int64 `json:"stock"`
}

func (h *AdminProductHandler) setStock(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req setStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetVariantStock(c.Request().Context(), currentUserID(c), id, req.Stock); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "stock updated"})
}

func (h *AdminProductHandler) listColors(c echo.Context) error {
	colors, err := h.uc.ListColors(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, colors)
}

type adminColorRequest struct {
	Name string `json:"name"`
}

func (h *AdminProductHandler) createColor(c echo.Context) error {
	var req adminColorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	col, err := h.uc.CreateColor(c.Request().Context(), currentUserID(c), usecase.AdminColorInput{Name: req.Name})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, col)
}

func (h *AdminProductHandler) listSizes(c echo.Context) error {
	sizes, err := h.uc.ListSizes(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sizes)
}

type adminSizeRequest struct {
	SizeType string `json:"size_type"`
	Value    string `json:"value"`
}

func (h *AdminProductHandler) createSize(c echo.Context) error {
	var req adminSizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	s, err := h.uc.CreateSize(c.Request().Context(), currentUserID(c), usecase.AdminSizeInput{
		SizeType: req.SizeType,
		Value:    req.Value,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, s)
}
