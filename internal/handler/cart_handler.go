package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	sessionHeader = "X-Session-Token"
	sessionCookie = "cart_session"
	sessionTTL    = 14 * 24 * time.Hour
)

// セッションカートのAPI。ログイン不要で使える。
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/cart", h.get)
	e.POST("/cart/add/:product_id", h.add)
	e.POST("/cart/remove/:product_id", h.remove)
}

// セッショントークンを取り出す。ヘッダ優先、次にCookie。
// 無ければ新しく発行してCookieにセットする。
func (h *CartHandler) sessionToken(c echo.Context) string {
	if v := c.Request().Header.Get(sessionHeader); v != "" {
		return v
	}
	if ck, err := c.Cookie(sessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}

	token := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})
	return token
}

type cartMutateRequest struct {
	VariantID *int64 `json:"variant_id"`
	Quantity  int64  `json:"quantity"`
}

func (h *CartHandler) get(c echo.Context) error {
	token := h.sessionToken(c)
	currency := c.QueryParam("currency")

	out, err := h.uc.GetCart(c.Request().Context(), token, currency)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) add(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
	}

	var req cartMutateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	token := h.sessionToken(c)

	out, err := h.uc.AddToCart(c.Request().Context(), token, usecase.AddCartInput{
		ProductID: productID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) remove(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
	}

	var req cartMutateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	token := h.sessionToken(c)

	out, err := h.uc.RemoveFromCart(c.Request().Context(), token, usecase.RemoveCartInput{
		ProductID: productID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
