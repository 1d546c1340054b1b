package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"app/internal/middleware"
	"app/internal/pdf"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 認証済みユーザーの注文API
type OrderHandler struct {
	orderUC   *usecase.OrderUsecase
	paymentUC *usecase.PaymentUsecase
}

// DI
func NewOrderHandler(orderUC *usecase.OrderUsecase, paymentUC *usecase.PaymentUsecase) *OrderHandler {
	return &OrderHandler{orderUC: orderUC, paymentUC: paymentUC}
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/orders", h.create)
	g.GET("/orders", h.list)
	g.GET("/orders/:id", h.detail)
	g.POST("/orders/:id/cancel", h.cancel)
	g.POST("/orders/:id/pay", h.pay)
	g.GET("/orders/:id/pdf", h.receiptPDF)
}

func currentUserID(c echo.Context) int64 {
	if v, ok := c.Get(middleware.CtxUserIDKey).(int64); ok {
		return v
	}
	return 0
}

// カートのセッショントークン。カートと同じ解決順。
func orderSessionToken(c echo.Context) string {
	if v := c.Request().Header.Get(sessionHeader); v != "" {
		return v
	}
	if ck, err := c.Cookie(sessionCookie); err == nil {
		return ck.Value
	}
	return ""
}

func (h *OrderHandler) create(c echo.Context) error {
	userID := currentUserID(c)
	token := orderSessionToken(c)

	out, err := h.orderUC.CreateOrder(c.Request().Context(), userID, token)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	userID := currentUserID(c)

	out, err := h.orderUC.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID := currentUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.orderUC.GetMyOrderDetail(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	userID := currentUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.orderUC.CancelOrder(c.Request().Context(), userID, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "order canceled"})
}

func (h *OrderHandler) pay(c echo.Context) error {
	userID := currentUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.paymentUC.PayOrder(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// 注文レシートのPDFダウンロード
func (h *OrderHandler) receiptPDF(c echo.Context) error {
	userID := currentUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.orderUC.GetMyOrderDetail(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}

	items := make([]pdf.ReceiptItem, 0, len(out.Items))
	for _, it := range out.Items {
		items = append(items, pdf.ReceiptItem{
			ProductName: it.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.Price,
			Subtotal:    it.Subtotal,
		})
	}

	data, err := pdf.RenderReceipt(pdf.Receipt{
		OrderID:         out.ID,
		Date:            out.CreatedAt,
		Status:          out.Status,
		ShippingAddress: out.ShippingAddress,
		Items:           items,
		Total:           out.Total,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "pdf error"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="order_%d.pdf"`, out.ID))
	return c.Blob(http.StatusOK, "application/pdf", data)
}
