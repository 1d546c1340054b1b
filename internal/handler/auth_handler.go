package handler

import (
	"net/http"

	"app/internal/usecase"
	"app/internal/validator"

	"github.com/labstack/echo/v4"
)

// /auth のAPI
type AuthHandler struct {
	uc *usecase.AuthUsecase
}

// DI
func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// 公開ルート（register/login）の登録
func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/register", h.register)
	e.POST("/auth/login", h.login)
}

// 認証必須ルート（me/logout）の登録
func (h *AuthHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.GET("/auth/me", h.me)
	g.POST("/auth/logout", h.logout)
}

// usecaseのsentinelエラーをHTTPに変換する
func writeAuthError(c echo.Context, err error) error {
	switch err {
	case validator.ErrInvalidInput, usecase.ErrValidation:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	case validator.ErrEmailAlreadyUsed, usecase.ErrConflict:
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "email already used"})
	case usecase.ErrUnauthorized:
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case usecase.ErrForbidden:
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.AuthRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.AuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Login(c.Request().Context(), req)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) me(c echo.Context) error {
	out, err := h.uc.Me(c.Request().Context(), currentUserID(c))
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	out, err := h.uc.Logout(c.Request().Context(), currentUserID(c))
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
