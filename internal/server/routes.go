package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/middleware"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	Review       *handler.ReviewHandler
	Wishlist     *handler.WishlistHandler
	AdminProduct *handler.AdminProductHandler
	AdminOrder   *handler.AdminOrderHandler
}

// ルート登録。
//
//	公開:     カタログ・カート・register/login
//	認証必須: 注文・レビュー・ウィッシュリスト・me/logout
//	管理者:   /admin 以下
func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	// 公開ルート
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e)

	// 認証必須（JWT + token_version一致）
	authed := e.Group("",
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
	)
	h.Auth.RegisterProtectedRoutes(authed)
	h.Order.RegisterRoutes(authed)
	h.Review.RegisterRoutes(authed)
	h.Wishlist.RegisterRoutes(authed)

	// 管理者のみ
	admin := e.Group("/admin",
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
		middleware.AdminRoleGuard(),
	)
	h.AdminProduct.RegisterRoutes(admin)
	h.AdminOrder.RegisterRoutes(admin)
}
