package main

import (
	"app/internal/config"
	"app/internal/currency"
	"app/internal/domain/model"
	"app/internal/handler"
	infracart "app/internal/infra/cart"
	"app/internal/infra/db"
	"app/internal/infra/mail"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

func main() {
	// .env は無ければ無視（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.WishItem{},
		&model.Color{},
		&model.Size{},
		&model.Product{},
		&model.ProductVariant{},
		&model.ProductImage{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.ProductReview{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Redis（カートとレートキャッシュ）
	rdb := infracart.NewRedisClient(cfg.RedisAddr)

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	profileRepo := infraRepo.NewProfileGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	variantRepo := infraRepo.NewVariantGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	cartStore := infracart.NewRedisCartStore(rdb)

	//表示通貨の換算
	rateCache := currency.NewRedisRateCache(rdb)
	converter := currency.NewConverter(cfg.BaseCurrency, cfg.ExchangeRateAPIKey, rateCache, log.New("currency"))

	//メール（決済確認）
	mailer := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	//決済シミュレータ
	provider := usecase.NewSimulatedPaymentProvider(&uuidGenerator{})

	//Usecase生成
	authValidator := validator.NewAuthValidator(userRepo)
	authUC := usecase.NewAuthUsecase(cfg, userRepo, profileRepo, authValidator)
	catalogUC := usecase.NewCatalogUsecase(productRepo, variantRepo, reviewRepo)
	cartUC := usecase.NewCartUsecase(cartStore, productRepo, variantRepo, converter)
	orderUC := usecase.NewOrderUsecase(txManager, cartStore, profileRepo)
	paymentUC := usecase.NewPaymentUsecase(txManager, userRepo, provider, mailer, log.New("payment"))
	reviewUC := usecase.NewReviewUsecase(reviewRepo, productRepo)
	wishlistUC := usecase.NewWishlistUsecase(profileRepo, productRepo)
	adminCatalogUC := usecase.NewAdminCatalogUsecase(productRepo, variantRepo, inventoryRepo, auditRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, orderRepo, orderItemRepo, auditRepo, log.New("admin"))

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(catalogUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC, paymentUC),
		Review:       handler.NewReviewHandler(reviewUC),
		Wishlist:     handler.NewWishlistHandler(wishlistUC),
		AdminProduct: handler.NewAdminProductHandler(adminCatalogUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
	}

	//Server起動
	e := server.New()
	server.RegisterRoutes(e, cfg, userRepo, handlers)

	if err := server.Start(e, cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
