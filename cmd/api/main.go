package main

import (
	"os"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	googleauth "app/internal/infra/auth/google"
	"app/internal/infra/db"
	"app/internal/infra/notify"
	"app/internal/infra/otp"
	infraRepo "app/internal/infra/repository"
	"app/internal/infra/storage"
	"app/internal/server"
	"app/internal/usecase"
	auth "app/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	//ローカル開発用。.envが無くても環境変数だけで動く
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load failed")
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect failed")
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.ProductImage{},
		&model.ProductRating{},
		&model.ProductVariant{},
		&model.Cart{},
		&model.CartItem{},
		&model.Wishlist{},
		&model.WishlistItem{},
		&model.Coupon{},
		&model.Order{},
		&model.OrderItem{},
		&model.Wallet{},
		&model.PaymentHistory{},
		&model.FlashSale{},
		&model.FlashSaleProduct{},
		&model.AuditLog{},
		&model.ContactMessage{},
	); err != nil {
		logger.Fatal().Err(err).Msg("auto migrate failed")
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	imageRepo := infraRepo.NewProductImageGormRepository(gormDB)
	ratingRepo := infraRepo.NewRatingGormRepository(gormDB)
	variantRepo := infraRepo.NewVariantGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	couponRepo := infraRepo.NewCouponGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	walletRepo := infraRepo.NewWalletGormRepository(gormDB)
	paymentRepo := infraRepo.NewPaymentHistoryGormRepository(gormDB)
	flashSaleRepo := infraRepo.NewFlashSaleGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	contactRepo := infraRepo.NewContactMessageGormRepository(gormDB)
	dashboardRepo := infraRepo.NewDashboardGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//外部コラボレータ
	mailer := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPSender, cfg.SMTPFrom, cfg.SMTPPassword)
	smsSender := notify.NewHTTPSmsSender(cfg.SMSEndpoint, cfg.SMSAccountSID, cfg.SMSAuthToken, cfg.SMSFromNumber)
	imageStore := storage.NewImageStore(cfg.UploadDir)
	googleVerifier := googleauth.NewVerifier(cfg.GoogleClientID)

	//OTPストア（REDIS_ADDRがあればRedis、無ければプロセス内）
	var otpStore otp.Store = otp.NewMemoryStore()
	if cfg.RedisAddr != "" {
		otpStore = otp.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	//usecaseに渡す部品
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	idGen := auth.NewUUIDGenerator()
	clock := auth.NewRealClock()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, clock)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, otpStore, smsSender, mailer, clock, logger)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer)
	otpUC := auth.NewOtpUsecase(userRepo, otpStore, smsSender)
	resetUC := auth.NewPasswordResetUsecase(userRepo, hasher, idGen, clock, mailer, cfg.ResetURLBase, logger)
	googleUC := auth.NewGoogleLoginUsecase(userRepo, googleVerifier, hasher, idGen, issuer)

	productUC := usecase.NewProductUsecase(productRepo, imageRepo, ratingRepo, imageStore, logger)
	variantUC := usecase.NewVariantUsecase(productRepo, variantRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo)
	wishlistUC := usecase.NewWishlistUsecase(wishlistRepo, productRepo, productUC)
	couponUC := usecase.NewCouponUsecase(couponRepo)
	orderUC := usecase.NewOrderUsecase(
		orderRepo, orderItemRepo, cartRepo, cartItemRepo, productRepo,
		userRepo, auditRepo, txManager, couponUC, mailer, logger,
	)
	walletUC := usecase.NewWalletUsecase(walletRepo, paymentRepo, txManager)
	flashSaleUC := usecase.NewFlashSaleUsecase(flashSaleRepo, productRepo)
	userAdminUC := usecase.NewUserAdminUsecase(userRepo, auditRepo, hasher, logger)
	dashboardUC := usecase.NewDashboardUsecase(dashboardRepo, productRepo)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)
	contactUC := usecase.NewContactUsecase(contactRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(registerUC, loginUC, otpUC, resetUC, googleUC),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Variant:      handler.NewVariantHandler(variantUC),
		Cart:         handler.NewCartHandler(cartUC),
		Wishlist:     handler.NewWishlistHandler(wishlistUC),
		Order:        handler.NewOrderHandler(orderUC),
		AdminOrder:   handler.NewAdminOrderHandler(orderUC),
		Coupon:       handler.NewCouponHandler(couponUC),
		Wallet:       handler.NewWalletHandler(walletUC),
		FlashSale:    handler.NewFlashSaleHandler(flashSaleUC),
		AdminUser:    handler.NewAdminUserHandler(userAdminUC),
		Dashboard:    handler.NewDashboardHandler(dashboardUC, auditUC),
		Contact:      handler.NewContactHandler(contactUC),
	}

	//Server起動
	e := server.New(cfg)
	server.RegisterRoutes(e, cfg, handlers)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	logger.Info().Str("addr", addr).Msg("server starting")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
