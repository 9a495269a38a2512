package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/middleware"

	"github.com/labstack/echo/v4"
)

// 全handlerの束
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Variant      *handler.VariantHandler
	Cart         *handler.CartHandler
	Wishlist     *handler.WishlistHandler
	Order        *handler.OrderHandler
	AdminOrder   *handler.AdminOrderHandler
	Coupon       *handler.CouponHandler
	Wallet       *handler.WalletHandler
	FlashSale    *handler.FlashSaleHandler
	AdminUser    *handler.AdminUserHandler
	Dashboard    *handler.DashboardHandler
	Contact      *handler.ContactHandler
}

// RegisterRoutes は全ルートを登録する。
// 認証はAuthJWT、管理系はさらにAdminRoleGuardを通す。
func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	authMW := middleware.AuthJWT(cfg)
	adminMW := middleware.AdminRoleGuard()

	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e, authMW)
	h.AdminProduct.RegisterRoutes(e, authMW, adminMW)
	h.Variant.RegisterRoutes(e, authMW, adminMW)
	h.Cart.RegisterRoutes(e, authMW)
	h.Wishlist.RegisterRoutes(e, authMW)
	h.Order.RegisterRoutes(e, authMW)
	h.AdminOrder.RegisterRoutes(e, authMW, adminMW)
	h.Coupon.RegisterRoutes(e, authMW, adminMW)
	h.Wallet.RegisterRoutes(e, authMW)
	h.FlashSale.RegisterRoutes(e, authMW, adminMW)
	h.AdminUser.RegisterRoutes(e, authMW, adminMW)
	h.Dashboard.RegisterRoutes(e, authMW, adminMW)
	h.Contact.RegisterRoutes(e, authMW, adminMW)
}
