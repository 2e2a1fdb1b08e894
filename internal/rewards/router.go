package rewards

import (
	"tiketku/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRewardsRoutes configures point, voucher and coupon routes
func SetupRewardsRoutes(rg *gin.RouterGroup, controller *Controller) {
	rewards := rg.Group("/rewards")
	rewards.Use(middleware.JWTAuth())
	{
		rewards.GET("/points", controller.GetBalance)
		rewards.GET("/coupons", controller.ListCoupons)

		organizer := rewards.Group("")
		organizer.Use(middleware.RequireRoles("ORGANIZER", "ADMIN"))
		{
			organizer.POST("/vouchers", controller.CreateVoucher)
		}

		admin := rewards.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/coupon-templates", controller.CreateCouponTemplate)
			admin.POST("/coupons", controller.MintCoupon)
		}
	}

	// Organizer view of an event's vouchers lives under the event resource.
	events := rg.Group("/events")
	events.Use(middleware.JWTAuth(), middleware.RequireRoles("ORGANIZER", "ADMIN"))
	{
		events.GET("/:id/vouchers", controller.ListVouchersForEvent)
	}
}
