package bookings

import (
	"tiketku/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures booking lifecycle routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth())
	{
		bookings.POST("", controller.CreateBooking)
		bookings.GET("", controller.ListMyBookings)
		bookings.GET("/:id", controller.GetBooking)
		bookings.POST("/:id/payment-proof", controller.SubmitPaymentProof)
		bookings.POST("/:id/cancel", controller.CancelBooking)

		organizer := bookings.Group("")
		organizer.Use(middleware.RequireRoles("ORGANIZER", "ADMIN"))
		{
			organizer.POST("/:id/confirm", controller.ConfirmBooking)
		}
	}

	events := rg.Group("/events")
	events.Use(middleware.JWTAuth(), middleware.RequireRoles("ORGANIZER", "ADMIN"))
	{
		events.GET("/:id/bookings", controller.ListEventBookings)
	}
}
