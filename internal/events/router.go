package events

import (
	"tiketku/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupEventRoutes configures all event catalog routes
func SetupEventRoutes(rg *gin.RouterGroup, controller *Controller) {
	events := rg.Group("/events")
	{
		// Public browsing
		events.GET("", controller.ListEvents)
		events.GET("/:id", controller.GetEvent)

		// Organizer management
		protected := events.Group("")
		protected.Use(middleware.JWTAuth(), middleware.RequireRoles("ORGANIZER", "ADMIN"))
		{
			protected.POST("", controller.CreateEvent)
			protected.PATCH("/:id", controller.UpdateEvent)
			protected.DELETE("/:id", controller.DeleteEvent)
		}
	}
}
