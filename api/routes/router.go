package routes

import (
	"net/http"
	"time"

	"tiketku/internal/auth"
	"tiketku/internal/bookings"
	"tiketku/internal/events"
	"tiketku/internal/inventory"
	"tiketku/internal/notifications"
	"tiketku/internal/rewards"
	"tiketku/internal/shared/config"
	"tiketku/internal/shared/database"
	"tiketku/pkg/cache"
	"tiketku/pkg/filestore"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.Producer

	bookingService bookings.Service
	rewardsService rewards.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
	}
}

// SetupRoutes wires every feature and registers its routes.
func (r *Router) SetupRoutes(engine *gin.Engine) error {
	r.setupHealthRoutes(engine)

	// Payment proofs are served straight from disk.
	engine.Static(r.config.Upload.BaseURL, r.config.Upload.Path)

	cacheService := cache.NewService(r.db.Redis)

	eventRepo := events.NewRepository(r.db.PostgreSQL)
	eventService := events.NewService(eventRepo, cacheService)
	eventController := events.NewController(eventService)

	rewardsRepo := rewards.NewRepository(r.db.PostgreSQL)
	rewardsLedger := rewards.NewLedger()
	r.rewardsService = rewards.NewService(r.db.PostgreSQL, rewardsRepo, rewardsLedger, eventService, r.config)
	rewardsController := rewards.NewController(r.rewardsService)

	authRepo := auth.NewRepository(r.db.PostgreSQL)
	authService := auth.NewService(authRepo, r.rewardsService, r.config)
	authController := auth.NewController(authService)

	notifier := notifications.NewService(r.producer)

	bookingRepo := bookings.NewRepository(r.db.PostgreSQL)
	r.bookingService = bookings.NewService(bookingRepo, eventService,
		inventory.NewLedger(), rewardsLedger, rewardsRepo, notifier, r.config)

	proofStore, err := filestore.NewDiskStore(r.config.Upload.Path, r.config.Upload.BaseURL)
	if err != nil {
		return err
	}
	bookingController := bookings.NewController(r.bookingService, proofStore, r.config.Upload.MaxSize)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		auth.SetupAuthRoutes(api, authController)
		events.SetupEventRoutes(api, eventController)
		rewards.SetupRewardsRoutes(api, rewardsController)
		bookings.SetupBookingRoutes(api, bookingController)
	}
	return nil
}

// Sweeper builds the background expiry job from the wired services.
// SetupRoutes must have run first.
func (r *Router) Sweeper() *bookings.Sweeper {
	return bookings.NewSweeper(r.bookingService, r.rewardsService, r.config.Booking.SweeperInterval)
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "tiketku-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "tiketku-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}
