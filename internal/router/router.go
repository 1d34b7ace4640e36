package router

import (
	"github.com/acessae/acessae-backend/config"
	"github.com/acessae/acessae-backend/internal/app/controller"
	"github.com/acessae/acessae-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController      *controller.AuthController
	locationController  *controller.LocationController
	reviewController    *controller.ReviewController
	adminUserController *controller.AdminUserController
	photoController     *controller.PhotoController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	locationController *controller.LocationController,
	reviewController *controller.ReviewController,
	adminUserController *controller.AdminUserController,
	photoController *controller.PhotoController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		locationController:  locationController,
		reviewController:    reviewController,
		adminUserController: adminUserController,
		photoController:     photoController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Acessae API is running",
		})
	})

	// Review photos are served through the controller so the content type
	// and traversal checks stay in one place.
	router.GET("/uploads/reviews/:file", r.photoController.Serve)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/forgot-password", r.authController.ForgotPassword)
			auth.POST("/reset-password", r.authController.ResetPassword)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
			auth.GET("/me/reviews", r.authMiddleware.Authenticate(), r.authController.GetMyReviews)
		}

		profile := v1.Group("/profile")
		profile.Use(r.authMiddleware.Authenticate())
		{
			profile.PUT("", r.authController.UpdateMe)
			profile.GET("/reviews", r.authController.GetMyReviews)
		}

		locations := v1.Group("/locations")
		{
			locations.GET("", r.locationController.List)
			locations.GET("/:id", r.locationController.Get)
			locations.POST("",
				r.authMiddleware.Authenticate(),
				r.locationController.Create,
			)
			locations.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.locationController.Update,
			)
			locations.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.locationController.Delete,
			)

			locations.GET("/:id/reviews", r.reviewController.ListByLocation)
			locations.POST("/:id/reviews",
				r.authMiddleware.Authenticate(),
				r.reviewController.Create,
			)
			locations.PUT("/:id/reviews/:reviewId",
				r.authMiddleware.Authenticate(),
				r.reviewController.Update,
			)
			locations.DELETE("/:id/reviews/:reviewId",
				r.authMiddleware.Authenticate(),
				r.reviewController.Delete,
			)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireAdmin())
		{
			admin.GET("/users", r.adminUserController.List)
			admin.GET("/users/:id", r.adminUserController.Get)
			admin.POST("/users", r.adminUserController.Create)
			admin.PUT("/users/:id", r.adminUserController.Update)
			admin.DELETE("/users/:id", r.adminUserController.Delete)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
