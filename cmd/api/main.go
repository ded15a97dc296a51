package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/promptart/backend/internal/config"
	"github.com/promptart/backend/internal/handlers"
	"github.com/promptart/backend/internal/middleware"
	"github.com/promptart/backend/internal/models"
	"github.com/promptart/backend/internal/services"
	"github.com/promptart/backend/internal/session"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.New()

	ctx := context.Background()

	// Initialize Firestore
	fs, err := models.InitFirestore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer fs.Close()

	// Initialize Redis
	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// Initialize services
	statsService := services.NewStatsService(fs)
	artService := services.NewArtService(fs, statsService)
	userService := services.NewUserService(fs)
	activityService := services.NewActivityService(fs, artService, userService)
	authService := services.NewAuthService(fs, cfg, userService)
	blobService, err := services.NewBlobService(cfg)
	if err != nil {
		log.Fatalf("Failed to init blob storage: %v", err)
	}

	// Track the most recent sign-in for operator visibility
	sessionStore := session.NewStore(userService.GetUser)
	sessionStore.Bind(authService)
	defer sessionStore.Close()

	// Create the stats summary document if this is a fresh deployment
	if err := statsService.InitializeStats(ctx); err != nil {
		log.Printf("Failed to initialize stats: %v", err)
	}

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimiter(redisClient, cfg))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	publicHandler := handlers.NewPublicHandler(artService, statsService, cfg)
	activityHandler := handlers.NewActivityHandler(activityService)
	adminHandler := handlers.NewAdminHandler(artService, userService, statsService, blobService, cfg)

	// Health check outside API group (no /api/v1 prefix)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup routes
	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		// Catch-all OPTIONS handler for CORS preflight requests
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		// Public routes
		public := api.Group("/public")
		{
			public.GET("/art", publicHandler.ListArt)
			public.GET("/art/:id", publicHandler.GetArt)
			public.GET("/stats", publicHandler.GetStats)
		}

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/google", authHandler.GoogleSignIn)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", middleware.Auth(authService), authHandler.Logout)
			auth.GET("/me", middleware.Auth(authService), authHandler.GetMe)
		}

		// User routes
		user := api.Group("/user")
		user.Use(middleware.Auth(authService))
		{
			user.POST("/art/:id/like", activityHandler.ToggleLike)
			user.POST("/art/:id/view", activityHandler.RecordView)
			user.POST("/art/:id/download", activityHandler.RecordDownload)
			user.GET("/activity", activityHandler.GetActivity)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(authService))
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("/art", adminHandler.ListAllArt)
			admin.PUT("/art/:id", adminHandler.UpdateArt)
			admin.DELETE("/art/:id", adminHandler.DeleteArt)

			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:uid/role", adminHandler.UpdateUserRole)
			admin.PUT("/users/:uid/active", adminHandler.UpdateUserActive)

			admin.GET("/stats", publicHandler.GetStats)
			admin.POST("/stats/init", adminHandler.InitStats)

			// Most recent sign-in seen by this instance
			admin.GET("/session", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"identity":      sessionStore.Identity(),
					"authenticated": sessionStore.IsAuthenticated(),
					"is_admin":      sessionStore.IsAdmin(),
					"loading":       sessionStore.Loading(),
				})
			})

			// Upload route with its daily rate limit
			uploadGroup := admin.Group("")
			uploadGroup.Use(middleware.UploadRateLimit(redisClient, cfg))
			{
				uploadGroup.POST("/art", adminHandler.CreateArt)
			}
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  120 * time.Second, // room for multi-image uploads
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
