// api/main.go
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

	"antiseche/api/analytics"
	"antiseche/api/database"
	"antiseche/api/handlers"
	"antiseche/api/middleware"
	"antiseche/api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize PostgreSQL Database (learner documents + admins) ---
	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- Initialize ClickHouse Database (nav/action event log) ---
	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	// --- Initialize Stores ---
	userStore := store.NewUserStore(dbClient.DB)
	analyticsStore := store.NewAnalyticsStore(chClient)

	// --- Initialize Analytics Engine ---
	cfg := analytics.ConfigFromEnv()
	aggregator := analytics.NewAggregator(userStore, analyticsStore, cfg)
	refresher := analytics.NewRefresher(userStore, analyticsStore, userStore)

	// --- Initialize Handlers ---
	authHandlers := handlers.NewAuthHandlers(userStore)
	trackHandlers := handlers.NewTrackHandlers(analyticsStore)
	analyticsHandlers := handlers.NewAnalyticsHandlers(aggregator, refresher)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		// Authentication Endpoints (no authentication required)
		api.POST("/signup", authHandlers.Signup)
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)
		// Protected Routes (require a valid JWT token or the API key)
		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("/track/nav", trackHandlers.TrackNav)
			protected.POST("/track/action", trackHandlers.TrackAction)

			analyticGroup := protected.Group("/analytic")
			{
				analyticGroup.GET("/users/sessions", analyticsHandlers.GetAllUserSessions)
				analyticGroup.GET("/users/modules", analyticsHandlers.GetAllUserModules)
				analyticGroup.GET("/users/cohorts", analyticsHandlers.GetUserCohorts)
				analyticGroup.POST("/users/update", analyticsHandlers.UpdateUserAnalytics)
				analyticGroup.GET("/users/:uid/sessions", analyticsHandlers.GetOneUserSession)
				analyticGroup.GET("/users/:uid/modules", analyticsHandlers.GetOneUserModule)
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Antiseche analytics API starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
