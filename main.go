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

	"ecomdash/api/config"
	"ecomdash/api/database"
	"ecomdash/api/handlers"
	"ecomdash/api/middleware"
	"ecomdash/api/store"
	"ecomdash/api/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Initialize data source ---
	src, closeSource, err := database.Open(cfg.DataSource, cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize %s data source: %v", cfg.DataSource, err)
	}
	defer closeSource()

	// --- Initialize Stores ---
	analyticsStore := store.NewAnalyticsStore(src, store.Options{
		Year:            cfg.Year,
		TotalOrdersMode: cfg.TotalOrdersMode,
		FrequencyBins:   cfg.FrequencyBins,
		RecencyBins:     cfg.RecencyBins,
		MonetaryBins:    cfg.MonetaryBins,
	})
	adminStore := store.NewAdminStore(os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD_HASH"))
	if !adminStore.Enabled() {
		log.Println("ADMIN_EMAIL or ADMIN_PASSWORD_HASH not set; admin login disabled")
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := analyticsStore.Reload(loadCtx); err != nil {
		log.Printf("Initial dataset load failed, serving without data: %v", err)
	}
	cancelLoad()

	// --- Initialize Handlers ---
	authHandlers := handlers.NewAuthHandlers(adminStore)
	analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsStore)
	dashboardHandlers := handlers.NewDashboardHandlers(analyticsStore)

	r := gin.Default()
	r.SetHTMLTemplate(web.Templates())
	r.Use(middleware.CORSMiddleware(cfg.FEOrigin))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())

	r.GET("/", dashboardHandlers.Index)
	r.GET("/charts/:file", dashboardHandlers.ChartImage)

	api := r.Group("/api")
	{
		api.GET("/health", analyticsHandlers.Health)
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)

		statsGroup := api.Group("/stats")
		{
			statsGroup.GET("/summary", analyticsHandlers.GetSummary)
			statsGroup.GET("/monthly-income", analyticsHandlers.GetMonthlyIncome)
			statsGroup.GET("/monthly-orders", analyticsHandlers.GetMonthlyOrders)
			statsGroup.GET("/distributions/:field", analyticsHandlers.GetDistribution)
			statsGroup.GET("/segments", analyticsHandlers.GetSegments)
			statsGroup.GET("/report", analyticsHandlers.GetReport)
		}
		api.GET("/export.xlsx", analyticsHandlers.ExportWorkbook)
		api.GET("/export.md", analyticsHandlers.ExportMarkdown)

		// Protected Routes (require a valid JWT token or API key)
		protected := api.Group("/admin")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("/reload", analyticsHandlers.Reload)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Dashboard server starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Dashboard server failed to start: %v", err)
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
