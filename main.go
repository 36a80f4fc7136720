package main

import (
	"context"
	"log"

	"linkpulse-be/internal/cache"
	"linkpulse-be/internal/clicks"
	"linkpulse-be/internal/config"
	"linkpulse-be/internal/controllers"
	"linkpulse-be/internal/database"
	"linkpulse-be/internal/geoip"
	"linkpulse-be/internal/middleware"
	"linkpulse-be/internal/repository"
	"linkpulse-be/internal/service"
	"linkpulse-be/internal/uaparse"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis cache (optional - continue if Redis is unavailable)
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis (%v). Continuing without cache.", err)
			cacheClient = nil
		} else {
			log.Println("Connected to Redis cache")
		}
	} else {
		log.Println("REDIS_URL not set, running without cache")
	}

	// Initialize repositories
	urlRepo := repository.NewURLRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize click analytics pipeline
	processor := clicks.NewProcessor(
		urlRepo,
		analyticsRepo,
		geoip.NewClient(cfg.GeoCacheTTL),
		uaparse.NewParser(),
	)

	// Kafka when brokers are configured, otherwise an in-process bus with
	// the same lossy fire-and-forget contract
	var producer clicks.Producer
	var source clicks.Source
	if len(cfg.KafkaBrokers) > 0 {
		kafkaProducer := clicks.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaProducer.Close()
		kafkaSource := clicks.NewKafkaSource(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
		defer kafkaSource.Close()
		producer, source = kafkaProducer, kafkaSource
		log.Printf("Click events on Kafka topic %q (group %q)", cfg.KafkaTopic, cfg.KafkaGroupID)
	} else {
		bus := clicks.NewChannelBus(cfg.ClickBusSize)
		producer, source = bus, bus
		log.Println("KAFKA_BROKERS not set, using in-process click bus")
	}

	consumer := clicks.NewConsumer(processor, source, cfg.ClickWorkers, cfg.ClickBatchSize, cfg.ClickBatchWait)
	go consumer.Run(context.Background())

	// Initialize services
	shortenerService := service.NewShortenerService(urlRepo, cacheClient)
	analyticsService := service.NewAnalyticsService(analyticsRepo)

	// Initialize controllers
	shortenerController := controllers.NewShortenerController(shortenerService, producer, cfg.BaseURL)
	analyticsController := controllers.NewAnalyticsController(analyticsService)
	qrcodeController := controllers.NewQRCodeController(cfg.BaseURL)

	// Initialize rate limiters
	generalRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	shortenRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitShortenRPS), cfg.RateLimitShortenBurst)
	redirectRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRedirectRPS), cfg.RateLimitRedirectBurst)

	// Create a Gin router
	router := gin.Default()

	// Health check endpoint (no rate limiting)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Redirect endpoint with lenient rate limiting
	router.GET("/:shortCode", redirectRateLimiter.LimitMiddleware(), shortenerController.RedirectToURL)

	// API v1 routes group with general rate limiting
	api := router.Group("/api/v1")
	api.Use(generalRateLimiter.LimitMiddleware())
	{
		// URL shortening with stricter rate limiting
		api.POST("/shorten", shortenRateLimiter.LimitMiddleware(), shortenerController.CreateShortURL)

		// Public resolve endpoint with the redirect rate limit
		api.GET("/redirect/:shortCode", redirectRateLimiter.LimitMiddleware(), shortenerController.GetOriginalURLPublic)

		// Stats and analytics
		api.GET("/url/:shortCode", shortenerController.GetURLStats)
		api.GET("/analytics/:shortCode", analyticsController.GetAnalytics)

		// QR Code generation
		api.GET("/qrcode/:shortCode", qrcodeController.GenerateQRCode)
	}

	// Start the server on port 8080
	log.Println("Server starting on http://localhost:8080")
	router.Run(":8080")
}
