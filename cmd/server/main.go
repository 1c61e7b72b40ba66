// Auction Vehicle Pricer API
// @title Auction Vehicle Pricer API
// @version 1.0
// @description Extracts vehicle records from auction pages and resolves market price estimates through the price-list site
// @host localhost:8080
// @BasePath /

package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	_ "auctionpricer/docs"
	"auctionpricer/internal/correlator"
	"auctionpricer/internal/handlers"
	"auctionpricer/internal/middleware"
	"auctionpricer/internal/pricing"
	"auctionpricer/internal/scraper"
	"auctionpricer/internal/store"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	storePath := envOr("STORE_PATH", "data/shared_state.db")
	priceListURL := os.Getenv("PRICE_LIST_BASE_URL")
	headless := os.Getenv("CALCULATOR_HEADFUL") == ""

	sharedStore, err := store.New(storePath)
	if err != nil {
		log.Fatalf("Failed to open shared store: %v", err)
	}
	defer sharedStore.Close()

	priceList := pricing.NewPriceListClient(priceListURL)
	resolver := pricing.NewResolver(priceList)

	var driver correlator.CalculatorDriver
	if os.Getenv("DISABLE_CALCULATOR") == "" {
		calc := scraper.NewCalculatorScraper(priceList.BaseURL(), headless)
		defer calc.Close()
		driver = calc
	} else {
		log.Println("Calculator driver disabled")
	}

	coordinator := correlator.New(sharedStore, resolver, driver)
	handler := handlers.New(coordinator, resolver)

	// Initialize Gin router
	r := gin.Default()

	r.SetTrustedProxies([]string{
		"127.0.0.1",
		"::1",
		"172.16.0.0/12",  // Docker networks
		"10.0.0.0/8",     // Private networks
		"192.168.0.0/16", // Private networks
	})

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(config))

	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(rate.Limit(1), 60)))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	{
		api.POST("/extract", handler.Extract)
		api.POST("/vehicle-extracted", handler.VehicleExtracted)
		api.POST("/price", handler.ResolvePrice)
		api.POST("/price-page-result", handler.PricePageResult)
		api.POST("/open-calculator", handler.OpenCalculator)
		api.GET("/current-record", handler.CurrentRecord)
		api.GET("/current-estimate", handler.CurrentEstimate)
		api.GET("/cache-status", handler.CacheStatus)
		api.GET("/health", handler.Health)
	}

	port := envOr("PORT", "8080")
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
