package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"terrasearch/internal/catalog"
	"terrasearch/internal/config"
	"terrasearch/internal/criteria"
	"terrasearch/internal/handler"
	"terrasearch/internal/model"
	"terrasearch/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("TerraSearch - Chilean terrain finder")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Load the initial inventory
	store := catalog.NewStore()
	loader := catalog.NewLoader(cfg.FetchTimeout())
	if loaded, err := loader.Load(context.Background(), cfg.ListingSources()...); err != nil {
		log.Printf("⚠️  Could not load inventory: %v", err)
		log.Println("   Starting with an empty catalog - reload via POST /api/v1/catalog/reload")
	} else {
		store.Swap(loaded)
		log.Printf("✅ Loaded %d listings from %d source(s)", loaded.Len(), len(cfg.ListingSources()))
	}

	// Load the optional criteria preset used to prefill the web form
	var preset model.Criteria
	if cfg.Catalog.CriteriaPath != "" {
		preset, err = criteria.FromFile(cfg.Catalog.CriteriaPath)
		if err != nil {
			log.Fatalf("Failed to load criteria preset: %v", err)
		}
		log.Printf("✅ Criteria preset loaded from %s", cfg.Catalog.CriteriaPath)
	}

	// Initialize services
	searchService := service.NewSearchService(store)

	log.Println("✅ Services initialized")

	// Initialize handlers
	searchHandler := handler.NewSearchHandler(searchService, preset, cfg.Search.DefaultTop, cfg.Search.MaxTop)
	catalogHandler := handler.NewCatalogHandler(store, loader)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "terrasearch",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Search endpoints
		apiV1.GET("/search", searchHandler.SearchForm)
		apiV1.POST("/search", searchHandler.Search)
		apiV1.GET("/listings", searchHandler.ListListings)
		apiV1.GET("/listings/:id", searchHandler.GetListing)
		apiV1.GET("/criteria", searchHandler.Criteria)

		// Catalog endpoints
		apiV1.GET("/geography", catalogHandler.Geography)
		apiV1.GET("/catalog", catalogHandler.Summary)
		apiV1.POST("/catalog/reload", catalogHandler.Reload)
		apiV1.POST("/catalog/upload", catalogHandler.Upload)
	}

	// Serve static files (frontend)
	// This function is implemented in embed.go (production) or static_dev.go (development)
	setupStaticFiles(router)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API Documentation: http://localhost:%d/api/v1", cfg.Server.Port)
	for _, url := range localURLs(cfg.Server.Port) {
		log.Printf("🌐 Web UI: %s", url)
	}

	// Graceful shutdown
	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}

// localURLs lists the addresses where the UI is reachable, including
// LAN IPv4 addresses so the link can be opened from another device.
func localURLs(port int) []string {
	urls := []string{fmt.Sprintf("http://localhost:%d", port)}
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return urls
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip := ipNet.IP.To4(); ip != nil {
			urls = append(urls, fmt.Sprintf("http://%s:%d", ip, port))
		}
	}
	return urls
}
