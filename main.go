package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"

	"permafrost/config"
	"permafrost/handlers"
	"permafrost/middleware"
	"permafrost/services"
	"permafrost/utils"
)

func main() {
	// 1. Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Println("=== Configuration ===")
	log.Printf("Server: %s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Scenarios: %s", cfg.Scenarios.Dir)
	log.Printf("Redis: %s (enabled=%v)", cfg.Redis.Address, cfg.Redis.Enabled)
	log.Printf("MongoDB: %s (enabled=%v)", cfg.MongoDB.Database, cfg.MongoDB.Enabled)

	// 2. Core Services
	// Pricing (built-in rate card, optionally overridden from file)
	pricingOverride, err := loadPricingOverride(cfg.Pricing.Path)
	if err != nil {
		log.Printf("⚠️  Pricing override not loaded from %s: %v", cfg.Pricing.Path, err)
		log.Println("Falling back to built-in pricing table")
		pricingOverride = nil
	}
	pricingService := services.NewPricingService(pricingOverride)

	// MongoDB
	mongoService, err := services.NewMongoDBService(cfg)
	if err != nil {
		log.Printf("⚠️  MongoDB connection failed: %v", err)
		log.Println("History and alert persistence will be in-memory only")
		mongoService = nil
	}
	if mongoService != nil {
		defer mongoService.Close()
	}

	// Discord Bot
	discordBot, err := services.NewDiscordBotService(cfg.Discord.Token, cfg.Discord.ChannelID)
	if err != nil {
		log.Printf("⚠️  Discord bot initialization failed: %v", err)
		log.Println("Discord notifications will be disabled")
		discordBot = nil
	} else if discordBot.Enabled() {
		defer discordBot.Close()
		log.Println("✓ Discord Bot connected")
	}

	// Engine
	calculatorService := services.NewCalculatorService(pricingService)
	comparisonService := services.NewComparisonService(calculatorService)
	sensitivityService := services.NewSensitivityService(calculatorService)

	// Scenario catalog
	scenarioService := services.NewScenarioService(cfg.Scenarios.Dir, &utils.DefaultSchemaConfig)
	if err := scenarioService.Load(); err != nil {
		log.Fatalf("Failed to load scenario catalog: %v", err)
	}
	log.Printf("✓ Scenario catalog loaded (%d scenarios)", len(scenarioService.List()))

	// Feature Services
	cache := services.NewCacheService(cfg)
	historyService := services.NewHistoryService(mongoService)
	narrativeService := services.NewNarrativeService(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	alertService := services.NewAlertService(mongoService, discordBot)

	if err := alertService.LoadRulesFromDB(); err != nil {
		log.Printf("Warning: Failed to load alert rules from MongoDB: %v", err)
	}

	log.Printf("✓ Cache Service started (mode: %s)", cache.GetCacheMode())
	if narrativeService.Enabled() {
		log.Println("✓ Narrative generation enabled")
	}

	// 3. Web Server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.LoggerMiddleware())
	e.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Recovered from panic: %v", r)
					c.Error(fmt.Errorf("internal server error"))
				}
			}()
			return next(c)
		}
	})

	// 4. Handlers
	systemHandlers := handlers.NewSystemHandlers(mongoService, cache, narrativeService, discordBot)
	cacheHandlers := handlers.NewCacheHandlers(cache)
	calculatorHandlers := handlers.NewCalculatorHandlers(calculatorService, sensitivityService, pricingService)
	scenarioHandlers := handlers.NewScenarioHandlers(scenarioService, comparisonService, cache, historyService, narrativeService, alertService)
	historyHandlers := handlers.NewHistoryHandlers(historyService)
	alertHandlers := handlers.NewAlertHandlers(alertService)

	// 5. Routes
	// System
	e.GET("/health", systemHandlers.Health)
	e.GET("/cache/status", cacheHandlers.GetCacheStatus)
	e.POST("/cache/clear", cacheHandlers.ClearCache)

	api := e.Group("/api")

	// Ad-hoc evaluation
	api.POST("/restore", calculatorHandlers.ComputeRestore)
	api.POST("/restore/sensitivity", calculatorHandlers.ComputeSensitivity)
	api.GET("/pricing", calculatorHandlers.GetPricing)

	// Scenario catalog
	scenarios := api.Group("/scenarios")
	scenarios.GET("", scenarioHandlers.ListScenarios)
	scenarios.POST("/evaluate", scenarioHandlers.EvaluateAdHoc)
	scenarios.GET("/:id", scenarioHandlers.GetScenario)
	scenarios.POST("/:id/evaluate", scenarioHandlers.EvaluateScenario)
	scenarios.GET("/:id/compare", scenarioHandlers.CompareStrategies)

	// Decision history
	history := api.Group("/history")
	history.GET("", historyHandlers.GetHistory)
	history.POST("/similar", historyHandlers.FindSimilar)

	// Alert rules
	alerts := api.Group("/alerts")
	alerts.POST("", alertHandlers.CreateRule)
	alerts.GET("", alertHandlers.ListRules)
	alerts.GET("/history", alertHandlers.GetAlertHistory)
	alerts.POST("/test", alertHandlers.TestAlert)
	alerts.GET("/:id", alertHandlers.GetRule)
	alerts.PUT("/:id", alertHandlers.UpdateRule)
	alerts.DELETE("/:id", alertHandlers.DeleteRule)

	// 6. Start Server with Graceful Shutdown
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	go func() {
		log.Printf("🚀 Server running on http://%s", serverAddr)

		if err := e.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("shutting down the server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⏳ Graceful shutdown initiated...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Stopping services...")
	cache.Stop()
	log.Println("✓ All services stopped")

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
	log.Println("✓ Server exited cleanly")
}

// loadPricingOverride reads a YAML rate card from disk. An empty path means
// no override; a configured path that fails to parse is reported so typos
// don't silently run on default prices.
func loadPricingOverride(path string) (*services.PricingTable, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var table services.PricingTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, err
	}
	return &table, nil
}
