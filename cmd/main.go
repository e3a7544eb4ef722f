package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	authconfig "pinstack/internal/auth/config"
	"pinstack/internal/di"
	pinsconfig "pinstack/internal/pins/config"
	"pinstack/internal/shared/logger"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Port string `env:"SERVER_PORT" envDefault:"3000"`

	CORSOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
}

func main() {
	fmt.Println("Pinstack API - Starting...")

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("Application configuration loaded")

	container := di.NewContainer()
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Error("Failed to close container: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
		appLogger.Warn("MONGODB_URI not set, using default: %s", mongoURI)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Failed to disconnect MongoDB: %v", err)
		}
	}()

	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	appLogger.Info("MongoDB connection established")

	authCfg, err := authconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load auth configuration: %v", err)
	}

	mongoDB := mongoClient.Database(authCfg.DatabaseName)

	if err := container.InitializeAuth(mongoDB, authCfg); err != nil {
		log.Fatalf("Failed to initialize auth module: %v", err)
	}
	appLogger.Info("Auth module initialized")

	pinsCfg, err := pinsconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load pins configuration: %v", err)
	}

	redisClient, err := pinsconfig.NewRedisClient(ctx, pinsCfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	appLogger.Info("Redis connection established")

	if err := container.InitializePins(redisClient, pinsCfg); err != nil {
		log.Fatalf("Failed to initialize pins module: %v", err)
	}
	appLogger.Info("Pins module initialized")

	if err := container.InitializeBoards(); err != nil {
		log.Fatalf("Failed to initialize boards module: %v", err)
	}
	appLogger.Info("Boards module initialized")

	app := fiber.New(fiber.Config{
		AppName:      "Pinstack API v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appLogger.Error("HTTP Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     serverCfg.CORSOrigins,
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: serverCfg.CORSOrigins != "*",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.Error("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "UNHEALTHY",
				"error":  err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"timestamp": time.Now().UTC(),
			"modules": fiber.Map{
				"auth":   "initialized",
				"pins":   "initialized",
				"boards": "initialized",
			},
		})
	})

	api := app.Group("/api")

	authModule := container.GetAuthModule()
	authModule.RegisterRoutes(api)
	appLogger.Info("Auth routes registered")

	middleware := authModule.GetMiddleware()
	protect := middleware.Protect()
	optional := middleware.OptionalAuth()

	container.GetPinModule().RegisterRoutes(api, protect, optional)
	appLogger.Info("Pin routes and vote socket registered")

	container.GetBoardModule().RegisterRoutes(api, protect)
	appLogger.Info("Board routes registered")

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Info("All modules initialized. Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			log.Fatalf("Server startup failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Info("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Error("Server forced to shutdown: %v", err)
		}

		appLogger.Info("HTTP server stopped")
	}

	fmt.Println("Application stopped gracefully.")
}
