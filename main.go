package main

import (
	"log"
	"os"
	"time"

	"github.com/HoneyBadgered/alchemy-sub004/database"
	"github.com/HoneyBadgered/alchemy-sub004/handlers"
	"github.com/HoneyBadgered/alchemy-sub004/middleware"
	"github.com/HoneyBadgered/alchemy-sub004/realtime"
	"github.com/HoneyBadgered/alchemy-sub004/services"
	"github.com/HoneyBadgered/alchemy-sub004/store/gormstore"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}
	validateEnvironment()

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.Seed(db); err != nil {
		log.Fatalf("Failed to seed catalogs: %v", err)
	}

	st := gormstore.New(db)
	hub := realtime.NewHub()
	questService := services.NewQuestService(st, hub)
	rewardsService := services.NewRewardsService(st, hub)

	authHandler := handlers.NewAuthHandler(st, questService)
	progressionHandler := handlers.NewProgressionHandler(questService)
	rewardsHandler := handlers.NewRewardsHandler(rewardsService)

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Use(middleware.RateLimitMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/guest", authHandler.GuestLogin)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	progressionGroup := api.Group("/progression")
	progressionGroup.Use(middleware.AuthMiddleware)
	progressionGroup.Get("/", progressionHandler.GetProgress)
	progressionGroup.Post("/daily", progressionHandler.DailyCheckIn)
	progressionGroup.Post("/events", progressionHandler.TrackProgress)

	questGroup := api.Group("/quests")
	questGroup.Use(middleware.AuthMiddleware)
	questGroup.Get("/", progressionHandler.GetQuests)
	questGroup.Post("/:id/claim", progressionHandler.ClaimQuest)

	inventoryGroup := api.Group("/inventory")
	inventoryGroup.Use(middleware.AuthMiddleware)
	inventoryGroup.Get("/", progressionHandler.GetInventory)
	inventoryGroup.Get("/cosmetics", progressionHandler.GetCosmetics)

	rewardsGroup := api.Group("/rewards")
	rewardsGroup.Use(middleware.AuthMiddleware)
	rewardsGroup.Get("/points", rewardsHandler.GetPoints)
	rewardsGroup.Get("/history", rewardsHandler.GetHistory)
	rewardsGroup.Post("/points", rewardsHandler.AddPoints)
	rewardsGroup.Post("/points/deduct", rewardsHandler.DeductPoints)
	rewardsGroup.Get("/", rewardsHandler.GetAvailableRewards)
	rewardsGroup.Post("/:id/redeem", rewardsHandler.RedeemReward)

	api.Get("/leaderboard", progressionHandler.GetLeaderboard)

	// Live level-up / tier-up notifications.
	app.Use("/ws", middleware.WebSocketAuthMiddleware, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(hub.Handler()))

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Printf("Starting server on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func validateEnvironment() {
	if os.Getenv("JWT_SECRET") == "" {
		log.Println("Warning: JWT_SECRET not set, using insecure default")
	}
	if os.Getenv("DATABASE_URL") == "" && os.Getenv("DB_HOST") == "" {
		log.Println("Warning: no database configuration found, falling back to localhost defaults")
	}
}
