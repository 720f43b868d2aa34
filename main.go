package main

import (
	"github.com/mitulaghara/villageconnect/config"
	"github.com/mitulaghara/villageconnect/handlers"
	"github.com/mitulaghara/villageconnect/internal/ws"
	"github.com/mitulaghara/villageconnect/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.LoadConfig()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := config.Migrate(db, log); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	config.SeedUsers(db, cfg.TokenSecret, log)
	config.SeedProducts(db, log)

	hub := ws.NewHub(log)
	go hub.Run()

	app := fiber.New(fiber.Config{
		AppName:      "VillageConnect",
		ServerHeader: "VillageConnect Server/1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}
			return c.Status(code).JSON(fiber.Map{"error": msg})
		},
	})

	middleware.SetupMiddleware(app, cfg)

	app.Static("/uploads", cfg.UploadDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success", "message": "API is healthy"})
	})

	SetupRoutes(app, db, hub, cfg, log)

	log.Info("server starting", zap.String("host", cfg.Host), zap.String("port", cfg.AppPort))

	if err := app.Listen(cfg.Host + ":" + cfg.AppPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// SetupRoutes wires every REST and websocket route onto app.
func SetupRoutes(app *fiber.App, db *gorm.DB, hub *ws.Hub, cfg *config.Config, log *zap.Logger) {
	authHandler := handlers.NewAuthHandler(db, cfg.TokenSecret, log)
	userHandler := handlers.NewUserHandler(db, log)
	productHandler := handlers.NewProductHandler(db, hub, cfg.UploadDir, log)
	notificationHandler := handlers.NewNotificationHandler(db, log)
	statsHandler := handlers.NewStatsHandler(db)
	adminHandler := handlers.NewAdminHandler(db, log)
	wsHandler := handlers.NewWSHandler(db, hub, cfg.TokenSecret, log)

	api := app.Group("/api")

	// Public routes
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Get("/products", productHandler.GetProducts)
	api.Get("/villages", statsHandler.GetVillages)
	api.Get("/stats", statsHandler.GetStats)

	// Authenticated routes
	auth := middleware.Authenticate(db, cfg.TokenSecret)

	api.Get("/user/profile", auth, userHandler.GetProfile)
	api.Put("/user/profile", auth, userHandler.UpdateProfile)
	api.Delete("/user/profile", auth, userHandler.DeleteProfile)
	api.Get("/user/saved-products", auth, userHandler.GetSavedProducts)

	api.Post("/products", auth, productHandler.CreateProduct)
	api.Get("/products/user/:userId<int>", auth, productHandler.GetUserProducts)
	api.Get("/products/:id<int>", productHandler.GetProduct)
	api.Put("/products/:id<int>", auth, productHandler.UpdateProduct)
	api.Delete("/products/:id<int>", auth, productHandler.DeleteProduct)
	api.Post("/products/:id<int>/save", auth, userHandler.SaveProduct)
	api.Delete("/products/:id<int>/save", auth, userHandler.UnsaveProduct)

	api.Get("/notifications", auth, notificationHandler.GetNotifications)
	api.Delete("/notifications", auth, notificationHandler.ClearNotifications)

	// Admin routes
	admin := api.Group("/admin", auth, middleware.RequireAdmin)
	admin.Get("/users", adminHandler.GetUsers)
	admin.Get("/products", adminHandler.GetProducts)
	admin.Delete("/users/:id<int>", adminHandler.DeleteUser)
	admin.Delete("/products/:id<int>", adminHandler.DeleteProduct)
	admin.Put("/users/:id<int>/role", adminHandler.UpdateUserRole)

	// Real-time notifications
	app.Get("/ws", wsHandler.Upgrade, wsHandler.Handle())
}
